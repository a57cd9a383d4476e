package interpreter

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"dicexp/interpreter-go/pkg/ast"
	"dicexp/interpreter-go/pkg/builtins"
	"dicexp/interpreter-go/pkg/random"
	"dicexp/interpreter-go/pkg/regular"
	"dicexp/interpreter-go/pkg/repr"
	"dicexp/interpreter-go/pkg/restriction"
	"dicexp/interpreter-go/pkg/runtime"
)

type scriptedSource struct {
	words []uint32
	next  int
}

func (s *scriptedSource) Uint32() uint32 {
	w := s.words[s.next%len(s.words)]
	s.next++
	return w
}

// scripted rolls faces for six-sided dice: word w yields w+1.
func scripted(words ...uint32) Options {
	return Options{Random: random.New(&scriptedSource{words: words})}
}

func equalsOne(name string) ast.Node {
	return ast.Closure([]string{name}, ast.Op("==", ast.Var(name), ast.Int(1)))
}

func TestNamedValueStability(t *testing.T) {
	refs := make([]ast.Node, 1000)
	for i := range refs {
		refs[i] = ast.Var("$x")
	}
	tree := ast.VPipe(ast.Closure([]string{"$x"}, ast.List(refs...)), ast.Op("d", ast.Int(1_000_000_000)))
	got := mustEvaluate(t, tree, Options{Seed: 7}).([]any)
	if len(got) != 1000 {
		t.Fatalf("expected 1000 elements, got %d", len(got))
	}
	for i, v := range got {
		if v != got[0] {
			t.Fatalf("element %d differs: %v vs %v", i, v, got[0])
		}
	}
}

func TestRepetitionIsIndependent(t *testing.T) {
	tree := ast.Repeat(ast.Int(1000), ast.Op("d", ast.Int(1_000_000_000)))
	got := mustEvaluate(t, tree, Options{Seed: 7}).([]any)
	distinct := make(map[any]struct{})
	for _, v := range got {
		distinct[v] = struct{}{}
	}
	if len(distinct) < 2 {
		t.Fatalf("expected independent rolls, got %d distinct values", len(distinct))
	}
}

func TestSeededRunsAreDeterministic(t *testing.T) {
	tree := ast.Call("sort", ast.Call("roll", ast.Int(10), ast.Int(100)))
	a := Execute(tree, Options{Seed: 42})
	b := Execute(tree, Options{Seed: 42})
	if a.Err != nil || b.Err != nil {
		t.Fatalf("unexpected errors %v / %v", a.Err, b.Err)
	}
	if !reflect.DeepEqual(a.Value, b.Value) {
		t.Fatalf("values diverged: %v vs %v", a.Value, b.Value)
	}
	if repr.Render(a.Appendix.Representation) != repr.Render(b.Appendix.Representation) {
		t.Fatalf("representations diverged")
	}
	sorted := a.Value.([]any)
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].(int64) > sorted[i].(int64) {
			t.Fatalf("roll result not sorted: %v", sorted)
		}
	}
}

func TestDiceStayInRange(t *testing.T) {
	got := mustEvaluate(t, ast.List(
		ast.Repeat(ast.Int(100), ast.Op("d", ast.Int(3), ast.Int(6))),
		ast.Repeat(ast.Int(100), ast.Op("~", ast.Int(-2), ast.Int(2))),
	), Options{Seed: 3}).([]any)
	for _, v := range got[0].([]any) {
		if n := v.(int64); n < 3 || n > 18 {
			t.Fatalf("3d6 out of range: %d", n)
		}
	}
	for _, v := range got[1].([]any) {
		if n := v.(int64); n < -2 || n > 2 {
			t.Fatalf("-2~2 out of range: %d", n)
		}
	}
	expectValue(t, ast.Op("d", ast.Int(0), ast.Int(6)), int64(0))
}

func TestKeepHighestAndLowest(t *testing.T) {
	roll := func() ast.Node { return ast.Op("d", ast.Int(4), ast.Int(6)) }
	res := Execute(ast.Op("kh", roll(), ast.Int(3)), scripted(0, 5, 2, 3))
	if res.Err != nil || res.Value != int64(13) {
		t.Fatalf("expected 6+3+4, got %v (%v)", res.Value, res.Err)
	}
	items := res.Appendix.Representation.Result.Items
	if len(items) != 4 || items[0].Decoration != repr.DecorationAbandoned {
		t.Fatalf("expected the dropped 1 to show as abandoned, got %#v", items)
	}
	res = Execute(ast.Op("kl", roll(), ast.Int(1)), scripted(0, 5, 2, 3))
	if res.Err != nil || res.Value != int64(1) {
		t.Fatalf("expected 1, got %v (%v)", res.Value, res.Err)
	}
}

func TestRerollAndExplode(t *testing.T) {
	res := Execute(ast.Call("reroll", ast.Op("d", ast.Int(3), ast.Int(6)), equalsOne("$x")), scripted(0, 5, 0, 2, 3))
	if res.Err != nil || res.Value != int64(13) {
		t.Fatalf("expected 6+3+4 after rerolling ones, got %v (%v)", res.Value, res.Err)
	}
	sixes := ast.Closure([]string{"$x"}, ast.Op("==", ast.Var("$x"), ast.Int(6)))
	res = Execute(ast.Call("explode", ast.Op("d", ast.Int(2), ast.Int(6)), sixes), scripted(5, 1, 2))
	if res.Err != nil || res.Value != int64(11) {
		t.Fatalf("expected 6+2+3 after one explosion, got %v (%v)", res.Value, res.Err)
	}
	always := ast.Closure([]string{"_"}, ast.Bool(true))
	err := expectError(t, ast.Call("reroll", ast.Op("d", ast.Int(1)), always), Options{}, runtime.ErrorIllegalOperation)
	if err.Reason != runtime.ReasonRetryLimit {
		t.Fatalf("unexpected reason %q", err.Reason)
	}
}

func TestRepresentation(t *testing.T) {
	res := Execute(ast.Op("+", ast.Op("d", ast.Int(3), ast.Int(6)), ast.Int(1)), scripted(1, 4, 0))
	if res.Err != nil || res.Value != int64(9) {
		t.Fatalf("expected 2+5+1+1, got %v (%v)", res.Value, res.Err)
	}
	if got, want := repr.Render(res.Appendix.Representation), "(3d6 = [2, 5, 1] = 8) + 1 = 9"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	res = Execute(ast.Op("+", ast.Op("//", ast.Int(1), ast.Int(0)), ast.Int(1)), Options{})
	step := res.Appendix.Representation
	if step.Result == nil || step.Result.Kind != repr.KindErrorIndirect {
		t.Fatalf("outer call should point at the failing argument, got %#v", step.Result)
	}
	if inner := step.Args[0].Result; inner == nil || inner.Kind != repr.KindError {
		t.Fatalf("inner call should carry the error, got %#v", inner)
	}
}

func TestMaxCallsRestriction(t *testing.T) {
	opts := Options{Restrictions: restriction.Restrictions{MaxCalls: 2}}
	three := ast.Op("+", ast.Op("+", ast.Int(1), ast.Int(1)), ast.Int(1))
	res := Execute(three, opts)
	if res.Err != nil || res.Value != int64(3) || res.Appendix.Statistics.Calls != 2 {
		t.Fatalf("expected 3 within two calls, got %v (%v) stats %#v", res.Value, res.Err, res.Appendix.Statistics)
	}
	four := ast.Op("+", three, ast.Int(1))
	err := expectError(t, four, opts, runtime.ErrorRestrictionExceeded)
	if err.Restriction != runtime.RestrictionCalls || err.Limit != 2 || !strings.Contains(err.Error(), "调用次数") {
		t.Fatalf("unexpected restriction error %v", err)
	}
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func sleepScope(clock *fakeClock, d time.Duration) *runtime.Scope {
	sleep := regular.Declaration{
		Name:    "sleep",
		Returns: "integer",
		Logic: func(runtime.Proxy, regular.Args) runtime.Outcome {
			clock.now = clock.now.Add(d)
			return runtime.Ok(runtime.IntegerValue{Val: 0})
		},
	}
	extra := runtime.NewScope(nil)
	extra.DefineFunction(sleep.Key(), sleep.Func())
	return runtime.MergeScopes(builtins.Scope(), extra)
}

func TestSoftTimeoutRestriction(t *testing.T) {
	run := func(tree ast.Node) Result {
		clock := &fakeClock{now: time.Unix(0, 0)}
		return Execute(tree, Options{
			Scope:        sleepScope(clock, 20*time.Millisecond),
			Clock:        clock.Now,
			Restrictions: restriction.Restrictions{SoftTimeout: &restriction.SoftTimeout{MS: 10}},
		})
	}
	res := run(ast.List(ast.Call("sleep"), ast.Op("+", ast.Int(1), ast.Int(1))))
	if res.Err == nil || res.Err.Restriction != runtime.RestrictionTime || res.Err.Limit != 10 {
		t.Fatalf("expected time restriction on the next checkpoint, got %v", res.Err)
	}
	if !strings.Contains(res.Err.Error(), "运行时间") {
		t.Fatalf("unexpected message %q", res.Err.Error())
	}
	// Both checkpoints run before the sleep, so nothing trips.
	res = run(ast.Op("+", ast.Call("sleep"), ast.Int(1)))
	if res.Err != nil || res.Value != int64(1) {
		t.Fatalf("expected 1, got %v (%v)", res.Value, res.Err)
	}
	if res.Appendix.Statistics.Elapsed != 20*time.Millisecond {
		t.Fatalf("unexpected elapsed %v", res.Appendix.Statistics.Elapsed)
	}
}

func TestClosureDepthRestriction(t *testing.T) {
	inner := ast.Closure([]string{"$y"}, ast.Var("$y"))
	outer := ast.Closure([]string{"$x"}, ast.VCall(inner, ast.Var("$x")))
	tree := ast.VCall(outer, ast.Int(1))

	res := Execute(tree, Options{})
	if res.Err != nil || res.Appendix.Statistics.MaxClosureCallDepth != 2 {
		t.Fatalf("expected depth 2 without limits, got %v (%v)", res.Appendix.Statistics, res.Err)
	}
	opts := Options{Restrictions: restriction.Restrictions{MaxClosureCallDepth: 1}}
	err := expectError(t, tree, opts, runtime.ErrorRestrictionExceeded)
	if err.Restriction != runtime.RestrictionClosureDepth {
		t.Fatalf("unexpected restriction %q", err.Restriction)
	}
}

func TestAppendixOnFailure(t *testing.T) {
	res := Execute(ast.Op("+", ast.Int(1), ast.Var("$nope")), Options{})
	if res.Err == nil || res.Appendix.Representation == nil {
		t.Fatalf("expected an error with a representation")
	}
	if got := repr.Render(res.Appendix.Representation); !strings.Contains(got, "$nope") || !strings.HasSuffix(got, "= <!>") {
		t.Fatalf("unexpected representation %q", got)
	}
	if res.Appendix.Statistics.Calls != 1 {
		t.Fatalf("expected one call, got %d", res.Appendix.Statistics.Calls)
	}
}

func TestSequencesInsideLists(t *testing.T) {
	got := mustEvaluate(t, ast.List(ast.Op("d", ast.Int(2), ast.Int(1)), ast.Call("roll", ast.Int(2), ast.Int(1))), Options{})
	if want := []any{int64(2), ints(1, 1)}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
