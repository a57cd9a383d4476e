package interpreter

import (
	"strings"
	"testing"

	"dicexp/interpreter-go/pkg/ast"
	"dicexp/interpreter-go/pkg/runtime"
)

func TestListFunctions(t *testing.T) {
	cases := []struct {
		name string
		tree ast.Node
		want any
	}{
		{"Sum", ast.Call("sum", ast.List(ast.Int(1), ast.Int(2), ast.Int(3))), int64(6)},
		{"SumNested", ast.Call("sum", ast.List(ast.Int(1), ast.List(ast.Int(2), ast.Int(3)))), int64(6)},
		{"Product", ast.Call("product", ast.List(ast.Int(2), ast.Int(3), ast.Int(4))), int64(24)},
		{"Sort", ast.Call("sort", ast.List(ast.Int(2), ast.Int(3), ast.Int(1))), ints(1, 2, 3)},
		{"SortBooleans", ast.Call("sort", ast.List(ast.Bool(true), ast.Bool(false))), []any{false, true}},
		{"Append", ast.Call("append", ast.List(ast.Int(1)), ast.Int(2)), ints(1, 2)},
		{"Prepend", ast.Call("prepend", ast.Int(0), ast.List(ast.Int(1))), ints(0, 1)},
		{"Zip", ast.Call("zip", ast.List(ast.Int(1), ast.Int(2)), ast.List(ast.Int(3), ast.Int(4))), []any{ints(1, 3), ints(2, 4)}},
		{"ZipTruncates", ast.Call("zip", ast.List(ast.Int(1), ast.Int(2)), ast.List(ast.Int(3))), []any{ints(1, 3)}},
		{"Count", ast.Call("count", ast.List(ast.Int(5), ast.Int(5))), int64(2)},
		{"MinMax", ast.List(ast.Call("min", ast.List(ast.Int(4), ast.Int(-2))), ast.Call("max", ast.List(ast.Int(4), ast.Int(-2)))), ints(-2, 4)},
		{"AllAny", ast.List(ast.Call("all", ast.List()), ast.Call("any", ast.List(ast.Bool(false), ast.Bool(true)))), []any{true, true}},
		{"Reverse", ast.Call("reverse", ast.List(ast.Int(1), ast.Int(2), ast.Int(3))), ints(3, 2, 1)},
		{"Concat", ast.Call("concat", ast.List(ast.Int(1)), ast.List(ast.Int(2))), ints(1, 2)},
		{"HeadTailLast", ast.List(
			ast.Call("head", ast.List(ast.Int(1), ast.Int(2))),
			ast.Call("tail", ast.List(ast.Int(1), ast.Int(2))),
			ast.Call("last", ast.List(ast.Int(1), ast.Int(2))),
		), []any{int64(1), ints(2), int64(2)}},
		{"At", ast.Call("at", ast.List(ast.Int(7), ast.Int(8)), ast.Int(1)), int64(8)},
		{"TakeDrop", ast.List(
			ast.Call("take", ast.List(ast.Int(1), ast.Int(2), ast.Int(3)), ast.Int(5)),
			ast.Call("drop", ast.List(ast.Int(1), ast.Int(2), ast.Int(3)), ast.Int(2)),
		), []any{ints(1, 2, 3), ints(3)}},
		{"Flatten", ast.Call("flatten", ast.List(ast.Int(1), ast.List(ast.Int(2), ast.List(ast.Int(3))))), []any{int64(1), int64(2), ints(3)}},
		{"FlattenDeep", ast.Call("flatten", ast.List(ast.List(ast.List(ast.Int(3)))), ast.Int(2)), ints(3)},
		{"Duplicate", ast.Call("duplicate", ast.Int(3), ast.Int(9)), ints(9, 9, 9)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectValue(t, tc.tree, tc.want)
		})
	}
}

func TestOperators(t *testing.T) {
	cases := []struct {
		name string
		tree ast.Node
		want any
	}{
		{"Add", ast.Op("+", ast.Int(2), ast.Int(3)), int64(5)},
		{"Negate", ast.Op("-", ast.Int(4)), int64(-4)},
		{"TruncatedDivision", ast.Op("//", ast.Int(-7), ast.Int(2)), int64(-3)},
		{"Modulo", ast.Op("%", ast.Int(7), ast.Int(3)), int64(1)},
		{"Power", ast.Op("^", ast.Int(2), ast.Int(10)), int64(1024)},
		{"Compare", ast.List(ast.Op("<", ast.Int(1), ast.Int(2)), ast.Op(">=", ast.Int(1), ast.Int(2))), []any{true, false}},
		{"Equality", ast.List(ast.Op("==", ast.Bool(true), ast.Bool(true)), ast.Op("!=", ast.Int(1), ast.Int(1))), []any{true, false}},
		{"Not", ast.Op("not", ast.Bool(false)), true},
		{"Abs", ast.Call("abs", ast.Int(-5)), int64(5)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectValue(t, tc.tree, tc.want)
		})
	}
}

func TestShortCircuitSkipsRightOperand(t *testing.T) {
	// The right operands would fail if evaluated.
	failing := ast.Op("==", ast.Op("//", ast.Int(1), ast.Int(0)), ast.Int(1))
	expectValue(t, ast.Op("and", ast.Bool(false), failing), false)
	expectValue(t, ast.Op("or", ast.Bool(true), failing), true)
	expectValue(t, ast.Call("if", ast.Bool(true), ast.Int(1), failing), int64(1))
	expectError(t, ast.Op("and", ast.Bool(true), failing), Options{}, runtime.ErrorIllegalOperation)
}

func TestIllegalOperations(t *testing.T) {
	err := expectError(t, ast.Op("%", ast.Int(-3), ast.Int(2)), Options{}, runtime.ErrorIllegalOperation)
	if err.Reason != runtime.ReasonNegativeDividend || !strings.Contains(err.Error(), "被除数不能为负数") {
		t.Fatalf("unexpected error %v", err)
	}
	err = expectError(t, ast.Op("^", ast.Int(3), ast.Op("-", ast.Int(2))), Options{}, runtime.ErrorIllegalOperation)
	if err.Reason != runtime.ReasonNegativeExponent {
		t.Fatalf("unexpected reason %q", err.Reason)
	}
	for _, tree := range []ast.Node{
		ast.Op("//", ast.Int(1), ast.Int(0)),
		ast.Op("%", ast.Int(1), ast.Int(0)),
		ast.Call("head", ast.List()),
		ast.Call("min", ast.List()),
		ast.Call("at", ast.List(ast.Int(1)), ast.Int(1)),
		ast.Call("take", ast.List(), ast.Int(-1)),
		ast.Call("flatten", ast.List(), ast.Int(-1)),
		ast.Op("d", ast.Int(0)),
		ast.Op("d", ast.Op("-", ast.Int(1)), ast.Int(6)),
		ast.Repeat(ast.Op("-", ast.Int(1)), ast.Int(1)),
	} {
		expectError(t, tree, Options{}, runtime.ErrorIllegalOperation)
	}
}

func TestTypeErrors(t *testing.T) {
	err := expectError(t, ast.Op("+", ast.Int(1), ast.Bool(true)), Options{}, runtime.ErrorCallArgumentTypeMismatch)
	if err.Position != 2 || err.Callee != "+" {
		t.Fatalf("unexpected mismatch %#v", err)
	}
	err = expectError(t, ast.Call("sort", ast.List(ast.Int(1), ast.Bool(true))), Options{}, runtime.ErrorCallArgumentTypeMismatch)
	if !err.ListInconsistency {
		t.Fatalf("expected list inconsistency, got %#v", err)
	}
	expectError(t, ast.Op("==", ast.Int(1), ast.Bool(true)), Options{}, runtime.ErrorCallArgumentTypeMismatch)
	expectError(t, ast.Repeat(ast.Bool(true), ast.Int(1)), Options{}, runtime.ErrorTypeMismatch)
	expectError(t, ast.VCall(ast.Int(1)), Options{}, runtime.ErrorValueIsNotCallable)
}

func TestUnknownNames(t *testing.T) {
	err := expectError(t, ast.Call("nope", ast.Int(1)), Options{}, runtime.ErrorUnknownRegularFunction)
	if err.Name != "nope" || err.ActualArity != 1 {
		t.Fatalf("unexpected error %#v", err)
	}
	// sum exists, but not with two arguments.
	expectError(t, ast.Call("sum", ast.Int(1), ast.Int(2)), Options{}, runtime.ErrorUnknownRegularFunction)
	expectError(t, ast.Var("$x"), Options{}, runtime.ErrorUnknownVariable)
	expectError(t, ast.Capture("nope", 1), Options{}, runtime.ErrorUnknownRegularFunction)
}

func TestClosures(t *testing.T) {
	double := ast.Closure([]string{"$x"}, ast.Op("*", ast.Var("$x"), ast.Int(2)))
	expectValue(t, ast.VCall(double, ast.Int(21)), int64(42))
	expectValue(t, ast.Call("map", ast.List(ast.Int(1), ast.Int(2)), double), ints(2, 4))
	expectValue(t, ast.Call("filter",
		ast.List(ast.Int(1), ast.Int(2), ast.Int(3)),
		ast.Closure([]string{"$x"}, ast.Op(">", ast.Var("$x"), ast.Int(1))),
	), ints(2, 3))
	expectValue(t, ast.Call("foldl",
		ast.List(ast.Int(1), ast.Int(2), ast.Int(3)),
		ast.Int(0),
		ast.Closure([]string{"$acc", "$x"}, ast.Op("-", ast.Var("$acc"), ast.Var("$x"))),
	), int64(-6))
	expectValue(t, ast.Call("foldr",
		ast.List(ast.Int(1), ast.Int(2), ast.Int(3)),
		ast.Int(0),
		ast.Closure([]string{"$x", "$acc"}, ast.Op("-", ast.Var("$x"), ast.Var("$acc"))),
	), int64(2))
	expectValue(t, ast.Call("zipWith",
		ast.List(ast.Int(1), ast.Int(2)),
		ast.List(ast.Int(10), ast.Int(20)),
		ast.Capture("+", 2),
	), ints(11, 22))
	// Closures see the enclosing closure's bindings.
	adder := ast.Closure([]string{"$x"}, ast.Closure([]string{"$y"}, ast.Op("+", ast.Var("$x"), ast.Var("$y"))))
	expectValue(t, ast.VCall(ast.VCall(adder, ast.Int(1)), ast.Int(2)), int64(3))
	// The discard name never binds, so it may repeat.
	expectValue(t, ast.VCall(ast.Closure([]string{"_", "_"}, ast.Int(5)), ast.Int(1), ast.Int(2)), int64(5))
}

func TestClosureWrongArity(t *testing.T) {
	fn := ast.Closure([]string{"$x"}, ast.Var("$x"))
	err := expectError(t, ast.VCall(fn, ast.Int(1), ast.Int(2)), Options{}, runtime.ErrorWrongArity)
	if err.ExpectedArity != 1 || err.ActualArity != 2 {
		t.Fatalf("expected arity 1 vs 2, got %d vs %d", err.ExpectedArity, err.ActualArity)
	}
	err = expectError(t, ast.VCall(ast.Capture("abs", 1)), Options{}, runtime.ErrorWrongArity)
	if err.Callee != "abs" || err.ExpectedArity != 1 || err.ActualArity != 0 {
		t.Fatalf("unexpected captured arity error %#v", err)
	}
}

func TestDuplicateClosureParameters(t *testing.T) {
	fn := ast.Closure([]string{"$x", "$y", "$x"}, ast.Int(1))
	err := expectError(t, ast.VCall(fn, ast.Int(1), ast.Int(2), ast.Int(3)), Options{}, runtime.ErrorDuplicateClosureParameterNames)
	if len(err.Names) != 1 || err.Names[0] != "$x" {
		t.Fatalf("unexpected duplicates %v", err.Names)
	}
}

func TestBadFinalResult(t *testing.T) {
	expectError(t, ast.Closure(nil, ast.Int(1)), Options{}, runtime.ErrorBadFinalResult)
	err := expectError(t, ast.List(ast.Int(1), ast.Capture("sum", 1)), Options{}, runtime.ErrorBadFinalResult)
	if err.ActualKind != runtime.KindCallable {
		t.Fatalf("unexpected kind %v", err.ActualKind)
	}
}

func TestIntegerBounds(t *testing.T) {
	expectValue(t, ast.Int(runtime.MaxSafeInteger), runtime.MaxSafeInteger)
	expectValue(t, ast.Int(runtime.MinSafeInteger), runtime.MinSafeInteger)
	err := expectError(t, ast.Op("+", ast.Int(runtime.MaxSafeInteger), ast.Int(1)), Options{}, runtime.ErrorLimitationExceeded)
	if err.Bound != runtime.MaxSafeInteger {
		t.Fatalf("unexpected bound %d", err.Bound)
	}
	err = expectError(t, ast.Op("-", ast.Int(runtime.MinSafeInteger), ast.Int(1)), Options{}, runtime.ErrorLimitationExceeded)
	if err.Bound != runtime.MinSafeInteger {
		t.Fatalf("unexpected bound %d", err.Bound)
	}
	expectError(t, ast.Int(runtime.MaxSafeInteger+1), Options{}, runtime.ErrorLimitationExceeded)
}

func TestFailingElementFailsList(t *testing.T) {
	tree := ast.List(ast.Int(1), ast.Op("//", ast.Int(1), ast.Int(0)))
	expectError(t, tree, Options{}, runtime.ErrorIllegalOperation)
	expectError(t, ast.Call("count", ast.List(ast.List(ast.Var("$missing")))), Options{}, runtime.ErrorUnknownVariable)
}

func TestRepetition(t *testing.T) {
	expectValue(t, ast.Repeat(ast.Int(3), ast.Int(7)), ints(7, 7, 7))
	expectValue(t, ast.Repeat(ast.Int(0), ast.Int(7)), []any{})
	// A sum-shaped count is cast to its total; d1 always rolls 1.
	expectValue(t, ast.Repeat(ast.Op("d", ast.Int(2), ast.Int(1)), ast.Bool(true)), []any{true, true})
}

func TestExecuteRecoversPanics(t *testing.T) {
	scope := runtime.NewScope(nil)
	scope.DefineFunction(runtime.FuncKey{Name: "boom", Arity: 0}, func(runtime.Proxy, []*runtime.Cell) *runtime.Cell {
		panic("boom")
	})
	res := Execute(ast.Call("boom"), Options{Scope: scope})
	if res.Err == nil || res.Err.Kind != runtime.ErrorInternal {
		t.Fatalf("expected internal error, got %v", res.Err)
	}
	if res.Appendix.Statistics.Calls != 1 {
		t.Fatalf("statistics should survive a panic, got %#v", res.Appendix.Statistics)
	}
}
