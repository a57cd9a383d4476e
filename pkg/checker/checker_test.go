package checker

import (
	"strings"
	"testing"

	"dicexp/interpreter-go/pkg/ast"
	"dicexp/interpreter-go/pkg/builtins"
	"dicexp/interpreter-go/pkg/runtime"
)

func kindsOf(diags []Diagnostic) []runtime.ErrorKind {
	out := make([]runtime.ErrorKind, len(diags))
	for i, d := range diags {
		out[i] = d.Err.Kind
	}
	return out
}

func TestCheckCleanTree(t *testing.T) {
	tree := ast.Call("map",
		ast.List(ast.Int(1), ast.Op("d", ast.Int(3), ast.Int(6))),
		ast.Closure([]string{"$x"}, ast.Op("+", ast.Var("$x"), ast.Int(1))),
	)
	if diags := New(builtins.Scope()).Check(tree); len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func TestCheckReportsInTreeOrder(t *testing.T) {
	tree := ast.List(
		ast.Call("nope", ast.Int(1)),
		ast.VCall(ast.Int(3)),
		ast.Closure([]string{"$a", "$a"}, ast.Var("$b")),
		ast.Repeat(ast.Int(-1), ast.Int(1)),
		ast.Int(1<<53),
		ast.Capture("sum", 3),
	)
	diags := New(builtins.Scope()).Check(tree)
	want := []runtime.ErrorKind{
		runtime.ErrorUnknownRegularFunction,
		runtime.ErrorValueIsNotCallable,
		runtime.ErrorDuplicateClosureParameterNames,
		runtime.ErrorUnknownVariable,
		runtime.ErrorIllegalOperation,
		runtime.ErrorLimitationExceeded,
		runtime.ErrorUnknownRegularFunction,
	}
	got := kindsOf(diags)
	if len(got) != len(want) {
		t.Fatalf("expected %d diagnostics, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("diagnostic %d: got %s, want %s", i, got[i], want[i])
		}
	}
	if s := diags[0].String(); !strings.HasPrefix(s, "nope(1): ") {
		t.Fatalf("unexpected rendering %q", s)
	}
}

func TestCheckClosureScoping(t *testing.T) {
	tests := []struct {
		name string
		tree ast.Node
		want []runtime.ErrorKind
	}{
		{
			"nested closures see outer parameters",
			ast.Closure([]string{"$x"}, ast.Closure([]string{"$y"}, ast.Op("+", ast.Var("$x"), ast.Var("$y")))),
			nil,
		},
		{
			"parameter does not leak out of its closure",
			ast.List(ast.Closure([]string{"$x"}, ast.Var("$x")), ast.Var("$x")),
			[]runtime.ErrorKind{runtime.ErrorUnknownVariable},
		},
		{
			"discard never binds",
			ast.Closure([]string{"_"}, ast.Var("_")),
			[]runtime.ErrorKind{runtime.ErrorUnknownVariable},
		},
		{
			"literal closure called with the wrong arity",
			ast.VCall(ast.Closure([]string{"$x"}, ast.Var("$x")), ast.Int(1), ast.Int(2)),
			[]runtime.ErrorKind{runtime.ErrorWrongArity},
		},
		{
			"captured function called with the wrong arity",
			ast.VCall(ast.Capture("sum", 1)),
			[]runtime.ErrorKind{runtime.ErrorWrongArity},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := kindsOf(New(builtins.Scope()).Check(tc.tree))
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestCheckRootVariables(t *testing.T) {
	scope := builtins.Scope().Extend()
	scope.Bind("$seed", runtime.NewValueCell(runtime.IntegerValue{Val: 4}))
	if diags := New(scope).Check(ast.Var("$seed")); len(diags) != 0 {
		t.Fatalf("expected root variable to resolve, got %v", diags)
	}
}
