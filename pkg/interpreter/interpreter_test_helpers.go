package interpreter

import (
	"reflect"
	"testing"

	"dicexp/interpreter-go/pkg/ast"
	"dicexp/interpreter-go/pkg/runtime"
)

func ints(values ...int64) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func mustEvaluate(t *testing.T, tree ast.Node, opts Options) any {
	t.Helper()
	res := Execute(tree, opts)
	if res.Err != nil {
		t.Fatalf("%s: unexpected error: %v", ast.Format(tree), res.Err)
	}
	return res.Value
}

func expectValue(t *testing.T, tree ast.Node, want any) {
	t.Helper()
	got := mustEvaluate(t, tree, Options{Seed: 1})
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("%s: expected %#v, got %#v", ast.Format(tree), want, got)
	}
}

func expectError(t *testing.T, tree ast.Node, opts Options, kind runtime.ErrorKind) *runtime.RuntimeError {
	t.Helper()
	res := Execute(tree, opts)
	if res.Err == nil {
		t.Fatalf("%s: expected %s error, got value %#v", ast.Format(tree), kind, res.Value)
	}
	if res.Err.Kind != kind {
		t.Fatalf("%s: expected %s error, got %s (%v)", ast.Format(tree), kind, res.Err.Kind, res.Err)
	}
	if res.Value != nil {
		t.Fatalf("%s: failed run must not carry a value, got %#v", ast.Format(tree), res.Value)
	}
	return res.Err
}
