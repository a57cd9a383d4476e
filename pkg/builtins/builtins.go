// Package builtins is the standard catalog of operators and functions.
package builtins

import (
	"dicexp/interpreter-go/pkg/regular"
	"dicexp/interpreter-go/pkg/runtime"
)

var (
	kInt      = runtime.KindInteger
	kBool     = runtime.KindBoolean
	kList     = runtime.KindList
	kCallable = runtime.KindCallable
	kSeq      = runtime.KindSequence
	kSeqSum   = runtime.KindSequenceSum
)

// Operators lists every operator declaration.
func Operators() []regular.Declaration {
	var out []regular.Declaration
	out = append(out, arithmeticOperators()...)
	out = append(out, comparisonOperators()...)
	out = append(out, logicOperators()...)
	out = append(out, diceOperators()...)
	return out
}

// Functions lists every named function declaration.
func Functions() []regular.Declaration {
	var out []regular.Declaration
	out = append(out, listFunctions()...)
	out = append(out, higherOrderFunctions()...)
	out = append(out, scalarFunctions()...)
	out = append(out, diceFunctions()...)
	return out
}

func scopeOf(decls []regular.Declaration) *runtime.Scope {
	s := runtime.NewScope(nil)
	for _, d := range decls {
		s.DefineFunction(d.Key(), d.Func())
	}
	return s
}

func OperatorScope() *runtime.Scope { return scopeOf(Operators()) }

func FunctionScope() *runtime.Scope { return scopeOf(Functions()) }

// Scope merges operators and functions into the default root scope.
func Scope() *runtime.Scope {
	return runtime.MergeScopes(OperatorScope(), FunctionScope())
}

func integer(v int64) runtime.Outcome {
	return runtime.Ok(runtime.IntegerValue{Val: v})
}

func boolean(v bool) runtime.Outcome {
	return runtime.Ok(runtime.BoolValue{Val: v})
}

// checked turns an arithmetic helper's result into an outcome.
func checked(v int64, err *runtime.RuntimeError) runtime.Outcome {
	if err != nil {
		return runtime.Fail(err)
	}
	return integer(v)
}

func list(cells []*runtime.Cell) runtime.Outcome {
	return runtime.Ok(runtime.NewList(cells))
}

func illegal(op, reason string) runtime.Outcome {
	return runtime.Fail(runtime.ErrIllegalOperation(op, reason))
}
