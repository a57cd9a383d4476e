// Package regular declares built-in operators and functions: a parameter
// list with kind requirements, and logic that only ever sees validated,
// unwrapped arguments.
package regular

import (
	"dicexp/interpreter-go/pkg/runtime"
)

// Param describes one parameter.
type Param struct {
	Kinds []runtime.Kind
	// Any accepts every kind without casting.
	Any bool
	// Lazy passes the cell through unevaluated.
	Lazy bool
}

// Of accepts the listed kinds.
func Of(kinds ...runtime.Kind) Param {
	return Param{Kinds: kinds}
}

var (
	Any  = Param{Any: true}
	Lazy = Param{Lazy: true}
)

func (p Param) accepts(k runtime.Kind) bool {
	if p.Any {
		return true
	}
	return hasKind(p.Kinds, k)
}

func hasKind(kinds []runtime.Kind, k runtime.Kind) bool {
	for _, want := range kinds {
		if want == k {
			return true
		}
	}
	return false
}

// Logic is a declaration's body.
type Logic func(p runtime.Proxy, args Args) runtime.Outcome

// Declaration is a regular function before it is bound into a scope.
// Returns documents the result and is not enforced.
type Declaration struct {
	Name    string
	Params  []Param
	Returns string
	Logic   Logic
}

func (d Declaration) Arity() int { return len(d.Params) }

func (d Declaration) Key() runtime.FuncKey {
	return runtime.FuncKey{Name: d.Name, Arity: d.Arity()}
}

// Func binds the declaration into a callable regular function.
func (d Declaration) Func() runtime.RegularFunction {
	return func(p runtime.Proxy, args []*runtime.Cell) *runtime.Cell {
		return runtime.FromOutcome(d.Call(p, args))
	}
}

// Call checks arity, then resolves, casts and kind-checks arguments left to
// right before running the logic. The first failing argument's error is
// returned as is.
func (d Declaration) Call(p runtime.Proxy, cells []*runtime.Cell) runtime.Outcome {
	if len(cells) != len(d.Params) {
		return runtime.Fail(runtime.ErrWrongArity(d.Name, len(d.Params), len(cells)))
	}
	args := make(Args, len(cells))
	for i, param := range d.Params {
		if param.Lazy {
			args[i] = Arg{Cell: cells[i]}
			continue
		}
		v, err := resolve(d.Name, i+1, cells[i], param)
		if err != nil {
			return runtime.Fail(err)
		}
		args[i] = Arg{Cell: cells[i], Value: v}
	}
	return d.Logic(p, args)
}

func resolve(callee string, position int, c *runtime.Cell, param Param) (runtime.Value, *runtime.RuntimeError) {
	v, err := c.Get()
	if err != nil {
		return nil, err
	}
	if !param.Any {
		if v, err = CastFor(v, param.Kinds); err != nil {
			return nil, err
		}
	}
	if !param.accepts(v.Kind()) {
		return nil, runtime.ErrCallArgumentTypeMismatch(callee, position, param.Kinds, v.Kind())
	}
	if container, ok := v.(runtime.Container); ok {
		if err := container.Beacon().Err(); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// CastFor applies the implicit sequence casts a parameter allows: a
// list-shaped sequence stands in for a list, a sum-shaped one for an
// integer. Values of an accepted kind pass through.
func CastFor(v runtime.Value, kinds []runtime.Kind) (runtime.Value, *runtime.RuntimeError) {
	seq, ok := v.(*runtime.Sequence)
	if !ok || hasKind(kinds, v.Kind()) {
		return v, nil
	}
	if seq.IsSum() && hasKind(kinds, runtime.KindInteger) {
		return seq.CastImplicitly()
	}
	if !seq.IsSum() && hasKind(kinds, runtime.KindList) {
		return seq.CastImplicitly()
	}
	return v, nil
}

// CheckKind resolves a lazy argument on demand and validates it like an
// eager one. position is 1-based.
func CheckKind(callee string, position int, c *runtime.Cell, kinds ...runtime.Kind) (runtime.Value, *runtime.RuntimeError) {
	return resolve(callee, position, c, Of(kinds...))
}

// Arg is a validated argument. Value is nil for lazy parameters.
type Arg struct {
	Cell  *runtime.Cell
	Value runtime.Value
}

// Args are indexed by parameter position. The typed accessors assume the
// declaration already guaranteed the kind.
type Args []Arg

func (a Args) Cell(i int) *runtime.Cell { return a[i].Cell }

func (a Args) Value(i int) runtime.Value { return a[i].Value }

func (a Args) Int(i int) int64 { return a[i].Value.(runtime.IntegerValue).Val }

func (a Args) Bool(i int) bool { return a[i].Value.(runtime.BoolValue).Val }

func (a Args) List(i int) *runtime.ListValue { return a[i].Value.(*runtime.ListValue) }

func (a Args) Callable(i int) *runtime.CallableValue { return a[i].Value.(*runtime.CallableValue) }

func (a Args) Sequence(i int) *runtime.Sequence { return a[i].Value.(*runtime.Sequence) }
