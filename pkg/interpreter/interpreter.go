package interpreter

import (
	"fmt"
	"log/slog"

	"dicexp/interpreter-go/pkg/ast"
	"dicexp/interpreter-go/pkg/random"
	"dicexp/interpreter-go/pkg/regular"
	"dicexp/interpreter-go/pkg/repr"
	"dicexp/interpreter-go/pkg/restriction"
	"dicexp/interpreter-go/pkg/runtime"
)

// Interpreter turns an expression tree into value cells for one run. It is
// the runtime.Proxy handed to regular functions.
type Interpreter struct {
	random  *random.Generator
	tracker *restriction.Tracker
	logger  *slog.Logger
}

var _ runtime.Proxy = (*Interpreter)(nil)

func (i *Interpreter) Random() *random.Generator {
	return i.random
}

// CallValue returns a lazy cell invoking fn with args. The call checkpoint
// runs when the cell is first resolved.
func (i *Interpreter) CallValue(fn *runtime.CallableValue, args []*runtime.Cell) *runtime.Cell {
	return runtime.NewLazy(func() runtime.Outcome {
		if len(args) != fn.Arity {
			return runtime.Fail(runtime.ErrWrongArity(fn.Name, fn.Arity, len(args)))
		}
		if err := i.tracker.OnCall(); err != nil {
			i.logger.Debug("restriction exceeded", "restriction", err.Restriction, "limit", err.Limit)
			return runtime.Fail(err)
		}
		i.logger.Debug("value call", "callee", calleeName(fn), "args", len(args))
		return runtime.Redirect(fn.Invoke(args))
	})
}

func calleeName(fn *runtime.CallableValue) string {
	if fn.CallableKind == runtime.CallableClosure {
		return "closure"
	}
	return fn.Name
}

func (i *Interpreter) interpret(scope *runtime.Scope, node ast.Node) *runtime.Cell {
	switch n := node.(type) {
	case *ast.IntegerLiteral:
		if err := runtime.CheckSafe(n.Value); err != nil {
			return runtime.NewErrorCell(err)
		}
		return runtime.NewValueCell(runtime.IntegerValue{Val: n.Value})
	case *ast.BooleanLiteral:
		return runtime.NewValueCell(runtime.BoolValue{Val: n.Value})
	case *ast.ListLiteral:
		elems := make([]*runtime.Cell, len(n.Elements))
		for idx, el := range n.Elements {
			elems[idx] = i.interpret(scope, el)
		}
		return runtime.NewValueCell(runtime.NewList(elems))
	case *ast.ClosureLiteral:
		return i.closure(scope, n)
	case *ast.CapturedFunction:
		return i.capture(scope, n)
	case *ast.Identifier:
		bound, ok := scope.Lookup(n.Name)
		if !ok {
			return runtime.NewErrorCell(runtime.ErrUnknownVariable(n.Name))
		}
		return runtime.NewIdentifierCell(n.Name, bound)
	case *ast.RegularCall:
		return i.regularCall(scope, n)
	case *ast.ValueCall:
		return i.valueCall(scope, n)
	case *ast.Repetition:
		return i.repetition(scope, n)
	case nil:
		return runtime.NewErrorCell(runtime.ErrInternal("missing expression"))
	default:
		return runtime.NewErrorCell(runtime.ErrInternal(fmt.Sprintf("unsupported node %T", node)))
	}
}

func (i *Interpreter) repetition(scope *runtime.Scope, n *ast.Repetition) *runtime.Cell {
	count := i.interpret(scope, n.Count)
	body := n.BodyRaw
	if body == "" {
		body = ast.Format(n.Body)
	}
	cell := runtime.NewLazy(func() runtime.Outcome {
		v, err := count.Get()
		if err != nil {
			return runtime.Fail(err)
		}
		if v, err = regular.CastFor(v, []runtime.Kind{runtime.KindInteger}); err != nil {
			return runtime.Fail(err)
		}
		times, ok := v.(runtime.IntegerValue)
		if !ok {
			return runtime.Fail(runtime.ErrTypeMismatch([]runtime.Kind{runtime.KindInteger}, v.Kind()))
		}
		if times.Val < 0 {
			return runtime.Fail(runtime.ErrIllegalOperation("#", runtime.ReasonNegativeRepeatCount))
		}
		copies := make([]*runtime.Cell, times.Val)
		for idx := range copies {
			copies[idx] = i.interpret(scope, n.Body)
		}
		return runtime.Ok(runtime.NewList(copies))
	})
	return cell.SetRepresentation(func(c *runtime.Cell) repr.Node {
		return repr.Repetition(count.Representation(), body, resultOf(c, []*runtime.Cell{count}))
	})
}

// resultOf describes a call cell's outcome for its representation. An error
// that one of the arguments already shows is marked indirect.
func resultOf(c *runtime.Cell, args []*runtime.Cell) repr.Node {
	v, err, ok := c.Peek()
	if !ok {
		return nil
	}
	if err == nil {
		return runtime.ValueRepresentation(v)
	}
	for _, arg := range args {
		if arg.ConfirmsError() == err {
			return repr.ErrorIndirect()
		}
	}
	return repr.Error(err.Error())
}
