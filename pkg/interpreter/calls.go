package interpreter

import (
	"dicexp/interpreter-go/pkg/ast"
	"dicexp/interpreter-go/pkg/repr"
	"dicexp/interpreter-go/pkg/runtime"
)

func (i *Interpreter) interpretAll(scope *runtime.Scope, nodes []ast.Node) []*runtime.Cell {
	cells := make([]*runtime.Cell, len(nodes))
	for idx, node := range nodes {
		cells[idx] = i.interpret(scope, node)
	}
	return cells
}

// regularCall resolves the function now; the call itself happens when the
// cell is first resolved.
func (i *Interpreter) regularCall(scope *runtime.Scope, n *ast.RegularCall) *runtime.Cell {
	args := i.interpretAll(scope, n.Args)
	key := runtime.FuncKey{Name: n.Name, Arity: len(args)}
	style := repr.CallStyle(n.Style)
	fn, ok := scope.LookupFunction(key)
	var cell *runtime.Cell
	if !ok {
		cell = runtime.NewErrorCell(runtime.ErrUnknownRegularFunction(n.Name, len(args)))
	} else {
		cell = runtime.NewLazy(func() runtime.Outcome {
			if err := i.tracker.OnCall(); err != nil {
				i.logger.Debug("restriction exceeded", "restriction", err.Restriction, "limit", err.Limit)
				return runtime.Fail(err)
			}
			i.logger.Debug("regular call", "function", key.String())
			return runtime.Redirect(fn(i, args))
		})
	}
	return cell.SetRepresentation(func(c *runtime.Cell) repr.Node {
		return repr.Call(style, n.Name, repr.Nodes(args), resultOf(c, args))
	})
}

func (i *Interpreter) valueCall(scope *runtime.Scope, n *ast.ValueCall) *runtime.Cell {
	callee := i.interpret(scope, n.Callee)
	args := i.interpretAll(scope, n.Args)
	cell := runtime.NewLazy(func() runtime.Outcome {
		v, err := callee.Get()
		if err != nil {
			return runtime.Fail(err)
		}
		fn, ok := v.(*runtime.CallableValue)
		if !ok {
			return runtime.Fail(runtime.ErrValueIsNotCallable(v.Kind()))
		}
		return runtime.Redirect(i.CallValue(fn, args))
	})
	return cell.SetRepresentation(func(c *runtime.Cell) repr.Node {
		return repr.ValueCall(repr.CallStyle(n.Style), callee.Representation(), repr.Nodes(args), resultOf(c, append([]*runtime.Cell{callee}, args...)))
	})
}

func (i *Interpreter) capture(scope *runtime.Scope, n *ast.CapturedFunction) *runtime.Cell {
	fn, ok := scope.LookupFunction(runtime.FuncKey{Name: n.Name, Arity: n.Arity})
	if !ok {
		return runtime.NewErrorCell(runtime.ErrUnknownRegularFunction(n.Name, n.Arity))
	}
	return runtime.NewValueCell(&runtime.CallableValue{
		CallableKind: runtime.CallableCaptured,
		Name:         n.Name,
		Arity:        n.Arity,
		Invoke: func(args []*runtime.Cell) *runtime.Cell {
			return fn(i, args)
		},
		Repr: repr.Capture(n.Name, n.Arity),
	})
}

// closure builds a callable whose body is interpreted afresh in a child
// scope on every invocation.
func (i *Interpreter) closure(scope *runtime.Scope, n *ast.ClosureLiteral) *runtime.Cell {
	if dups := n.DuplicateParams(); len(dups) > 0 {
		return runtime.NewErrorCell(runtime.ErrDuplicateClosureParameterNames(dups))
	}
	text := n.Raw
	if text == "" {
		text = ast.Format(n)
	}
	return runtime.NewValueCell(&runtime.CallableValue{
		CallableKind: runtime.CallableClosure,
		Arity:        len(n.Params),
		Invoke: func(args []*runtime.Cell) *runtime.Cell {
			return runtime.NewLazy(func() runtime.Outcome {
				i.logger.Debug("closure enter", "params", len(n.Params))
				defer i.tracker.ExitClosure()
				if err := i.tracker.EnterClosure(); err != nil {
					return runtime.Fail(err)
				}
				child := scope.Extend()
				for idx, name := range n.Params {
					child.Bind(name, runtime.NewStabilizedCell(args[idx]))
				}
				body := i.interpret(child, n.Body)
				body.Get()
				return runtime.Redirect(body)
			})
		},
		Repr: repr.Raw(text),
	})
}
