package builtins

import (
	"sort"

	"dicexp/interpreter-go/pkg/regular"
	"dicexp/interpreter-go/pkg/runtime"
)

func unaryList(name, returns string, fn func(name string, l *runtime.ListValue) runtime.Outcome) regular.Declaration {
	return regular.Declaration{
		Name:    name,
		Params:  []regular.Param{regular.Of(kList)},
		Returns: returns,
		Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
			return fn(name, args.List(0))
		},
	}
}

func listAndInt(name string, fn func(l *runtime.ListValue, n int64) runtime.Outcome) regular.Declaration {
	return regular.Declaration{
		Name:    name,
		Params:  []regular.Param{regular.Of(kList), regular.Of(kInt)},
		Returns: "list",
		Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
			return fn(args.List(0), args.Int(1))
		},
	}
}

func fold(name string, init int64, op func(a, b int64) (int64, *runtime.RuntimeError)) func(string, *runtime.ListValue) runtime.Outcome {
	return func(_ string, l *runtime.ListValue) runtime.Outcome {
		values, err := regular.FlattenAll(name, 1, l, kInt)
		if err != nil {
			return runtime.Fail(err)
		}
		acc := init
		for _, v := range values {
			if acc, err = op(acc, v.(runtime.IntegerValue).Val); err != nil {
				return runtime.Fail(err)
			}
		}
		return integer(acc)
	}
}

func extreme(pick func(a, b int64) bool) func(string, *runtime.ListValue) runtime.Outcome {
	return func(name string, l *runtime.ListValue) runtime.Outcome {
		values, _, ok, err := regular.UnwrapOneOf(name, 1, l, kInt)
		if err != nil {
			return runtime.Fail(err)
		}
		if !ok {
			return illegal(name, runtime.ReasonEmptyList)
		}
		best := values[0].(runtime.IntegerValue).Val
		for _, v := range values[1:] {
			if x := v.(runtime.IntegerValue).Val; pick(x, best) {
				best = x
			}
		}
		return integer(best)
	}
}

func quantifier(want bool) func(string, *runtime.ListValue) runtime.Outcome {
	return func(name string, l *runtime.ListValue) runtime.Outcome {
		values, _, _, err := regular.UnwrapOneOf(name, 1, l, kBool)
		if err != nil {
			return runtime.Fail(err)
		}
		for _, v := range values {
			if v.(runtime.BoolValue).Val == want {
				return boolean(want)
			}
		}
		return boolean(!want)
	}
}

func scalarLess(a, b runtime.Value) bool {
	switch x := a.(type) {
	case runtime.IntegerValue:
		return x.Val < b.(runtime.IntegerValue).Val
	case runtime.BoolValue:
		return !x.Val && b.(runtime.BoolValue).Val
	}
	return false
}

func nonEmpty(name string, l *runtime.ListValue) (runtime.Outcome, bool) {
	if l.Len() == 0 {
		return illegal(name, runtime.ReasonEmptyList), false
	}
	return runtime.Outcome{}, true
}

func clamp(n int64, length int) int {
	if n > int64(length) {
		return length
	}
	return int(n)
}

func listFunctions() []regular.Declaration {
	return []regular.Declaration{
		unaryList("count", "integer", func(_ string, l *runtime.ListValue) runtime.Outcome {
			return integer(int64(l.Len()))
		}),
		unaryList("sum", "integer", fold("sum", 0, runtime.Add)),
		unaryList("product", "integer", fold("product", 1, runtime.Mul)),
		unaryList("min", "integer", extreme(func(a, b int64) bool { return a < b })),
		unaryList("max", "integer", extreme(func(a, b int64) bool { return a > b })),
		unaryList("all", "boolean", quantifier(false)),
		unaryList("any", "boolean", quantifier(true)),
		unaryList("sort", "list", func(name string, l *runtime.ListValue) runtime.Outcome {
			values, _, _, err := regular.UnwrapOneOf(name, 1, l, kInt, kBool)
			if err != nil {
				return runtime.Fail(err)
			}
			order := make([]int, len(values))
			for i := range order {
				order[i] = i
			}
			sort.SliceStable(order, func(a, b int) bool { return scalarLess(values[order[a]], values[order[b]]) })
			cells := make([]*runtime.Cell, len(order))
			for i, idx := range order {
				cells[i] = l.Elements[idx]
			}
			return list(cells)
		}),
		unaryList("reverse", "list", func(_ string, l *runtime.ListValue) runtime.Outcome {
			cells := make([]*runtime.Cell, l.Len())
			for i, c := range l.Elements {
				cells[len(cells)-1-i] = c
			}
			return list(cells)
		}),
		unaryList("head", "*", func(name string, l *runtime.ListValue) runtime.Outcome {
			if o, ok := nonEmpty(name, l); !ok {
				return o
			}
			return runtime.Redirect(l.Elements[0])
		}),
		unaryList("tail", "list", func(name string, l *runtime.ListValue) runtime.Outcome {
			if o, ok := nonEmpty(name, l); !ok {
				return o
			}
			return list(l.Elements[1:])
		}),
		unaryList("last", "*", func(name string, l *runtime.ListValue) runtime.Outcome {
			if o, ok := nonEmpty(name, l); !ok {
				return o
			}
			return runtime.Redirect(l.Elements[l.Len()-1])
		}),
		unaryList("flatten", "list", func(name string, l *runtime.ListValue) runtime.Outcome {
			return flatten(name, l, 1)
		}),
		{
			Name:    "flatten",
			Params:  []regular.Param{regular.Of(kList), regular.Of(kInt)},
			Returns: "list",
			Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
				if args.Int(1) < 0 {
					return illegal("flatten", runtime.ReasonNegativeFlattenDepth)
				}
				return flatten("flatten", args.List(0), args.Int(1))
			},
		},
		{
			Name:    "concat",
			Params:  []regular.Param{regular.Of(kList), regular.Of(kList)},
			Returns: "list",
			Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
				a, b := args.List(0).Elements, args.List(1).Elements
				cells := make([]*runtime.Cell, 0, len(a)+len(b))
				return list(append(append(cells, a...), b...))
			},
		},
		{
			Name:    "prepend",
			Params:  []regular.Param{regular.Any, regular.Of(kList)},
			Returns: "list",
			Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
				rest := args.List(1).Elements
				cells := make([]*runtime.Cell, 0, len(rest)+1)
				return list(append(append(cells, args.Cell(0)), rest...))
			},
		},
		{
			Name:    "append",
			Params:  []regular.Param{regular.Of(kList), regular.Any},
			Returns: "list",
			Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
				rest := args.List(0).Elements
				cells := make([]*runtime.Cell, 0, len(rest)+1)
				return list(append(append(cells, rest...), args.Cell(1)))
			},
		},
		listAndInt("at", func(l *runtime.ListValue, i int64) runtime.Outcome {
			if i < 0 || i >= int64(l.Len()) {
				return illegal("at", runtime.ReasonIndexOutOfRange)
			}
			return runtime.Redirect(l.Elements[i])
		}),
		listAndInt("take", func(l *runtime.ListValue, n int64) runtime.Outcome {
			if n < 0 {
				return illegal("take", runtime.ReasonNegativeCount)
			}
			return list(l.Elements[:clamp(n, l.Len())])
		}),
		listAndInt("drop", func(l *runtime.ListValue, n int64) runtime.Outcome {
			if n < 0 {
				return illegal("drop", runtime.ReasonNegativeCount)
			}
			return list(l.Elements[clamp(n, l.Len()):])
		}),
		{
			Name:    "zip",
			Params:  []regular.Param{regular.Of(kList), regular.Of(kList)},
			Returns: "list",
			Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
				a, b := args.List(0).Elements, args.List(1).Elements
				n := min(len(a), len(b))
				pairs := make([]*runtime.Cell, n)
				for i := range pairs {
					pairs[i] = runtime.NewValueCell(runtime.NewList([]*runtime.Cell{a[i], b[i]}))
				}
				return list(pairs)
			},
		},
		{
			Name:    "duplicate",
			Params:  []regular.Param{regular.Of(kInt), regular.Any},
			Returns: "list",
			Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
				n := args.Int(0)
				if n < 0 {
					return illegal("duplicate", runtime.ReasonNegativeCount)
				}
				cells := make([]*runtime.Cell, n)
				for i := range cells {
					cells[i] = args.Cell(1)
				}
				return list(cells)
			},
		},
	}
}

// flatten splices nested lists into their parent, depth levels down.
func flatten(name string, l *runtime.ListValue, depth int64) runtime.Outcome {
	var out []*runtime.Cell
	var walk func(l *runtime.ListValue, depth int64) *runtime.RuntimeError
	walk = func(l *runtime.ListValue, depth int64) *runtime.RuntimeError {
		for _, c := range l.Elements {
			if depth == 0 {
				out = append(out, c)
				continue
			}
			v, err := c.Get()
			if err != nil {
				return err
			}
			if v, err = regular.CastFor(v, []runtime.Kind{kList}); err != nil {
				return err
			}
			inner, ok := v.(*runtime.ListValue)
			if !ok {
				out = append(out, c)
				continue
			}
			if err := walk(inner, depth-1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(l, depth); err != nil {
		return runtime.Fail(err)
	}
	return list(out)
}

func higherOrderFunctions() []regular.Declaration {
	return []regular.Declaration{
		{
			Name:    "map",
			Params:  []regular.Param{regular.Of(kList), regular.Of(kCallable)},
			Returns: "list",
			Logic: func(p runtime.Proxy, args regular.Args) runtime.Outcome {
				fn := args.Callable(1)
				elems := args.List(0).Elements
				cells := make([]*runtime.Cell, len(elems))
				for i, c := range elems {
					cells[i] = p.CallValue(fn, []*runtime.Cell{c})
				}
				return list(cells)
			},
		},
		{
			Name:    "filter",
			Params:  []regular.Param{regular.Of(kList), regular.Of(kCallable)},
			Returns: "list",
			Logic: func(p runtime.Proxy, args regular.Args) runtime.Outcome {
				fn := args.Callable(1)
				var cells []*runtime.Cell
				for _, c := range args.List(0).Elements {
					v, err := regular.CheckKind("filter", 2, p.CallValue(fn, []*runtime.Cell{c}), kBool)
					if err != nil {
						return runtime.Fail(err)
					}
					if v.(runtime.BoolValue).Val {
						cells = append(cells, c)
					}
				}
				return list(cells)
			},
		},
		{
			Name:    "zipWith",
			Params:  []regular.Param{regular.Of(kList), regular.Of(kList), regular.Of(kCallable)},
			Returns: "list",
			Logic: func(p runtime.Proxy, args regular.Args) runtime.Outcome {
				a, b, fn := args.List(0).Elements, args.List(1).Elements, args.Callable(2)
				cells := make([]*runtime.Cell, min(len(a), len(b)))
				for i := range cells {
					cells[i] = p.CallValue(fn, []*runtime.Cell{a[i], b[i]})
				}
				return list(cells)
			},
		},
		{
			Name:    "foldl",
			Params:  []regular.Param{regular.Of(kList), regular.Any, regular.Of(kCallable)},
			Returns: "*",
			Logic: func(p runtime.Proxy, args regular.Args) runtime.Outcome {
				acc, fn := args.Cell(1), args.Callable(2)
				for _, c := range args.List(0).Elements {
					acc = p.CallValue(fn, []*runtime.Cell{acc, c})
				}
				return runtime.Redirect(acc)
			},
		},
		{
			Name:    "foldr",
			Params:  []regular.Param{regular.Of(kList), regular.Any, regular.Of(kCallable)},
			Returns: "*",
			Logic: func(p runtime.Proxy, args regular.Args) runtime.Outcome {
				acc, fn := args.Cell(1), args.Callable(2)
				elems := args.List(0).Elements
				for i := len(elems) - 1; i >= 0; i-- {
					acc = p.CallValue(fn, []*runtime.Cell{elems[i], acc})
				}
				return runtime.Redirect(acc)
			},
		},
	}
}

func scalarFunctions() []regular.Declaration {
	return []regular.Declaration{
		{
			Name:    "abs",
			Params:  []regular.Param{regular.Of(kInt)},
			Returns: "integer",
			Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
				v := args.Int(0)
				if v < 0 {
					v = runtime.Neg(v)
				}
				return integer(v)
			},
		},
		{
			Name:    "if",
			Params:  []regular.Param{regular.Of(kBool), regular.Lazy, regular.Lazy},
			Returns: "*",
			Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
				if args.Bool(0) {
					return runtime.Redirect(args.Cell(1))
				}
				return runtime.Redirect(args.Cell(2))
			},
		},
	}
}
