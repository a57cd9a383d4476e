package builtins

import (
	"dicexp/interpreter-go/pkg/regular"
	"dicexp/interpreter-go/pkg/runtime"
)

func binaryInt(name string, fn func(a, b int64) runtime.Outcome) regular.Declaration {
	return regular.Declaration{
		Name:    name,
		Params:  []regular.Param{regular.Of(kInt), regular.Of(kInt)},
		Returns: "integer",
		Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
			return fn(args.Int(0), args.Int(1))
		},
	}
}

func arithmeticOperators() []regular.Declaration {
	return []regular.Declaration{
		binaryInt("+", func(a, b int64) runtime.Outcome { return checked(runtime.Add(a, b)) }),
		binaryInt("-", func(a, b int64) runtime.Outcome { return checked(runtime.Sub(a, b)) }),
		binaryInt("*", func(a, b int64) runtime.Outcome { return checked(runtime.Mul(a, b)) }),
		binaryInt("//", func(a, b int64) runtime.Outcome {
			if b == 0 {
				return illegal("//", runtime.ReasonDivisionByZero)
			}
			return integer(a / b)
		}),
		binaryInt("%", func(a, b int64) runtime.Outcome {
			if a < 0 {
				return illegal("%", runtime.ReasonNegativeDividend)
			}
			if b <= 0 {
				return illegal("%", runtime.ReasonNonPositiveDivisor)
			}
			return integer(a % b)
		}),
		binaryInt("^", func(a, b int64) runtime.Outcome {
			if b < 0 {
				return illegal("^", runtime.ReasonNegativeExponent)
			}
			return checked(runtime.Pow(a, b))
		}),
		{
			Name:    "+",
			Params:  []regular.Param{regular.Of(kInt)},
			Returns: "integer",
			Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
				return integer(args.Int(0))
			},
		},
		{
			Name:    "-",
			Params:  []regular.Param{regular.Of(kInt)},
			Returns: "integer",
			Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
				return integer(runtime.Neg(args.Int(0)))
			},
		},
	}
}

func compareInt(name string, fn func(a, b int64) bool) regular.Declaration {
	return regular.Declaration{
		Name:    name,
		Params:  []regular.Param{regular.Of(kInt), regular.Of(kInt)},
		Returns: "boolean",
		Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
			return boolean(fn(args.Int(0), args.Int(1)))
		},
	}
}

// equality compares two scalars of the same kind.
func equality(name string, negate bool) regular.Declaration {
	return regular.Declaration{
		Name:    name,
		Params:  []regular.Param{regular.Of(kInt, kBool), regular.Of(kInt, kBool)},
		Returns: "boolean",
		Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
			a, b := args.Value(0), args.Value(1)
			if a.Kind() != b.Kind() {
				return runtime.Fail(runtime.ErrCallArgumentTypeMismatch(name, 2, []runtime.Kind{a.Kind()}, b.Kind()))
			}
			return boolean((a == b) != negate)
		},
	}
}

func comparisonOperators() []regular.Declaration {
	return []regular.Declaration{
		equality("==", false),
		equality("!=", true),
		compareInt("<", func(a, b int64) bool { return a < b }),
		compareInt(">", func(a, b int64) bool { return a > b }),
		compareInt("<=", func(a, b int64) bool { return a <= b }),
		compareInt(">=", func(a, b int64) bool { return a >= b }),
	}
}

// shortCircuit evaluates the right operand only when the left one does not
// decide the result.
func shortCircuit(name string, decidedBy bool) regular.Declaration {
	return regular.Declaration{
		Name:    name,
		Params:  []regular.Param{regular.Of(kBool), regular.Lazy},
		Returns: "boolean",
		Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
			if args.Bool(0) == decidedBy {
				return boolean(decidedBy)
			}
			v, err := regular.CheckKind(name, 2, args.Cell(1), kBool)
			if err != nil {
				return runtime.Fail(err)
			}
			return runtime.Ok(v)
		},
	}
}

func logicOperators() []regular.Declaration {
	return []regular.Declaration{
		shortCircuit("and", false),
		shortCircuit("or", true),
		{
			Name:    "not",
			Params:  []regular.Param{regular.Of(kBool)},
			Returns: "boolean",
			Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
				return boolean(!args.Bool(0))
			},
		},
	}
}
