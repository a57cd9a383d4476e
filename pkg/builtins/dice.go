package builtins

import (
	"errors"
	"sort"

	"dicexp/interpreter-go/pkg/random"
	"dicexp/interpreter-go/pkg/regular"
	"dicexp/interpreter-go/pkg/runtime"
)

// MaxRetries caps the rerolls or explosions a single transform may make.
const MaxRetries = 1000

func randomFailure(op string, err error) *runtime.RuntimeError {
	if errors.Is(err, random.ErrRangeTooLarge) {
		return runtime.ErrIllegalOperation(op, runtime.ReasonRangeTooLarge)
	}
	return runtime.ErrInternal(op + ": " + err.Error())
}

// diceSequence draws count values in [lower, upper] eagerly as they are
// pulled. Past the nominal count it keeps drawing extras for transforms.
func diceSequence(p runtime.Proxy, op string, sum bool, count, lower, upper int64) *runtime.Sequence {
	return runtime.NewSequence(sum, func(index int) (runtime.Fragment, *runtime.RuntimeError) {
		if count == 0 {
			return runtime.Fragment{Status: runtime.StatusLast}, nil
		}
		v, err := p.Random().Integer(lower, upper)
		if err != nil {
			return runtime.Fragment{}, randomFailure(op, err)
		}
		status := runtime.StatusOK
		if int64(index) == count-1 {
			status = runtime.StatusLastNominal
		}
		return runtime.Fragment{Kept: runtime.NewValueCell(runtime.IntegerValue{Val: v}), Status: status}, nil
	})
}

func rollDice(op string, sum bool) func(p runtime.Proxy, count, sides int64) runtime.Outcome {
	return func(p runtime.Proxy, count, sides int64) runtime.Outcome {
		if count < 0 {
			return illegal(op, runtime.ReasonNegativeDiceCount)
		}
		if sides < 1 {
			return illegal(op, runtime.ReasonNonPositiveDiceSides)
		}
		return runtime.Ok(diceSequence(p, op, sum, count, 1, sides))
	}
}

func diceOperators() []regular.Declaration {
	roll := rollDice("d", true)
	return []regular.Declaration{
		{
			Name:    "d",
			Params:  []regular.Param{regular.Of(kInt)},
			Returns: "sequence_sum",
			Logic: func(p runtime.Proxy, args regular.Args) runtime.Outcome {
				return roll(p, 1, args.Int(0))
			},
		},
		{
			Name:    "d",
			Params:  []regular.Param{regular.Of(kInt), regular.Of(kInt)},
			Returns: "sequence_sum",
			Logic: func(p runtime.Proxy, args regular.Args) runtime.Outcome {
				return roll(p, args.Int(0), args.Int(1))
			},
		},
		{
			Name:    "~",
			Params:  []regular.Param{regular.Of(kInt), regular.Of(kInt)},
			Returns: "sequence_sum",
			Logic: func(p runtime.Proxy, args regular.Args) runtime.Outcome {
				return runtime.Ok(diceSequence(p, "~", true, 1, args.Int(0), args.Int(1)))
			},
		},
		keep("kh", true),
		keep("kl", false),
	}
}

// keep retains the n highest (or lowest) elements of the nominal prefix.
// The rest stay visible as abandoned. Ties favour earlier elements.
func keep(name string, highest bool) regular.Declaration {
	return regular.Declaration{
		Name:    name,
		Params:  []regular.Param{regular.Of(kSeqSum, kSeq), regular.Of(kInt)},
		Returns: "sequence_sum",
		Logic: func(_ runtime.Proxy, args regular.Args) runtime.Outcome {
			src, n := args.Sequence(0), args.Int(1)
			if n < 0 {
				return illegal(name, runtime.ReasonNegativeCount)
			}
			total, err := src.NominalLength()
			if err != nil {
				return runtime.Fail(err)
			}
			cells := make([]*runtime.Cell, total)
			values := make([]int64, total)
			for i := range cells {
				c, err := src.At(i)
				if err != nil {
					return runtime.Fail(err)
				}
				v, err := regular.CheckKind(name, 1, c, kInt)
				if err != nil {
					return runtime.Fail(err)
				}
				cells[i], values[i] = c, v.(runtime.IntegerValue).Val
			}
			order := make([]int, total)
			for i := range order {
				order[i] = i
			}
			sort.SliceStable(order, func(a, b int) bool {
				if highest {
					return values[order[a]] > values[order[b]]
				}
				return values[order[a]] < values[order[b]]
			})
			kept := make([]bool, total)
			for i := 0; i < total && int64(i) < n; i++ {
				kept[order[i]] = true
			}
			var frags []runtime.Fragment
			var pending []*runtime.Cell
			for i, c := range cells {
				if !kept[i] {
					pending = append(pending, c)
					continue
				}
				frags = append(frags, runtime.Fragment{Kept: c, Abandoned: pending})
				pending = nil
			}
			if len(pending) > 0 {
				frags = append(frags, runtime.Fragment{Abandoned: pending})
			}
			return runtime.Ok(runtime.NewSequenceFromFragments(src.IsSum(), frags))
		},
	}
}

// predicateJudge asks fn about each element; a true answer gets hit.
func predicateJudge(p runtime.Proxy, name string, fn *runtime.CallableValue, hit runtime.Verdict) runtime.Judge {
	retries := 0
	return func(elem *runtime.Cell) (runtime.Verdict, *runtime.RuntimeError) {
		v, err := p.CallValue(fn, []*runtime.Cell{elem}).Get()
		if err != nil {
			return runtime.Keep, err
		}
		b, ok := v.(runtime.BoolValue)
		if !ok {
			return runtime.Keep, runtime.ErrTypeMismatch([]runtime.Kind{kBool}, v.Kind())
		}
		if !b.Val {
			return runtime.Keep, nil
		}
		retries++
		if retries > MaxRetries {
			return runtime.Keep, runtime.ErrIllegalOperation(name, runtime.ReasonRetryLimit)
		}
		return hit, nil
	}
}

func transformFunction(name string, hit runtime.Verdict) regular.Declaration {
	return regular.Declaration{
		Name:    name,
		Params:  []regular.Param{regular.Of(kSeqSum, kSeq), regular.Of(kCallable)},
		Returns: "sequence_sum",
		Logic: func(p runtime.Proxy, args regular.Args) runtime.Outcome {
			judge := predicateJudge(p, name, args.Callable(1), hit)
			return runtime.Ok(runtime.Transform(args.Sequence(0), judge))
		},
	}
}

func diceFunctions() []regular.Declaration {
	roll := rollDice("roll", false)
	return []regular.Declaration{
		{
			Name:    "roll",
			Params:  []regular.Param{regular.Of(kInt), regular.Of(kInt)},
			Returns: "sequence",
			Logic: func(p runtime.Proxy, args regular.Args) runtime.Outcome {
				return roll(p, args.Int(0), args.Int(1))
			},
		},
		transformFunction("reroll", runtime.Abandon),
		transformFunction("explode", runtime.KeepAndExtend),
	}
}
