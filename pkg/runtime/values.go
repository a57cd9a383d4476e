package runtime

import (
	"fmt"
	"math/bits"

	"dicexp/interpreter-go/pkg/repr"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInteger Kind = iota
	KindBoolean
	KindList
	KindCallable
	KindSequence
	KindSequenceSum
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindList:
		return "list"
	case KindCallable:
		return "callable"
	case KindSequence:
		return "sequence"
	case KindSequenceSum:
		return "sequence_sum"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

// Container is a value whose elements may fail independently of it.
type Container interface {
	Value
	Beacon() *Beacon
}

// Integers are confined to the range exactly representable by a float64.
const (
	MaxSafeInteger int64 = 1<<53 - 1
	MinSafeInteger int64 = -MaxSafeInteger
)

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind { return KindInteger }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBoolean }

// CheckSafe returns LimitationExceeded when v is outside the safe range.
func CheckSafe(v int64) *RuntimeError {
	switch {
	case v > MaxSafeInteger:
		return ErrLimitationExceeded(MaxSafeInteger)
	case v < MinSafeInteger:
		return ErrLimitationExceeded(MinSafeInteger)
	default:
		return nil
	}
}

// SafeInteger wraps v after a range check.
func SafeInteger(v int64) (Value, *RuntimeError) {
	if err := CheckSafe(v); err != nil {
		return nil, err
	}
	return IntegerValue{Val: v}, nil
}

// Add, Sub, Neg, Mul and Pow expect safe operands, which keeps every int64
// intermediate free of wraparound.

func Add(a, b int64) (int64, *RuntimeError) {
	r := a + b
	return r, CheckSafe(r)
}

func Sub(a, b int64) (int64, *RuntimeError) {
	r := a - b
	return r, CheckSafe(r)
}

// Neg cannot leave the safe range, which is symmetric.
func Neg(a int64) int64 {
	return -a
}

func Mul(a, b int64) (int64, *RuntimeError) {
	hi, lo := bits.Mul64(absUint(a), absUint(b))
	if hi != 0 || lo > uint64(MaxSafeInteger) {
		if (a < 0) != (b < 0) {
			return 0, ErrLimitationExceeded(MinSafeInteger)
		}
		return 0, ErrLimitationExceeded(MaxSafeInteger)
	}
	return a * b, nil
}

// Pow raises base to a non-negative exponent.
func Pow(base, exp int64) (int64, *RuntimeError) {
	switch base {
	case 0:
		if exp == 0 {
			return 1, nil
		}
		return 0, nil
	case 1:
		return 1, nil
	case -1:
		if exp%2 == 0 {
			return 1, nil
		}
		return -1, nil
	}
	result := int64(1)
	for exp > 0 {
		var err *RuntimeError
		if exp&1 == 1 {
			if result, err = Mul(result, base); err != nil {
				return 0, err
			}
		}
		exp >>= 1
		if exp > 0 {
			if base, err = Mul(base, base); err != nil {
				return 0, err
			}
		}
	}
	return result, nil
}

func absUint(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}
	return uint64(v)
}

//-----------------------------------------------------------------------------
// Lists
//-----------------------------------------------------------------------------

type ListValue struct {
	Elements []*Cell
	beacon   *Beacon
}

// NewList wraps elements and wires the list's error beacon to them.
func NewList(elements []*Cell) *ListValue {
	return &ListValue{Elements: elements, beacon: NewBeacon(elements)}
}

func (v *ListValue) Kind() Kind { return KindList }

func (v *ListValue) Beacon() *Beacon { return v.beacon }

func (v *ListValue) Len() int { return len(v.Elements) }

//-----------------------------------------------------------------------------
// Callables
//-----------------------------------------------------------------------------

type CallableKind int

const (
	CallableClosure CallableKind = iota
	CallableCaptured
)

// CallableValue is a closure or a captured regular function. Invoke runs
// with an argument count already checked against Arity.
type CallableValue struct {
	CallableKind CallableKind
	// Name is the captured function's name; empty for closures.
	Name   string
	Arity  int
	Invoke func(args []*Cell) *Cell
	Repr   repr.Node
}

func (v *CallableValue) Kind() Kind { return KindCallable }

//-----------------------------------------------------------------------------
// Representation
//-----------------------------------------------------------------------------

// ValueRepresentation describes a resolved value.
func ValueRepresentation(v Value) repr.Node {
	switch val := v.(type) {
	case IntegerValue:
		return repr.Value(val.Val)
	case BoolValue:
		return repr.Value(val.Val)
	case *ListValue:
		return repr.NodeFunc(func() *repr.Step {
			return repr.List(repr.Nodes(val.Elements), func() bool { return val.beacon.Err() != nil }).Step()
		})
	case *Sequence:
		return val.Representation()
	case *CallableValue:
		if val.Repr != nil {
			return val.Repr
		}
		if val.CallableKind == CallableCaptured {
			return repr.Capture(val.Name, val.Arity)
		}
		return repr.Raw("closure")
	default:
		return repr.Raw(fmt.Sprintf("%v", v))
	}
}
