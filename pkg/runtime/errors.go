package runtime

import "strings"

// ErrorKind is the closed runtime error taxonomy.
type ErrorKind int

const (
	ErrorWrongArity ErrorKind = iota
	ErrorTypeMismatch
	ErrorCallArgumentTypeMismatch
	ErrorIllegalOperation
	ErrorUnknownRegularFunction
	ErrorUnknownVariable
	ErrorValueIsNotCallable
	ErrorDuplicateClosureParameterNames
	ErrorBadFinalResult
	ErrorLimitationExceeded
	ErrorRestrictionExceeded
	// ErrorInternal flags engine bugs, such as observing an unevaluated cell.
	ErrorInternal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorWrongArity:
		return "WrongArity"
	case ErrorTypeMismatch:
		return "TypeMismatch"
	case ErrorCallArgumentTypeMismatch:
		return "CallArgumentTypeMismatch"
	case ErrorIllegalOperation:
		return "IllegalOperation"
	case ErrorUnknownRegularFunction:
		return "UnknownRegularFunction"
	case ErrorUnknownVariable:
		return "UnknownVariable"
	case ErrorValueIsNotCallable:
		return "ValueIsNotCallable"
	case ErrorDuplicateClosureParameterNames:
		return "DuplicateClosureParameterNames"
	case ErrorBadFinalResult:
		return "BadFinalResult"
	case ErrorLimitationExceeded:
		return "LimitationExceeded"
	case ErrorRestrictionExceeded:
		return "RestrictionExceeded"
	case ErrorInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// Reasons for IllegalOperation. Each is also a message catalog key.
const (
	ReasonDivisionByZero       = "divisor must not be zero"
	ReasonNegativeDividend     = "dividend must not be negative"
	ReasonNonPositiveDivisor   = "divisor must be positive"
	ReasonNegativeExponent     = "exponent must not be negative"
	ReasonNegativeDiceCount    = "dice count must not be negative"
	ReasonNonPositiveDiceSides = "dice must have at least one side"
	ReasonRangeTooLarge        = "range is too large"
	ReasonNegativeRepeatCount  = "repetition count must not be negative"
	ReasonNegativeCount        = "count must not be negative"
	ReasonEmptyList            = "list must not be empty"
	ReasonIndexOutOfRange      = "index out of range"
	ReasonNegativeFlattenDepth = "flatten depth must not be negative"
	ReasonRetryLimit           = "too many rerolls or explosions"
)

// Restriction names. Each is also a message catalog key.
const (
	RestrictionCalls        = "call count"
	RestrictionTime         = "run time"
	RestrictionClosureDepth = "closure call depth"
)

// RuntimeError is evaluation failure as plain data. Which fields are set
// depends on Kind:
//
//	WrongArity                     Callee, ExpectedArity, ActualArity
//	TypeMismatch                   ExpectedKinds, ActualKind
//	CallArgumentTypeMismatch       Callee, Position, ExpectedKinds, ActualKind, ListInconsistency
//	IllegalOperation               Operation, Reason
//	UnknownRegularFunction         Name, ActualArity
//	UnknownVariable                Name
//	ValueIsNotCallable             ActualKind
//	DuplicateClosureParameterNames Names
//	BadFinalResult                 ActualKind
//	LimitationExceeded             Bound
//	RestrictionExceeded            Restriction, Limit
//	Internal                       Detail
type RuntimeError struct {
	Kind ErrorKind

	Callee            string
	ExpectedArity     int
	ActualArity       int
	Position          int
	ExpectedKinds     []Kind
	ActualKind        Kind
	ListInconsistency bool
	Operation         string
	Reason            string
	Name              string
	Names             []string
	Bound             int64
	Restriction       string
	Limit             int64
	Detail            string
}

// Error renders the message in the default (Chinese) locale.
func (e *RuntimeError) Error() string {
	return e.Message(DefaultLanguage)
}

// ErrWrongArity reports a call with the wrong number of arguments. An empty
// callee means an anonymous closure.
func ErrWrongArity(callee string, expected, actual int) *RuntimeError {
	return &RuntimeError{Kind: ErrorWrongArity, Callee: callee, ExpectedArity: expected, ActualArity: actual}
}

func ErrTypeMismatch(expected []Kind, actual Kind) *RuntimeError {
	return &RuntimeError{Kind: ErrorTypeMismatch, ExpectedKinds: expected, ActualKind: actual}
}

// ErrCallArgumentTypeMismatch reports a bad argument; position is 1-based.
func ErrCallArgumentTypeMismatch(callee string, position int, expected []Kind, actual Kind) *RuntimeError {
	return &RuntimeError{
		Kind:          ErrorCallArgumentTypeMismatch,
		Callee:        callee,
		Position:      position,
		ExpectedKinds: expected,
		ActualKind:    actual,
	}
}

// ErrListInconsistency reports a list argument whose elements are not all of
// the kind set by its first element.
func ErrListInconsistency(callee string, position int, expected, actual Kind) *RuntimeError {
	err := ErrCallArgumentTypeMismatch(callee, position, []Kind{expected}, actual)
	err.ListInconsistency = true
	return err
}

func ErrIllegalOperation(operation, reason string) *RuntimeError {
	return &RuntimeError{Kind: ErrorIllegalOperation, Operation: operation, Reason: reason}
}

func ErrUnknownRegularFunction(name string, arity int) *RuntimeError {
	return &RuntimeError{Kind: ErrorUnknownRegularFunction, Name: name, ActualArity: arity}
}

func ErrUnknownVariable(name string) *RuntimeError {
	return &RuntimeError{Kind: ErrorUnknownVariable, Name: name}
}

func ErrValueIsNotCallable(actual Kind) *RuntimeError {
	return &RuntimeError{Kind: ErrorValueIsNotCallable, ActualKind: actual}
}

func ErrDuplicateClosureParameterNames(names []string) *RuntimeError {
	return &RuntimeError{Kind: ErrorDuplicateClosureParameterNames, Names: names}
}

func ErrBadFinalResult(actual Kind) *RuntimeError {
	return &RuntimeError{Kind: ErrorBadFinalResult, ActualKind: actual}
}

// ErrLimitationExceeded reports an integer outside the safe range; bound is
// the side that was crossed.
func ErrLimitationExceeded(bound int64) *RuntimeError {
	return &RuntimeError{Kind: ErrorLimitationExceeded, Bound: bound}
}

func ErrRestrictionExceeded(restriction string, limit int64) *RuntimeError {
	return &RuntimeError{Kind: ErrorRestrictionExceeded, Restriction: restriction, Limit: limit}
}

func ErrInternal(detail string) *RuntimeError {
	return &RuntimeError{Kind: ErrorInternal, Detail: detail}
}

func joinKinds(kinds []Kind, name func(Kind) string) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = name(k)
	}
	return strings.Join(parts, "/")
}
