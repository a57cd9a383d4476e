package ast

// Literal helpers.

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func List(elements ...Node) *ListLiteral {
	return NewListLiteral(elements)
}

// Call helpers.

func Call(name string, args ...Node) *RegularCall {
	return NewRegularCall(name, CallStyleFunction, args)
}

func Op(name string, args ...Node) *RegularCall {
	return NewRegularCall(name, CallStyleOperator, args)
}

// Pipe builds `args[0] |> name(args[1:]...)`.
func Pipe(name string, args ...Node) *RegularCall {
	return NewRegularCall(name, CallStylePiped, args)
}

func VCall(callee Node, args ...Node) *ValueCall {
	return NewValueCall(callee, CallStyleFunction, args)
}

func VPipe(callee Node, args ...Node) *ValueCall {
	return NewValueCall(callee, CallStylePiped, args)
}

// Callable helpers.

func Closure(params []string, body Node) *ClosureLiteral {
	return NewClosureLiteral(params, body, "")
}

func Capture(name string, arity int) *CapturedFunction {
	return NewCapturedFunction(name, arity)
}

func Var(name string) *Identifier {
	return NewIdentifier(name)
}

func Repeat(count Node, body Node) *Repetition {
	return NewRepetition(count, body, "")
}
