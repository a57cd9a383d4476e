package runtime

import "dicexp/interpreter-go/pkg/random"

// Proxy is the per-run handle regular functions use to reach the random
// generator and to call callable values back through the interpreter.
type Proxy interface {
	Random() *random.Generator
	// CallValue invokes fn lazily. Arity, call counting and restrictions are
	// handled by the interpreter.
	CallValue(fn *CallableValue, args []*Cell) *Cell
}
