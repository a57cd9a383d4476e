// Package repr builds the "how this was computed" step tree that accompanies
// every evaluation. It only observes evaluation and never affects results.
package repr

// Kind identifies a step node.
type Kind string

const (
	KindRaw           Kind = "raw"
	KindUnevaluated   Kind = "unevaluated"
	KindValue         Kind = "value"
	KindList          Kind = "list"
	KindSum           Kind = "sum"
	KindIdentifier    Kind = "identifier"
	KindCall          Kind = "call"
	KindValueCall     Kind = "value_call"
	KindCapture       Kind = "capture"
	KindRepetition    Kind = "repetition"
	KindError         Kind = "error"
	KindErrorIndirect Kind = "error_indirect"
	KindDecoration    Kind = "decoration"
)

// CallStyle mirrors the source spelling of a call.
type CallStyle string

const (
	StyleFunction CallStyle = "function"
	StyleOperator CallStyle = "operator"
	StylePiped    CallStyle = "piped"
)

// Decoration marks elements that were produced but do not count.
type Decoration string

const (
	DecorationAbandoned Decoration = "abandoned"
	DecorationExtra     Decoration = "extra"
)

// Step is the serializable form of a representation node.
type Step struct {
	Kind       Kind       `json:"kind" yaml:"kind"`
	Text       string     `json:"text,omitempty" yaml:"text,omitempty"`
	Value      any        `json:"value,omitempty" yaml:"value,omitempty"`
	Name       string     `json:"name,omitempty" yaml:"name,omitempty"`
	Arity      int        `json:"arity,omitempty" yaml:"arity,omitempty"`
	Style      CallStyle  `json:"style,omitempty" yaml:"style,omitempty"`
	Callee     *Step      `json:"callee,omitempty" yaml:"callee,omitempty"`
	Args       []*Step    `json:"args,omitempty" yaml:"args,omitempty"`
	Items      []*Step    `json:"items,omitempty" yaml:"items,omitempty"`
	Errored    bool       `json:"errored,omitempty" yaml:"errored,omitempty"`
	Count      *Step      `json:"count,omitempty" yaml:"count,omitempty"`
	Body       string     `json:"body,omitempty" yaml:"body,omitempty"`
	Decoration Decoration `json:"decoration,omitempty" yaml:"decoration,omitempty"`
	Inner      *Step      `json:"inner,omitempty" yaml:"inner,omitempty"`
	Result     *Step      `json:"result,omitempty" yaml:"result,omitempty"`
}

// Node is a representation fragment. Step materializes it against the
// current evaluation state, so lazy children show whatever is known now.
type Node interface {
	Step() *Step
}

// Source is anything that can describe itself, typically a value cell.
type Source interface {
	Representation() Node
}

// NodeFunc adapts a function to Node.
type NodeFunc func() *Step

func (f NodeFunc) Step() *Step { return f() }

type fixed struct{ step Step }

func (f fixed) Step() *Step {
	s := f.step
	return &s
}

func Raw(text string) Node {
	return fixed{Step{Kind: KindRaw, Text: text}}
}

// Unevaluated is the placeholder for a value nobody has asked for yet.
func Unevaluated() Node {
	return fixed{Step{Kind: KindUnevaluated}}
}

// Value describes a primitive (int64 or bool).
func Value(v any) Node {
	return fixed{Step{Kind: KindValue, Value: v}}
}

func Error(message string) Node {
	return fixed{Step{Kind: KindError, Text: message}}
}

// ErrorIndirect marks an error that was raised by a child and is already
// shown there.
func ErrorIndirect() Node {
	return fixed{Step{Kind: KindErrorIndirect}}
}

func Capture(name string, arity int) Node {
	return fixed{Step{Kind: KindCapture, Name: name, Arity: arity}}
}

// List describes a list; errored is consulted at snapshot time.
func List(items []Node, errored func() bool) Node {
	return NodeFunc(func() *Step {
		s := &Step{Kind: KindList, Items: steps(items)}
		if errored != nil {
			s.Errored = errored()
		}
		return s
	})
}

// Sum describes a sum-shaped sequence with its addends and, when known,
// its total.
func Sum(addends []Node, total Node) Node {
	return NodeFunc(func() *Step {
		return &Step{Kind: KindSum, Items: steps(addends), Result: stepOf(total)}
	})
}

func Identifier(name string, value Node) Node {
	return NodeFunc(func() *Step {
		return &Step{Kind: KindIdentifier, Name: name, Result: stepOf(value)}
	})
}

// Call describes a regular call. result may be nil while unevaluated.
func Call(style CallStyle, name string, args []Node, result Node) Node {
	return NodeFunc(func() *Step {
		return &Step{Kind: KindCall, Style: style, Name: name, Args: steps(args), Result: stepOf(result)}
	})
}

func ValueCall(style CallStyle, callee Node, args []Node, result Node) Node {
	return NodeFunc(func() *Step {
		return &Step{Kind: KindValueCall, Style: style, Callee: stepOf(callee), Args: steps(args), Result: stepOf(result)}
	})
}

func Repetition(count Node, body string, result Node) Node {
	return NodeFunc(func() *Step {
		return &Step{Kind: KindRepetition, Count: stepOf(count), Body: body, Result: stepOf(result)}
	})
}

func Decorate(decoration Decoration, inner Node) Node {
	return NodeFunc(func() *Step {
		return &Step{Kind: KindDecoration, Decoration: decoration, Inner: stepOf(inner)}
	})
}

// Nodes collects the representations of sources in order.
func Nodes[S Source](sources []S) []Node {
	out := make([]Node, len(sources))
	for i, src := range sources {
		out[i] = src.Representation()
	}
	return out
}

func steps(nodes []Node) []*Step {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]*Step, len(nodes))
	for i, n := range nodes {
		out[i] = stepOf(n)
	}
	return out
}

func stepOf(n Node) *Step {
	if n == nil {
		return nil
	}
	return n.Step()
}
