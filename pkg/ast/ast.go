package ast

type NodeType string

const (
	NodeIntegerLiteral   NodeType = "IntegerLiteral"
	NodeBooleanLiteral   NodeType = "BooleanLiteral"
	NodeListLiteral      NodeType = "ListLiteral"
	NodeClosureLiteral   NodeType = "ClosureLiteral"
	NodeCapturedFunction NodeType = "CapturedFunction"
	NodeIdentifier       NodeType = "Identifier"
	NodeRegularCall      NodeType = "RegularCall"
	NodeValueCall        NodeType = "ValueCall"
	NodeRepetition       NodeType = "Repetition"
)

// Discard is the closure parameter name that never binds.
const Discard = "_"

type Node interface {
	NodeType() NodeType
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (nodeImpl) isNode()              {}

// CallStyle records how the source spelled a call. It only affects
// representation.
type CallStyle string

const (
	CallStyleFunction CallStyle = "function"
	CallStyleOperator CallStyle = "operator"
	CallStylePiped    CallStyle = "piped"
)

// Literals

type IntegerLiteral struct {
	nodeImpl

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{nodeImpl: newNodeImpl(NodeIntegerLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type ListLiteral struct {
	nodeImpl

	Elements []Node `json:"elements"`
}

func NewListLiteral(elements []Node) *ListLiteral {
	return &ListLiteral{nodeImpl: newNodeImpl(NodeListLiteral), Elements: elements}
}

// Callables

type ClosureLiteral struct {
	nodeImpl

	Params []string `json:"params"`
	Body   Node     `json:"body"`
	// Raw is the closure's source text when the parser kept it.
	Raw string `json:"raw,omitempty"`
}

func NewClosureLiteral(params []string, body Node, raw string) *ClosureLiteral {
	return &ClosureLiteral{nodeImpl: newNodeImpl(NodeClosureLiteral), Params: params, Body: body, Raw: raw}
}

// DuplicateParams lists parameter names that occur more than once, in order
// of their second occurrence. Discard never counts.
func (n *ClosureLiteral) DuplicateParams() []string {
	seen := make(map[string]int, len(n.Params))
	var dups []string
	for _, p := range n.Params {
		if p == Discard {
			continue
		}
		seen[p]++
		if seen[p] == 2 {
			dups = append(dups, p)
		}
	}
	return dups
}

type CapturedFunction struct {
	nodeImpl

	Name  string `json:"name"`
	Arity int    `json:"arity"`
}

func NewCapturedFunction(name string, arity int) *CapturedFunction {
	return &CapturedFunction{nodeImpl: newNodeImpl(NodeCapturedFunction), Name: name, Arity: arity}
}

// Identifier references a closure parameter such as `$x`.
type Identifier struct {
	nodeImpl

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Calls

// RegularCall invokes a named function or operator resolved by name and arity.
type RegularCall struct {
	nodeImpl

	Name  string    `json:"name"`
	Style CallStyle `json:"style"`
	Args  []Node    `json:"args"`
}

func NewRegularCall(name string, style CallStyle, args []Node) *RegularCall {
	if style == "" {
		style = CallStyleFunction
	}
	return &RegularCall{nodeImpl: newNodeImpl(NodeRegularCall), Name: name, Style: style, Args: args}
}

// ValueCall invokes whatever callable its callee evaluates to.
type ValueCall struct {
	nodeImpl

	Callee Node      `json:"callee"`
	Style  CallStyle `json:"style"`
	Args   []Node    `json:"args"`
}

func NewValueCall(callee Node, style CallStyle, args []Node) *ValueCall {
	if style == "" {
		style = CallStyleFunction
	}
	return &ValueCall{nodeImpl: newNodeImpl(NodeValueCall), Callee: callee, Style: style, Args: args}
}

// Repetition evaluates Body Count times, each time independently.
type Repetition struct {
	nodeImpl

	Count   Node   `json:"count"`
	Body    Node   `json:"body"`
	BodyRaw string `json:"bodyRaw,omitempty"`
}

func NewRepetition(count Node, body Node, bodyRaw string) *Repetition {
	return &Repetition{nodeImpl: newNodeImpl(NodeRepetition), Count: count, Body: body, BodyRaw: bodyRaw}
}
