package ast

import (
	"strconv"
	"strings"
)

// Format renders node as dicexp source text. Operands that are themselves
// operator, pipe or repetition expressions are parenthesized, so the output
// re-reads unambiguously without precedence tables.
func Format(node Node) string {
	var b strings.Builder
	writeNode(&b, node)
	return b.String()
}

func writeNode(b *strings.Builder, node Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("<nil>")
	case *IntegerLiteral:
		b.WriteString(strconv.FormatInt(n.Value, 10))
	case *BooleanLiteral:
		b.WriteString(strconv.FormatBool(n.Value))
	case *ListLiteral:
		b.WriteByte('[')
		writeList(b, n.Elements)
		b.WriteByte(']')
	case *ClosureLiteral:
		if n.Raw != "" {
			b.WriteString(n.Raw)
			return
		}
		b.WriteString(`\(`)
		b.WriteString(strings.Join(n.Params, ", "))
		if len(n.Params) > 0 {
			b.WriteByte(' ')
		}
		b.WriteString("-> ")
		writeNode(b, n.Body)
		b.WriteByte(')')
	case *CapturedFunction:
		b.WriteByte('&')
		b.WriteString(n.Name)
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(n.Arity))
	case *Identifier:
		b.WriteString(n.Name)
	case *RegularCall:
		writeRegularCall(b, n)
	case *ValueCall:
		if n.Style == CallStylePiped && len(n.Args) > 0 {
			writeOperand(b, n.Args[0])
			b.WriteString(" |> ")
			writeOperand(b, n.Callee)
			b.WriteString(".(")
			writeList(b, n.Args[1:])
			b.WriteByte(')')
			return
		}
		writeOperand(b, n.Callee)
		b.WriteString(".(")
		writeList(b, n.Args)
		b.WriteByte(')')
	case *Repetition:
		writeOperand(b, n.Count)
		b.WriteByte('#')
		if n.BodyRaw != "" {
			b.WriteString(n.BodyRaw)
			return
		}
		writeOperand(b, n.Body)
	default:
		b.WriteString(string(node.NodeType()))
	}
}

func writeRegularCall(b *strings.Builder, n *RegularCall) {
	switch {
	case n.Style == CallStyleOperator && len(n.Args) == 1:
		b.WriteString(n.Name)
		if isWordOperator(n.Name) {
			b.WriteByte(' ')
		}
		writeOperand(b, n.Args[0])
	case n.Style == CallStyleOperator && len(n.Args) == 2:
		writeOperand(b, n.Args[0])
		if n.Name == "d" || n.Name == "~" {
			b.WriteString(n.Name)
		} else {
			b.WriteByte(' ')
			b.WriteString(n.Name)
			b.WriteByte(' ')
		}
		writeOperand(b, n.Args[1])
	case n.Style == CallStylePiped && len(n.Args) > 0:
		writeOperand(b, n.Args[0])
		b.WriteString(" |> ")
		b.WriteString(n.Name)
		b.WriteByte('(')
		writeList(b, n.Args[1:])
		b.WriteByte(')')
	default:
		b.WriteString(n.Name)
		b.WriteByte('(')
		writeList(b, n.Args)
		b.WriteByte(')')
	}
}

func writeList(b *strings.Builder, nodes []Node) {
	for i, el := range nodes {
		if i > 0 {
			b.WriteString(", ")
		}
		writeNode(b, el)
	}
}

func writeOperand(b *strings.Builder, node Node) {
	if needsParens(node) {
		b.WriteByte('(')
		writeNode(b, node)
		b.WriteByte(')')
		return
	}
	writeNode(b, node)
}

func needsParens(node Node) bool {
	switch n := node.(type) {
	case *RegularCall:
		return n.Style != CallStyleFunction
	case *ValueCall:
		return n.Style == CallStylePiped
	case *Repetition:
		return true
	case *IntegerLiteral:
		return n.Value < 0
	default:
		return false
	}
}

func isWordOperator(name string) bool {
	if len(name) < 2 {
		return false
	}
	for _, r := range name {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
