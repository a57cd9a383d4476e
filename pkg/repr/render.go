package repr

import (
	"fmt"
	"strings"
)

// Render flattens a step tree into a single line such as
// `(3d6 = [2, 5, 1] = 8) + 1 = 9`.
func Render(step *Step) string {
	var b strings.Builder
	render(&b, step, true)
	return b.String()
}

func render(b *strings.Builder, s *Step, top bool) {
	if s == nil {
		b.WriteString("_")
		return
	}
	switch s.Kind {
	case KindRaw:
		b.WriteString(s.Text)
	case KindUnevaluated:
		b.WriteString("_")
	case KindValue:
		fmt.Fprint(b, s.Value)
	case KindList:
		b.WriteByte('[')
		renderItems(b, s.Items)
		b.WriteByte(']')
		if s.Errored {
			b.WriteString("!")
		}
	case KindSum:
		b.WriteByte('[')
		renderItems(b, s.Items)
		b.WriteByte(']')
		if s.Result != nil {
			b.WriteString(" = ")
			render(b, s.Result, false)
		}
	case KindIdentifier:
		b.WriteString(s.Name)
		if s.Result != nil && s.Result.Kind != KindUnevaluated {
			b.WriteString("=")
			render(b, s.Result, false)
		}
	case KindCall, KindValueCall:
		wrap := !top
		if wrap {
			b.WriteByte('(')
		}
		renderCallHead(b, s)
		if s.Result != nil {
			b.WriteString(" = ")
			render(b, s.Result, false)
		}
		if wrap {
			b.WriteByte(')')
		}
	case KindCapture:
		fmt.Fprintf(b, "&%s/%d", s.Name, s.Arity)
	case KindRepetition:
		render(b, s.Count, false)
		b.WriteByte('#')
		b.WriteString(s.Body)
		if s.Result != nil {
			b.WriteString(" = ")
			render(b, s.Result, false)
		}
	case KindError:
		b.WriteString("<")
		b.WriteString(s.Text)
		b.WriteString(">")
	case KindErrorIndirect:
		b.WriteString("<!>")
	case KindDecoration:
		b.WriteString("~~")
		render(b, s.Inner, false)
		b.WriteString("~~")
	default:
		b.WriteString(string(s.Kind))
	}
}

func renderCallHead(b *strings.Builder, s *Step) {
	name := s.Name
	if s.Kind == KindValueCall {
		var callee strings.Builder
		render(&callee, s.Callee, false)
		name = callee.String() + "."
	}
	args := s.Args
	switch {
	case s.Style == StyleOperator && len(args) == 1 && s.Kind == KindCall:
		b.WriteString(name)
		render(b, args[0], false)
	case s.Style == StyleOperator && len(args) == 2 && s.Kind == KindCall:
		render(b, args[0], false)
		if name == "d" || name == "~" {
			b.WriteString(name)
		} else {
			b.WriteString(" " + name + " ")
		}
		render(b, args[1], false)
	case s.Style == StylePiped && len(args) > 0:
		render(b, args[0], false)
		b.WriteString(" |> ")
		b.WriteString(name)
		b.WriteByte('(')
		renderItems(b, args[1:])
		b.WriteByte(')')
	default:
		b.WriteString(name)
		b.WriteByte('(')
		renderItems(b, args)
		b.WriteByte(')')
	}
}

func renderItems(b *strings.Builder, items []*Step) {
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		render(b, item, false)
	}
}
