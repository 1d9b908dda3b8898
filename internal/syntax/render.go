package syntax

import (
	"strconv"
	"strings"

	"github.com/roach88/srl/internal/term"
)

// Render returns the surface form of t. Groups keep their parentheses.
func Render(t term.Term) string {
	var b strings.Builder
	render(&b, t)
	return b.String()
}

// RenderRule returns the surface form of t as a top-level rule: a root
// group of two or more terms loses its outer parentheses and a terminating
// '.' is appended. A one-child root group keeps them so it parses back as a
// group rather than as its child.
func RenderRule(t term.Term) string {
	var b strings.Builder
	if g, ok := t.(term.Group); ok && len(g.Children) > 1 {
		renderSeq(&b, g.Children)
	} else {
		render(&b, t)
	}
	b.WriteByte('.')
	return b.String()
}

// RenderRules renders rules one per line, each terminated.
func RenderRules(rules []term.Term) string {
	var b strings.Builder
	for _, r := range rules {
		b.WriteString(RenderRule(r))
		b.WriteByte('\n')
	}
	return b.String()
}

func render(b *strings.Builder, t term.Term) {
	switch v := t.(type) {
	case term.Atom:
		b.WriteString(v.Text())
	case term.Ref:
		b.WriteString(strconv.Itoa(v.ID))
	case term.Group:
		b.WriteByte('(')
		renderSeq(b, v.Children)
		b.WriteByte(')')
	case term.Binder:
		b.WriteByte('{')
		b.WriteString(strconv.Itoa(v.ID))
		b.WriteByte(' ')
		render(b, v.Body)
		b.WriteByte('}')
	case term.Branch:
		b.WriteString("[" + BranchArrow + " ")
		render(b, v.Condition)
		b.WriteByte(' ')
		render(b, v.Conclusion)
		b.WriteByte(']')
	case nil:
		b.WriteString("<nil>")
	default:
		panic("syntax: unknown term type")
	}
}

func renderSeq(b *strings.Builder, terms []term.Term) {
	for i, c := range terms {
		if i > 0 {
			b.WriteByte(' ')
		}
		render(b, c)
	}
}
