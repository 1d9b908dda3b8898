// Package syntax parses and renders the SRL surface syntax.
//
// Grammar:
//
//	source := { rule }
//	rule   := term { term } "."          // several terms form a group
//	term   := "(" term { term } ")"      // group, child 0 is the head
//	        | "{" numeral term { term } "}"  // binder
//	        | "[" "=>" term term "]"     // branch: condition, conclusion
//	        | numeral                    // reference
//	        | "'" text "'"               // constant
//	        | name                       // atom
//
// RenderRule(ParseRule(s)) == s for text in canonical form, and
// ParseRule(RenderRule(t)) == t for every term.
package syntax

import (
	"os"
	"strconv"

	"github.com/roach88/srl/internal/term"
	"github.com/roach88/srl/internal/trace"
)

// BranchArrow is the word that must follow '[' in a branch.
const BranchArrow = "=>"

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(kind tokenKind) (token, error) {
	t := p.next()
	if t.kind != kind {
		return t, trace.New("%s: expected %s, found %s", t.pos, kind, describe(t))
	}
	return t, nil
}

func describe(t token) string {
	if t.kind == tokWord {
		return strconv.Quote(t.text)
	}
	return t.kind.String()
}

// ParseRules parses source text into rules, in order.
// Empty (or whitespace-only) source yields no rules.
func ParseRules(src string) ([]term.Term, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, trace.Wrap(err, "tokenize")
	}
	p := &parser{toks: toks}

	var rules []term.Term
	for p.peek().kind != tokEOF {
		rule, err := p.rule()
		if err != nil {
			return nil, trace.Wrap(err, "rule %d", len(rules)+1)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// ParseFile reads and parses a rules file.
func ParseFile(path string) ([]term.Term, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, trace.Wrap(err, "cannot read file %q", path)
	}
	rules, err := ParseRules(string(data))
	if err != nil {
		return nil, trace.Wrap(err, "parse %s", path)
	}
	return rules, nil
}

// ParseRule parses exactly one rule. The terminating '.' is optional.
func ParseRule(text string) (term.Term, error) {
	toks, err := tokenize(text)
	if err != nil {
		return nil, trace.Wrap(err, "tokenize")
	}
	p := &parser{toks: toks}

	terms, err := p.sequence(tokDot, tokEOF)
	if err != nil {
		return nil, err
	}
	if len(terms) == 0 {
		return nil, trace.New("empty rule")
	}
	if p.peek().kind == tokDot {
		p.next()
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, trace.New("%s: unexpected %s after rule", t.pos, describe(t))
	}
	return collapse(terms), nil
}

// ParseTerm parses a single term, e.g. a caller-supplied argument to an
// inference law. Several terms form a group, as in a rule.
func ParseTerm(text string) (term.Term, error) {
	return ParseRule(text)
}

func (p *parser) rule() (term.Term, error) {
	terms, err := p.sequence(tokDot, tokEOF)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokDot); err != nil {
		return nil, trace.Wrap(err, "missing rule terminator")
	}
	if len(terms) == 0 {
		return nil, trace.New("empty rule")
	}
	return collapse(terms), nil
}

// sequence parses terms until one of the stop tokens (not consumed).
func (p *parser) sequence(stops ...tokenKind) ([]term.Term, error) {
	var terms []term.Term
	for {
		k := p.peek().kind
		for _, s := range stops {
			if k == s {
				return terms, nil
			}
		}
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
}

func collapse(terms []term.Term) term.Term {
	if len(terms) == 1 {
		return terms[0]
	}
	return term.NewGroup(terms...)
}

func (p *parser) term() (term.Term, error) {
	t := p.next()
	switch t.kind {
	case tokLParen:
		children, err := p.sequence(tokRParen, tokEOF, tokDot)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		if len(children) == 0 {
			return nil, trace.New("%s: empty group", t.pos)
		}
		return term.NewGroup(children...), nil

	case tokLBrace:
		idTok := p.next()
		if idTok.kind != tokWord || !term.IsNumeral(idTok.text) {
			return nil, trace.New("%s: binder needs a numeral id, found %s", idTok.pos, describe(idTok))
		}
		id, err := strconv.Atoi(idTok.text)
		if err != nil {
			return nil, trace.Wrap(err, "%s: binder id", idTok.pos)
		}
		body, err := p.sequence(tokRBrace, tokEOF, tokDot)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBrace); err != nil {
			return nil, err
		}
		if len(body) == 0 {
			return nil, trace.New("%s: binder without body", t.pos)
		}
		return term.NewBinder(id, collapse(body)), nil

	case tokLBracket:
		arrow := p.next()
		if arrow.kind != tokWord || arrow.text != BranchArrow {
			return nil, trace.New("%s: expected %q after '[', found %s", arrow.pos, BranchArrow, describe(arrow))
		}
		parts, err := p.sequence(tokRBracket, tokEOF, tokDot)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRBracket); err != nil {
			return nil, err
		}
		if len(parts) != 2 {
			return nil, trace.New("%s: branch needs a condition and a conclusion, found %d terms", t.pos, len(parts))
		}
		return term.NewBranch(parts[0], parts[1]), nil

	case tokWord:
		if term.IsNumeral(t.text) {
			id, err := strconv.Atoi(t.text)
			if err != nil {
				return nil, trace.Wrap(err, "%s: reference", t.pos)
			}
			return term.NewRef(id), nil
		}
		atom, err := term.ParseAtom(t.text)
		if err != nil {
			return nil, trace.Wrap(err, "%s", t.pos)
		}
		return atom, nil

	default:
		return nil, trace.New("%s: unexpected %s", t.pos, describe(t))
	}
}
