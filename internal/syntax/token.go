package syntax

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/roach88/srl/internal/term"
	"github.com/roach88/srl/internal/trace"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokDot
	tokWord
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokDot:
		return "'.'"
	default:
		return "word"
	}
}

// Pos is a 1-based line/column position in source text.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type token struct {
	kind tokenKind
	text string
	pos  Pos
}

var punct = map[rune]tokenKind{
	'(': tokLParen,
	')': tokRParen,
	'{': tokLBrace,
	'}': tokRBrace,
	'[': tokLBracket,
	']': tokRBracket,
	'.': tokDot,
}

// tokenize splits src into tokens. Quoted constants ('...') form a single
// word token, quotes included, and may contain delimiters and spaces.
func tokenize(src string) ([]token, error) {
	var toks []token
	line, col := 1, 1
	i := 0

	advance := func(r rune, size int) {
		i += size
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		if r == utf8.RuneError && size == 1 {
			return nil, trace.New("%s: invalid UTF-8", Pos{line, col})
		}
		pos := Pos{line, col}

		if kind, ok := punct[r]; ok {
			toks = append(toks, token{kind: kind, text: string(r), pos: pos})
			advance(r, size)
			continue
		}
		if r == '\'' {
			end := strings.IndexByte(src[i+1:], '\'')
			if end < 0 {
				return nil, trace.New("%s: unterminated constant", pos)
			}
			text := src[i : i+end+2]
			toks = append(toks, token{kind: tokWord, text: text, pos: pos})
			for j := 0; j < len(text); {
				c, n := utf8.DecodeRuneInString(text[j:])
				if c == utf8.RuneError && n == 1 {
					return nil, trace.New("%s: invalid UTF-8", Pos{line, col})
				}
				advance(c, n)
				j += n
			}
			continue
		}
		if term.IsDelimiter(r) {
			// whitespace
			advance(r, size)
			continue
		}

		start := i
		for i < len(src) {
			c, n := utf8.DecodeRuneInString(src[i:])
			if c == utf8.RuneError && n == 1 {
				return nil, trace.New("%s: invalid UTF-8", Pos{line, col})
			}
			if term.IsDelimiter(c) {
				break
			}
			advance(c, n)
		}
		toks = append(toks, token{kind: tokWord, text: src[start:i], pos: pos})
	}

	toks = append(toks, token{kind: tokEOF, pos: Pos{line, col}})
	return toks, nil
}
