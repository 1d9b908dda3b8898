package term

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/srl/internal/trace"
)

// Delimiters are the characters that can never appear in a bare atom.
// The parser splits on them; ParseAtom rejects them.
const Delimiters = "(){}[].'"

// IsDelimiter reports whether r ends a bare atom.
func IsDelimiter(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(Delimiters, r)
}

// IsNumeral reports whether s is a non-empty run of ASCII digits.
// Numerals denote references, never atoms.
func IsNumeral(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseAtom validates the surface spelling of an atom and returns it.
//
// A quoted spelling 'x' yields a constant; anything else must be a bare name:
// no whitespace, no delimiters, and not a numeral. Names are NFC-normalized
// so that canonically equivalent spellings denote the same atom.
func ParseAtom(text string) (Atom, error) {
	if text == "" {
		return Atom{}, trace.New("empty atom")
	}
	if !utf8.ValidString(text) {
		return Atom{}, trace.New("atom %q is not valid UTF-8", text)
	}
	if strings.HasPrefix(text, "'") {
		if len(text) < 3 || !strings.HasSuffix(text, "'") {
			return Atom{}, trace.New("malformed constant %q", text)
		}
		inner := text[1 : len(text)-1]
		if err := checkConstantBody(inner); err != nil {
			return Atom{}, trace.Wrap(err, "constant %q", text)
		}
		return NewConstant(norm.NFC.String(inner)), nil
	}
	if IsNumeral(text) {
		return Atom{}, trace.New("%q is a numeral, not an atom", text)
	}
	for _, r := range text {
		if IsDelimiter(r) || unicode.IsControl(r) {
			return Atom{}, trace.New("atom %q contains forbidden character %q", text, r)
		}
	}
	return NewAtom(norm.NFC.String(text)), nil
}

func checkConstantBody(inner string) error {
	for _, r := range inner {
		if r == '\'' {
			return trace.New("quote inside constant")
		}
		if unicode.IsControl(r) {
			return trace.New("control character %q inside constant", r)
		}
	}
	return nil
}
