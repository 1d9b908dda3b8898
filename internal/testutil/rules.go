package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/roach88/srl/internal/syntax"
	"github.com/roach88/srl/internal/term"
)

// DiscardLogger returns a logger that drops everything. Tests and the proof
// harness use it to keep output quiet.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MustParseRules parses src or fails the test.
func MustParseRules(t testing.TB, src string) []term.Term {
	t.Helper()
	rules, err := syntax.ParseRules(src)
	if err != nil {
		t.Fatalf("parse rules %q: %v", src, err)
	}
	return rules
}

// MustParseTerm parses a single term or fails the test.
func MustParseTerm(t testing.TB, text string) term.Term {
	t.Helper()
	tm, err := syntax.ParseTerm(text)
	if err != nil {
		t.Fatalf("parse term %q: %v", text, err)
	}
	return tm
}

// RenderAll renders each rule in its rule form.
func RenderAll(rules []term.Term) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = syntax.RenderRule(r)
	}
	return out
}
