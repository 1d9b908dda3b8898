package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/srl/internal/engine"
	"github.com/roach88/srl/internal/syntax"
	"github.com/roach88/srl/internal/term"
)

// Assertion validates the final database.
type Assertion struct {
	// Type specifies the assertion type:
	// - "contains_rule": Some rule equals Rule (after normalization)
	// - "rule_at": Rule Index equals Rule
	// - "rule_count": The database holds exactly Count rules
	// - "law_count": Exactly Count rules were derived by Law
	Type string `yaml:"type" json:"type"`

	// Rule is the expected rule text (contains_rule, rule_at).
	Rule string `yaml:"rule,omitempty" json:"rule,omitempty"`

	// Index is the rule index (rule_at).
	Index int `yaml:"index,omitempty" json:"index,omitempty"`

	// Law is the law name (law_count).
	Law string `yaml:"law,omitempty" json:"law,omitempty"`

	// Count is the expected number (rule_count, law_count).
	Count int `yaml:"count,omitempty" json:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertContainsRule = "contains_rule"
	AssertRuleAt       = "rule_at"
	AssertRuleCount    = "rule_count"
	AssertLawCount     = "law_count"
)

// AssertionError is returned when an assertion fails.
// It includes the final database to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Rules    []string // Final database for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nDatabase:\n")
	for i, rule := range e.Rules {
		fmt.Fprintf(&buf, "  [%d] %s\n", i, rule)
	}

	return buf.String()
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertContainsRule:
		if a.Rule == "" {
			return fmt.Errorf("assertions[%d]: rule is required for contains_rule", index)
		}
	case AssertRuleAt:
		if a.Rule == "" {
			return fmt.Errorf("assertions[%d]: rule is required for rule_at", index)
		}
		if a.Index < 0 {
			return fmt.Errorf("assertions[%d]: index must be non-negative for rule_at", index)
		}
	case AssertRuleCount:
		if a.Count < 1 {
			return fmt.Errorf("assertions[%d]: count must be at least 1 for rule_count", index)
		}
	case AssertLawCount:
		if a.Law == "" {
			return fmt.Errorf("assertions[%d]: law is required for law_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for law_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// canonicalRule parses and normalizes rule text so that assertions compare
// rules modulo spelling and binder numbering.
func canonicalRule(text string) (string, error) {
	t, err := syntax.ParseRule(text)
	if err != nil {
		return "", err
	}
	norm, err := term.Normalize(t)
	if err != nil {
		return "", err
	}
	return syntax.RenderRule(norm), nil
}

func assertContainsRule(db *engine.Database, rules []string, assertion Assertion) error {
	want, err := canonicalRule(assertion.Rule)
	if err != nil {
		return fmt.Errorf("contains_rule: invalid rule %q: %w", assertion.Rule, err)
	}
	for _, r := range rules {
		if r == want {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertContainsRule,
		Expected: want,
		Actual:   "not found in database",
		Rules:    rules,
	}
}

func assertRuleAt(db *engine.Database, rules []string, assertion Assertion) error {
	want, err := canonicalRule(assertion.Rule)
	if err != nil {
		return fmt.Errorf("rule_at: invalid rule %q: %w", assertion.Rule, err)
	}
	if assertion.Index >= len(rules) {
		return &AssertionError{
			Type:     AssertRuleAt,
			Expected: fmt.Sprintf("rule %d = %s", assertion.Index, want),
			Actual:   fmt.Sprintf("database has %d rules", len(rules)),
			Rules:    rules,
		}
	}
	if got := rules[assertion.Index]; got != want {
		return &AssertionError{
			Type:     AssertRuleAt,
			Expected: fmt.Sprintf("rule %d = %s", assertion.Index, want),
			Actual:   fmt.Sprintf("%s (diff: %s)", got, Diff(want, got)),
			Rules:    rules,
		}
	}
	return nil
}

func assertRuleCount(db *engine.Database, rules []string, assertion Assertion) error {
	if db.Len() != assertion.Count {
		return &AssertionError{
			Type:     AssertRuleCount,
			Expected: fmt.Sprintf("%d rules", assertion.Count),
			Actual:   fmt.Sprintf("%d rules", db.Len()),
			Rules:    rules,
		}
	}
	return nil
}

func assertLawCount(db *engine.Database, rules []string, assertion Assertion) error {
	count := 0
	for i := 0; i < db.Len(); i++ {
		d, err := db.Derivation(i)
		if err != nil {
			return err
		}
		if d.Law == assertion.Law {
			count++
		}
	}
	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertLawCount,
			Expected: fmt.Sprintf("%d rules derived by %s", assertion.Count, assertion.Law),
			Actual:   fmt.Sprintf("%d rules", count),
			Rules:    rules,
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the final database.
// Returns one message per failed assertion.
func EvaluateAssertions(db *engine.Database, assertions []Assertion) []string {
	var errors []string
	rules := renderRules(db)

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertContainsRule:
			err = assertContainsRule(db, rules, assertion)
		case AssertRuleAt:
			err = assertRuleAt(db, rules, assertion)
		case AssertRuleCount:
			err = assertRuleCount(db, rules, assertion)
		case AssertLawCount:
			err = assertLawCount(db, rules, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

func renderRules(db *engine.Database) []string {
	rules := make([]string, db.Len())
	for i := range rules {
		rules[i] = syntax.RenderRule(db.Rule(i))
	}
	return rules
}
