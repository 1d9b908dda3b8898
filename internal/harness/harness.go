package harness

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/srl/internal/engine"
	"github.com/roach88/srl/internal/navi"
	"github.com/roach88/srl/internal/syntax"
	"github.com/roach88/srl/internal/testutil"
)

// Harness replays one proof script against a fresh database.
type Harness struct {
	db     *engine.Database
	logger *slog.Logger
}

// Option configures Run.
type Option func(*Harness)

// WithLogger routes engine and harness logs to logger. Run discards logs by
// default.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// Run executes a proof script and returns the result.
//
// Each script runs against a fresh database built from its rules, with the
// session id fixed by the script so logs are reproducible.
//
// Execution flow:
// 1. Build the database from the script's rules
// 2. Apply each step, checking expect and error clauses
// 3. Check the final rule count and evaluate assertions
// 4. Return the result with the final database
//
// Run returns an error only when the database cannot be built. Step and
// assertion failures are reported in the Result.
func Run(script *Script, opts ...Option) (*Result, error) {
	h := &Harness{logger: testutil.DiscardLogger()}
	for _, opt := range opts {
		opt(h)
	}

	db, err := engine.FromString(script.Rules,
		engine.WithLogger(h.logger),
		engine.WithIDGenerator(testutil.NewFixedSessionGenerator(script.Session)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	h.db = db

	result := NewResult()
	for i, step := range script.Steps {
		result.AddStep(h.executeStep(i, step))
	}

	if script.Final != nil && db.Len() != *script.Final {
		result.AddError(fmt.Sprintf("final: expected %d rules, got %d", *script.Final, db.Len()))
	}
	for _, msg := range EvaluateAssertions(db, script.Assertions) {
		result.AddError(msg)
	}

	result.Rules = testutil.RenderAll(db.Rules())

	h.logger.Info("script finished",
		"script", script.Name,
		"session", db.Session(),
		"steps", len(script.Steps),
		"rules", db.Len(),
		"pass", result.Pass,
	)
	return result, nil
}

// executeStep applies one step and reports whether it met its expectation.
func (h *Harness) executeStep(index int, step Step) StepResult {
	sr := StepResult{
		Index:     index,
		Law:       step.Law,
		Handles:   step.Handles,
		RuleIndex: -1,
	}

	rule, err := h.apply(step)
	if err != nil {
		sr.Error = err.Error()
		switch {
		case step.Error == "":
			sr.Error = fmt.Sprintf("step %d (%s): unexpected error: %v", index, step.Law, err)
		case strings.Contains(err.Error(), step.Error):
			sr.Pass = true
		default:
			sr.Error = fmt.Sprintf("step %d (%s): error %q does not contain %q", index, step.Law, err.Error(), step.Error)
		}
		h.logStep(sr)
		return sr
	}

	if step.Error != "" {
		sr.Error = fmt.Sprintf("step %d (%s): expected error containing %q, law succeeded", index, step.Law, step.Error)
		h.logStep(sr)
		return sr
	}

	if step.Law != LawDelete {
		sr.Rule = rule
		sr.RuleIndex = h.db.Len() - 1
	}
	sr.Pass = true

	if step.Expect != "" {
		want, err := canonicalRule(step.Expect)
		if err != nil {
			sr.Pass = false
			sr.Error = fmt.Sprintf("step %d (%s): invalid expect %q: %v", index, step.Law, step.Expect, err)
		} else if want != rule {
			sr.Pass = false
			sr.Error = fmt.Sprintf("step %d (%s): rule mismatch\n  Expected: %s\n  Actual: %s\n  Diff: %s",
				index, step.Law, want, rule, Diff(want, rule))
		}
	}

	h.logStep(sr)
	return sr
}

// apply runs a step against the database and returns the derived rule in
// rule form. Delete steps return an empty rule.
func (h *Harness) apply(step Step) (string, error) {
	handles := make([]navi.Handle, len(step.Handles))
	for i, s := range step.Handles {
		hd, err := navi.ParseHandle(s)
		if err != nil {
			return "", fmt.Errorf("handle %d: %w", i, err)
		}
		handles[i] = hd
	}

	if step.Law == LawDelete {
		if len(handles) != 1 {
			return "", fmt.Errorf("delete takes exactly one handle")
		}
		return "", h.db.DeleteRule(handles[0].Rule)
	}

	s := engine.Step{
		Handles: handles,
		Name:    step.Name,
		Paths:   step.Paths,
	}
	if step.Term != "" {
		t, err := syntax.ParseTerm(step.Term)
		if err != nil {
			return "", fmt.Errorf("term: %w", err)
		}
		s.Term = t
	}

	derived, err := h.db.Apply(step.Law, s)
	if err != nil {
		return "", err
	}
	return syntax.RenderRule(derived), nil
}

func (h *Harness) logStep(sr StepResult) {
	if sr.Pass {
		h.logger.Debug("step passed",
			"session", h.db.Session(),
			"step", sr.Index,
			"law", sr.Law,
			"rule_index", sr.RuleIndex,
		)
		return
	}
	h.logger.Warn("step failed",
		"session", h.db.Session(),
		"step", sr.Index,
		"law", sr.Law,
		"error", sr.Error,
	)
}
