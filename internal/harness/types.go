package harness

import "strings"

// StepResult is the outcome of one script step.
type StepResult struct {
	Index   int      `json:"index"`
	Law     string   `json:"law"`
	Handles []string `json:"handles,omitempty"`

	// Rule is the derived rule in rule form. Empty when the law failed.
	Rule string `json:"rule,omitempty"`

	// RuleIndex is the database index of the derived rule, -1 if none.
	RuleIndex int `json:"rule_index"`

	// Error is the law error, if any. For negative steps this is the
	// expected failure.
	Error string `json:"error,omitempty"`

	// Pass reports whether the step met its expectation.
	Pass bool `json:"pass"`
}

// Result is the outcome of running a proof script.
type Result struct {
	// Pass indicates overall success: every step met its expectation and
	// every assertion held.
	Pass bool `json:"pass"`

	// Steps holds one entry per script step, in order.
	Steps []StepResult `json:"steps"`

	// Rules is the final database, one rule per entry in rule form.
	Rules []string `json:"rules"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepResult{},
		Rules:  []string{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStep records a step outcome. A failing step fails the result.
func (r *Result) AddStep(s StepResult) {
	r.Steps = append(r.Steps, s)
	if !s.Pass {
		r.Pass = false
	}
}

// Database returns the final database as text, one rule per line.
func (r *Result) Database() string {
	var out strings.Builder
	for _, rule := range r.Rules {
		out.WriteString(rule)
		out.WriteByte('\n')
	}
	return out.String()
}

// Failures returns the errors of failed steps followed by the result
// errors.
func (r *Result) Failures() []string {
	var errs []string
	for _, s := range r.Steps {
		if !s.Pass {
			errs = append(errs, s.Error)
		}
	}
	return append(errs, r.Errors...)
}
