package harness

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestRun_Passing(t *testing.T) {
	script, err := ParseScriptYAML([]byte(equalsYAML))
	require.NoError(t, err)

	result, err := Run(script)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Steps, 2)

	first := result.Steps[0]
	assert.True(t, first.Pass)
	assert.Equal(t, "{0 (p y)}.", first.Rule)
	assert.Equal(t, 3, first.RuleIndex)
	assert.Empty(t, first.Error)

	second := result.Steps[1]
	assert.True(t, second.Pass)
	assert.Equal(t, -1, second.RuleIndex)
	assert.Contains(t, second.Error, "not an equality term")

	assert.Equal(t, []string{"{0 (= 0 0)}.", "= x y.", "{0 (p x)}.", "{0 (p y)}."}, result.Rules)
	assert.Equal(t, "{0 (= 0 0)}.\n= x y.\n{0 (p x)}.\n{0 (p y)}.\n", result.Database())
}

func TestRun_ExpectNormalized(t *testing.T) {
	script := &Script{
		Name:  "normalized",
		Rules: "(= x y). {0 (p x)}.",
		Steps: []Step{
			{Law: "equals", Handles: []string{"2/0/1", "1"}, Expect: "{7 (p y)}"},
		},
	}

	result, err := Run(script)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Steps[0].Error)
}

func TestRun_ExpectMismatch(t *testing.T) {
	script := &Script{
		Name:  "mismatch",
		Rules: "(= x y). {0 (p x)}.",
		Steps: []Step{
			{Law: "equals", Handles: []string{"2/0/1", "1"}, Expect: "{0 (p z)}."},
		},
	}

	result, err := Run(script)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	step := result.Steps[0]
	assert.False(t, step.Pass)
	assert.Contains(t, step.Error, "rule mismatch")
	assert.Contains(t, step.Error, "[-z-]{+y+}")
	assert.Equal(t, 3, step.RuleIndex, "the rule is derived even when it does not match")
}

func TestRun_ErrorExpectations(t *testing.T) {
	testCases := []struct {
		name string
		step Step
		pass bool
		msg  string
	}{
		{
			name: "expected error occurs",
			step: Step{Law: "add-truth", Handles: []string{"1/1"}, Error: "boolean position"},
			pass: true,
			msg:  "boolean position",
		},
		{
			name: "different error",
			step: Step{Law: "add-truth", Handles: []string{"1/1"}, Error: "existential"},
			msg:  "does not contain",
		},
		{
			name: "law succeeds",
			step: Step{Law: "add-truth", Handles: []string{"1"}, Error: "boolean position"},
			msg:  "law succeeded",
		},
		{
			name: "unexpected error",
			step: Step{Law: "add-truth", Handles: []string{"1/1"}},
			msg:  "unexpected error",
		},
		{
			name: "handle out of range",
			step: Step{Law: "add-truth", Handles: []string{"9"}},
			msg:  "out of range",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			script := &Script{Name: tc.name, Rules: "p q.", Steps: []Step{tc.step}}
			result, err := Run(script)
			require.NoError(t, err)

			step := result.Steps[0]
			assert.Equal(t, tc.pass, step.Pass)
			assert.Equal(t, tc.pass, result.Pass)
			assert.Contains(t, step.Error, tc.msg)
		})
	}
}

func TestRun_TermAndPaths(t *testing.T) {
	script := &Script{
		Name:  "term-and-paths",
		Rules: "= 'false' (= 'true' x). = 'true' y.",
		Steps: []Step{
			{Law: "scope-creation", Handles: []string{"1/2"}, Paths: [][]int{{2}}, Expect: "= 'false' {0 (= 'true' 0)}."},
			{Law: "case-wrap", Handles: []string{"2"}, Term: "(= 'true' x)", Expect: "[=> (= 'true' x) (= 'true' y)]."},
			{Law: "case-wrap", Handles: []string{"2"}, Term: "(q", Error: "term"},
		},
	}

	result, err := Run(script)
	require.NoError(t, err)
	for _, s := range result.Steps {
		assert.True(t, s.Pass, "step %d: %s", s.Index, s.Error)
	}
}

func TestRun_Delete(t *testing.T) {
	script := &Script{
		Name:  "delete",
		Rules: "{0 {1 (= 0 1)}}.",
		Steps: []Step{
			{Law: "scope-exchange", Handles: []string{"1"}, Expect: "{0 {1 (= 1 0)}}."},
			{Law: LawDelete, Handles: []string{"2"}},
			{Law: LawDelete, Handles: []string{"1"}, Error: "write protected"},
		},
		Final: intPtr(2),
	}

	result, err := Run(script)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v %v", result.Errors, result.Steps)
	assert.Equal(t, -1, result.Steps[1].RuleIndex)
	assert.Equal(t, []string{"{0 (= 0 0)}.", "{0 {1 (= 0 1)}}."}, result.Rules)
}

func TestRun_FinalMismatch(t *testing.T) {
	script := &Script{
		Name:  "final",
		Rules: "p q.",
		Steps: []Step{{Law: "add-truth", Handles: []string{"1"}}},
		Final: intPtr(2),
	}

	result, err := Run(script)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors, "final: expected 2 rules, got 3")
}

func TestRun_Assertions(t *testing.T) {
	script := &Script{
		Name:  "assertions",
		Rules: "p q.",
		Steps: []Step{{Law: "add-truth", Handles: []string{"1"}}},
		Assertions: []Assertion{
			{Type: AssertContainsRule, Rule: "= 'true' (p q)"},
			{Type: AssertRuleCount, Count: 5},
		},
	}

	result, err := Run(script)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "rule_count")
}

func TestRun_BadRules(t *testing.T) {
	script := &Script{
		Name:  "bad",
		Rules: "(p q",
		Steps: []Step{{Law: "add-truth", Handles: []string{"1"}}},
	}

	_, err := Run(script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load rules")
}

func TestRun_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	script := &Script{
		Name:    "logged",
		Session: "proof-session-1",
		Rules:   "p q.",
		Steps: []Step{
			{Law: "add-truth", Handles: []string{"1"}},
			{Law: "add-truth", Handles: []string{"1/1"}},
		},
	}

	result, err := Run(script, WithLogger(logger))
	require.NoError(t, err)
	assert.False(t, result.Pass)

	out := buf.String()
	assert.Contains(t, out, "session=proof-session-1")
	assert.Contains(t, out, "rule derived")
	assert.Contains(t, out, "step passed")
	assert.Contains(t, out, "step failed")
	assert.Contains(t, out, "script finished")
	assert.Contains(t, out, "pass=false")
}

func TestRun_Deterministic(t *testing.T) {
	script, err := ParseScriptYAML([]byte(equalsYAML))
	require.NoError(t, err)

	first, err := Run(script)
	require.NoError(t, err)
	second, err := Run(script)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
