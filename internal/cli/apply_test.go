package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/srl/internal/engine"
)

func TestApplyCommand(t *testing.T) {
	testCases := []struct {
		name  string
		rules string
		args  []string
		want  string
	}{
		{
			name:  "equals",
			rules: "(= x y). {0 (p x)}.",
			args:  []string{"equals", "2/0/1", "1"},
			want:  "✓ equals [3] {0 (p y)}.\n",
		},
		{
			name:  "case-wrap with term",
			rules: "= 'true' y.",
			args:  []string{"case-wrap", "1", "--term", "(= 'true' x)"},
			want:  "✓ case-wrap [2] [=> (= 'true' x) (= 'true' y)].\n",
		},
		{
			name:  "declaration with name",
			rules: "= 'false' {0 (= 'false' (p 0))}.",
			args:  []string{"declaration", "1", "--name", "w"},
			want:  "✓ declaration [2] p w.\n",
		},
		{
			name:  "scope-creation with paths",
			rules: "= 'false' (= x x).",
			args:  []string{"scope-creation", "1/2", "--path", "1", "--path", "2"},
			want:  "✓ scope-creation [2] = 'false' {0 (= 0 0)}.\n",
		},
		{
			name:  "scope-insertion with term",
			rules: "{0 (= 'true' (p 0))}.",
			args:  []string{"scope-insertion", "1", "--term", "{0 (= 0 0)}"},
			want:  "✓ scope-insertion [2] = 'true' (p {0 (= 0 0)}).\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeRules(t, tc.rules)
			out, _, err := executeCommand(t, append([]string{"apply", path}, tc.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestApplyCommand_All(t *testing.T) {
	path := writeRules(t, "p q.")

	out, _, err := executeCommand(t, "apply", path, "add-truth", "1", "--all")
	require.NoError(t, err)
	assert.Equal(t, "[0] {0 (= 0 0)}.\n[1] p q.\n[2] = 'true' (p q).\n✓ add-truth [2] = 'true' (p q).\n", out)
}

func TestApplyCommand_JSON(t *testing.T) {
	path := writeRules(t, "(= x y). {0 (p x)}.")

	out, _, err := executeCommand(t, "--format", "json", "apply", path, "equals", "2/0/1", "1")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   ApplyResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Data.Derived.Index)
	assert.Equal(t, "{0 (p y)}.", resp.Data.Derived.Rule)
	assert.Equal(t, engine.LawEquals, resp.Data.Derived.Law)
	assert.Equal(t, []string{"2/0/1", "1"}, resp.Data.Derived.Inputs)
	assert.Empty(t, resp.Data.Rules)
}

func TestApplyCommand_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		rules string
		args  []string
		code  int
		msg   string
	}{
		{"unknown law", "p q.", []string{"modus-ponens", "1"}, ExitCommandError, "unknown law"},
		{"handle count", "p q.", []string{"equals", "1"}, ExitCommandError, "takes 2 handle(s), got 1"},
		{"bad handle", "p q.", []string{"add-truth", "1/x"}, ExitCommandError, "handle 1"},
		{"missing term", "p q.", []string{"case-wrap", "1"}, ExitCommandError, "needs --term"},
		{"bad term", "p q.", []string{"case-wrap", "1", "--term", "(c"}, ExitCommandError, "--term"},
		{"missing name", "p q.", []string{"declaration", "1"}, ExitCommandError, "needs --name"},
		{"bad path", "p q.", []string{"scope-creation", "1", "--path", "1.x"}, ExitCommandError, "--path"},
		{"law rejected", "p q.", []string{"add-truth", "1/1"}, ExitFailure, "law rejected"},
		{"handle out of range", "p q.", []string{"add-truth", "5"}, ExitFailure, "out of range"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeRules(t, tc.rules)
			out, _, err := executeCommand(t, append([]string{"apply", path}, tc.args...)...)
			require.Error(t, err)
			assert.Equal(t, tc.code, GetExitCode(err))
			assert.Contains(t, err.Error(), tc.msg)
			assert.Contains(t, out, "Error [")
		})
	}
}

func TestApplyCommand_MissingArgs(t *testing.T) {
	_, _, err := executeCommand(t, "apply", "rules.srl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 2 arg")
}

func TestParsePath(t *testing.T) {
	testCases := []struct {
		in   string
		want []int
		ok   bool
	}{
		{"", []int{}, true},
		{"2", []int{2}, true},
		{"1.0.2", []int{1, 0, 2}, true},
		{" 3.1 ", []int{3, 1}, true},
		{"1..2", nil, false},
		{"-1", nil, false},
		{"a", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParsePath(tc.in)
			if !tc.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
