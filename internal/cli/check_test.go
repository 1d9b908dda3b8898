package cli

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/srl/internal/engine"
)

func TestCheckCommand_Text(t *testing.T) {
	path := writeRules(t, "(= x y).\n{7 (p x 7)}.\n")

	out, _, err := executeCommand(t, "check", path)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "check_text", []byte(out))
}

func TestCheckCommand_JSON(t *testing.T) {
	path := writeRules(t, "(= x y).\n{7 (p x 7)}.\n")

	out, _, err := executeCommand(t, "--format", "json", "check", path)
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   CheckResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Data.Session)
	require.Len(t, resp.Data.Rules, 3)

	assert.Equal(t, "{0 (= 0 0)}.", resp.Data.Rules[0].Rule)
	assert.Equal(t, engine.LawIdentity, resp.Data.Rules[0].Law)
	assert.Equal(t, "{0 (p x 0)}.", resp.Data.Rules[2].Rule)
	assert.Equal(t, engine.LawSource, resp.Data.Rules[2].Law)

	for i, r := range resp.Data.Rules {
		assert.Equal(t, i, r.Index)
		assert.Len(t, r.Hash, 64)
		assert.Equal(t, int64(i+1), r.Seq)
	}
}

func TestCheckCommand_Errors(t *testing.T) {
	testCases := []struct {
		name string
		path func(t *testing.T) string
		code int
		msg  string
	}{
		{
			name: "missing file",
			path: func(t *testing.T) string { return "/nonexistent/rules.srl" },
			code: ExitCommandError,
			msg:  "rules file not found",
		},
		{
			name: "directory",
			path: func(t *testing.T) string { return t.TempDir() },
			code: ExitCommandError,
			msg:  "not a file",
		},
		{
			name: "parse error",
			path: func(t *testing.T) string { return writeRules(t, "(p q") },
			code: ExitFailure,
			msg:  "cannot load",
		},
		{
			name: "open rule",
			path: func(t *testing.T) string { return writeRules(t, "p 3.") },
			code: ExitFailure,
			msg:  "cannot load",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := executeCommand(t, "check", tc.path(t))
			require.Error(t, err)
			assert.Equal(t, tc.code, GetExitCode(err))
			assert.Contains(t, err.Error(), tc.msg)
			assert.Contains(t, out, "Error [")
		})
	}
}

func TestCheckCommand_JSONError(t *testing.T) {
	out, _, err := executeCommand(t, "--format", "json", "check", "/nonexistent/rules.srl")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestCheckCommand_VerboseLogs(t *testing.T) {
	path := writeRules(t, "p q.")

	_, errOut, err := executeCommand(t, "--verbose", "check", path)
	require.NoError(t, err)
	assert.Contains(t, errOut, "database loaded")
	assert.Contains(t, errOut, "Loaded 1 rule(s)")

	_, errOut, err = executeCommand(t, "check", path)
	require.NoError(t, err)
	assert.Empty(t, errOut)
}
