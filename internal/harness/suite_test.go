package harness

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// proofsDir holds the example proof scripts shipped with the repository.
const proofsDir = "../../testdata/proofs"

// TestProofScripts replays every example proof script. They double as
// end-to-end checks of the inference laws and as documentation of the
// script format.
func TestProofScripts(t *testing.T) {
	paths, err := FindScripts(proofsDir)
	require.NoError(t, err)
	require.Len(t, paths, 5)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			script, err := LoadScript(path)
			require.NoError(t, err, "failed to load %s", path)

			assert.NotEmpty(t, script.Description, "script should have description")
			assert.NotEmpty(t, script.Session, "script should fix its session id")

			result, err := Run(script)
			require.NoError(t, err)

			for _, s := range result.Steps {
				assert.True(t, s.Pass, "step %d (%s): %s", s.Index, s.Law, s.Error)
			}
			assert.Empty(t, result.Errors)
			assert.True(t, result.Pass)
		})
	}
}

func TestRunSuite_Proofs(t *testing.T) {
	suite, err := RunSuite(proofsDir)
	require.NoError(t, err)

	assert.Equal(t, 5, suite.TotalScripts)
	assert.Equal(t, 5, suite.Passed)
	assert.Equal(t, 0, suite.Failed)
	assert.True(t, suite.Pass())
	assert.Len(t, suite.Runs, 5)
	assert.Equal(t, "equals-substitution", suite.Runs[0].Script.Name)
}

func TestRunSuite_Failures(t *testing.T) {
	dir := t.TempDir()

	good := "name: good\ndescription: d\nrules: 'p q.'\nsteps: [{law: add-truth, handles: ['1']}]\n"
	failing := "name: failing\ndescription: d\nrules: 'p q.'\nsteps: [{law: add-truth, handles: ['1/1']}]\n"
	broken := "name: broken\nsteps: []\n"
	badRules := "name: bad-rules\ndescription: d\nrules: '(p'\nsteps: [{law: add-truth, handles: ['1']}]\n"

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_good.yaml"), []byte(good), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b_failing.yml"), []byte(failing), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c_broken.yaml"), []byte(broken), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "d_bad_rules.yaml"), []byte(badRules), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	suite, err := RunSuite(dir)
	require.NoError(t, err)

	assert.Equal(t, 4, suite.TotalScripts)
	assert.Equal(t, 1, suite.Passed)
	assert.Equal(t, 3, suite.Failed)
	assert.False(t, suite.Pass())

	require.Len(t, suite.Failures, 3)
	assert.Equal(t, "failing", suite.Failures[0].Script)
	assert.Contains(t, suite.Failures[0].Errors[0], "boolean position")
	assert.Equal(t, "c_broken.yaml", suite.Failures[1].Script)
	assert.Contains(t, suite.Failures[1].Errors[0], "failed to load script")
	assert.Equal(t, "bad-rules", suite.Failures[2].Script)
	assert.Contains(t, suite.Failures[2].Errors[0], "script execution failed")
}

func TestFindScripts(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "one.cue")
	require.NoError(t, os.WriteFile(file, []byte("name: \"x\""), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0755))

	paths, err := FindScripts(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{file}, paths)

	paths, err = FindScripts(file)
	require.NoError(t, err)
	assert.Equal(t, []string{file}, paths)

	_, err = FindScripts(filepath.Join(dir, "missing"))
	var notFound *ScriptNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Contains(t, err.Error(), "does not exist")
}
