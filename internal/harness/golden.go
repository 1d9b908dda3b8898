package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders a result in the stable text form stored in golden files:
// the script name, one line per step and the final database.
//
// Rejected steps are recorded as "rejected" without the error text, so
// rewording an error message does not invalidate golden files.
func Snapshot(name string, result *Result) []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "script: %s\n", name)
	b.WriteString("steps:\n")
	for _, s := range result.Steps {
		fmt.Fprintf(&b, "  %d %s", s.Index, s.Law)
		for _, h := range s.Handles {
			b.WriteString(" " + h)
		}
		switch {
		case s.Law == LawDelete && s.Error == "":
			b.WriteString(" -> deleted\n")
		case s.RuleIndex >= 0:
			fmt.Fprintf(&b, " -> [%d] %s\n", s.RuleIndex, s.Rule)
		default:
			b.WriteString(" -> rejected\n")
		}
	}
	b.WriteString("rules:\n")
	for i, r := range result.Rules {
		fmt.Fprintf(&b, "  [%d] %s\n", i, r)
	}
	return []byte(b.String())
}

// RunWithGolden executes a script and compares its snapshot against a golden
// file stored in testdata/golden/{script.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the script cannot be run. Test failure (via goldie)
// occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, script *Script) (*Result, error) {
	t.Helper()

	result, err := Run(script)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, script.Name, result)
	return result, nil
}

// AssertGolden compares the snapshot of an existing result against the
// golden file for name.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(name, result))
}
