package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/srl/internal/harness"
)

// ProveOptions holds flags for the prove command.
type ProveOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // script filter (glob pattern on the file name)
}

// ScriptResult holds the result of a single proof script.
type ScriptResult struct {
	Name   string   `json:"name"`
	Path   string   `json:"path"`
	Pass   bool     `json:"pass"`
	Rules  int      `json:"rules,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// ProveResult holds the overall prove result.
type ProveResult struct {
	Scripts []ScriptResult `json:"scripts"`
	Passed  int            `json:"passed"`
	Failed  int            `json:"failed"`
	Total   int            `json:"total"`
}

// NewProveCommand creates the prove command.
func NewProveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "prove <script-or-dir>",
		Short: "Replay proof scripts",
		Long: `Replay proof scripts and check every step against its expectation.

A script is a YAML or CUE file naming a rule source and the law applications
to replay on it. Given a directory, every .yaml, .yml and .cue file in it is
run. When a golden snapshot exists in golden/<file>.golden next to a script,
the run must also match it.

Exit codes:
  0 - All scripts passed
  1 - One or more scripts failed
  2 - Command error (path not found, etc.)

Examples:
  srl prove ./proofs
  srl prove ./proofs/equals.yaml
  srl prove ./proofs --filter "scope*"
  srl prove ./proofs --update
  srl prove ./proofs --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProve(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scripts by glob pattern")

	return cmd
}

func runProve(opts *ProveOptions, path string, cmd *cobra.Command) error {
	formatter := opts.NewFormatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	paths, err := harness.FindScripts(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "cannot find scripts", err)
	}
	paths, err = filterScripts(paths, opts.Filter)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeArgs, "invalid filter", err)
	}

	if len(paths) == 0 {
		if formatter.IsJSON() {
			return formatter.Success(ProveResult{Scripts: []ScriptResult{}})
		}
		fmt.Fprintln(formatter.Writer, "No proof scripts found.")
		return nil
	}

	suite := harness.RunScripts(paths, harness.WithLogger(logger))
	result := collectResults(opts, suite)

	if formatter.IsJSON() {
		return outputProveJSON(formatter, result)
	}
	return outputProveText(formatter, result)
}

// filterScripts keeps the paths whose base name, without extension,
// matches the glob pattern.
func filterScripts(paths []string, filter string) ([]string, error) {
	if filter == "" {
		return paths, nil
	}
	var out []string
	for _, p := range paths {
		base := filepath.Base(p)
		name := strings.TrimSuffix(base, filepath.Ext(base))
		matched, err := filepath.Match(filter, name)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
		if matched {
			out = append(out, p)
		}
	}
	return out, nil
}

// collectResults merges suite failures with golden file checks.
func collectResults(opts *ProveOptions, suite *harness.SuiteResult) ProveResult {
	failures := make(map[string][]string)
	names := make(map[string]string)
	for _, f := range suite.Failures {
		failures[f.Path] = f.Errors
		names[f.Path] = f.Script
	}

	runs := make(map[string]harness.ScriptRun)
	for _, r := range suite.Runs {
		runs[r.Path] = r
	}

	var order []string
	seen := make(map[string]bool)
	for _, r := range suite.Runs {
		order = append(order, r.Path)
		seen[r.Path] = true
	}
	for _, f := range suite.Failures {
		if !seen[f.Path] {
			order = append(order, f.Path)
			seen[f.Path] = true
		}
	}

	result := ProveResult{Scripts: make([]ScriptResult, 0, len(order))}
	for _, p := range order {
		sr := ScriptResult{Name: names[p], Path: p, Errors: failures[p]}
		if run, ok := runs[p]; ok {
			sr.Name = run.Script.Name
			sr.Rules = len(run.Result.Rules)
			if err := checkGolden(opts, run); err != nil {
				sr.Errors = append(sr.Errors, err.Error())
			}
		}
		sr.Pass = len(sr.Errors) == 0
		result.Scripts = append(result.Scripts, sr)
	}

	result.Total = len(result.Scripts)
	for _, s := range result.Scripts {
		if s.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}
	return result
}

// goldenFilePath returns the path to the golden file for a script.
func goldenFilePath(scriptFile string) string {
	dir := filepath.Dir(scriptFile)
	base := filepath.Base(scriptFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// checkGolden writes the golden file in update mode, and otherwise compares
// the run with the golden file when one exists.
func checkGolden(opts *ProveOptions, run harness.ScriptRun) error {
	goldenPath := goldenFilePath(run.Path)
	snapshot := harness.Snapshot(run.Script.Name, run.Result)

	if opts.Update {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
			return fmt.Errorf("failed to create golden directory: %w", err)
		}
		if err := os.WriteFile(goldenPath, snapshot, 0644); err != nil {
			return fmt.Errorf("failed to write golden file: %w", err)
		}
		return nil
	}

	golden, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read golden file: %w", err)
	}
	if !bytes.Equal(golden, snapshot) {
		return fmt.Errorf("golden file mismatch (run with --update to regenerate):\n%s",
			harness.Diff(string(golden), string(snapshot)))
	}
	return nil
}

// outputProveJSON outputs the prove result as JSON.
func outputProveJSON(formatter *OutputFormatter, result ProveResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeScript,
			Message: fmt.Sprintf("%d script(s) failed", result.Failed),
		}
	}

	if err := formatter.encode(response); err != nil {
		return err
	}
	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d script(s) failed", result.Failed))
	}
	return nil
}

// outputProveText outputs the prove result as text.
func outputProveText(formatter *OutputFormatter, result ProveResult) error {
	w := formatter.Writer
	styles := formatter.Styles

	for _, s := range result.Scripts {
		if s.Pass {
			fmt.Fprintf(w, "%s %s\n", styles.Pass.Sprint("✓"), s.Name)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", styles.Fail.Sprint("✗"), s.Name)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(strings.TrimRight(e, "\n"), "\n", "\n  "))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Proof Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d script(s) failed", result.Failed))
	}
	fmt.Fprintf(w, "%s All scripts passed\n", styles.Pass.Sprint("✓"))
	return nil
}
