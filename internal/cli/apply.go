package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/srl/internal/engine"
	"github.com/roach88/srl/internal/navi"
	"github.com/roach88/srl/internal/syntax"
)

// ApplyOptions holds flags for the apply command.
type ApplyOptions struct {
	*RootOptions
	Term  string   // term argument of scope-insertion and case-wrap
	Name  string   // declared name of declaration
	Paths []string // relative paths of scope-creation, e.g. "1.2"
	All   bool     // print the whole database afterwards
}

// ApplyResult is the JSON payload of the apply command.
type ApplyResult struct {
	Derived RuleInfo   `json:"derived"`
	Rules   []RuleInfo `json:"rules,omitempty"`
}

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ApplyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "apply <rules-file> <law> [handles...]",
		Short: "Apply one inference law to a rules file",
		Long: `Load a rules file and apply one inference law to it.

Handles name positions as "rule/child/child...", e.g. "2/0/1". Rule 0 is the
identity rule, so the first rule of the file is rule 1. Run "srl laws" for
the laws and the arguments they take.

Exit codes:
  0 - The law derived a new rule
  1 - The law rejected its arguments, or the file does not parse
  2 - Command error (unknown law, malformed handle, file not found)

Examples:
  srl apply ./rules.srl equals 2/0/1 1
  srl apply ./rules.srl case-wrap 1 --term "(= 'true' x)"
  srl apply ./rules.srl declaration 1 --name w
  srl apply ./rules.srl scope-creation 1/2 --path 1 --path 2`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(opts, args[0], args[1], args[2:], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Term, "term", "", "term argument (scope-insertion, case-wrap)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "declared name (declaration)")
	cmd.Flags().StringArrayVar(&opts.Paths, "path", nil, "relative path, dot separated (scope-creation, repeatable)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "print the whole database after the law")

	return cmd
}

func runApply(opts *ApplyOptions, path, law string, handleArgs []string, cmd *cobra.Command) error {
	formatter := opts.NewFormatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	step, err := buildStep(opts, law, handleArgs)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeArgs, "invalid arguments", err)
	}

	db, err := loadOrFail(formatter, path, logger)
	if err != nil {
		return err
	}

	if _, err := db.Apply(law, step); err != nil {
		return formatter.Fail(ExitFailure, ErrCodeLaw, "law rejected", err)
	}

	derived, err := ruleInfo(db, db.Len()-1)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "cannot describe rule", err)
	}
	result := ApplyResult{Derived: derived}
	if opts.All {
		for i := 0; i < db.Len(); i++ {
			info, err := ruleInfo(db, i)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeGeneric, "cannot describe rule", err)
			}
			result.Rules = append(result.Rules, info)
		}
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	for _, r := range result.Rules {
		fmt.Fprintf(w, "%s %s\n", formatter.Styles.Index.Sprintf("[%d]", r.Index), r.Rule)
	}
	fmt.Fprintf(w, "%s %s %s %s\n",
		formatter.Styles.Pass.Sprint("✓"),
		formatter.Styles.Law.Sprint(law),
		formatter.Styles.Index.Sprintf("[%d]", derived.Index),
		derived.Rule,
	)
	return nil
}

// buildStep validates the law arguments before any file is read.
func buildStep(opts *ApplyOptions, law string, handleArgs []string) (engine.Step, error) {
	var step engine.Step

	info, ok := engine.LookupLaw(law)
	if !ok {
		return step, fmt.Errorf("unknown law %q (see srl laws)", law)
	}
	if len(handleArgs) != info.Handles {
		return step, fmt.Errorf("law %s takes %d handle(s), got %d", law, info.Handles, len(handleArgs))
	}

	for i, s := range handleArgs {
		h, err := navi.ParseHandle(s)
		if err != nil {
			return step, fmt.Errorf("handle %d: %w", i+1, err)
		}
		step.Handles = append(step.Handles, h)
	}

	if info.NeedsTerm {
		if opts.Term == "" {
			return step, fmt.Errorf("law %s needs --term", law)
		}
		t, err := syntax.ParseTerm(opts.Term)
		if err != nil {
			return step, fmt.Errorf("--term: %w", err)
		}
		step.Term = t
	}
	if info.NeedsName {
		if opts.Name == "" {
			return step, fmt.Errorf("law %s needs --name", law)
		}
		step.Name = opts.Name
	}
	if info.NeedsPaths {
		for _, p := range opts.Paths {
			path, err := ParsePath(p)
			if err != nil {
				return step, fmt.Errorf("--path %q: %w", p, err)
			}
			step.Paths = append(step.Paths, path)
		}
	}
	return step, nil
}

// ParsePath parses a dot-separated relative path such as "1.2". The empty
// string is the empty path.
func ParsePath(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ".")
	path := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("segment %q is not a non-negative integer", part)
		}
		path[i] = n
	}
	return path, nil
}
