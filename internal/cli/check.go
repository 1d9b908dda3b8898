package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CheckResult is the JSON payload of the check command.
type CheckResult struct {
	Session string     `json:"session"`
	Rules   []RuleInfo `json:"rules"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <rules-file>",
		Short: "Parse and normalize a rules file",
		Long: `Parse a rules file, normalize every rule and print the resulting database.

Rule 0 is always the identity rule. Rules read from the file follow it and
are write-protected.

Exit codes:
  0 - The file is a valid rule source
  1 - The file does not parse or a rule cannot be normalized
  2 - Command error (file not found, etc.)

Examples:
  srl check ./rules.srl
  srl check ./rules.srl --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.NewFormatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	db, err := loadOrFail(formatter, path, logger)
	if err != nil {
		return err
	}
	formatter.VerboseLog("Loaded %d rule(s) from %s", db.Len()-1, path)

	result := CheckResult{Session: db.Session(), Rules: make([]RuleInfo, 0, db.Len())}
	for i := 0; i < db.Len(); i++ {
		info, err := ruleInfo(db, i)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "cannot describe rule", err)
		}
		result.Rules = append(result.Rules, info)
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	for _, r := range result.Rules {
		fmt.Fprintf(w, "%s %s\n", formatter.Styles.Index.Sprintf("[%d]", r.Index), r.Rule)
	}
	fmt.Fprintf(w, "%s %d rule(s) checked\n", formatter.Styles.Pass.Sprint("✓"), db.Len()-1)
	return nil
}
