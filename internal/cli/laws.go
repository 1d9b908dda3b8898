package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/srl/internal/engine"
)

// LawSummary describes one law in JSON output.
type LawSummary struct {
	Name    string   `json:"name"`
	Handles int      `json:"handles"`
	Args    []string `json:"args,omitempty"`
	Summary string   `json:"summary"`
}

// NewLawsCommand creates the laws command.
func NewLawsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "laws",
		Short:         "List the inference laws",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLaws(rootOpts, cmd)
		},
	}
}

func runLaws(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.NewFormatter(cmd)

	var laws []LawSummary
	for _, info := range engine.Laws() {
		s := LawSummary{Name: info.Name, Handles: info.Handles, Summary: info.Summary}
		if info.NeedsTerm {
			s.Args = append(s.Args, "--term")
		}
		if info.NeedsName {
			s.Args = append(s.Args, "--name")
		}
		if info.NeedsPaths {
			s.Args = append(s.Args, "--path")
		}
		laws = append(laws, s)
	}

	if formatter.IsJSON() {
		return formatter.Success(laws)
	}

	w := formatter.Writer
	for _, l := range laws {
		args := fmt.Sprintf("%d handle(s)", l.Handles)
		if len(l.Args) > 0 {
			args += ", " + strings.Join(l.Args, " ")
		}
		fmt.Fprintf(w, "%-16s %-28s %s\n", l.Name, args, l.Summary)
	}
	return nil
}
