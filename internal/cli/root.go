package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Color   string // "auto" | "always" | "never"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ValidColorModes defines the allowed --color values.
var ValidColorModes = []string{"auto", "always", "never"}

// NewRootCommand creates the root command for the srl CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "srl",
		Short: "srl - a proof kernel for the SRL rule language",
		Long: `A proof kernel for the SRL rule language.

Rules are loaded from a source file into a database headed by the identity
rule. New rules enter the database only through the built-in inference laws.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if !contains(ValidColorModes, opts.Color) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid color mode %q: must be one of %v", opts.Color, ValidColorModes))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output and debug logs")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Color, "color", "auto", "colorize text output (auto|always|never)")

	cmd.AddCommand(NewCheckCommand(opts))
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewProveCommand(opts))
	cmd.AddCommand(NewLawsCommand(opts))

	return cmd
}

// Logger returns the logger commands hand to the engine. Logs go to w so
// they never mix with JSON on stdout. Only warnings are shown unless
// --verbose is set.
func (o *RootOptions) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ColorEnabled reports whether text written to w should be colorized.
// In auto mode, color is used only when w is a terminal and NO_COLOR is
// unset.
func (o *RootOptions) ColorEnabled(w io.Writer) bool {
	switch o.Color {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewFormatter builds the OutputFormatter for cmd.
func (o *RootOptions) NewFormatter(cmd *cobra.Command) *OutputFormatter {
	w := cmd.OutOrStdout()
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    w,
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
		Styles:    NewStyles(o.ColorEnabled(w)),
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
