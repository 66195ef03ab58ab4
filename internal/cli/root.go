// Package cli builds the cobra command tree for uframe and maps command
// errors to process exit codes (spec §6 "-h/--help, -v/--verbose. Exit
// code 0 on success, 1 on argument-parsing failure or input-loading
// failure").
//
// Grounded on _examples/roach88-nysm/brutalist/internal/cli's root.go
// (persistent flags shared across subcommands via an *Options struct) and
// run.go (slog handler wired to --verbose) — library: github.com/spf13/cobra.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds flags shared by every subcommand.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand builds the uframe command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "uframe",
		Short: "Whole-program unit-of-measure and coordinate-frame analyzer",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug-level logging")

	cmd.AddCommand(newAnalyzeCommand(opts))
	return cmd
}

// Execute runs the command tree against args and returns a process exit
// code: 0 on success, 1 on any argument-parsing or input-loading failure.
func Execute(args []string) int {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
