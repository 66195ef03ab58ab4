package cli

import (
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/uframe/uframe/internal/diag"
	"github.com/uframe/uframe/internal/driver"
	"github.com/uframe/uframe/internal/runconfig"
)

// analyzeOptions mirrors SPEC_FULL.md §6.1's flag set.
type analyzeOptions struct {
	*RootOptions

	CompilationDatabase string
	MessageDefinition   string
	PriorTypes          string
	Workers             int
	DebugWritesFile     string
	ConfigPath          string
}

func newAnalyzeCommand(root *RootOptions) *cobra.Command {
	opts := &analyzeOptions{RootOptions: root}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the unit-of-measure and coordinate-frame analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.CompilationDatabase, "compilation-database", "c", "", "directory containing compile_commands.json (required)")
	flags.StringVarP(&opts.MessageDefinition, "message-definition", "m", "", "message specification XML file (required)")
	flags.StringVarP(&opts.PriorTypes, "prior-types", "p", "", "prior-types JSON file")
	flags.IntVar(&opts.Workers, "workers", 0, "worker-pool size (defaults to runtime.NumCPU())")
	flags.StringVar(&opts.DebugWritesFile, "debug-writes-file", "", "write every canonicalized store target to this path (disabled by default)")
	flags.StringVar(&opts.ConfigPath, "config", "", "optional YAML run-profile supplying defaults for the flags above")

	return cmd
}

func runAnalyze(opts *analyzeOptions) error {
	flagOpts := runconfig.Options{
		CompilationDatabase: opts.CompilationDatabase,
		MessageDefinition:   opts.MessageDefinition,
		PriorTypes:          opts.PriorTypes,
		Verbose:             opts.Verbose,
		Workers:             opts.Workers,
		DebugWritesFile:     opts.DebugWritesFile,
	}

	resolved := flagOpts
	if opts.ConfigPath != "" {
		profile, err := runconfig.Load(opts.ConfigPath)
		if err != nil {
			return err
		}
		resolved = runconfig.Merge(profile, flagOpts)
	}

	if resolved.CompilationDatabase == "" {
		return errors.New("analyze: --compilation-database is required")
	}
	if resolved.MessageDefinition == "" {
		return errors.New("analyze: --message-definition is required")
	}

	runID := uuid.New()
	slog.Info("starting analysis run", "run_id", runID)

	progress := diag.NewPrinter(os.Stdout, 0)
	result, err := driver.Run(driver.Options{
		CompilationDatabaseDir: resolved.CompilationDatabase,
		MessageDefinitionFile:  resolved.MessageDefinition,
		PriorTypesFile:         resolved.PriorTypes,
		Workers:                resolved.Workers,
		DebugWritesPath:        resolved.DebugWritesFile,
	}, progress)
	if err != nil {
		return err
	}

	progress.Diagnostics(result.Diagnostics)
	slog.Info("analysis run finished", "run_id", runID, "diagnostics", len(result.Diagnostics), "traces", len(result.Traces))
	return nil
}
