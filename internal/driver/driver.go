// Package driver wires the external-collaborator loaders (compdb,
// msgspec, priortypes) into worker.Run and the interprocedural checker,
// producing the one diagnostic stream cmd/uframe prints.
//
// Grounded on _examples/davidkellis-able's pkg/driver.Loader (v11
// interpreters/go/pkg/driver/loader.go): a thin orchestration layer that
// owns no analysis logic of its own, only sequencing input loading against
// the packages that do.
package driver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/uframe/uframe/internal/compdb"
	"github.com/uframe/uframe/internal/cxxast"
	"github.com/uframe/uframe/internal/diag"
	"github.com/uframe/uframe/internal/interproc"
	"github.com/uframe/uframe/internal/msgspec"
	"github.com/uframe/uframe/internal/priortypes"
	"github.com/uframe/uframe/internal/summary"
	"github.com/uframe/uframe/internal/units"
	"github.com/uframe/uframe/internal/walker"
	"github.com/uframe/uframe/internal/worker"
)

// Options is the fully-resolved set of inputs for one analysis run, after
// CLI flags and any YAML run-profile have been merged by the caller.
type Options struct {
	CompilationDatabaseDir string
	MessageDefinitionFile  string
	PriorTypesFile         string
	Workers                int
	DebugWritesPath        string
}

// Result is everything a caller needs to report: every diagnostic (grouped
// by worker, each group in that worker's emission order) plus the
// intrinsic-touching traces the interprocedural checker found.
type Result struct {
	Diagnostics []walker.Diagnostic
	Traces      []interproc.Trace
}

// Run loads every external input named by opts, runs the worker pool over
// the compilation database, then the interprocedural checker over the
// resulting summaries. Input-loading failures are configuration errors
// (spec §7): the caller should treat a non-nil error as fatal and exit 1.
func Run(opts Options, progress *diag.Printer) (Result, error) {
	unitTable := units.New()

	spec, err := loadMessageSpec(opts.MessageDefinitionFile, unitTable)
	if err != nil {
		return Result{}, err
	}

	priors, err := loadPriorTypes(opts.PriorTypesFile, unitTable)
	if err != nil {
		return Result{}, err
	}

	commands, err := loadCompilationDatabase(opts.CompilationDatabaseDir)
	if err != nil {
		return Result{}, err
	}

	if progress != nil {
		progress.SetTotal(len(commands))
	}

	shared := summary.NewSharedTables(len(commands))
	if spec.Dialect == msgspec.DialectMDM {
		shared.SeedFunctionReturnUnits(spec.ReturnUnits)
	}

	var debugFile *os.File
	if opts.DebugWritesPath != "" {
		debugFile, err = os.Create(opts.DebugWritesPath)
		if err != nil {
			return Result{}, errors.Wrapf(err, "driver: create debug writes file %s", opts.DebugWritesPath)
		}
		defer debugFile.Close()
	}

	diags := worker.Run(worker.Config{
		Commands:    commands,
		Spec:        spec,
		Units:       unitTable,
		PriorTypes:  priors,
		Shared:      shared,
		Progress:    progress,
		DebugWrites: debugFile,
		NumWorkers:  opts.Workers,
		Dialect:     dialectFor(commands),
	})

	traces := interproc.Find(shared, priors, unitTable.Len())

	return Result{Diagnostics: diags, Traces: traces}, nil
}

func loadMessageSpec(path string, unitTable *units.Table) (*msgspec.Spec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "driver: open message definition %s", path)
	}
	defer f.Close()

	spec, err := msgspec.Parse(f, unitTable)
	if err != nil {
		return nil, errors.Wrap(err, "driver: parse message definition")
	}
	return spec, nil
}

func loadPriorTypes(path string, unitTable *units.Table) (priortypes.Table, error) {
	if path == "" {
		return priortypes.Table{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "driver: open prior types %s", path)
	}
	defer f.Close()

	priors, err := priortypes.Load(f, unitTable)
	if err != nil {
		return nil, errors.Wrap(err, "driver: parse prior types")
	}
	return priors, nil
}

func loadCompilationDatabase(dir string) ([]compdb.Command, error) {
	path := filepath.Join(dir, "compile_commands.json")
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "driver: open compilation database %s", path)
	}
	defer f.Close()

	commands, err := compdb.Load(f)
	if err != nil {
		return nil, errors.Wrap(err, "driver: parse compilation database")
	}
	return commands, nil
}

// dialectFor picks a single tree-sitter grammar for the whole run, based on
// whether any compile command names a plain-C source file. A project with
// even one .c file is treated as a C project, since the C++ grammar
// rejects C-only constructs the C grammar accepts.
func dialectFor(commands []compdb.Command) cxxast.Dialect {
	for _, cmd := range commands {
		if strings.EqualFold(filepath.Ext(cmd.File), ".c") {
			return cxxast.DialectC
		}
	}
	return cxxast.DialectCPP
}
