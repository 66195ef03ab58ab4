// Package worker implements the translation-unit worker pool (spec §4.6,
// §5): a fixed set of goroutines, each owning a private AST parser, that
// shard compile commands round-robin, build one translation unit at a
// time, and run the function walker over it.
//
// Grounded on _examples/original_source/src/main.cpp's do_work
// (std::thread per worker, round-robin sharding by thread_no, chdir +
// parse + walk + dispose), reworked onto goroutines per spec §5's note
// that Go's runtime does not offer thread-local working directories, so
// internal/cxxast construction is serialized behind cwdMu (§9
// "Working-directory coupling", option (b)).
package worker

import (
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/uframe/uframe/internal/compdb"
	"github.com/uframe/uframe/internal/cursor"
	"github.com/uframe/uframe/internal/cxxast"
	"github.com/uframe/uframe/internal/diag"
	"github.com/uframe/uframe/internal/msgspec"
	"github.com/uframe/uframe/internal/priortypes"
	"github.com/uframe/uframe/internal/summary"
	"github.com/uframe/uframe/internal/units"
	"github.com/uframe/uframe/internal/walker"
)

// Config bundles everything Run needs, loaded once on the main
// thread before any worker starts (spec §9 "Unit ID allocation").
type Config struct {
	Commands    []compdb.Command
	Spec        *msgspec.Spec
	Units       *units.Table
	PriorTypes  priortypes.Table
	Shared      *summary.SharedTables
	Progress    *diag.Printer
	DebugWrites *os.File // nil unless --debug-writes-file is set
	NumWorkers  int      // 0 means runtime.NumCPU()
	Dialect     cxxast.Dialect
}

// cwdMu serializes os.Chdir + translation-unit construction across
// workers, per spec §9's fallback (b) for runtimes without thread-local
// working directories — Go goroutines share an OS thread pool, so a
// per-goroutine chdir is not safe without this.
var cwdMu sync.Mutex

// Run executes the worker loop described in spec §4.6 and returns every
// diagnostic collected across every translation unit.
func Run(cfg Config) []walker.Diagnostic {
	numWorkers := cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	total := len(cfg.Commands)
	perWorker := make([][]walker.Diagnostic, numWorkers)

	var wg sync.WaitGroup
	for workerID := 0; workerID < numWorkers; workerID++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			parser, err := cxxast.New(cfg.Dialect)
			if err != nil {
				slog.Error("worker: failed to construct parser", "worker", workerID, "error", err)
				return
			}
			defer parser.Close()

			var collected []walker.Diagnostic
			for i := workerID; i < total; i += numWorkers {
				collected = append(collected, processOne(i, total, cfg.Commands[i], parser, cfg)...)
			}
			perWorker[workerID] = collected
		}(workerID)
	}
	wg.Wait()

	var all []walker.Diagnostic
	for _, ds := range perWorker {
		all = append(all, ds...)
	}
	return all
}

// processOne implements spec §4.6's four steps for exactly one compile
// command.
func processOne(index, total int, cmd compdb.Command, parser *cxxast.Parser, cfg Config) []walker.Diagnostic {
	cwdMu.Lock()
	prevDir, err := os.Getwd()
	if err != nil {
		cwdMu.Unlock()
		slog.Warn("worker: failed to read current directory", "error", err)
		return nil
	}
	if err := os.Chdir(cmd.Directory); err != nil {
		cwdMu.Unlock()
		slog.Warn("worker: failed to change directory", "directory", cmd.Directory, "error", err)
		return nil
	}

	source, readErr := os.ReadFile(cmd.File)
	var tree *cxxast.Tree
	var parseErr error
	if readErr == nil {
		tree, parseErr = parser.Parse(cmd.File, source)
	}
	os.Chdir(prevDir)
	cwdMu.Unlock()

	if readErr != nil {
		slog.Warn("worker: failed to read translation unit", "file", cmd.File, "error", readErr)
		return nil
	}
	if parseErr != nil {
		slog.Warn("worker: failed to parse translation unit", "file", cmd.File, "error", parseErr)
		return nil
	}
	defer tree.Close()

	w := &walker.Walker{
		Spec:       cfg.Spec,
		Units:      cfg.Units,
		PriorTypes: cfg.PriorTypes,
		Shared:     cfg.Shared,
		TUIndex:    index,
		TUPath:     cmd.File,
	}
	if cfg.DebugWrites != nil {
		w.DebugWrites = cfg.DebugWrites
	}

	walkTranslationUnit(w, tree.Root())

	if cfg.Progress != nil {
		cfg.Progress.Progress(cmd.File)
	}

	return w.Diagnostics()
}

// walkTranslationUnit finds every FunctionDecl in root (recursively, since
// a function defined inside a namespace or class body is nested) and runs
// the walker over each, without descending into a function's own body
// looking for further FunctionDecl nodes (local/nested functions are not a
// construct either grammar recognizes at the top level this tool cares
// about).
func walkTranslationUnit(w *walker.Walker, root cursor.Cursor) {
	cursor.Walk(root, func(c cursor.Cursor) bool {
		if c.Kind() == cursor.KindFunctionDecl {
			w.WalkFunction(c)
			return false
		}
		return true
	})
}
