// Package diag implements the progress printer and stdout diagnostic
// writer (spec §4.6 "Progress reporting", §5 "cout_lock", §6
// "Diagnostics").
//
// Grounded on _examples/original_source/src/main.cpp's cout_lock-guarded
// progress counter, reworked onto sync.Mutex; logging of everything that
// is not one of the four fixed stdout line shapes goes through
// log/slog instead (SPEC_FULL.md §6.5), grounded on the ambient-logging
// convention used throughout _examples/davidkellis-able's cmd/able.
package diag

import (
	"fmt"
	"io"
	"sync"

	"github.com/uframe/uframe/internal/walker"
)

// Printer owns the monotone file counter and the stdout writer. Progress
// output and diagnostic output share the writer but are never interleaved
// with log/slog output, which goes to stderr (spec §6.5).
type Printer struct {
	mu      sync.Mutex
	out     io.Writer
	total   int
	counter int
}

// NewPrinter returns a Printer that will report progress against total
// translation units.
func NewPrinter(out io.Writer, total int) *Printer {
	return &Printer{out: out, total: total}
}

// SetTotal updates the denominator printed alongside the counter, for
// callers that only learn the translation-unit count after construction
// (e.g. once the compilation database has been loaded).
func (p *Printer) SetTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

// Progress prints "<i>/<N> <path>" with the monotone counter incremented
// under mu, per spec §4.6: progress output never blocks the analysis and
// is independent of the summary lock.
func (p *Printer) Progress(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counter++
	fmt.Fprintf(p.out, "%d/%d %s\n", p.counter, p.total, path)
}

// Diagnostic prints d's exact spec §6 line form.
func (p *Printer) Diagnostic(d walker.Diagnostic) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, d.String())
}

// Diagnostics prints every diagnostic in ds, in order.
func (p *Printer) Diagnostics(ds []walker.Diagnostic) {
	for _, d := range ds {
		p.Diagnostic(d)
	}
}
