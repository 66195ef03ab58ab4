// Package units implements the dense unit-ID allocation table: a side table
// mapping a human unit name to a lazily-allocated dense nonnegative integer
// ID, per spec §3 "Unit ID".
package units

import "sync"

// ID is a dense unit identifier. The zero value is a valid, allocated ID
// (the first unit ever seen); callers distinguish "no unit" via a separate
// bool/ok return, never via the zero value.
type ID uint32

// Table allocates and resolves unit IDs. Per spec §9 "Unit ID allocation",
// allocation happens on the main thread during input loading; once workers
// start, Table is read-only and Lookup (not GetOrAllocate) is the only safe
// entry point from worker goroutines.
type Table struct {
	mu      sync.RWMutex
	nameTo  map[string]ID
	idToName []string
}

// New returns an empty unit table.
func New() *Table {
	return &Table{nameTo: make(map[string]ID)}
}

// GetOrAllocate returns the ID for name, allocating a fresh dense ID if this
// is the first time name has been seen. Not safe to call concurrently with
// Lookup from other goroutines racing allocation; callers must only invoke
// this during single-threaded input loading (spec §9).
func (t *Table) GetOrAllocate(name string) ID {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.nameTo[name]; ok {
		return id
	}
	id := ID(len(t.idToName))
	t.nameTo[name] = id
	t.idToName = append(t.idToName, name)
	return id
}

// Lookup resolves name to its ID without allocating. Safe for concurrent use
// by worker goroutines once loading has finished.
func (t *Table) Lookup(name string) (ID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.nameTo[name]
	return id, ok
}

// Name returns the human-readable name for id, or "" if id is out of range.
func (t *Table) Name(id ID) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id) < 0 || int(id) >= len(t.idToName) {
		return ""
	}
	return t.idToName[id]
}

// Len returns the number of units allocated so far. Used to construct the
// "unknown, anything admissible" universal unit set ([0, Len)).
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.idToName)
}

// All returns every allocated ID in [0, Len()).
func (t *Table) All() []ID {
	n := t.Len()
	out := make([]ID, n)
	for i := range out {
		out[i] = ID(i)
	}
	return out
}
