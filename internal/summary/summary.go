// Package summary implements the per-function summaries and the
// cross-thread tables shared across the translation-unit worker pool
// (spec §3 "FunctionSummary" / "Tables shared across translation units",
// §4.6, §5).
//
// Grounded on _examples/original_source/src/main.cpp's ASTContext fields
// (functions, function_usrs, functions_with_intrinsic_variables,
// function_to_return_type) guarded by a single std::mutex; reworked onto
// sync.Mutex per spec §5 "exactly two mutexes".
package summary

import (
	"sync"

	"github.com/uframe/uframe/internal/typeinfo"
)

// Function is one function's summary: parameter count and provenance
// kinds, the set of callees observed, the calling-context argument types
// recorded at each call site, and the accumulated store types.
type Function struct {
	Name            string
	USR             string
	NumParams       int
	ParamSourceKind map[int]typeinfo.SourceKind
	Callees         map[string]struct{}
	CallingContext  map[string][][]typeinfo.Info
	StoreToTypeInfo map[string]typeinfo.Info

	IntrinsicTouched  bool
	HadDefinition     bool
	HadFrameConstraint bool
}

// NewFunction returns an empty Function summary for the given name/USR.
func NewFunction(name, usr string) *Function {
	return &Function{
		Name:            name,
		USR:             usr,
		ParamSourceKind: make(map[int]typeinfo.SourceKind),
		Callees:         make(map[string]struct{}),
		CallingContext:  make(map[string][][]typeinfo.Info),
		StoreToTypeInfo: make(map[string]typeinfo.Info),
	}
}

// RecordCall appends one call-site's argument types under callee, and marks
// callee as a callee of this function.
func (f *Function) RecordCall(callee string, argTypes []typeinfo.Info) {
	f.Callees[callee] = struct{}{}
	f.CallingContext[callee] = append(f.CallingContext[callee], argTypes)
}

// RecordStore merges info into the function's accumulated type for name,
// per spec §4.5.1 step 4.
func (f *Function) RecordStore(name string, info typeinfo.Info) {
	if existing, ok := f.StoreToTypeInfo[name]; ok {
		f.StoreToTypeInfo[name] = typeinfo.Merge(existing, info)
		return
	}
	f.StoreToTypeInfo[name] = info
}

// SharedTables is the cross-thread state guarded by a single mutex, per
// spec §5 "summary_lock". Never hold mu across AST traversal.
type SharedTables struct {
	mu sync.Mutex

	byTU               []map[string]*Function
	nameToTUs          map[string]map[int]struct{}
	intrinsicTouched   map[string]struct{}
	seenUSRs           map[string]struct{}
	functionReturnUnit map[string]typeinfo.Info
}

// NewSharedTables returns an empty table set sized for numTUs translation
// units.
func NewSharedTables(numTUs int) *SharedTables {
	return &SharedTables{
		byTU:               make([]map[string]*Function, numTUs),
		nameToTUs:          make(map[string]map[int]struct{}),
		intrinsicTouched:   make(map[string]struct{}),
		seenUSRs:           make(map[string]struct{}),
		functionReturnUnit: make(map[string]typeinfo.Info),
	}
}

// SeedFunctionReturnUnits installs the MDM dialect's function-return-unit
// table (spec SPEC_FULL.md §10.1); called once from the main thread before
// workers start, so no lock is needed.
func (t *SharedTables) SeedFunctionReturnUnits(table map[string]typeinfo.Info) {
	for name, info := range table {
		t.functionReturnUnit[name] = info
	}
}

// FunctionReturnUnit looks up the declared return TypeInfo for a fully
// qualified callee name, for internal/typer rule 4.
func (t *SharedTables) FunctionReturnUnit(qualifiedName string) (typeinfo.Info, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	info, ok := t.functionReturnUnit[qualifiedName]
	return info, ok
}

// TryPublish registers fn as tuIndex's summary for fn.USR, unless that USR
// has already been published by an earlier translation unit (spec §4.5
// "CompoundStmt" dedup rule, invariant/scenario (f)). Returns whether this
// call actually published (first-seen wins).
func (t *SharedTables) TryPublish(tuIndex int, fn *Function) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, seen := t.seenUSRs[fn.USR]; seen {
		return false
	}
	t.seenUSRs[fn.USR] = struct{}{}

	if t.byTU[tuIndex] == nil {
		t.byTU[tuIndex] = make(map[string]*Function)
	}
	t.byTU[tuIndex][fn.USR] = fn

	if t.nameToTUs[fn.Name] == nil {
		t.nameToTUs[fn.Name] = make(map[int]struct{})
	}
	t.nameToTUs[fn.Name][tuIndex] = struct{}{}

	if fn.IntrinsicTouched {
		t.intrinsicTouched[fn.USR] = struct{}{}
	}
	return true
}

// IsIntrinsicTouched reports whether usr was ever published with
// IntrinsicTouched set.
func (t *SharedTables) IsIntrinsicTouched(usr string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.intrinsicTouched[usr]
	return ok
}

// TUsForName returns the set of translation-unit indices that published a
// function by this name.
func (t *SharedTables) TUsForName(name string) []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	tus, ok := t.nameToTUs[name]
	if !ok {
		return nil
	}
	out := make([]int, 0, len(tus))
	for tu := range tus {
		out = append(out, tu)
	}
	return out
}

// FunctionsByTU returns every published summary in translation unit tuIndex.
func (t *SharedTables) FunctionsByTU(tuIndex int) map[string]*Function {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byTU[tuIndex]
}

// AllFunctions returns every published summary across every translation
// unit, keyed by USR.
func (t *SharedTables) AllFunctions() map[string]*Function {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]*Function)
	for _, byUSR := range t.byTU {
		for usr, fn := range byUSR {
			out[usr] = fn
		}
	}
	return out
}

// IntrinsicTouchedUSRs returns every USR ever published as intrinsic-
// touching.
func (t *SharedTables) IntrinsicTouchedUSRs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, 0, len(t.intrinsicTouched))
	for usr := range t.intrinsicTouched {
		out = append(out, usr)
	}
	return out
}
