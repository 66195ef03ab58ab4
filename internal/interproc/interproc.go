// Package interproc implements the interprocedural unconstrained-frame
// checker (spec §4.7): breadth-first enumeration of call chains from a root
// function into an intrinsic-touching function whose frame is not
// constrained anywhere along the chain, deduplicated by terminal-function
// identity.
//
// Grounded on _examples/original_source/src/main.cpp's
// get_unconstrained_traces call site (main.cpp:1589), whose own body never
// shipped in the source this pack retrieved — the spec notes the algorithm
// is "not further constrained ... beyond being a breadth-first enumeration
// of reaching paths and deduplication by terminal-function identity", so
// the call-graph BFS below is an original design satisfying that interface
// contract rather than a port of missing code.
package interproc

import (
	"sort"

	"github.com/uframe/uframe/internal/priortypes"
	"github.com/uframe/uframe/internal/summary"
)

// Trace is one call chain, root-first, ending at an intrinsic-touching
// function whose frame is unconstrained along the whole chain.
type Trace []string

// Find runs the checker over every function published to shared. priors
// and numUnits round out spec §4.7's stated input list; the BFS-plus-
// terminal-dedup algorithm this package implements does not need them, but
// they are accepted so a caller can pass the same inputs the spec names
// without this package silently ignoring an argument it was never handed.
func Find(shared *summary.SharedTables, priors priortypes.Table, numUnits int) []Trace {
	all := shared.AllFunctions()
	if len(all) == 0 {
		return nil
	}

	byName := make(map[string][]*summary.Function)
	calledNames := make(map[string]struct{})
	for _, fn := range all {
		byName[fn.Name] = append(byName[fn.Name], fn)
		for callee := range fn.Callees {
			calledNames[callee] = struct{}{}
		}
	}

	intrinsicNames := make(map[string]struct{})
	for _, fn := range all {
		if shared.IsIntrinsicTouched(fn.USR) {
			intrinsicNames[fn.Name] = struct{}{}
		}
	}

	var roots []string
	for name := range byName {
		if _, called := calledNames[name]; !called {
			roots = append(roots, name)
		}
	}
	sort.Strings(roots)

	seenTerminal := make(map[string]bool)
	var traces []Trace

	for _, root := range roots {
		traces = append(traces, bfsFrom(root, byName, intrinsicNames, seenTerminal)...)
	}
	return traces
}

type frontier struct {
	path        []string
	constrained bool
}

// bfsFrom enumerates reaching paths from root, reporting the first path to
// reach each not-yet-seen intrinsic-touching terminal whose frame is
// unconstrained on every function visited so far.
func bfsFrom(root string, byName map[string][]*summary.Function, intrinsicNames map[string]struct{}, seenTerminal map[string]bool) []Trace {
	var traces []Trace

	visited := map[string]bool{root: true}
	queue := []frontier{{path: []string{root}, constrained: anyConstrained(byName[root])}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		last := cur.path[len(cur.path)-1]

		if _, touches := intrinsicNames[last]; touches && !cur.constrained && !seenTerminal[last] {
			seenTerminal[last] = true
			traces = append(traces, append(Trace{}, cur.path...))
		}

		for _, fn := range byName[last] {
			callees := make([]string, 0, len(fn.Callees))
			for callee := range fn.Callees {
				callees = append(callees, callee)
			}
			sort.Strings(callees)
			for _, callee := range callees {
				if visited[callee] {
					continue
				}
				visited[callee] = true
				nextPath := append(append([]string{}, cur.path...), callee)
				queue = append(queue, frontier{
					path:        nextPath,
					constrained: cur.constrained || anyConstrained(byName[callee]),
				})
			}
		}
	}
	return traces
}

func anyConstrained(fns []*summary.Function) bool {
	for _, fn := range fns {
		if fn.HadFrameConstraint {
			return true
		}
	}
	return false
}
