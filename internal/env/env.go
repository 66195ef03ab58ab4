// Package env implements the scoped type environment (spec §3 "Scope",
// §4.3): a stack of name-to-TypeInfo maps with inner-to-outer lookup and a
// parent/child Unify join used at branch and loop exits.
//
// Grounded on _examples/susji-c0's analyze.scope (push/pop around a
// node-scoped map with a parent pointer), generalized from a single
// *types.Type value per name to a typeinfo.Info per name.
package env

import "github.com/uframe/uframe/internal/typeinfo"

// Scope is one level of the environment: a map of names to their current
// TypeInfo, with a pointer to the enclosing scope. The root scope has a nil
// parent.
type Scope struct {
	parent *Scope
	vars   map[string]typeinfo.Info
}

// New returns a fresh root scope with no parent.
func New() *Scope {
	return &Scope{vars: make(map[string]typeinfo.Info)}
}

// Push returns a new child scope of s. Lookups in the child fall through to
// s when a name isn't found locally.
func (s *Scope) Push() *Scope {
	return &Scope{parent: s, vars: make(map[string]typeinfo.Info)}
}

// Parent returns s's enclosing scope, or nil if s is the root.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Set binds name to info in s's own map, shadowing any outer binding.
func (s *Scope) Set(name string, info typeinfo.Info) {
	s.vars[name] = info
}

// Get looks up name in s, then each enclosing scope in turn, per spec §4.3
// "inner scopes shadow outer ones". The bool reports whether name was found
// anywhere in the chain.
func (s *Scope) Get(name string) (typeinfo.Info, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if info, ok := cur.vars[name]; ok {
			return info, true
		}
	}
	return typeinfo.Info{}, false
}

// GetLocal looks up name only in s's own map, without falling through to
// enclosing scopes. Used when a caller must distinguish "declared in this
// scope" from "visible via an outer scope".
func (s *Scope) GetLocal(name string) (typeinfo.Info, bool) {
	info, ok := s.vars[name]
	return info, ok
}

// Names returns every name bound directly in s (not its ancestors).
func (s *Scope) Names() []string {
	out := make([]string, 0, len(s.vars))
	for name := range s.vars {
		out = append(out, name)
	}
	return out
}

// Unify merges child's local bindings into parent by name, per spec §4.3:
// for every name bound in child, parent's binding for that name (if any)
// is typeinfo.Merge'd with child's. Names private to child (never bound in
// an ancestor of parent) are otherwise discarded when child is popped,
// matching the original's scope-exit semantics: only names that could also
// be resolved from parent's chain are meaningful to carry forward.
//
// REDESIGN-FLAG: unlike the source's accidental self-unify no-op on
// SwitchStmt exit (see DESIGN.md open question 2), this merges strictly
// child-into-parent, never parent-into-itself.
func Unify(parent, child *Scope) {
	for name, childInfo := range child.vars {
		if parentInfo, ok := parent.vars[name]; ok {
			parent.vars[name] = typeinfo.Merge(parentInfo, childInfo)
			continue
		}
		if ancestorInfo, ok := parent.Get(name); ok {
			parent.vars[name] = typeinfo.Merge(ancestorInfo, childInfo)
		}
	}
}

// UnifyBranches merges every branch scope in branches into parent in turn,
// per spec §4.3's if/else-if/else and switch-case exit handling: each
// branch is unified independently against the same parent snapshot's
// pre-branch state, then the merges compose.
func UnifyBranches(parent *Scope, branches ...*Scope) {
	for _, b := range branches {
		Unify(parent, b)
	}
}
