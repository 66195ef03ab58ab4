// Package typer implements the AST expression typer (spec §4.4): given a
// cursor and the current walker context, it produces an optional TypeInfo
// by matching on cursor kind, in the eight-rule order the spec fixes.
//
// Grounded on _examples/original_source/src/main.cpp's type_cursor, with
// the thread-local "which child am I" counter (ctaw_childno) replaced per
// spec §9/SPEC_FULL.md §4 by an explicit Side parameter threaded through
// recursive calls, never ambient state.
package typer

import (
	"strconv"

	"github.com/uframe/uframe/internal/cursor"
	"github.com/uframe/uframe/internal/env"
	"github.com/uframe/uframe/internal/priortypes"
	"github.com/uframe/uframe/internal/summary"
	"github.com/uframe/uframe/internal/typeinfo"
)

// Side distinguishes which operand of a binary operator a recursive Type
// call is evaluating, passed explicitly instead of ambient per-thread
// state. Type accepts it; none of its rules branch on it.
type Side int

const (
	SideNone Side = iota
	SideLHS
	SideRHS
)

// Context bundles everything Type needs to resolve a cursor into a
// TypeInfo, without owning a concrete AST provider or holding mutable
// state across calls — every Context is safe to share read-only across
// worker goroutines once construction (unit-table loading) has finished.
type Context struct {
	Params      map[string]int // variable-ref name -> parameter index, current function only
	Scope       *env.Scope
	PriorTypes  priortypes.Table
	Shared      *summary.SharedTables
	NumUnits    int
	Canonicalize func(cursor.Cursor) string // spec §4.3 qualification rules, supplied by internal/walker
}

// Type resolves c to a TypeInfo per spec §4.4's eight ordered rules. The ok
// return distinguishes "resolved to the zero TypeInfo" from "no rule
// matched" (spec §7: a type-lookup miss is not an error).
func Type(ctx *Context, c cursor.Cursor, side Side) (typeinfo.Info, bool) {
	switch c.Kind() {
	case cursor.KindDeclRefExpr:
		return typeVariableRef(ctx, c)
	case cursor.KindCallExpr:
		return typeCallExpr(ctx, c)
	case cursor.KindIntegerLiteral:
		return typeIntegerLiteral(c)
	case cursor.KindBinaryOperator:
		return typeBinaryOperator(ctx, c)
	case cursor.KindMemberRefExpr:
		return typeMemberRef(ctx, c)
	default:
		return typeRecurseChildren(ctx, c)
	}
}

// typeVariableRef implements rules 1-3: parameter lookup, then scoped
// environment lookup, then the prior-types table.
func typeVariableRef(ctx *Context, c cursor.Cursor) (typeinfo.Info, bool) {
	name := c.Spelling()

	if idx, ok := ctx.Params[name]; ok {
		return typeinfo.WithParamSource(ctx.NumUnits, idx), true
	}
	if info, ok := ctx.Scope.Get(name); ok {
		return info, true
	}
	if info, ok := ctx.PriorTypes.Lookup(name); ok {
		return info, true
	}
	return typeinfo.Info{}, false
}

// typeCallExpr implements rule 4: a call whose callee has a known return
// type in the shared function-return-unit table.
func typeCallExpr(ctx *Context, c cursor.Cursor) (typeinfo.Info, bool) {
	callee, ok := c.ChildByField("function")
	if !ok {
		return typeRecurseChildren(ctx, c)
	}
	qualifiedName := callee.Spelling()
	if ctx.Shared != nil {
		if info, ok := ctx.Shared.FunctionReturnUnit(qualifiedName); ok {
			return info, true
		}
	}
	return typeRecurseChildren(ctx, c)
}

// typeIntegerLiteral implements rule 5.
func typeIntegerLiteral(c cursor.Cursor) (typeinfo.Info, bool) {
	n, err := strconv.Atoi(c.Spelling())
	if err != nil {
		return typeinfo.Info{}, false
	}
	return typeinfo.FromLiteral(n), true
}

// typeBinaryOperator implements rule 6: `*` types lhs (tagged SideLHS) and
// rhs (tagged SideRHS) and combines them via combine_mul; any other binary
// operator recurses into children in order and returns the first typed
// sub-expression, so rhs is only visited when lhs yields no type.
func typeBinaryOperator(ctx *Context, c cursor.Cursor) (typeinfo.Info, bool) {
	op, hasOp := c.ChildByField("operator")
	left, hasLeft := c.ChildByField("left")
	right, hasRight := c.ChildByField("right")
	if !hasOp || !hasLeft || !hasRight || op.Spelling() != "*" {
		return typeRecurseChildren(ctx, c)
	}

	lhsInfo, lhsOK := Type(ctx, left, SideLHS)
	rhsInfo, rhsOK := Type(ctx, right, SideRHS)
	if !lhsOK || !rhsOK {
		return typeinfo.Info{}, false
	}
	return typeinfo.CombineMul(lhsInfo, rhsInfo), true
}

// typeMemberRef implements rule 7: canonicalize the member access, then try
// the scoped environment (rule 2) or prior-types table (rule 3) under that
// canonical name; failing both, type the object prefix and return its type
// if any.
func typeMemberRef(ctx *Context, c cursor.Cursor) (typeinfo.Info, bool) {
	if ctx.Canonicalize != nil {
		name := ctx.Canonicalize(c)
		if info, ok := ctx.Scope.Get(name); ok {
			return info, true
		}
		if info, ok := ctx.PriorTypes.Lookup(name); ok {
			return info, true
		}
	}
	if obj, ok := c.ChildByField("argument"); ok {
		return Type(ctx, obj, SideNone)
	}
	return typeRecurseChildren(ctx, c)
}

// typeRecurseChildren implements rule 8: recurse into children in order,
// returning the first one that produces a type.
func typeRecurseChildren(ctx *Context, c cursor.Cursor) (typeinfo.Info, bool) {
	for _, child := range c.Children() {
		if info, ok := Type(ctx, child, SideNone); ok {
			return info, true
		}
	}
	return typeinfo.Info{}, false
}
