// Package walker implements the per-function pass (spec §4.5): it drives
// the scoped type environment, enters scopes on branches/loops/switches,
// records declarations and stores, detects frame-constraining predicates,
// and emits per-function summaries plus the diagnostics listed in spec §6.
//
// Grounded on _examples/original_source/src/main.cpp's function_ast_walker
// and check_tainted_store, with the thread-local semantic_context and
// ctaw_childno state converted into explicit parameters/struct fields per
// spec §9's re-architecture note and SPEC_FULL.md §4's redesign.
package walker

import (
	"fmt"
	"io"

	"github.com/uframe/uframe/internal/cursor"
	"github.com/uframe/uframe/internal/env"
	"github.com/uframe/uframe/internal/msgspec"
	"github.com/uframe/uframe/internal/priortypes"
	"github.com/uframe/uframe/internal/summary"
	"github.com/uframe/uframe/internal/typeinfo"
	"github.com/uframe/uframe/internal/typer"
	"github.com/uframe/uframe/internal/units"
)

// Diagnostic is one emitted finding, shaped to match spec §6's four stdout
// line forms exactly via String().
type Diagnostic struct {
	Kind     DiagnosticKind
	Function string
	Variable string
	File     string
	Line     int
	GotUnit  string
	WantUnit string
}

type DiagnosticKind int

const (
	KindUnconstrainedFrame DiagnosticKind = iota
	KindIncorrectStore
	KindFrameSwitch
)

func (d Diagnostic) String() string {
	switch d.Kind {
	case KindUnconstrainedFrame:
		return fmt.Sprintf("BUG: unconstrained MAV frame used in: %s", d.Function)
	case KindIncorrectStore:
		return fmt.Sprintf("Incorrect store to variable %s in %s line %d. Got type %s, expected type %s.",
			d.Variable, d.File, d.Line, d.GotUnit, d.WantUnit)
	case KindFrameSwitch:
		return "Found a MAVLink frame switch!"
	default:
		return ""
	}
}

// Walker runs the function pass over every FunctionDecl in one translation
// unit's AST, against the message spec, prior-types catalog, and unit
// table loaded once before workers start.
type Walker struct {
	Spec        *msgspec.Spec
	Units       *units.Table
	PriorTypes  priortypes.Table
	Shared      *summary.SharedTables
	TUIndex     int
	TUPath      string
	DebugWrites io.Writer // nil unless --debug-writes-file is set; spec §6 "Side file"

	diagnostics []Diagnostic
}

// Diagnostics returns every diagnostic emitted so far.
func (w *Walker) Diagnostics() []Diagnostic { return w.diagnostics }

func (w *Walker) emit(d Diagnostic) { w.diagnostics = append(w.diagnostics, d) }

// funcState tracks per-function bookkeeping that function_ast_walker kept
// in ASTContext fields: the class name for "this" qualification, the
// parameter index cursor, and the constraint flags checked on function
// exit.
type funcState struct {
	name             string
	usr              string
	className        string
	params           map[string]int
	nextParamIndex   int
	summary          *summary.Function
	hadMavConstraint bool
}

// WalkFunction processes one FunctionDecl cursor: binds its parameters, runs
// the body traversal, and publishes the resulting summary under its USR.
// Per spec §4.5's CompoundStmt dedup rule only the first publication of a
// USR is kept: a later occurrence of an already-published USR is still
// walked, but its summary and every diagnostic it produced are discarded.
//
// A tree-sitter function_definition keeps its name and parameter list on
// the nested function_declarator (reached through the "declarator" field
// chain), so both are read from there when present; a cursor without that
// chain supplies its name via Spelling() and its ParmDecls as direct
// children.
func (w *Walker) WalkFunction(fn cursor.Cursor) {
	usr := fn.USR()
	name := fn.Spelling()
	parms := fn.Children()
	for d, ok := fn.ChildByField("declarator"); ok; d, ok = d.ChildByField("declarator") {
		if plist, hasParams := d.ChildByField("parameters"); hasParams {
			parms = append(parms, plist.Children()...)
			if id, hasID := d.ChildByField("declarator"); hasID {
				name = id.Spelling()
			}
			break
		}
	}
	mark := len(w.diagnostics)

	fs := &funcState{
		name:      name,
		usr:       usr,
		className: enclosingClassName(name),
		params:    make(map[string]int),
		summary:   summary.NewFunction(name, usr),
	}

	body, hasBody := cursor.FirstOfKind(fn, cursor.KindCompoundStmt)
	fs.summary.HadDefinition = hasBody

	scope := env.New()
	for _, child := range parms {
		if child.Kind() == cursor.KindParmDecl {
			w.visitParmDecl(child, scope, fs)
		}
	}

	if hasBody {
		w.walkStmt(body, scope, fs)
	}

	fs.summary.HadFrameConstraint = fs.hadMavConstraint
	if !w.Shared.TryPublish(w.TUIndex, fs.summary) {
		w.diagnostics = w.diagnostics[:mark]
		return
	}

	if fs.summary.IntrinsicTouched && fs.summary.HadDefinition && !fs.hadMavConstraint {
		w.emit(Diagnostic{Kind: KindUnconstrainedFrame, Function: name})
	}
}

// enclosingClassName extracts "Class" from a "Class::method" spelling, the
// "innermost path component of the current semantic context" per spec
// §4.3. A free function has no class, so this returns "".
func enclosingClassName(qualifiedName string) string {
	for i := len(qualifiedName) - 1; i > 0; i-- {
		if qualifiedName[i] == ':' && qualifiedName[i-1] == ':' {
			return qualifiedName[:i-1]
		}
	}
	return ""
}

// visitParmDecl implements spec §4.5's ParmDecl rule: a framed parameter has
// its inner fields expanded into the function's scope with INTRINSIC
// provenance, grounded on the original's add_inner_vars
// (_examples/original_source/src/main.cpp:1145); a plain parameter is bound
// by its bare name into scope as the conservative Universal/Param type, per
// add_unknown_param, so a later read of it resolves to something rather than
// silently missing scope and degrading further to universal-by-absence.
func (w *Walker) visitParmDecl(parm cursor.Cursor, scope *env.Scope, fs *funcState) {
	idx := fs.nextParamIndex
	fs.nextParamIndex++
	name, _, _ := declaratorNameAndInit(parm)
	fs.params[name] = idx

	typeName := parm.TypeSpelling()
	if w.Spec != nil && w.Spec.IsFramedType(typeName) {
		w.expandFramedFields(name, typeName, scope, fs)
		fs.summary.IntrinsicTouched = true
		fs.summary.ParamSourceKind[idx] = typeinfo.Intrinsic
		return
	}
	scope.Set(name, typeinfo.WithParamSource(w.Units.Len(), idx))
	fs.summary.ParamSourceKind[idx] = typeinfo.Unknown
}

func (w *Walker) typerContext(scope *env.Scope, fs *funcState) *typer.Context {
	return &typer.Context{
		Params:       fs.params,
		Scope:        scope,
		PriorTypes:   w.PriorTypes,
		Shared:       w.Shared,
		NumUnits:     w.Units.Len(),
		Canonicalize: func(c cursor.Cursor) string { return w.canonicalize(c, fs) },
	}
}

// walkStmt dispatches a statement-position cursor per spec §4.5. The
// IF_CONDITION/SWITCH_STMT states of the §4.5 state machine are realized
// directly in walkIfStmt/walkSwitch below, which check their predicate
// child the moment they visit it rather than threading a transient flag
// through the general recursion.
func (w *Walker) walkStmt(c cursor.Cursor, scope *env.Scope, fs *funcState) {
	switch c.Kind() {
	case cursor.KindCompoundStmt:
		for _, child := range c.Children() {
			w.walkStmt(child, scope, fs)
		}
	case cursor.KindIfStmt:
		w.walkIfStmt(c, scope, fs)
	case cursor.KindForStmt, cursor.KindWhileStmt, cursor.KindDoStmt:
		w.walkLoop(c, scope, fs)
	case cursor.KindSwitchStmt:
		w.walkSwitch(c, scope, fs)
	case cursor.KindBreakStmt:
		env.Unify(scope.Parent(), scope)
	case cursor.KindVarDecl:
		w.visitVarDecl(c, scope, fs)
	case cursor.KindBinaryOperator:
		if op, ok := c.ChildByField("operator"); ok && op.Spelling() == "=" {
			w.handleStore(c, scope, fs)
		}
	case cursor.KindCompoundAssignOperator:
		w.handleStore(c, scope, fs)
	case cursor.KindCallExpr:
		w.visitCallExpr(c, scope, fs)
	default:
		for _, child := range c.Children() {
			w.walkStmt(child, scope, fs)
		}
	}
}

// walkIfStmt implements the If handling in spec §4.5: the predicate is
// checked for a frame-constraining equality test (the IF_CONDITION state),
// then the body gets a fresh scope that is unified into the parent on
// exit.
func (w *Walker) walkIfStmt(c cursor.Cursor, scope *env.Scope, fs *funcState) {
	if cond, ok := c.ChildByField("condition"); ok {
		w.checkIfConstraint(unwrapParen(cond), fs)
	}

	childScope := scope.Push()
	if then, ok := c.ChildByField("consequence"); ok {
		w.walkStmt(then, childScope, fs)
	}
	env.Unify(scope, childScope)

	if alt, ok := c.ChildByField("alternative"); ok {
		altScope := scope.Push()
		w.walkStmt(alt, altScope, fs)
		env.Unify(scope, altScope)
	}
}

func (w *Walker) walkLoop(c cursor.Cursor, scope *env.Scope, fs *funcState) {
	childScope := scope.Push()
	if body, ok := c.ChildByField("body"); ok {
		w.walkStmt(body, childScope, fs)
	}
	env.Unify(scope, childScope)
}

func (w *Walker) walkSwitch(c cursor.Cursor, scope *env.Scope, fs *funcState) {
	if selector, ok := c.ChildByField("condition"); ok {
		w.checkSwitchConstraint(unwrapParen(selector), scope, fs)
	}

	childScope := scope.Push()
	if body, ok := c.ChildByField("body"); ok {
		w.walkStmt(body, childScope, fs)
	}
	// REDESIGN-FLAG 2: unify child into parent, the intended behavior —
	// not the source's accidental self-unify no-op.
	env.Unify(scope, childScope)
}

// unwrapParen strips the parenthesized_expression wrapper tree-sitter-c/cpp
// puts around an if/switch condition (→ cursor.KindParenExpr), returning
// its sole named child. A condition can nest parens (`if ((p.frame == K))`),
// so this unwraps repeatedly; a paren with no named child (malformed input)
// returns the paren node itself rather than panicking.
func unwrapParen(c cursor.Cursor) cursor.Cursor {
	for c.Kind() == cursor.KindParenExpr {
		children := c.Children()
		if len(children) == 0 {
			return c
		}
		c = children[0]
	}
	return c
}

// checkIfConstraint implements the IF_CONDITION state: a predicate of the
// form `member == member` where one side accesses a message's declared
// frame field sets hadMavConstraint.
func (w *Walker) checkIfConstraint(cond cursor.Cursor, fs *funcState) {
	if cond.Kind() != cursor.KindBinaryOperator {
		return
	}
	op, hasOp := cond.ChildByField("operator")
	left, hasLeft := cond.ChildByField("left")
	right, hasRight := cond.ChildByField("right")
	if !hasOp || !hasLeft || !hasRight || op.Spelling() != "==" {
		return
	}
	if w.accessesFrameField(left) || w.accessesFrameField(right) {
		fs.hadMavConstraint = true
	}
}

// checkSwitchConstraint implements the SWITCH_STMT state: switching on a
// frame field both sets hadMavConstraint and emits the "Found a MAVLink
// frame switch!" diagnostic (spec §4.5, §6, scenario (e)).
func (w *Walker) checkSwitchConstraint(selector cursor.Cursor, scope *env.Scope, fs *funcState) {
	if !w.accessesFrameField(selector) {
		return
	}
	fs.hadMavConstraint = true
	w.emit(Diagnostic{Kind: KindFrameSwitch})
}

// accessesFrameField reports whether c is a member access on a field the
// message spec declares as the frame selector of its owning type.
func (w *Walker) accessesFrameField(c cursor.Cursor) bool {
	if w.Spec == nil || c.Kind() != cursor.KindMemberRefExpr {
		return false
	}
	field, ok := c.ChildByField("field")
	if !ok {
		return false
	}
	obj, ok := c.ChildByField("argument")
	if !ok {
		return false
	}
	frameField, ok := w.Spec.FrameFieldOf(obj.TypeSpelling())
	return ok && frameField == field.Spelling()
}

// visitVarDecl implements spec §4.5's VarDecl rule. A tree-sitter
// "declaration" node's own Spelling() is the whole declaration's text, not
// the declared name, and any initializer lives on the nested
// init_declarator rather than on the declaration itself, so the name and
// initializer are recovered via declaratorNameAndInit instead.
func (w *Walker) visitVarDecl(c cursor.Cursor, scope *env.Scope, fs *funcState) {
	name, init, hasInit := declaratorNameAndInit(c)
	typeName := c.TypeSpelling()

	if w.Spec != nil && w.Spec.IsFramedType(typeName) {
		w.expandFramedFields(name, typeName, scope, fs)
		fs.summary.IntrinsicTouched = true
		return
	}

	if !hasInit {
		return
	}
	ctx := w.typerContext(scope, fs)
	info, ok := typer.Type(ctx, init, typer.SideNone)
	if ok {
		scope.Set(name, info)
	}
}

// declaratorNameAndInit resolves a declaration's "declarator" field down
// through pointer_declarator/reference_declarator/init_declarator wrappers
// to the identifier tree-sitter-c/cpp actually names, capturing an
// init_declarator's "value" field along the way if one is present.
func declaratorNameAndInit(c cursor.Cursor) (name string, init cursor.Cursor, hasInit bool) {
	declarator, ok := c.ChildByField("declarator")
	if !ok {
		return c.Spelling(), nil, false
	}
	for {
		if value, ok := declarator.ChildByField("value"); ok {
			init, hasInit = value, true
		}
		inner, ok := declarator.ChildByField("declarator")
		if !ok {
			break
		}
		declarator = inner
	}
	return declarator.Spelling(), init, hasInit
}

// expandFramedFields implements the "add inner fields into the current
// scope with full frame set and the unit dictated by the message spec"
// rule, grounded on the original's add_inner_vars.
func (w *Walker) expandFramedFields(varName, typeName string, scope *env.Scope, fs *funcState) {
	for field, unitName := range fieldsOf(w.Spec, typeName) {
		id := w.Units.GetOrAllocate(unitName)
		qualified := varName + "::" + field
		scope.Set(qualified, typeinfo.WithIntrinsicFrames(id, typeinfo.Source{Kind: typeinfo.Intrinsic, Note: typeName}))
	}
}

func fieldsOf(spec *msgspec.Spec, typeName string) map[string]string {
	if spec == nil {
		return nil
	}
	fields := make(map[string]string)
	for field := range spec.FieldUnits[typeName] {
		if unitName, ok := spec.UnitOf(typeName, field); ok {
			fields[field] = unitName
		}
	}
	return fields
}

// visitCallExpr implements spec §4.5's CallExpr rule: `operator=` calls are
// treated as a store; all others record each argument's TypeInfo into the
// function summary's calling context.
func (w *Walker) visitCallExpr(c cursor.Cursor, scope *env.Scope, fs *funcState) {
	callee, ok := c.ChildByField("function")
	if ok && callee.Spelling() == "operator=" {
		w.handleStore(c, scope, fs)
		return
	}

	calleeName := ""
	if ok {
		calleeName = callee.Spelling()
	}

	ctx := w.typerContext(scope, fs)
	var argTypes []typeinfo.Info
	for _, arg := range c.Children() {
		if arg == callee {
			continue
		}
		info, _ := typer.Type(ctx, arg, typer.SideNone)
		argTypes = append(argTypes, info)
	}
	fs.summary.RecordCall(calleeName, argTypes)
}

// handleStore implements spec §4.5.1's four-step store handler.
func (w *Walker) handleStore(c cursor.Cursor, scope *env.Scope, fs *funcState) {
	lhs, hasLHS := c.ChildByField("left")
	rhs, hasRHS := c.ChildByField("right")
	if !hasLHS || !hasRHS {
		lhs, hasLHS = c.ChildByField("argument1")
		rhs, hasRHS = c.ChildByField("argument2")
	}
	if !hasLHS || !hasRHS {
		return
	}

	ctx := w.typerContext(scope, fs)
	rhsInfo, ok := typer.Type(ctx, rhs, typer.SideRHS)
	if !ok {
		return
	}

	canonical := w.canonicalize(lhs, fs)

	if declared, interesting := w.PriorTypes.Lookup(canonical); interesting {
		if !typeinfo.Equal(rhsInfo, declared) {
			loc := c.Location()
			got, _ := rhsInfo.Units.Any()
			want, _ := declared.Units.Any()
			w.emit(Diagnostic{
				Kind:     KindIncorrectStore,
				Variable: canonical,
				File:     loc.File,
				Line:     loc.Line,
				GotUnit:  w.Units.Name(got),
				WantUnit: w.Units.Name(want),
			})
		}
		fs.summary.IntrinsicTouched = true
	}

	fs.summary.RecordStore(canonical, rhsInfo)
	scope.Set(canonical, rhsInfo)

	if w.DebugWrites != nil {
		fmt.Fprintln(w.DebugWrites, canonical)
	}
}

// canonicalize implements spec §4.3's name-qualification rule for the
// store handler's LHS (step 2) and the typer's member-ref rule 7.
//
// Grounded on the original's get_member_access_str/
// get_scope_resolution_operations, adapted: where the source falls back to
// a bare "localVar::field" form whenever a local decl-ref appears in the
// member spine, this renders the object's declared type as the qualifier
// instead (e.g. `c.altitude_cm` where `c Class` becomes "Class::
// altitude_cm"), so canonical names line up with the prior-types catalog's
// type-qualified keys (spec §8 scenario (c)) rather than a local variable's
// own name. A `this`-qualified access uses the enclosing method's class
// name, the "innermost path component of the current semantic context".
func (w *Walker) canonicalize(c cursor.Cursor, fs *funcState) string {
	if c.Kind() != cursor.KindMemberRefExpr {
		return c.Spelling()
	}
	field, ok := c.ChildByField("field")
	fieldName := c.Spelling()
	if ok {
		fieldName = field.Spelling()
	}

	obj, ok := c.ChildByField("argument")
	if !ok {
		return fieldName
	}

	if obj.Kind() == cursor.KindDeclRefExpr && obj.Spelling() == "this" {
		if fs.className == "" {
			return fieldName
		}
		return fs.className + "::" + fieldName
	}

	qualifier := obj.TypeSpelling()
	if qualifier == "" {
		qualifier = obj.Spelling()
	}
	return qualifier + "::" + fieldName
}
