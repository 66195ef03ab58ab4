// Package cursor defines the narrow AST-cursor abstraction the walker and
// typer depend on, so that internal/cxxast's tree-sitter implementation is
// the only package that knows about a concrete parser.
//
// Grounded on _examples/davidkellis-able/v12/interpreters/go/pkg/parser's
// node-accessor style (Kind()/NamedChild()/ChildByFieldName()), adapted from
// a single-language Go-source AST to the multi-kind C/C++ surface the
// original's libclang-based cursor (see
// _examples/original_source/src/main.cpp, CXCursor usage throughout
// function_ast_walker) exposes.
package cursor

// Kind identifies the syntactic category of a Cursor, generalized from the
// original's CXCursorKind values that the walker actually switches on.
type Kind int

const (
	KindUnknown Kind = iota
	KindTranslationUnit
	KindFunctionDecl
	KindParmDecl
	KindVarDecl
	KindFieldDecl
	KindCompoundStmt
	KindIfStmt
	KindForStmt
	KindWhileStmt
	KindDoStmt
	KindSwitchStmt
	KindCaseStmt
	KindDefaultStmt
	KindBreakStmt
	KindReturnStmt
	KindBinaryOperator
	KindUnaryOperator
	KindDeclRefExpr
	KindMemberRefExpr
	KindCallExpr
	KindIntegerLiteral
	KindFloatingLiteral
	KindInitListExpr
	KindCStyleCastExpr
	KindParenExpr
	KindCompoundAssignOperator
)

// Linkage mirrors the subset of clang linkage kinds the original cares
// about when deciding whether a FunctionDecl is externally callable from
// another translation unit (spec §4.6 reachability roots).
type Linkage int

const (
	LinkageUnknown Linkage = iota
	LinkageInternal
	LinkageExternal
)

// Location is a source position, for diagnostic reporting (spec §3
// "Diagnostic").
type Location struct {
	File   string
	Line   int
	Column int
}

// Cursor is a read-only node in a parsed translation unit's AST. A concrete
// implementation lives in internal/cxxast; internal/walker and
// internal/typer only ever see this interface, so they can be unit tested
// against a fake without invoking a real parser.
type Cursor interface {
	Kind() Kind
	Spelling() string
	TypeSpelling() string
	Linkage() Linkage
	Location() Location
	USR() string
	Children() []Cursor
	ChildByField(field string) (Cursor, bool)
}

// FirstOfKind returns the first direct child of c whose Kind matches want,
// or (nil, false) if none does. Several walker rules (spec §4.5) only need
// "the first X child", not a full traversal.
func FirstOfKind(c Cursor, want Kind) (Cursor, bool) {
	for _, child := range c.Children() {
		if child.Kind() == want {
			return child, true
		}
	}
	return nil, false
}

// Walk calls visit for c and then recursively for every descendant, in
// pre-order. visit returning false skips c's children (but Walk still
// continues with c's siblings via the caller's own loop).
func Walk(c Cursor, visit func(Cursor) bool) {
	if !visit(c) {
		return
	}
	for _, child := range c.Children() {
		Walk(child, visit)
	}
}
