package walker

import (
	"testing"

	"github.com/uframe/uframe/internal/cursor"
	"github.com/uframe/uframe/internal/dimension"
	"github.com/uframe/uframe/internal/env"
	"github.com/uframe/uframe/internal/msgspec"
	"github.com/uframe/uframe/internal/priortypes"
	"github.com/uframe/uframe/internal/summary"
	"github.com/uframe/uframe/internal/typeinfo"
	"github.com/uframe/uframe/internal/units"
)

// fakeCursor is the hand-built cursor.Cursor test double spec §8 calls for:
// scenarios (a)-(f) run against it directly, without invoking cxxast or a
// real parser.
type fakeCursor struct {
	kind         cursor.Kind
	spelling     string
	typeSpelling string
	usr          string
	location     cursor.Location
	fields       map[string]*fakeCursor
	kids         []*fakeCursor
}

func (f *fakeCursor) Kind() cursor.Kind         { return f.kind }
func (f *fakeCursor) Spelling() string          { return f.spelling }
func (f *fakeCursor) TypeSpelling() string      { return f.typeSpelling }
func (f *fakeCursor) Linkage() cursor.Linkage   { return cursor.LinkageExternal }
func (f *fakeCursor) Location() cursor.Location { return f.location }
func (f *fakeCursor) USR() string {
	if f.usr != "" {
		return f.usr
	}
	return f.spelling
}
func (f *fakeCursor) Children() []cursor.Cursor {
	out := make([]cursor.Cursor, len(f.kids))
	for i, k := range f.kids {
		out[i] = k
	}
	return out
}
func (f *fakeCursor) ChildByField(field string) (cursor.Cursor, bool) {
	c, ok := f.fields[field]
	if !ok {
		return nil, false
	}
	return c, true
}

func declRef(name, typeName string) *fakeCursor {
	return &fakeCursor{kind: cursor.KindDeclRefExpr, spelling: name, typeSpelling: typeName}
}

func memberRef(obj *fakeCursor, field string) *fakeCursor {
	return &fakeCursor{
		kind:     cursor.KindMemberRefExpr,
		spelling: field,
		fields: map[string]*fakeCursor{
			"argument": obj,
			"field":    {kind: cursor.KindFieldDecl, spelling: field},
		},
	}
}

func compound(kids ...*fakeCursor) *fakeCursor {
	return &fakeCursor{kind: cursor.KindCompoundStmt, kids: kids}
}

func parmDecl(name, typeName string) *fakeCursor {
	return &fakeCursor{kind: cursor.KindParmDecl, spelling: name, typeSpelling: typeName}
}

// paren wraps inner the way tree-sitter-c/cpp wraps an if/switch condition
// in a parenthesized_expression.
func paren(inner *fakeCursor) *fakeCursor {
	return &fakeCursor{kind: cursor.KindParenExpr, kids: []*fakeCursor{inner}}
}

// varDecl builds a "declaration" fakeCursor the way tree-sitter-c/cpp
// shapes one: a bare identifier declarator when there's no initializer, an
// init_declarator wrapping the identifier and the initializer's "value"
// field otherwise.
func varDecl(name, typeName string, init *fakeCursor) *fakeCursor {
	identifier := &fakeCursor{kind: cursor.KindDeclRefExpr, spelling: name}
	declarator := identifier
	if init != nil {
		declarator = &fakeCursor{
			fields: map[string]*fakeCursor{
				"declarator": identifier,
				"value":      init,
			},
		}
	}
	return &fakeCursor{
		kind:         cursor.KindVarDecl,
		typeSpelling: typeName,
		fields:       map[string]*fakeCursor{"declarator": declarator},
	}
}

func funcDecl(name, usr string, parms []*fakeCursor, body *fakeCursor) *fakeCursor {
	kids := make([]*fakeCursor, 0, len(parms)+1)
	kids = append(kids, parms...)
	if body != nil {
		kids = append(kids, body)
	}
	return &fakeCursor{kind: cursor.KindFunctionDecl, spelling: name, usr: usr, kids: kids}
}

func frameSpec() *msgspec.Spec {
	return &msgspec.Spec{
		Dialect:    msgspec.DialectMAVLink,
		FrameField: map[string]string{"VehicleState": "frame"},
		FieldUnits: map[string]map[string]string{"VehicleState": {"x": "meter"}},
	}
}

func newWalker(spec *msgspec.Spec, priors priortypes.Table) *Walker {
	return &Walker{
		Spec:       spec,
		Units:      units.New(),
		PriorTypes: priors,
		Shared:     summary.NewSharedTables(1),
	}
}

func TestScenarioAUnconstrainedFrameEmitsBug(t *testing.T) {
	w := newWalker(frameSpec(), priortypes.Table{})
	fn := funcDecl("readState", "usr-a", []*fakeCursor{parmDecl("p", "VehicleState")}, compound())

	w.WalkFunction(fn)

	diags := w.Diagnostics()
	if len(diags) != 1 || diags[0].Kind != KindUnconstrainedFrame || diags[0].Function != "readState" {
		t.Fatalf("expected exactly one unconstrained-frame diagnostic, got %+v", diags)
	}
}

func TestScenarioBConstrainedFrameSuppressesBug(t *testing.T) {
	w := newWalker(frameSpec(), priortypes.Table{})

	pRef := declRef("p", "VehicleState")
	frameAccess := memberRef(pRef, "frame")
	cond := &fakeCursor{
		kind:     cursor.KindBinaryOperator,
		spelling: "==",
		fields: map[string]*fakeCursor{
			"operator": {kind: cursor.KindUnknown, spelling: "=="},
			"left":     frameAccess,
			"right":    declRef("MAV_FRAME_GLOBAL", ""),
		},
	}
	ifStmt := &fakeCursor{
		kind: cursor.KindIfStmt,
		fields: map[string]*fakeCursor{
			"condition":   paren(cond),
			"consequence": compound(),
		},
	}
	fn := funcDecl("readState", "usr-b", []*fakeCursor{parmDecl("p", "VehicleState")}, compound(ifStmt))

	w.WalkFunction(fn)

	for _, d := range w.Diagnostics() {
		if d.Kind == KindUnconstrainedFrame {
			t.Fatalf("expected no unconstrained-frame diagnostic once guarded by an if, got %+v", w.Diagnostics())
		}
	}
}

func TestScenarioCStoreUnitMismatch(t *testing.T) {
	tbl := units.New()
	meterID := tbl.GetOrAllocate("meter")
	cmID := tbl.GetOrAllocate("centimeter")

	priors := priortypes.Table{
		"Class::altitude_cm": typeinfo.Info{Units: typeinfo.UnitSet{cmID: {}}},
		"meters_value":        typeinfo.Info{Units: typeinfo.UnitSet{meterID: {}}},
	}
	w := newWalker(nil, priors)
	w.Units = tbl

	objRef := declRef("c", "Class")
	lhs := memberRef(objRef, "altitude_cm")
	rhs := declRef("meters_value", "")
	store := &fakeCursor{
		kind:     cursor.KindBinaryOperator,
		spelling: "=",
		location: cursor.Location{File: "foo.cpp", Line: 42},
		fields: map[string]*fakeCursor{
			"operator": {kind: cursor.KindUnknown, spelling: "="},
			"left":     lhs,
			"right":    rhs,
		},
	}
	fn := funcDecl("setAltitude", "usr-c", nil, compound(store))

	w.WalkFunction(fn)

	var found *Diagnostic
	for i := range w.Diagnostics() {
		if w.Diagnostics()[i].Kind == KindIncorrectStore {
			found = &w.Diagnostics()[i]
		}
	}
	if found == nil {
		t.Fatalf("expected an Incorrect store diagnostic, got %+v", w.Diagnostics())
	}
	if found.Variable != "Class::altitude_cm" || found.File != "foo.cpp" || found.Line != 42 {
		t.Fatalf("unexpected diagnostic fields: %+v", found)
	}
	if found.GotUnit != "meter" || found.WantUnit != "centimeter" {
		t.Fatalf("expected got=meter want=centimeter, got got=%q want=%q", found.GotUnit, found.WantUnit)
	}
}

func TestScenarioESwitchOnFrameEmitsFrameSwitchNotBug(t *testing.T) {
	w := newWalker(frameSpec(), priortypes.Table{})

	pRef := declRef("p", "VehicleState")
	frameAccess := memberRef(pRef, "frame")
	switchStmt := &fakeCursor{
		kind: cursor.KindSwitchStmt,
		fields: map[string]*fakeCursor{
			"condition": paren(frameAccess),
			"body":      compound(),
		},
	}
	fn := funcDecl("dispatchState", "usr-e", []*fakeCursor{parmDecl("p", "VehicleState")}, compound(switchStmt))

	w.WalkFunction(fn)

	var sawSwitch, sawBug bool
	for _, d := range w.Diagnostics() {
		switch d.Kind {
		case KindFrameSwitch:
			sawSwitch = true
		case KindUnconstrainedFrame:
			sawBug = true
		}
	}
	if !sawSwitch {
		t.Fatalf("expected a frame-switch diagnostic, got %+v", w.Diagnostics())
	}
	if sawBug {
		t.Fatalf("did not expect an unconstrained-frame diagnostic once the switch constrains the frame")
	}
}

func TestScenarioDLiteralMultiplicationCarriesDimension(t *testing.T) {
	meterDim := dimension.Dimension{Num: 1, Den: 1}
	meterDim.Coefficients[0] = 1
	priors := priortypes.Table{
		"meters_value": typeinfo.Info{Dimension: &meterDim},
	}
	w := newWalker(nil, priors)

	mul := &fakeCursor{
		kind: cursor.KindBinaryOperator,
		fields: map[string]*fakeCursor{
			"operator": {kind: cursor.KindUnknown, spelling: "*"},
			"left":     declRef("meters_value", ""),
			"right":    &fakeCursor{kind: cursor.KindIntegerLiteral, spelling: "100"},
		},
	}
	decl := varDecl("x", "auto", mul)

	scope := env.New()
	fs := &funcState{params: map[string]int{}, summary: summary.NewFunction("compute", "usr-d")}
	w.visitVarDecl(decl, scope, fs)

	info, ok := scope.Get("x")
	if !ok {
		t.Fatalf("expected x to be bound in scope after auto x = meters_value * 100")
	}
	want := dimension.Mul(meterDim, dimension.Scalar(100))
	if info.Dimension == nil || !dimension.Eq(*info.Dimension, want) {
		t.Fatalf("expected x's dimension to be meter*100/1, got %+v", info.Dimension)
	}
}

func TestVisitVarDeclRecoversNameFromDeclarator(t *testing.T) {
	w := newWalker(frameSpec(), priortypes.Table{})
	decl := varDecl("p", "VehicleState", nil)

	scope := env.New()
	fs := &funcState{params: map[string]int{}, summary: summary.NewFunction("setup", "usr-decl")}
	w.visitVarDecl(decl, scope, fs)

	if _, ok := scope.Get("p::x"); !ok {
		t.Fatalf("expected a framed declaration named %q to expand its inner fields as %q, got vars", "p", "p::x")
	}
}

func TestVisitParmDeclExpandsFramedFieldsIntoScope(t *testing.T) {
	w := newWalker(frameSpec(), priortypes.Table{})
	scope := env.New()
	fs := &funcState{params: map[string]int{}, summary: summary.NewFunction("readState", "usr-parm")}

	w.visitParmDecl(parmDecl("p", "VehicleState"), scope, fs)

	info, ok := scope.Get("p::x")
	if !ok {
		t.Fatalf("expected a framed parameter's inner field to be bound into scope as p::x")
	}
	if len(info.Source) != 1 || info.Source[0].Kind != typeinfo.Intrinsic {
		t.Fatalf("expected p::x's provenance to be Intrinsic, got %+v", info.Source)
	}
}

func TestVisitParmDeclBindsPlainParameterAsUniversal(t *testing.T) {
	w := newWalker(nil, priortypes.Table{})
	scope := env.New()
	fs := &funcState{params: map[string]int{}, summary: summary.NewFunction("helper", "usr-parm-plain")}

	w.visitParmDecl(parmDecl("n", "int"), scope, fs)

	info, ok := scope.Get("n")
	if !ok {
		t.Fatalf("expected a plain parameter to be bound into scope rather than left unresolved")
	}
	if len(info.Source) != 1 || info.Source[0].Kind != typeinfo.Param || info.Source[0].ParamIndex != 0 {
		t.Fatalf("expected n's provenance to be Param(0), got %+v", info.Source)
	}
}

func TestScenarioFDuplicateDefinitionAcrossTUsDeduplicates(t *testing.T) {
	shared := summary.NewSharedTables(2)

	w0 := newWalker(nil, priortypes.Table{})
	w0.Shared = shared
	w0.TUIndex = 0
	fn0 := funcDecl("helper", "usr-shared", nil, compound())
	w0.WalkFunction(fn0)

	w1 := newWalker(nil, priortypes.Table{})
	w1.Shared = shared
	w1.TUIndex = 1
	fn1 := funcDecl("helper", "usr-shared", nil, compound())
	w1.WalkFunction(fn1)

	all := shared.AllFunctions()
	if len(all) != 1 {
		t.Fatalf("expected exactly one summary for a USR seen from two translation units, got %d", len(all))
	}
}
