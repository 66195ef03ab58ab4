package cxxast

import (
	"testing"

	"github.com/uframe/uframe/internal/cursor"
)

func TestCanLoadCPPGrammar(t *testing.T) {
	p, err := New(DialectCPP)
	if err != nil {
		t.Fatalf("New(DialectCPP): %v", err)
	}
	defer p.Close()
}

func TestCanLoadCGrammar(t *testing.T) {
	p, err := New(DialectC)
	if err != nil {
		t.Fatalf("New(DialectC): %v", err)
	}
	defer p.Close()
}

func TestParseFindsFunctionDeclAndParams(t *testing.T) {
	p, err := New(DialectCPP)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	source := []byte(`
void setAltitude(Class *c, double meters_value) {
    c->altitude_cm = meters_value;
}
`)
	tree, err := p.Parse("test.cpp", source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	var fn cursor.Cursor
	cursor.Walk(tree.Root(), func(c cursor.Cursor) bool {
		if c.Kind() == cursor.KindFunctionDecl {
			fn = c
			return false
		}
		return true
	})
	if fn == nil {
		t.Fatalf("expected to find a FunctionDecl in the parsed tree")
	}

	var sawParam, sawAssign bool
	cursor.Walk(fn, func(c cursor.Cursor) bool {
		switch c.Kind() {
		case cursor.KindParmDecl:
			sawParam = true
		case cursor.KindCompoundAssignOperator, cursor.KindBinaryOperator:
			sawAssign = true
		}
		return true
	})
	if !sawParam {
		t.Errorf("expected at least one ParmDecl child")
	}
	if !sawAssign {
		t.Errorf("expected an assignment inside the function body")
	}
}

func TestLocationReportsOneBasedLineAndColumn(t *testing.T) {
	p, err := New(DialectCPP)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	tree, err := p.Parse("loc.cpp", []byte("int x;\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	loc := tree.Root().Location()
	if loc.Line < 1 || loc.Column < 1 {
		t.Fatalf("expected 1-based line/column, got %+v", loc)
	}
	if loc.File != "loc.cpp" {
		t.Fatalf("expected file to be the path passed to Parse, got %q", loc.File)
	}
}
