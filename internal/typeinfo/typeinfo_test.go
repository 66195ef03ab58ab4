package typeinfo

import (
	"testing"

	"github.com/uframe/uframe/internal/dimension"
	"github.com/uframe/uframe/internal/frame"
	"github.com/uframe/uframe/internal/units"
)

func TestMergeUnionsFramesAndUnits(t *testing.T) {
	a := Info{Frames: frame.Of(frame.Global), Units: unitSetOf(0), Source: []Source{{Kind: Param, ParamIndex: 0}}}
	b := Info{Frames: frame.Of(frame.LocalNED), Units: unitSetOf(1), Source: []Source{{Kind: Intrinsic}}}

	got := Merge(a, b)
	if !frame.Equal(got.Frames, frame.Of(frame.Global, frame.LocalNED)) {
		t.Fatalf("Frames not unioned: %+v", got.Frames)
	}
	if !equalUnits(got.Units, unitSetOf(0, 1)) {
		t.Fatalf("Units not unioned: %+v", got.Units)
	}
	if len(got.Source) != 2 {
		t.Fatalf("Source not appended: %+v", got.Source)
	}
}

func TestUniversalCoversEveryFrameAndUnit(t *testing.T) {
	u := Universal(3)
	if !frame.Equal(u.Frames, frame.Any()) {
		t.Fatalf("Universal frames should be frame.Any(): %+v", u.Frames)
	}
	for i := 0; i < 3; i++ {
		if _, ok := u.Units[units.ID(i)]; !ok {
			t.Fatalf("Universal missing unit %d", i)
		}
	}
	if u.Dimension != nil {
		t.Fatalf("Universal should carry no dimension")
	}
}

func TestFromLiteralCarriesScalarDimension(t *testing.T) {
	info := FromLiteral(5)
	if info.Dimension == nil {
		t.Fatalf("FromLiteral should set a dimension")
	}
	if !dimension.Eq(*info.Dimension, dimension.Scalar(5)) {
		t.Fatalf("got dimension %+v, want scalar(5)", *info.Dimension)
	}
	if len(info.Frames) != 0 || len(info.Units) != 0 {
		t.Fatalf("FromLiteral should carry no frame/unit admissibility")
	}
}

func TestCombineMulUnionsRatherThanIntersects(t *testing.T) {
	// Per the preserved redesign-flag decision: combine_mul unions frame and
	// unit sets even though a naive reading might expect intersection.
	lhs := Info{Frames: frame.Of(frame.Global), Units: unitSetOf(0)}
	rhs := Info{Frames: frame.Of(frame.LocalNED), Units: unitSetOf(1)}

	got := CombineMul(lhs, rhs)
	if !frame.Equal(got.Frames, frame.Of(frame.Global, frame.LocalNED)) {
		t.Fatalf("expected union of frames, got %+v", got.Frames)
	}
	if !equalUnits(got.Units, unitSetOf(0, 1)) {
		t.Fatalf("expected union of units, got %+v", got.Units)
	}
}

func TestCombineMulMultipliesDimensionsWhenBothPresent(t *testing.T) {
	m := dimension.Scalar(3)
	n := dimension.Scalar(4)
	lhs := Info{Dimension: &m}
	rhs := Info{Dimension: &n}

	got := CombineMul(lhs, rhs)
	if got.Dimension == nil {
		t.Fatalf("expected a combined dimension")
	}
	if !dimension.Eq(*got.Dimension, dimension.Scalar(12)) {
		t.Fatalf("got %+v want scalar(12)", *got.Dimension)
	}
}

func TestCombineMulDropsDimensionWhenEitherMissing(t *testing.T) {
	m := dimension.Scalar(3)
	lhs := Info{Dimension: &m}
	rhs := Info{}

	got := CombineMul(lhs, rhs)
	if got.Dimension != nil {
		t.Fatalf("expected no dimension when one operand lacks one, got %+v", got.Dimension)
	}
}

func TestEqualDistinguishesZeroFromUniversal(t *testing.T) {
	if Equal(Zero, Universal(2)) {
		t.Fatalf("Zero should not equal Universal")
	}
	if !Zero.IsZero() {
		t.Fatalf("Zero.IsZero() should be true")
	}
	if Universal(2).IsZero() {
		t.Fatalf("Universal should not be zero")
	}
}
