// Package typeinfo implements the TypeInfo lattice element (spec §3, §4.2):
// the admissible-frame set, admissible-unit set, provenance list, and
// optional dimension carried through the analysis.
package typeinfo

import (
	"github.com/uframe/uframe/internal/dimension"
	"github.com/uframe/uframe/internal/frame"
	"github.com/uframe/uframe/internal/units"
)

// SourceKind tags where a TypeInfo came from.
type SourceKind int

const (
	Intrinsic SourceKind = iota
	Param
	Unknown
)

// Source explains the provenance of one contribution to a TypeInfo.
type Source struct {
	Kind       SourceKind
	ParamIndex int
	Note       string
}

// UnitSet is an admissible-unit set, as carried by Info.
type UnitSet map[units.ID]struct{}

func unitSetOf(ids ...units.ID) UnitSet {
	s := make(UnitSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func unionUnits(a, b UnitSet) UnitSet {
	out := make(UnitSet, len(a)+len(b))
	for id := range a {
		out[id] = struct{}{}
	}
	for id := range b {
		out[id] = struct{}{}
	}
	return out
}

func equalUnits(a, b UnitSet) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

// Any picks an arbitrary element of s (spec §4.5.1 step 3: "if multiple, the
// arbitrarily-last one in iteration order" — Go map iteration order is
// itself arbitrary, which is the same observable nondeterminism the
// original's set iteration had).
func (s UnitSet) Any() (units.ID, bool) {
	for id := range s {
		return id, true
	}
	return 0, false
}

// Info is the TypeInfo lattice element: a set of admissible frames, a set of
// admissible unit IDs, a provenance list, and an optional dimension.
//
// Invariant: the empty set means "no information contributed from this
// branch yet" and is never treated as equal to "any" by Equal.
type Info struct {
	Frames    frame.Set
	Units     UnitSet
	Source    []Source
	Dimension *dimension.Dimension
}

// Zero is the empty TypeInfo: no frames, no units, no source, no dimension.
var Zero = Info{}

// Merge set-unions Frames and Units from src into dst, appends src's
// Source list, and leaves dst.Dimension unchanged — dimension is set, not
// merged (spec §4.2).
func Merge(dst, src Info) Info {
	out := Info{
		Frames:    frame.Union(dst.Frames, src.Frames),
		Units:     unionUnits(dst.Units, src.Units),
		Source:    append(append([]Source{}, dst.Source...), src.Source...),
		Dimension: dst.Dimension,
	}
	return out
}

// Universal returns the conservative top: every frame except frame.None,
// every unit ID in [0, numUnits), tagged Unknown, no dimension.
func Universal(numUnits int) Info {
	ids := make([]units.ID, numUnits)
	for i := range ids {
		ids[i] = units.ID(i)
	}
	return Info{
		Frames: frame.Any(),
		Units:  unitSetOf(ids...),
		Source: []Source{{Kind: Unknown}},
	}
}

// WithParamSource returns a Universal TypeInfo tagged Param with the given
// parameter index, per spec §4.4 rule 1 and §4.5 ParmDecl handling.
func WithParamSource(numUnits, paramIndex int) Info {
	info := Universal(numUnits)
	info.Source = []Source{{Kind: Param, ParamIndex: paramIndex}}
	return info
}

// FromLiteral returns the TypeInfo for an integer literal: empty frame/unit
// sets, a scalar dimension n/1 (spec §4.2).
func FromLiteral(n int) Info {
	d := dimension.Scalar(n)
	return Info{Dimension: &d}
}

// CombineMul implements combine_mul per spec §4.2 and REDESIGN-FLAG/open
// question 1: frames and units are set-unioned (NOT intersected — this
// mirrors the source's observable behavior on purpose, see DESIGN.md),
// dimension is lhs.Dimension * rhs.Dimension. Both operands must carry a
// dimension or the result carries none.
func CombineMul(lhs, rhs Info) Info {
	out := Info{
		Frames: frame.Union(lhs.Frames, rhs.Frames),
		Units:  unionUnits(lhs.Units, rhs.Units),
	}
	if lhs.Dimension != nil && rhs.Dimension != nil {
		d := dimension.Mul(*lhs.Dimension, *rhs.Dimension)
		out.Dimension = &d
	}
	return out
}

// Equal is structural equality over every field, per spec §3.
func Equal(a, b Info) bool {
	if !frame.Equal(a.Frames, b.Frames) {
		return false
	}
	if !equalUnits(a.Units, b.Units) {
		return false
	}
	if len(a.Source) != len(b.Source) {
		return false
	}
	for i := range a.Source {
		if a.Source[i] != b.Source[i] {
			return false
		}
	}
	switch {
	case a.Dimension == nil && b.Dimension == nil:
		return true
	case a.Dimension == nil || b.Dimension == nil:
		return false
	default:
		return dimension.Eq(*a.Dimension, *b.Dimension)
	}
}

// IsZero reports whether info carries no information at all: empty frame
// and unit sets, no source, no dimension. Per the package invariant this is
// distinct from Universal.
func (info Info) IsZero() bool {
	return len(info.Frames) == 0 && len(info.Units) == 0 && len(info.Source) == 0 && info.Dimension == nil
}

// WithIntrinsicFrames returns a new TypeInfo with every non-None frame ID
// admissible, exactly the given unit ID admissible, and source as its only
// provenance entry. Used when
// expanding a framed message's inner fields (spec §4.5 VarDecl/ParmDecl).
func WithIntrinsicFrames(unit units.ID, source Source) Info {
	return Info{
		Frames: frame.Any(),
		Units:  unitSetOf(unit),
		Source: []Source{source},
	}
}
