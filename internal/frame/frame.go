// Package frame implements the fixed coordinate-frame enumeration described
// in spec §3 "Frame ID". The original's MAV_FRAME_* constants
// (see _examples/original_source/src/mav.hpp) are generalized here since a
// reimplementation must also support the LMCP/MDM dialect, which carries no
// frame notion at all and only ever produces frame.None.
package frame

// ID identifies a coordinate frame. None is the distinguished largest value;
// "any frame" is every ID strictly less than None.
type ID int

const (
	Global ID = iota
	LocalNED
	Mission
	GlobalRelativeAlt
	LocalENU
	GlobalInt
	GlobalRelativeAltInt
	LocalOffsetNED
	BodyNED
	BodyOffsetNED
	GlobalTerrainAlt
	GlobalTerrainAltInt
	BodyFRD
	LocalFRD
	LocalFLU

	// None is the strictly largest frame ID: "no specific frame constraint
	// applies", used as the sentinel upper bound for "any frame".
	None
)

var names = map[ID]string{
	Global:               "MAV_FRAME_GLOBAL",
	LocalNED:             "MAV_FRAME_LOCAL_NED",
	Mission:              "MAV_FRAME_MISSION",
	GlobalRelativeAlt:    "MAV_FRAME_GLOBAL_RELATIVE_ALT",
	LocalENU:             "MAV_FRAME_LOCAL_ENU",
	GlobalInt:            "MAV_FRAME_GLOBAL_INT",
	GlobalRelativeAltInt: "MAV_FRAME_GLOBAL_RELATIVE_ALT_INT",
	LocalOffsetNED:       "MAV_FRAME_LOCAL_OFFSET_NED",
	BodyNED:              "MAV_FRAME_BODY_NED",
	BodyOffsetNED:        "MAV_FRAME_BODY_OFFSET_NED",
	GlobalTerrainAlt:     "MAV_FRAME_GLOBAL_TERRAIN_ALT",
	GlobalTerrainAltInt:  "MAV_FRAME_GLOBAL_TERRAIN_ALT_INT",
	BodyFRD:              "MAV_FRAME_BODY_FRD",
	LocalFRD:             "MAV_FRAME_LOCAL_FRD",
	LocalFLU:             "MAV_FRAME_LOCAL_FLU",
	None:                 "MAV_FRAME_NONE",
}

var byName = func() map[string]ID {
	m := make(map[string]ID, len(names))
	for id, name := range names {
		m[name] = id
	}
	return m
}()

// Name returns the frame's symbolic name, or "" if id is not a known frame.
func Name(id ID) string { return names[id] }

// Lookup resolves a symbolic frame name (e.g. "MAV_FRAME_GLOBAL") to its ID.
// Unknown names resolve to None, matching the original's
// vars_to_typeinfo fallback for unrecognized frame strings.
func Lookup(name string) ID {
	if id, ok := byName[name]; ok {
		return id
	}
	return None
}

// Set is an admissible-frame set, as carried by typeinfo.Info.
type Set map[ID]struct{}

// Any returns every frame ID strictly less than None: the "any frame"
// universal set from spec §3.
func Any() Set {
	s := make(Set, int(None))
	for id := Global; id < None; id++ {
		s[id] = struct{}{}
	}
	return s
}

// Of returns a Set containing exactly the given IDs.
func Of(ids ...ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Union returns the set union of a and b as a new Set.
func Union(a, b Set) Set {
	out := make(Set, len(a)+len(b))
	for id := range a {
		out[id] = struct{}{}
	}
	for id := range b {
		out[id] = struct{}{}
	}
	return out
}

// Equal reports whether a and b contain exactly the same IDs.
func Equal(a, b Set) bool {
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

// Clone returns a shallow copy of s.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Any picks an arbitrary element of s, for diagnostic messages that need to
// name "a" type rather than the whole set (spec §4.5.1 step 3). Returns
// (None, false) if s is empty.
func (s Set) Any() (ID, bool) {
	for id := range s {
		return id, true
	}
	return None, false
}
