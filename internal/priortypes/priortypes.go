// Package priortypes loads the prior-types JSON catalog (spec §6
// "Prior-types (JSON)"): a list of fully-qualified variable names bound to
// their expected coordinate frames and units.
//
// Grounded on _examples/original_source/src/main.cpp's vars_to_typeinfo,
// reworked onto encoding/json per spec §1's external-collaborator note.
package priortypes

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/uframe/uframe/internal/frame"
	"github.com/uframe/uframe/internal/typeinfo"
	"github.com/uframe/uframe/internal/units"
)

type entry struct {
	VariableName string `json:"variable_name"`
	SemanticInfo struct {
		CoordinateFrames []string `json:"coordinate_frames"`
		Units            []string `json:"units"`
	} `json:"semantic_info"`
}

// Table maps a canonical LHS name (spec §4.3's qualification rules) to its
// declared TypeInfo. This is both the store handler's "interesting_writes"
// membership test and the expression typer's rule 3 lookup.
type Table map[string]typeinfo.Info

// Load decodes the prior-types catalog from r, allocating fresh unit IDs in
// unitTable for any unit name not already known — exactly as
// vars_to_typeinfo does.
func Load(r io.Reader, unitTable *units.Table) (Table, error) {
	var entries []entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, errors.Wrap(err, "priortypes: decode")
	}

	out := make(Table, len(entries))
	for _, e := range entries {
		info := typeinfo.Info{
			Source: []typeinfo.Source{{Kind: typeinfo.Unknown, Note: "prior-types catalog"}},
		}
		if len(e.SemanticInfo.CoordinateFrames) > 0 {
			frames := make(frame.Set, len(e.SemanticInfo.CoordinateFrames))
			for _, name := range e.SemanticInfo.CoordinateFrames {
				frames[frame.Lookup(name)] = struct{}{}
			}
			info.Frames = frames
		}
		if len(e.SemanticInfo.Units) > 0 {
			ids := make(typeinfo.UnitSet, len(e.SemanticInfo.Units))
			for _, name := range e.SemanticInfo.Units {
				ids[unitTable.GetOrAllocate(name)] = struct{}{}
			}
			info.Units = ids
		}
		out[e.VariableName] = info
	}
	return out, nil
}

// Lookup reports the declared TypeInfo for the canonical variable name, and
// whether it is "interesting" (present in the catalog at all).
func (t Table) Lookup(canonicalName string) (typeinfo.Info, bool) {
	info, ok := t[canonicalName]
	return info, ok
}
