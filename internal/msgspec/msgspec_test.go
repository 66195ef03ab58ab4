package msgspec

import (
	"strings"
	"testing"

	"github.com/uframe/uframe/internal/units"
)

const mavlinkDoc = `<?xml version="1.0"?>
<mavlink>
  <messages>
    <message name="SET_POSITION_TARGET_LOCAL_NED">
      <field name="frame" enum="MAV_FRAME">MAV_FRAME</field>
      <field name="x" units="meter"></field>
      <field name="vx" units="meter/second"></field>
    </message>
  </messages>
</mavlink>`

const mdmDoc = `<?xml version="1.0"?>
<MDM>
  <struct name="Altimeter">
    <method name="getAltitude" returnUnit="meter"></method>
  </struct>
</MDM>`

func TestParseMAVLinkFrameFieldAndUnits(t *testing.T) {
	tbl := units.New()
	spec, err := Parse(strings.NewReader(mavlinkDoc), tbl)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if spec.Dialect != DialectMAVLink {
		t.Fatalf("expected mavlink dialect")
	}
	field, ok := spec.FrameFieldOf("SET_POSITION_TARGET_LOCAL_NED")
	if !ok || field != "frame" {
		t.Fatalf("expected frame field 'frame', got %q ok=%v", field, ok)
	}
	unit, ok := spec.UnitOf("SET_POSITION_TARGET_LOCAL_NED", "x")
	if !ok || unit != "meter" {
		t.Fatalf("expected unit 'meter', got %q ok=%v", unit, ok)
	}
	if _, ok := tbl.Lookup("meter"); !ok {
		t.Fatalf("expected meter to be allocated in the unit table as a side effect")
	}
}

func TestParseMDMReturnUnits(t *testing.T) {
	tbl := units.New()
	spec, err := Parse(strings.NewReader(mdmDoc), tbl)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if spec.Dialect != DialectMDM {
		t.Fatalf("expected MDM dialect")
	}
	info, ok := spec.ReturnUnits["Altimeter::getAltitude"]
	if !ok {
		t.Fatalf("expected a return type for Altimeter::getAltitude")
	}
	if len(info.Units) != 1 {
		t.Fatalf("expected exactly one admissible unit, got %+v", info.Units)
	}
}

func TestParseRejectsUnknownRoot(t *testing.T) {
	tbl := units.New()
	_, err := Parse(strings.NewReader(`<?xml version="1.0"?><somethingElse/>`), tbl)
	if err == nil {
		t.Fatalf("expected an error for an unrecognized root element")
	}
}
