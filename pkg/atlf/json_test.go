package atlf

import (
	"testing"

	"github.com/edgsolve/atlcheck/pkg/cgs"
)

func TestJSONRoundTrip(t *testing.T) {
	cases := []Formula{
		True,
		False,
		Prop("alive"),
		Not(Prop("alive")),
		Or(Prop("a"), Prop("b")),
		And(Prop("a"), Prop("b")),
		EnforceNextF([]cgs.Player{0}, Prop("safe")),
		DespiteNextF([]cgs.Player{1}, Prop("safe")),
		EnforceUntilF([]cgs.Player{0, 1}, Prop("wait"), Prop("win")),
		DespiteUntilF([]cgs.Player{0, 1}, Prop("wait"), Prop("win")),
		EnforceEventuallyF([]cgs.Player{2}, Prop("goal")),
		DespiteEventuallyF([]cgs.Player{2}, Prop("goal")),
		EnforceInvariantF([]cgs.Player{0}, Prop("safe")),
		DespiteInvariantF([]cgs.Player{0}, Prop("safe")),
	}

	for _, f := range cases {
		data, err := MarshalJSON(f)
		if err != nil {
			t.Fatalf("MarshalJSON(%s): %v", f.String(), err)
		}
		back, err := UnmarshalJSON(data)
		if err != nil {
			t.Fatalf("UnmarshalJSON(%s): %v", data, err)
		}
		if !Equal(f, back) {
			t.Errorf("round trip mismatch: %s -> %s -> %s", f.String(), data, back.String())
		}
	}
}

func TestUnmarshalUnknownOp(t *testing.T) {
	if _, err := UnmarshalJSON([]byte(`{"op":"bogus"}`)); err == nil {
		t.Error("expected an error for an unrecognised op")
	}
}

func TestUnmarshalUntilMissingPre(t *testing.T) {
	if _, err := UnmarshalJSON([]byte(`{"op":"enforce until","coalition":[0],"formula":{"op":"true"}}`)); err == nil {
		t.Error("expected an error for an until node missing its pre clause")
	}
}
