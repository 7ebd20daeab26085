package atlf

import (
	"testing"

	"github.com/edgsolve/atlcheck/pkg/cgs"
)

func TestEqualStructural(t *testing.T) {
	a := And(Prop("p"), Or(Prop("q"), Not(Prop("r"))))
	b := And(Prop("p"), Or(Prop("q"), Not(Prop("r"))))
	c := And(Prop("p"), Or(Prop("q"), Prop("r")))

	if !Equal(a, b) {
		t.Error("structurally identical formulas should be Equal")
	}
	if Equal(a, c) {
		t.Error("structurally different formulas should not be Equal")
	}
}

func TestCoalitionKeyIsOrderIndependent(t *testing.T) {
	f1 := EnforceNextF([]cgs.Player{2, 0, 1}, True)
	f2 := EnforceNextF([]cgs.Player{0, 1, 2}, True)
	if !Equal(f1, f2) {
		t.Error("coalition order should not affect formula identity")
	}
}

func TestTemporalAccessors(t *testing.T) {
	pre, goal := Prop("a"), Prop("b")
	f := EnforceUntilF([]cgs.Player{1}, pre, goal)

	coalit, p, g, kind, ok := AsTemporal(f)
	if !ok {
		t.Fatal("AsTemporal should recognise an until formula")
	}
	if kind != EnforceUntil {
		t.Errorf("kind = %v, want EnforceUntil", kind)
	}
	if len(coalit) != 1 || coalit[0] != 1 {
		t.Errorf("coalition = %v, want [1]", coalit)
	}
	if !Equal(p, pre) || !Equal(g, goal) {
		t.Error("pre/goal round-trip mismatch")
	}
}

func TestAsTemporalRejectsNonTemporal(t *testing.T) {
	if _, _, _, _, ok := AsTemporal(And(True, False)); ok {
		t.Error("AsTemporal should reject a non-temporal formula")
	}
}

func TestAsAccessors(t *testing.T) {
	if name, ok := AsProp(Prop("win")); !ok || name != "win" {
		t.Errorf("AsProp = (%q, %v), want (\"win\", true)", name, ok)
	}
	if _, ok := AsProp(True); ok {
		t.Error("AsProp should reject True")
	}

	if inner, ok := AsNot(Not(Prop("p"))); !ok || !Equal(inner, Prop("p")) {
		t.Error("AsNot round-trip mismatch")
	}

	if l, r, ok := AsOr(Or(Prop("a"), Prop("b"))); !ok || !Equal(l, Prop("a")) || !Equal(r, Prop("b")) {
		t.Error("AsOr round-trip mismatch")
	}
	if _, _, ok := AsOr(And(Prop("a"), Prop("b"))); ok {
		t.Error("AsOr should reject And")
	}

	if l, r, ok := AsAnd(And(Prop("a"), Prop("b"))); !ok || !Equal(l, Prop("a")) || !Equal(r, Prop("b")) {
		t.Error("AsAnd round-trip mismatch")
	}
}

func TestStringRendering(t *testing.T) {
	f := DespiteUntilF([]cgs.Player{0, 1}, Prop("safe"), Prop("goal"))
	want := "[0,1](safe U goal)"
	if got := f.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
