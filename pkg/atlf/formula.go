// Package atlf implements the ATL formula language: an immutable,
// structurally shared formula tree, a JSON codec, and a textual parser
// (spec §3, §6).
package atlf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/edgsolve/atlcheck/pkg/cgs"
)

// Formula is an immutable ATL formula node. Implementations are never
// mutated after construction; subformulas may be shared. Equality between
// two Formulas is structural and is tested with Equal, not Go's ==
// (variant structs hold slices, which are not comparable).
type Formula interface {
	// Key returns a canonical string uniquely determined by the formula's
	// structure, suitable for use as a map key. It is recomputed from the
	// subformulas on every call, not cached — the same canonicalization
	// trick the teacher's SLG engine uses for subgoal-table lookups.
	Key() string
	// String renders the formula in the textual ATL syntax (§6).
	String() string
}

// Equal reports whether a and b denote the same formula.
func Equal(a, b Formula) bool { return a.Key() == b.Key() }

// coalitionKey renders a player coalition canonically (sorted, comma
// separated) for use in Key().
func coalitionKey(c []cgs.Player) string {
	ps := append([]cgs.Player(nil), c...)
	sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ",")
}

func coalitionString(c []cgs.Player) string {
	return "⟨" + coalitionKey(c) + "⟩"
}

func despiteString(c []cgs.Player) string {
	return "[" + coalitionKey(c) + "]"
}

// ---- TRUE / FALSE ----

type tru struct{}
type fls struct{}

// True is the ATL constant TRUE.
var True Formula = tru{}

// False is the ATL constant FALSE.
var False Formula = fls{}

func (tru) Key() string      { return "T" }
func (tru) String() string   { return "true" }
func (fls) Key() string      { return "F" }
func (fls) String() string   { return "false" }

// ---- Prop ----

type prop struct{ name string }

// Prop builds the atomic proposition p.
func Prop(p string) Formula { return prop{p} }

func (p prop) Key() string    { return "P(" + p.name + ")" }
func (p prop) String() string { return p.name }
func (p prop) Name() string   { return p.name }

// ---- Not / Or / And ----

type not struct{ inner Formula }
type or struct{ a, b Formula }
type and struct{ a, b Formula }

// Not negates inner.
func Not(inner Formula) Formula { return not{inner} }

// Or builds a disjunction.
func Or(a, b Formula) Formula { return or{a, b} }

// And builds a conjunction.
func And(a, b Formula) Formula { return and{a, b} }

func (n not) Key() string    { return "!(" + n.inner.Key() + ")" }
func (n not) String() string { return "!(" + n.inner.String() + ")" }
func (n not) Inner() Formula { return n.inner }

func (o or) Key() string    { return "(" + o.a.Key() + "|" + o.b.Key() + ")" }
func (o or) String() string { return "(" + o.a.String() + " | " + o.b.String() + ")" }
func (o or) Left() Formula  { return o.a }
func (o or) Right() Formula { return o.b }

func (a and) Key() string    { return "(" + a.a.Key() + "&" + a.b.Key() + ")" }
func (a and) String() string { return "(" + a.a.String() + " & " + a.b.String() + ")" }
func (a and) Left() Formula  { return a.a }
func (a and) Right() Formula { return a.b }

// ---- coalition-parameterised temporal operators ----

// Kind distinguishes the eight path-quantified operator shapes.
type Kind uint8

const (
	EnforceNext Kind = iota
	DespiteNext
	EnforceUntil
	DespiteUntil
	EnforceEventually
	DespiteEventually
	EnforceInvariant
	DespiteInvariant
)

func (k Kind) enforce() bool {
	switch k {
	case EnforceNext, EnforceUntil, EnforceEventually, EnforceInvariant:
		return true
	}
	return false
}

func (k Kind) opString() string {
	switch k {
	case EnforceNext:
		return "X"
	case DespiteNext:
		return "X"
	case EnforceUntil, DespiteUntil:
		return "U"
	case EnforceEventually:
		return "F"
	case DespiteEventually:
		return "F"
	case EnforceInvariant:
		return "G"
	case DespiteInvariant:
		return "G"
	}
	return "?"
}

// temporal is the shared representation of all eight coalition operators.
// Until operators use both Pre and Goal; Next/Eventually/Invariant use only
// Goal (Pre is nil).
type temporal struct {
	kind   Kind
	coalit []cgs.Player
	pre    Formula // nil unless kind is an Until variant
	goal   Formula
}

func (t temporal) Key() string {
	c := coalitionKey(t.coalit)
	pre := ""
	if t.pre != nil {
		pre = t.pre.Key() + "U"
	}
	enf := "E"
	if !t.kind.enforce() {
		enf = "D"
	}
	return fmt.Sprintf("%s%d{%s}(%s%s)", enf, t.kind, c, pre, t.goal.Key())
}

func (t temporal) String() string {
	var lead string
	if t.kind.enforce() {
		lead = coalitionString(t.coalit)
	} else {
		lead = despiteString(t.coalit)
	}
	if t.pre != nil {
		return fmt.Sprintf("%s(%s %s %s)", lead, t.pre.String(), t.kind.opString(), t.goal.String())
	}
	return fmt.Sprintf("%s%s %s", lead, t.kind.opString(), t.goal.String())
}

func (t temporal) Coalition() []cgs.Player { return t.coalit }
func (t temporal) Pre() Formula            { return t.pre }
func (t temporal) Goal() Formula           { return t.goal }
func (t temporal) KindOf() Kind            { return t.kind }

// EnforceNextF builds ⟨C⟩X ψ.
func EnforceNextF(c []cgs.Player, psi Formula) Formula {
	return temporal{kind: EnforceNext, coalit: c, goal: psi}
}

// DespiteNextF builds [C]X ψ.
func DespiteNextF(c []cgs.Player, psi Formula) Formula {
	return temporal{kind: DespiteNext, coalit: c, goal: psi}
}

// EnforceUntilF builds ⟨C⟩(a U b).
func EnforceUntilF(c []cgs.Player, a, b Formula) Formula {
	return temporal{kind: EnforceUntil, coalit: c, pre: a, goal: b}
}

// DespiteUntilF builds [C](a U b).
func DespiteUntilF(c []cgs.Player, a, b Formula) Formula {
	return temporal{kind: DespiteUntil, coalit: c, pre: a, goal: b}
}

// EnforceEventuallyF builds ⟨C⟩F ψ.
func EnforceEventuallyF(c []cgs.Player, psi Formula) Formula {
	return temporal{kind: EnforceEventually, coalit: c, goal: psi}
}

// DespiteEventuallyF builds [C]F ψ.
func DespiteEventuallyF(c []cgs.Player, psi Formula) Formula {
	return temporal{kind: DespiteEventually, coalit: c, goal: psi}
}

// EnforceInvariantF builds ⟨C⟩G ψ.
func EnforceInvariantF(c []cgs.Player, psi Formula) Formula {
	return temporal{kind: EnforceInvariant, coalit: c, goal: psi}
}

// DespiteInvariantF builds [C]G ψ.
func DespiteInvariantF(c []cgs.Player, psi Formula) Formula {
	return temporal{kind: DespiteInvariant, coalit: c, goal: psi}
}

// AsTemporal type-asserts f as one of the eight coalition operators,
// returning ok=false for TRUE/FALSE/Prop/Not/Or/And.
func AsTemporal(f Formula) (coalit []cgs.Player, pre, goal Formula, kind Kind, ok bool) {
	t, isT := f.(temporal)
	if !isT {
		return nil, nil, nil, 0, false
	}
	return t.coalit, t.pre, t.goal, t.kind, true
}

// AsProp type-asserts f as an atomic proposition.
func AsProp(f Formula) (name string, ok bool) {
	p, isP := f.(prop)
	if !isP {
		return "", false
	}
	return p.name, true
}

// AsNot type-asserts f as a negation.
func AsNot(f Formula) (inner Formula, ok bool) {
	n, isN := f.(not)
	if !isN {
		return nil, false
	}
	return n.inner, true
}

// AsOr type-asserts f as a disjunction.
func AsOr(f Formula) (left, right Formula, ok bool) {
	o, isOr := f.(or)
	if !isOr {
		return nil, nil, false
	}
	return o.a, o.b, true
}

// AsAnd type-asserts f as a conjunction.
func AsAnd(f Formula) (left, right Formula, ok bool) {
	a, isAnd := f.(and)
	if !isAnd {
		return nil, nil, false
	}
	return a.a, a.b, true
}
