// Package edg implements the Extended Dependency Graph: vertices encoding
// ATL proof obligations, and the succ() reduction that produces a vertex's
// outgoing edges on demand (spec §3, §4.2).
package edg

import (
	"fmt"
	"hash/fnv"

	"github.com/edgsolve/atlcheck/pkg/atlf"
	"github.com/edgsolve/atlcheck/pkg/cgs"
)

// VertexKind distinguishes the two vertex shapes of spec §3.
type VertexKind uint8

const (
	// Full vertices pair a state with a formula to check at that state.
	Full VertexKind = iota
	// Partial vertices pair a state and a partial move with the formula
	// the move's eventual resolution must satisfy. A Partial vertex only
	// ever appears as the target of edges emitted for path-quantified
	// formulas (§3 invariant).
	Partial
)

// Vertex is an EDG vertex: either Full{state, formula} or
// Partial{state, partialMove, formula}. Vertices are value-equal by their
// fields and cheaply hashable (§9: vertices are recommended to be cheap to
// hash and clone, since they appear repeatedly as edge targets).
type Vertex struct {
	Kind    VertexKind
	State   cgs.State
	PMove   cgs.PartialMove // zero value unless Kind == Partial
	Formula atlf.Formula
}

// NewFull builds a Full{state, formula} vertex.
func NewFull(s cgs.State, f atlf.Formula) Vertex {
	return Vertex{Kind: Full, State: s, Formula: f}
}

// NewPartial builds a Partial{state, partialMove, formula} vertex.
func NewPartial(s cgs.State, pm cgs.PartialMove, f atlf.Formula) Vertex {
	return Vertex{Kind: Partial, State: s, PMove: pm, Formula: f}
}

// Key returns a canonical string uniquely determined by the vertex's
// fields, used for dependency-table and assignment-table lookups.
func (v Vertex) Key() string {
	if v.Kind == Full {
		return fmt.Sprintf("F|%d|%s", v.State, v.Formula.Key())
	}
	return fmt.Sprintf("P|%d|%s|%s", v.State, v.PMove.String(), v.Formula.Key())
}

// Hash returns a 64-bit hash of the vertex's Key, used by owner() to
// partition vertices across workers (spec §4.3: owner(v) = h(v) mod N).
func (v Vertex) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(v.Key()))
	return h.Sum64()
}

func (v Vertex) String() string {
	if v.Kind == Full {
		return fmt.Sprintf("FULL{%d, %s}", v.State, v.Formula.String())
	}
	return fmt.Sprintf("PARTIAL{%d, %s, %s}", v.State, v.PMove.String(), v.Formula.String())
}
