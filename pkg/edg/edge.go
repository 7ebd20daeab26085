package edg

import "github.com/edgsolve/atlcheck/pkg/cgs"

// HyperEdge represents source → {target1, ..., targetk}. Its logical
// semantics: the source's assignment is TRUE iff every target is TRUE
// (spec §3). PMove is an optional debugging/visualization annotation
// recording the partial move that produced this edge, when applicable.
type HyperEdge struct {
	Source  Vertex
	Targets []Vertex
	PMove   cgs.PartialMove // may be zero value
}

// NegationEdge represents source → target. Its logical semantics: source
// is TRUE iff target is FALSE. The reducer always sets Depth to -1: depth
// depends on the path taken to reach the edge's source, which is solver
// state the reducer has no access to. The solver does not write Depth
// back either; it records each negation edge's depth in its own
// per-worker bookkeeping when it explores the source.
type NegationEdge struct {
	Source Vertex
	Target Vertex
	Depth  int
}

// Edge is the common type of the two edge shapes; a type switch recovers
// the concrete kind.
type Edge interface {
	isEdge()
}

func (HyperEdge) isEdge()    {}
func (NegationEdge) isEdge() {}
