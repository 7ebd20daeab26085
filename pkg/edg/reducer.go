package edg

import (
	"fmt"

	"github.com/edgsolve/atlcheck/pkg/atlf"
	"github.com/edgsolve/atlcheck/pkg/cgs"
)

// Reducer exposes Succ(v) → ordered list of edges, the ATL→EDG reduction
// of spec §4.2. Ordering is semantically significant only for Until and
// Eventually formulas, where the "goal already holds" edge is listed
// first to guide search strategies toward short witnesses; correctness
// never depends on the order.
//
// Commitment convention (resolved Open Question, see DESIGN.md): every
// despite-style ([C]) rule commits the *named* coalition C via the same
// CommitmentEnumerator call the dual enforce-style (⟨C⟩) rule uses, and
// lets the complement range freely. [C]ψ must hold no matter which of
// C's own moves is played, so the hyper-edge is conjunctive over C's
// commitments; within each commitment the opponents still range, so the
// target is a Partial vertex whose own disjunctive reduction covers their
// response. This is why ⟨C⟩ fans out into several small hyper-edges
// (disjunction over commitments) while [C] builds one large one
// (conjunction over commitments).
type Reducer struct {
	g cgs.GameStructure
}

// NewReducer builds a Reducer over game structure g.
func NewReducer(g cgs.GameStructure) *Reducer {
	return &Reducer{g: g}
}

// Succ returns v's outgoing edges, computed on demand — no part of the EDG
// is precomputed ahead of exploration.
func (r *Reducer) Succ(v Vertex) ([]Edge, error) {
	if v.Kind == Partial {
		return r.succPartial(v)
	}
	return r.succFull(v)
}

// succPartial implements the Partial-vertex rule: one singleton hyper-edge
// per distinct state reachable once the move committed by the vertex is
// resolved by the ranging players. Several targets from the same source
// means disjunction: the vertex is TRUE as soon as any one fires.
func (r *Reducer) succPartial(v Vertex) ([]Edge, error) {
	di := cgs.NewDeltaIterator(r.g, v.State, v.PMove)
	edges := make([]Edge, 0, 4)
	for {
		s2, ok := di.Next()
		if !ok {
			break
		}
		edges = append(edges, HyperEdge{
			Source:  v,
			Targets: []Vertex{NewFull(s2, v.Formula)},
			PMove:   v.PMove,
		})
	}
	if err := di.Err(); err != nil {
		return nil, fmt.Errorf("edg: delta iterator at partial vertex %s: %w", v, err)
	}
	return edges, nil
}

func (r *Reducer) succFull(v Vertex) ([]Edge, error) {
	f := v.Formula
	s := v.State

	if f == nil {
		return nil, fmt.Errorf("%w: nil formula at state %d", ErrUnreducibleVertex, s)
	}

	switch {
	case atlf.Equal(f, atlf.True):
		return []Edge{HyperEdge{Source: v}}, nil
	case atlf.Equal(f, atlf.False):
		return nil, nil
	}

	if name, ok := atlf.AsProp(f); ok {
		if r.g.Labels(s)[name] {
			return []Edge{HyperEdge{Source: v}}, nil
		}
		return nil, nil
	}

	if inner, ok := atlf.AsNot(f); ok {
		return []Edge{NegationEdge{Source: v, Target: NewFull(s, inner), Depth: -1}}, nil
	}

	if left, right, ok := atlf.AsOr(f); ok {
		return []Edge{
			HyperEdge{Source: v, Targets: []Vertex{NewFull(s, left)}},
			HyperEdge{Source: v, Targets: []Vertex{NewFull(s, right)}},
		}, nil
	}

	if left, right, ok := atlf.AsAnd(f); ok {
		return []Edge{
			HyperEdge{Source: v, Targets: []Vertex{NewFull(s, left), NewFull(s, right)}},
		}, nil
	}

	coalit, pre, goal, kind, ok := atlf.AsTemporal(f)
	if !ok {
		return nil, fmt.Errorf("%w: %s at vertex %s", ErrUnreducibleVertex, f.String(), v)
	}
	return r.succTemporal(v, s, coalit, pre, goal, kind)
}

func (r *Reducer) succTemporal(v Vertex, s cgs.State, coalit []cgs.Player, pre, goal atlf.Formula, kind atlf.Kind) ([]Edge, error) {
	moveCounts := r.g.MoveCount(s)
	switch kind {
	case atlf.EnforceNext:
		return r.enforceNext(v, s, moveCounts, coalit, goal)
	case atlf.DespiteNext:
		return r.despiteNext(v, s, moveCounts, coalit, goal), nil
	case atlf.EnforceUntil:
		return r.enforceUntil(v, s, moveCounts, coalit, pre, goal)
	case atlf.DespiteUntil:
		return r.despiteUntil(v, s, moveCounts, coalit, pre, goal), nil
	case atlf.EnforceEventually:
		return r.enforceEventually(v, s, moveCounts, coalit, goal)
	case atlf.DespiteEventually:
		return r.despiteEventually(v, s, moveCounts, coalit, goal), nil
	case atlf.EnforceInvariant:
		// ⟨C⟩Gψ ≡ ¬[C](true U ¬ψ)
		target := NewFull(s, atlf.DespiteUntilF(coalit, atlf.True, atlf.Not(goal)))
		return []Edge{NegationEdge{Source: v, Target: target, Depth: -1}}, nil
	case atlf.DespiteInvariant:
		// [C]Gψ ≡ ¬⟨C⟩(true U ¬ψ)
		target := NewFull(s, atlf.EnforceUntilF(coalit, atlf.True, atlf.Not(goal)))
		return []Edge{NegationEdge{Source: v, Target: target, Depth: -1}}, nil
	}
	return nil, fmt.Errorf("%w: unhandled temporal kind %v at vertex %s", ErrUnreducibleVertex, kind, v)
}

// enforceNext builds one small hyper-edge per commitment of C: C plays that
// move, the opponents' reply is folded straight into the target state
// (delta already resolves it, since a fully committed move set has no
// ranging players left from C's perspective beyond the ones enumerated).
// Several such edges from the same source is the disjunction over C's
// choices (spec §4.2, ⟨C⟩Xψ).
func (r *Reducer) enforceNext(v Vertex, s cgs.State, moveCounts []int, coalit []cgs.Player, goal atlf.Formula) ([]Edge, error) {
	ce := cgs.NewCommitmentEnumerator(moveCounts, coalit)
	var edges []Edge
	for {
		pm, ok := ce.Next()
		if !ok {
			break
		}
		di := cgs.NewDeltaIterator(r.g, s, pm)
		var targets []Vertex
		for {
			s2, ok := di.Next()
			if !ok {
				break
			}
			targets = append(targets, NewFull(s2, goal))
		}
		if err := di.Err(); err != nil {
			return nil, fmt.Errorf("edg: enforceNext at %s: %w", v, err)
		}
		edges = append(edges, HyperEdge{Source: v, Targets: targets, PMove: pm})
	}
	return edges, nil
}

// despiteNext builds a single hyper-edge whose targets are one Partial
// vertex per commitment of C: ψ must hold no matter which of C's moves is
// played (conjunction), and each Partial vertex's own reduction resolves
// disjunctively over however the opponents respond (spec §4.2, [C]Xψ).
func (r *Reducer) despiteNext(v Vertex, s cgs.State, moveCounts []int, coalit []cgs.Player, goal atlf.Formula) []Edge {
	ce := cgs.NewCommitmentEnumerator(moveCounts, coalit)
	var targets []Vertex
	for {
		pm, ok := ce.Next()
		if !ok {
			break
		}
		targets = append(targets, NewPartial(s, pm, goal))
	}
	return []Edge{HyperEdge{Source: v, Targets: targets}}
}

// enforceUntil builds the goal-now edge first (a single target, FULL{s,
// goal} — spec order requirement), then one hyper-edge per
// commitment of C chaining pre's truth at s to recursion into
// ⟨C⟩(preUgoal) at every reachable successor.
func (r *Reducer) enforceUntil(v Vertex, s cgs.State, moveCounts []int, coalit []cgs.Player, pre, goal atlf.Formula) ([]Edge, error) {
	edges := []Edge{HyperEdge{Source: v, Targets: []Vertex{NewFull(s, goal)}}}
	recurse := atlf.EnforceUntilF(coalit, pre, goal)
	ce := cgs.NewCommitmentEnumerator(moveCounts, coalit)
	for {
		pm, ok := ce.Next()
		if !ok {
			break
		}
		di := cgs.NewDeltaIterator(r.g, s, pm)
		targets := []Vertex{NewFull(s, pre)}
		for {
			s2, ok := di.Next()
			if !ok {
				break
			}
			targets = append(targets, NewFull(s2, recurse))
		}
		if err := di.Err(); err != nil {
			return nil, fmt.Errorf("edg: enforceUntil at %s: %w", v, err)
		}
		edges = append(edges, HyperEdge{Source: v, Targets: targets, PMove: pm})
	}
	return edges, nil
}

// enforceEventually is enforceUntil's shape with true as the precondition,
// specialised to drop the always-trivially-true pre target that a plain
// EnforceUntilF(coalit, True, goal) rewrite would otherwise carry.
func (r *Reducer) enforceEventually(v Vertex, s cgs.State, moveCounts []int, coalit []cgs.Player, goal atlf.Formula) ([]Edge, error) {
	edges := []Edge{HyperEdge{Source: v, Targets: []Vertex{NewFull(s, goal)}}}
	recurse := atlf.EnforceEventuallyF(coalit, goal)
	ce := cgs.NewCommitmentEnumerator(moveCounts, coalit)
	for {
		pm, ok := ce.Next()
		if !ok {
			break
		}
		di := cgs.NewDeltaIterator(r.g, s, pm)
		var targets []Vertex
		for {
			s2, ok := di.Next()
			if !ok {
				break
			}
			targets = append(targets, NewFull(s2, recurse))
		}
		if err := di.Err(); err != nil {
			return nil, fmt.Errorf("edg: enforceEventually at %s: %w", v, err)
		}
		edges = append(edges, HyperEdge{Source: v, Targets: targets, PMove: pm})
	}
	return edges, nil
}

// despiteEventually mirrors despiteUntil with no pre target.
func (r *Reducer) despiteEventually(v Vertex, s cgs.State, moveCounts []int, coalit []cgs.Player, goal atlf.Formula) []Edge {
	edges := []Edge{HyperEdge{Source: v, Targets: []Vertex{NewFull(s, goal)}}}
	recurse := atlf.DespiteEventuallyF(coalit, goal)
	var targets []Vertex
	ce := cgs.NewCommitmentEnumerator(moveCounts, coalit)
	for {
		pm, ok := ce.Next()
		if !ok {
			break
		}
		targets = append(targets, NewPartial(s, pm, recurse))
	}
	edges = append(edges, HyperEdge{Source: v, Targets: targets})
	return edges
}

// despiteUntil mirrors enforceUntil's shape but with the despite fan-out:
// the goal-now edge first, then a single conjunctive edge over all of C's
// commitments chaining pre's truth at s to recursion via Partial vertices
// (one per commitment) into [C](preUgoal).
func (r *Reducer) despiteUntil(v Vertex, s cgs.State, moveCounts []int, coalit []cgs.Player, pre, goal atlf.Formula) []Edge {
	edges := []Edge{HyperEdge{Source: v, Targets: []Vertex{NewFull(s, goal)}}}
	recurse := atlf.DespiteUntilF(coalit, pre, goal)
	targets := []Vertex{NewFull(s, pre)}
	ce := cgs.NewCommitmentEnumerator(moveCounts, coalit)
	for {
		pm, ok := ce.Next()
		if !ok {
			break
		}
		targets = append(targets, NewPartial(s, pm, recurse))
	}
	edges = append(edges, HyperEdge{Source: v, Targets: targets})
	return edges
}
