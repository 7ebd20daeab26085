package edg

import (
	"errors"
	"testing"

	"github.com/edgsolve/atlcheck/pkg/atlf"
	"github.com/edgsolve/atlcheck/pkg/cgs"
)

// twoPlayerPick builds a minimal game where, at state 0, players 0 and 1
// each pick between two moves; picking (0,0) lands on the sole "win"
// state 1, anything else lands on the non-win state 2. Both 1 and 2 are
// terminal (a single self-loop move each), which is enough to exercise
// the temporal reductions without needing a deep state space.
func twoPlayerPick() *cgs.Explicit {
	g := cgs.NewExplicit(2, 0)
	g.AddState(0, []int{2, 2})
	g.AddState(1, []int{1, 1})
	g.AddState(2, []int{1, 1})
	g.SetLabels(1, "win")

	g.AddTransition(0, cgs.Move{0, 0}, 1)
	g.AddTransition(0, cgs.Move{0, 1}, 2)
	g.AddTransition(0, cgs.Move{1, 0}, 2)
	g.AddTransition(0, cgs.Move{1, 1}, 2)
	g.AddTransition(1, cgs.Move{0, 0}, 1)
	g.AddTransition(2, cgs.Move{0, 0}, 2)
	return g
}

func TestSuccTrueAndFalse(t *testing.T) {
	r := NewReducer(twoPlayerPick())

	edges, err := r.Succ(NewFull(0, atlf.True))
	if err != nil || len(edges) != 1 {
		t.Fatalf("TRUE: edges=%v err=%v", edges, err)
	}
	he := edges[0].(HyperEdge)
	if len(he.Targets) != 0 {
		t.Errorf("TRUE should produce an empty-target hyper-edge, got %v", he.Targets)
	}

	edges, err = r.Succ(NewFull(0, atlf.False))
	if err != nil || len(edges) != 0 {
		t.Fatalf("FALSE: edges=%v err=%v", edges, err)
	}
}

func TestSuccProp(t *testing.T) {
	r := NewReducer(twoPlayerPick())

	edges, err := r.Succ(NewFull(1, atlf.Prop("win")))
	if err != nil || len(edges) != 1 {
		t.Fatalf("true prop: edges=%v err=%v", edges, err)
	}

	edges, err = r.Succ(NewFull(2, atlf.Prop("win")))
	if err != nil || len(edges) != 0 {
		t.Fatalf("false prop: edges=%v err=%v", edges, err)
	}
}

func TestSuccNot(t *testing.T) {
	r := NewReducer(twoPlayerPick())
	edges, err := r.Succ(NewFull(1, atlf.Not(atlf.Prop("win"))))
	if err != nil || len(edges) != 1 {
		t.Fatalf("edges=%v err=%v", edges, err)
	}
	ne, ok := edges[0].(NegationEdge)
	if !ok {
		t.Fatalf("expected a NegationEdge, got %T", edges[0])
	}
	if !atlf.Equal(ne.Target.Formula, atlf.Prop("win")) {
		t.Errorf("negation target formula = %s, want win", ne.Target.Formula.String())
	}
}

func TestSuccOrAndAnd(t *testing.T) {
	r := NewReducer(twoPlayerPick())

	orEdges, err := r.Succ(NewFull(1, atlf.Or(atlf.Prop("win"), atlf.False)))
	if err != nil || len(orEdges) != 2 {
		t.Fatalf("or: edges=%v err=%v", orEdges, err)
	}

	andEdges, err := r.Succ(NewFull(1, atlf.And(atlf.Prop("win"), atlf.True)))
	if err != nil || len(andEdges) != 1 {
		t.Fatalf("and: edges=%v err=%v", andEdges, err)
	}
	he := andEdges[0].(HyperEdge)
	if len(he.Targets) != 2 {
		t.Errorf("and should produce one hyper-edge with both targets, got %v", he.Targets)
	}
}

// fourCornerPick is like twoPlayerPick but every joint move lands on its
// own distinct state, so a commitment's targets are never collapsed by
// the delta iterator's successor dedup.
func fourCornerPick() *cgs.Explicit {
	g := cgs.NewExplicit(2, 0)
	g.AddState(0, []int{2, 2})
	for s := 1; s <= 4; s++ {
		g.AddState(cgs.State(s), []int{1, 1})
		g.AddTransition(cgs.State(s), cgs.Move{0, 0}, cgs.State(s))
	}
	g.SetLabels(1, "win")

	g.AddTransition(0, cgs.Move{0, 0}, 1)
	g.AddTransition(0, cgs.Move{0, 1}, 2)
	g.AddTransition(0, cgs.Move{1, 0}, 3)
	g.AddTransition(0, cgs.Move{1, 1}, 4)
	return g
}

func TestSuccEnforceNextDisjunctsOverCommitments(t *testing.T) {
	r := NewReducer(fourCornerPick())
	v := NewFull(0, atlf.EnforceNextF([]cgs.Player{0}, atlf.Prop("win")))

	edges, err := r.Succ(v)
	if err != nil {
		t.Fatalf("Succ: %v", err)
	}
	// player 0 alone has 2 commitments (move 0 or move 1): two hyper-edges.
	if len(edges) != 2 {
		t.Fatalf("expected 2 hyper-edges (one per commitment of player 0), got %d", len(edges))
	}
	for _, e := range edges {
		he := e.(HyperEdge)
		if len(he.Targets) != 2 {
			t.Errorf("each commitment should see both of player 1's replies as targets, got %v", he.Targets)
		}
	}
}

func TestSuccDespiteNextBuildsOnePartialEdge(t *testing.T) {
	r := NewReducer(twoPlayerPick())
	v := NewFull(0, atlf.DespiteNextF([]cgs.Player{0}, atlf.Prop("win")))

	edges, err := r.Succ(v)
	if err != nil {
		t.Fatalf("Succ: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("despite-next should produce exactly one conjunctive hyper-edge, got %d", len(edges))
	}
	he := edges[0].(HyperEdge)
	if len(he.Targets) != 2 {
		t.Fatalf("expected one Partial target per commitment of player 0 (2 moves), got %d", len(he.Targets))
	}
	for _, target := range he.Targets {
		if target.Kind != Partial {
			t.Errorf("despite-next targets should be Partial vertices, got %v", target)
		}
	}
}

func TestSuccPartialVertexIsDisjunctiveOverSuccessors(t *testing.T) {
	r := NewReducer(twoPlayerPick())
	pm := cgs.PartialMove{cgs.SpecificChoice(0), cgs.RangeChoice(2)}
	v := NewPartial(0, pm, atlf.Prop("win"))

	edges, err := r.Succ(v)
	if err != nil {
		t.Fatalf("Succ: %v", err)
	}
	// player 0 plays move 0, player 1 ranges over {0,1}: successors are
	// state 1 (win) and state 2 (not win), both distinct.
	if len(edges) != 2 {
		t.Fatalf("expected 2 singleton hyper-edges, got %d", len(edges))
	}
	for _, e := range edges {
		he := e.(HyperEdge)
		if len(he.Targets) != 1 {
			t.Errorf("partial-vertex edges should be singleton, got %v", he.Targets)
		}
	}
}

func TestSuccEventuallyListsGoalNowFirst(t *testing.T) {
	r := NewReducer(twoPlayerPick())
	v := NewFull(1, atlf.EnforceEventuallyF([]cgs.Player{0}, atlf.Prop("win")))

	edges, err := r.Succ(v)
	if err != nil {
		t.Fatalf("Succ: %v", err)
	}
	if len(edges) < 1 {
		t.Fatal("expected at least the goal-now edge")
	}
	first := edges[0].(HyperEdge)
	if len(first.Targets) != 1 || !atlf.Equal(first.Targets[0].Formula, atlf.Prop("win")) {
		t.Errorf("first edge should test the goal directly, got %v", first.Targets)
	}
}

func TestSuccInvariantProducesNegationToDualUntil(t *testing.T) {
	r := NewReducer(twoPlayerPick())
	coalit := []cgs.Player{0}
	goal := atlf.Prop("win")

	edges, err := r.Succ(NewFull(0, atlf.EnforceInvariantF(coalit, goal)))
	if err != nil || len(edges) != 1 {
		t.Fatalf("enforce invariant: edges=%v err=%v", edges, err)
	}
	ne := edges[0].(NegationEdge)
	wantTarget := atlf.DespiteUntilF(coalit, atlf.True, atlf.Not(goal))
	if !atlf.Equal(ne.Target.Formula, wantTarget) {
		t.Errorf("⟨C⟩G target = %s, want %s", ne.Target.Formula.String(), wantTarget.String())
	}

	edges, err = r.Succ(NewFull(0, atlf.DespiteInvariantF(coalit, goal)))
	if err != nil || len(edges) != 1 {
		t.Fatalf("despite invariant: edges=%v err=%v", edges, err)
	}
	ne = edges[0].(NegationEdge)
	wantTarget = atlf.EnforceUntilF(coalit, atlf.True, atlf.Not(goal))
	if !atlf.Equal(ne.Target.Formula, wantTarget) {
		t.Errorf("[C]G target = %s, want %s", ne.Target.Formula.String(), wantTarget.String())
	}
}

func TestSuccUnrecognisedFormulaWrapsSentinel(t *testing.T) {
	r := NewReducer(twoPlayerPick())
	_, err := r.Succ(NewFull(0, nil))
	if !errors.Is(err, ErrUnreducibleVertex) {
		t.Fatalf("expected ErrUnreducibleVertex, got %v", err)
	}
}

func TestSuccEmptyAndFullCoalitionBoundaries(t *testing.T) {
	r := NewReducer(twoPlayerPick())

	// the empty coalition degenerates to a single hyper-edge over every
	// reachable successor: "in every successor, win holds" for ⟨∅⟩X win.
	edges, err := r.Succ(NewFull(0, atlf.EnforceNextF(nil, atlf.Prop("win"))))
	if err != nil {
		t.Fatalf("Succ: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("empty coalition should yield a single hyper-edge, got %d", len(edges))
	}

	// the full coalition {0,1} yields one hyper-edge per joint move, each
	// with a single deterministic target.
	edges, err = r.Succ(NewFull(0, atlf.EnforceNextF([]cgs.Player{0, 1}, atlf.Prop("win"))))
	if err != nil {
		t.Fatalf("Succ: %v", err)
	}
	if len(edges) != 4 {
		t.Fatalf("full coalition should yield 2*2=4 hyper-edges, got %d", len(edges))
	}
	for _, e := range edges {
		he := e.(HyperEdge)
		if len(he.Targets) != 1 {
			t.Errorf("a fully committed move should have exactly one deterministic target, got %v", he.Targets)
		}
	}
}
