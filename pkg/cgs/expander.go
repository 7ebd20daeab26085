package cgs

// MoveExpander lazily enumerates the concrete move vectors denoted by a
// PartialMove, in lexicographic order with the *last* player's index
// varying fastest (a natural odometer). An expander is single-use: to
// re-enumerate, construct a fresh one with NewMoveExpander.
//
// For a partial move with r RANGE entries of sizes m1..mr, Next yields
// exactly the product of the mi, each distinct, before returning false.
type MoveExpander struct {
	pm       PartialMove
	rangeIdx []int // indices of players with a Range choice
	counters []int // current odometer position per range dimension
	done     bool
	started  bool
}

// NewMoveExpander builds an expander over pm. It panics if pm contains a
// Range choice with a non-positive size, since such a partial move denotes
// the empty set and callers are expected to filter those out beforehand
// (the spec guarantees move counts are positive at every reachable state).
func NewMoveExpander(pm PartialMove) *MoveExpander {
	e := &MoveExpander{pm: pm}
	for i, c := range pm {
		if c.Kind == Range {
			if c.Value <= 0 {
				panic("cgs: MoveExpander given a zero-size Range choice")
			}
			e.rangeIdx = append(e.rangeIdx, i)
		}
	}
	e.counters = make([]int, len(e.rangeIdx))
	return e
}

// Next returns the next move vector and true, or a nil slice and false once
// every expansion has been produced.
func (e *MoveExpander) Next() (Move, bool) {
	if e.done {
		return nil, false
	}
	if !e.started {
		e.started = true
		return e.materialize(), true
	}
	// Odometer increment: last range dimension varies fastest.
	for d := len(e.rangeIdx) - 1; d >= 0; d-- {
		player := e.rangeIdx[d]
		e.counters[d]++
		if e.counters[d] < e.pm[player].Value {
			return e.materialize(), true
		}
		e.counters[d] = 0
	}
	e.done = true
	return nil, false
}

func (e *MoveExpander) materialize() Move {
	mv := make(Move, len(e.pm))
	for i, c := range e.pm {
		if c.Kind == Specific {
			mv[i] = c.Value
		}
	}
	for d, player := range e.rangeIdx {
		mv[player] = e.counters[d]
	}
	return mv
}

// CommitmentEnumerator lazily enumerates the partial moves in which every
// player in C is committed to a specific move and every other player
// ranges over its full move count, in odometer order over the committed
// dimensions with the lowest player index varying fastest.
//
// For |C| players with move counts m_i (i in C), Next yields exactly the
// product of the m_i partial moves, each distinct.
type CommitmentEnumerator struct {
	moveCounts []int
	committed  []Player // sorted ascending
	counters   []int
	done       bool
	started    bool
	// degenerate is true when C is empty: there is exactly one partial
	// move (everyone ranges), emitted once.
	degenerate bool
}

// NewCommitmentEnumerator builds an enumerator over the given per-player
// move counts and committing coalition C. The moveCounts slice must have
// length P (the total player count); C may be empty or contain all
// players.
func NewCommitmentEnumerator(moveCounts []int, c []Player) *CommitmentEnumerator {
	committed := append([]Player(nil), c...)
	sortPlayers(committed)
	e := &CommitmentEnumerator{
		moveCounts: moveCounts,
		committed:  committed,
		counters:   make([]int, len(committed)),
		degenerate: len(committed) == 0,
	}
	return e
}

func sortPlayers(ps []Player) {
	// insertion sort: coalitions are small in practice and this keeps the
	// package free of an unnecessary sort.Slice closure allocation per call.
	for i := 1; i < len(ps); i++ {
		for j := i; j > 0 && ps[j-1] > ps[j]; j-- {
			ps[j-1], ps[j] = ps[j], ps[j-1]
		}
	}
}

// Next returns the next partial move and true, or nil and false once
// exhausted.
func (e *CommitmentEnumerator) Next() (PartialMove, bool) {
	if e.done {
		return nil, false
	}
	if e.degenerate {
		if e.started {
			e.done = true
			return nil, false
		}
		e.started = true
		return e.materialize(), true
	}
	if !e.started {
		e.started = true
		return e.materialize(), true
	}
	for d := 0; d < len(e.committed); d++ {
		player := e.committed[d]
		e.counters[d]++
		if e.counters[d] < e.moveCounts[player] {
			return e.materialize(), true
		}
		e.counters[d] = 0
	}
	e.done = true
	return nil, false
}

func (e *CommitmentEnumerator) materialize() PartialMove {
	pm := make(PartialMove, len(e.moveCounts))
	for i := range pm {
		pm[i] = RangeChoice(e.moveCounts[i])
	}
	for d, player := range e.committed {
		pm[player] = SpecificChoice(e.counters[d])
	}
	return pm
}

// Complement returns the players not in c, given the total player count p.
func Complement(p int, c []Player) []Player {
	in := make(map[Player]bool, len(c))
	for _, player := range c {
		in[player] = true
	}
	var out []Player
	for i := 0; i < p; i++ {
		if !in[Player(i)] {
			out = append(out, Player(i))
		}
	}
	return out
}

// DeltaIterator enumerates, without duplicates, the successor states
// reached by applying the game's transition function to every expansion of
// a partial move at a given state. Emission order follows the underlying
// MoveExpander's order, skipping states already seen by this iterator
// instance.
type DeltaIterator struct {
	g       GameStructure
	s       State
	expndr  *MoveExpander
	seen    map[State]struct{}
	lastErr error
}

// NewDeltaIterator builds a delta iterator for partial move pm at state s
// in game structure g.
func NewDeltaIterator(g GameStructure, s State, pm PartialMove) *DeltaIterator {
	return &DeltaIterator{
		g:      g,
		s:      s,
		expndr: NewMoveExpander(pm),
		seen:   make(map[State]struct{}),
	}
}

// Next returns the next not-yet-seen successor state and true, or the zero
// state and false once the underlying expansion is exhausted. Err reports
// any transition-function error encountered along the way (the core's
// GameStructure contract says transitions are pure and total, so a real
// implementation should never see one; Err exists so a misbehaving
// front-end fails loudly instead of silently dropping successors).
func (d *DeltaIterator) Next() (State, bool) {
	for {
		mv, ok := d.expndr.Next()
		if !ok {
			return 0, false
		}
		s2, err := d.g.Transitions(d.s, mv)
		if err != nil {
			d.lastErr = err
			continue
		}
		if _, dup := d.seen[s2]; dup {
			continue
		}
		d.seen[s2] = struct{}{}
		return s2, true
	}
}

// Err returns the last transition error observed, if any.
func (d *DeltaIterator) Err() error { return d.lastErr }

// All drains the iterator into a slice, in emission order.
func (d *DeltaIterator) All() []State {
	var out []State
	for {
		s, ok := d.Next()
		if !ok {
			return out
		}
		out = append(out, s)
	}
}
