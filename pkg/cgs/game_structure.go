package cgs

import "fmt"

// GameStructure is the external interface the ATL→EDG reduction consumes
// (spec §6). Every operation must be pure and safe for concurrent readers;
// implementations may back this with an explicit table (Explicit, below)
// or a lazy computation over a declarative model.
type GameStructure interface {
	// MaxPlayer returns the number of players P.
	MaxPlayer() int
	// Labels returns the set of proposition ids holding at s.
	Labels(s State) map[string]bool
	// Transitions returns the successor state reached by applying the
	// joint move at s. move must have length MaxPlayer().
	Transitions(s State, move Move) (State, error)
	// MoveCount returns, for state s, the length-P vector of per-player
	// legal move counts.
	MoveCount(s State) []int
	// InitialStateIndex returns the state of the initial configuration.
	InitialStateIndex() State
}

// Explicit is an eager, table-backed GameStructure: every state's labels,
// move counts, and transition function are stored up front. It is
// read-only after construction and therefore safe for concurrent readers.
type Explicit struct {
	players     int
	initial     State
	labels      map[State]map[string]bool
	moveCounts  map[State][]int
	transitions map[State]map[string]State // keyed by a canonical move-vector key
}

// NewExplicit builds an empty eager game structure for the given player
// count and initial state. Use AddState/SetLabels/AddTransition to
// populate it before use.
func NewExplicit(players int, initial State) *Explicit {
	return &Explicit{
		players:     players,
		initial:     initial,
		labels:      make(map[State]map[string]bool),
		moveCounts:  make(map[State][]int),
		transitions: make(map[State]map[string]State),
	}
}

// AddState registers a state with its per-player move counts. It must be
// called once per state before transitions out of that state are added.
func (e *Explicit) AddState(s State, moveCounts []int) {
	if len(moveCounts) != e.players {
		panic(fmt.Sprintf("cgs.Explicit: state %d given %d move counts, want %d", s, len(moveCounts), e.players))
	}
	mc := append([]int(nil), moveCounts...)
	e.moveCounts[s] = mc
	if _, ok := e.labels[s]; !ok {
		e.labels[s] = map[string]bool{}
	}
	if _, ok := e.transitions[s]; !ok {
		e.transitions[s] = map[string]State{}
	}
}

// SetLabels sets the proposition set holding at s.
func (e *Explicit) SetLabels(s State, props ...string) {
	m := make(map[string]bool, len(props))
	for _, p := range props {
		m[p] = true
	}
	e.labels[s] = m
}

// AddTransition records that playing move at s leads to s2.
func (e *Explicit) AddTransition(s State, move Move, s2 State) {
	if len(move) != e.players {
		panic(fmt.Sprintf("cgs.Explicit: transition from %d given move of length %d, want %d", s, len(move), e.players))
	}
	if e.transitions[s] == nil {
		e.transitions[s] = map[string]State{}
	}
	e.transitions[s][moveKey(move)] = s2
}

func moveKey(move Move) string {
	// Small joint moves only (players * move-index both bounded in
	// practice); a simple delimited string avoids pulling in a hashing
	// dependency for what is a tiny, rarely-called key.
	b := make([]byte, 0, len(move)*3)
	for i, m := range move {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendInt(b, m)
	}
	return string(b)
}

func appendInt(b []byte, n int) []byte {
	if n == 0 {
		return append(b, '0')
	}
	neg := n < 0
	if neg {
		n = -n
	}
	start := len(b)
	for n > 0 {
		b = append(b, byte('0'+n%10))
		n /= 10
	}
	if neg {
		b = append(b, '-')
	}
	// reverse in place
	for i, j := start, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}

func (e *Explicit) MaxPlayer() int { return e.players }

func (e *Explicit) Labels(s State) map[string]bool {
	return e.labels[s]
}

func (e *Explicit) Transitions(s State, move Move) (State, error) {
	row, ok := e.transitions[s]
	if !ok {
		return 0, fmt.Errorf("cgs.Explicit: unknown state %d", s)
	}
	s2, ok := row[moveKey(move)]
	if !ok {
		return 0, fmt.Errorf("cgs.Explicit: no transition from state %d on move %v", s, move)
	}
	return s2, nil
}

func (e *Explicit) MoveCount(s State) []int {
	mc, ok := e.moveCounts[s]
	if !ok {
		panic(fmt.Sprintf("cgs.Explicit: unknown state %d", s))
	}
	return mc
}

func (e *Explicit) InitialStateIndex() State { return e.initial }
