package solver

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/edgsolve/atlcheck/internal/mailbox"
	"github.com/edgsolve/atlcheck/pkg/edg"
	"github.com/edgsolve/atlcheck/pkg/solver/metrics"
)

// edgeRec tracks one hyper-edge owned by this worker: the set of target
// keys not yet known True, and whether some target has already answered
// False (which kills the whole edge, since a hyper-edge needs every
// target true).
type edgeRec struct {
	source    edg.Vertex
	remaining map[string]bool
	dead      bool
}

// negRec tracks one negation edge owned by this worker, parked until its
// target's depth stratum has been released.
type negRec struct {
	source edg.Vertex
	target edg.Vertex
	depth  int // the source vertex's own depth; the target sits at depth+1
}

// worker owns a hash-partitioned slice of the EDG's vertices and is the
// sole authority on their assignments. All of a worker's own bookkeeping
// is touched only by its own goroutine; cross-worker coordination happens
// exclusively through mailbox messages, mirroring the teacher's
// WorkerPool in spirit even though the unit of work here is a vertex
// rather than an arbitrary closure.
type worker struct {
	id int
	n  int

	broker  *mailbox.Broker
	reducer *edg.Reducer
	td      *terminationDetector

	frontier *frontier

	depthOf    map[string]int
	exploring  map[string]bool
	assignment map[string]mailbox.Assignment
	dependents map[string][]int

	edgesBySource map[string][]*edgeRec
	waitingOn     map[string][]*edgeRec

	negBySource map[string]*negRec
	pendingNeg  map[string][]*negRec
	parkedNeg   []*negRec
	released    map[int]bool

	idle           atomic.Bool
	maxParkedDepth atomic.Int64
	stopped        bool

	root        edg.Vertex
	isRootOwner bool
	resultCh    chan mailbox.Assignment

	onFatal func(error)
	metrics *metrics.Collector
}

func newWorker(id, n int, b *mailbox.Broker, r *edg.Reducer, td *terminationDetector, strat Strategy, m *metrics.Collector) *worker {
	w := &worker{
		id:            id,
		n:             n,
		broker:        b,
		reducer:       r,
		td:            td,
		metrics:       m,
		frontier:      newFrontier(strat),
		depthOf:       make(map[string]int),
		exploring:     make(map[string]bool),
		assignment:    make(map[string]mailbox.Assignment),
		dependents:    make(map[string][]int),
		edgesBySource: make(map[string][]*edgeRec),
		waitingOn:     make(map[string][]*edgeRec),
		negBySource:   make(map[string]*negRec),
		pendingNeg:    make(map[string][]*negRec),
		released:      make(map[int]bool),
	}
	w.maxParkedDepth.Store(-1)
	return w
}

func (w *worker) ownerOf(v edg.Vertex) int {
	return int(v.Hash() % uint64(w.n))
}

func (w *worker) send(m mailbox.Message) {
	m.From = w.id
	if err := w.broker.Send(m); err != nil {
		if w.onFatal != nil {
			w.onFatal(err)
		}
		return
	}
	w.td.recordSend(w.id)
	w.metrics.ObserveMessage(m.Kind.String())
}

func (w *worker) sendRequest(owner int, v edg.Vertex, depth int) {
	w.send(mailbox.Message{Kind: mailbox.Request, To: owner, Vertex: v, Depth: depth})
}

// run drains inbox messages and the local frontier until it sees a
// Terminate message or ctx is cancelled. Every iteration prefers draining
// pending messages before picking up new exploration work, so answers to
// outstanding requests are never starved by a long frontier.
func (w *worker) run(ctx context.Context) {
	for !w.stopped {
		select {
		case <-ctx.Done():
			return
		default:
		}

		did := w.drainInbox()
		if w.stopped {
			return
		}

		if v, ok := w.frontier.pop(); ok {
			w.explore(v)
			did = true
		}

		w.idle.Store(!did)
		if did {
			continue
		}

		select {
		case m := <-w.broker.Chan(w.id):
			w.handle(m)
		case <-ctx.Done():
			return
		}
	}
}

func (w *worker) drainInbox() bool {
	did := false
	for {
		m, ok := w.broker.Receive(w.id)
		if !ok {
			return did
		}
		w.handle(m)
		did = true
		if w.stopped {
			return did
		}
	}
}

func (w *worker) handle(m mailbox.Message) {
	w.td.recordRecv(w.id)
	switch m.Kind {
	case mailbox.Request:
		w.onRequest(m)
	case mailbox.Answer:
		w.onAnswer(m)
	case mailbox.Release:
		w.onRelease(m)
	case mailbox.Quiescent:
		w.onQuiescent()
	case mailbox.Terminate:
		w.stopped = true
	default:
		if w.onFatal != nil {
			w.onFatal(fmt.Errorf("%w: worker %d received kind %v from worker %d", ErrProtocolViolation, w.id, m.Kind, m.From))
		}
	}
}

func (w *worker) onRequest(m mailbox.Message) {
	v := m.Vertex
	key := v.Key()

	if val, ok := w.assignment[key]; ok {
		w.send(mailbox.Message{Kind: mailbox.Answer, To: m.From, Vertex: v, Assignment: val})
		return
	}

	w.dependents[key] = append(w.dependents[key], m.From)

	if !w.exploring[key] {
		w.exploring[key] = true
		if _, has := w.depthOf[key]; !has {
			w.depthOf[key] = m.Depth
		}
		w.frontier.push(v)
	}
}

func (w *worker) explore(v edg.Vertex) {
	key := v.Key()
	edges, err := w.reducer.Succ(v)
	if err != nil {
		if w.onFatal != nil {
			w.onFatal(err)
		}
		return
	}

	if len(edges) == 0 {
		w.resolveLocal(v, mailbox.False)
		return
	}

	if neg, ok := edges[0].(edg.NegationEdge); ok && len(edges) == 1 {
		depth := w.depthOf[key]
		rec := &negRec{source: v, target: neg.Target, depth: depth}
		w.negBySource[key] = rec
		w.parkNeg(rec)
		return
	}

	recs := make([]*edgeRec, 0, len(edges))
	for _, e := range edges {
		he, ok := e.(edg.HyperEdge)
		if !ok {
			continue
		}
		if len(he.Targets) == 0 {
			// an empty-target hyper-edge is trivially satisfied: v is TRUE
			// regardless of any other edge.
			w.resolveLocal(v, mailbox.True)
			return
		}
		rec := &edgeRec{source: v, remaining: make(map[string]bool, len(he.Targets))}
		for _, t := range he.Targets {
			rec.remaining[t.Key()] = true
		}
		recs = append(recs, rec)
	}
	w.edgesBySource[key] = recs

	// recs and the HyperEdges in edges line up index-for-index: the filter
	// loop above appends exactly one rec per HyperEdge, in order.
	sourceDepth := w.depthOf[key]
	for i, e := range edges {
		he, ok := e.(edg.HyperEdge)
		if !ok {
			continue
		}
		rec := recs[i]
		for _, t := range he.Targets {
			w.registerDependent(t, rec, sourceDepth)
		}
	}
}

// registerDependent adds rec as a dependent of t, the way explore's target
// loop discovers a dependency. A t owned by another worker goes out as a
// REQUEST, answered asynchronously over the mailbox. A self-owned t is
// handled entirely locally instead, since a REQUEST to ourselves would
// risk blocking this very goroutine on its own full inbox before it ever
// gets a chance to drain and answer it.
func (w *worker) registerDependent(t edg.Vertex, rec *edgeRec, depth int) {
	key := t.Key()
	w.waitingOn[key] = append(w.waitingOn[key], rec)

	if w.ownerOf(t) != w.id {
		w.sendRequest(w.ownerOf(t), t, depth)
		return
	}
	w.requestLocal(t, depth)
}

// requestLocal discovers a dependency on a self-owned vertex t without
// going through the mailbox: if t is already known, its dependents are
// notified immediately; otherwise t is enqueued for exploration if it
// isn't already in flight.
func (w *worker) requestLocal(t edg.Vertex, depth int) {
	key := t.Key()
	if val, ok := w.assignment[key]; ok {
		w.propagate(t, val)
		return
	}
	if !w.exploring[key] {
		w.exploring[key] = true
		if _, has := w.depthOf[key]; !has {
			w.depthOf[key] = depth
		}
		w.frontier.push(t)
	}
}

func (w *worker) resolveLocal(v edg.Vertex, val mailbox.Assignment) {
	key := v.Key()
	if _, done := w.assignment[key]; done {
		return
	}
	w.assignment[key] = val
	delete(w.exploring, key)
	w.metrics.ObserveVertex(val.String())

	for _, req := range w.dependents[key] {
		w.send(mailbox.Message{Kind: mailbox.Answer, To: req, Vertex: v, Assignment: val})
	}
	delete(w.dependents, key)
	delete(w.edgesBySource, key)
	delete(w.negBySource, key)

	if w.isRootOwner && key == w.root.Key() && w.resultCh != nil {
		w.resultCh <- val
	}

	w.propagate(v, val)
}

func (w *worker) onAnswer(m mailbox.Message) {
	w.propagate(m.Vertex, m.Assignment)
}

// propagate re-evaluates every edge and parked negation waiting on v now
// that it has settled to val. Called both for answers arriving from other
// workers over the mailbox and for v's settling locally when v's own
// worker owns it, so a self-owned dependency never needs a round trip
// through the broker to be noticed.
func (w *worker) propagate(v edg.Vertex, val mailbox.Assignment) {
	key := v.Key()

	if recs, ok := w.waitingOn[key]; ok {
		touched := make(map[string]edg.Vertex, len(recs))
		for _, rec := range recs {
			if rec.dead {
				continue
			}
			if val == mailbox.False {
				rec.dead = true
			} else {
				delete(rec.remaining, key)
			}
			touched[rec.source.Key()] = rec.source
		}
		delete(w.waitingOn, key)
		for skey, sv := range touched {
			w.evaluateSource(skey, sv)
		}
	}

	if negs, ok := w.pendingNeg[key]; ok {
		for _, rec := range negs {
			negated := mailbox.True
			if val == mailbox.True {
				negated = mailbox.False
			}
			w.resolveLocal(rec.source, negated)
		}
		delete(w.pendingNeg, key)
	}
}

func (w *worker) evaluateSource(key string, v edg.Vertex) {
	recs, ok := w.edgesBySource[key]
	if !ok {
		return
	}
	allDead := true
	for _, rec := range recs {
		if rec.dead {
			continue
		}
		allDead = false
		if len(rec.remaining) == 0 {
			w.resolveLocal(v, mailbox.True)
			return
		}
	}
	if allDead {
		w.resolveLocal(v, mailbox.False)
	}
}

func (w *worker) parkNeg(rec *negRec) {
	required := rec.depth + 1
	if w.released[required] {
		w.fireNeg(rec)
		return
	}
	w.parkedNeg = append(w.parkedNeg, rec)
	w.updateMaxParked()
}

func (w *worker) fireNeg(rec *negRec) {
	tkey := rec.target.Key()
	w.pendingNeg[tkey] = append(w.pendingNeg[tkey], rec)
	owner := w.ownerOf(rec.target)
	if owner != w.id {
		w.sendRequest(owner, rec.target, rec.depth+1)
		return
	}
	w.requestLocal(rec.target, rec.depth+1)
}

func (w *worker) onRelease(m mailbox.Message) {
	w.released[m.Depth] = true
	kept := w.parkedNeg[:0]
	for _, rec := range w.parkedNeg {
		if w.released[rec.depth+1] {
			w.fireNeg(rec)
		} else {
			kept = append(kept, rec)
		}
	}
	w.parkedNeg = kept
	w.updateMaxParked()
}

// onQuiescent handles a QUIESCENT notification: the pool has gone globally
// idle with no negation edges left parked anywhere, so this worker's root
// (if it owns one and it's still undecided) is certain-zero and defaults
// to FALSE, mirroring spec §4.5's "d == 0 and v0 still UNDECIDED" case.
func (w *worker) onQuiescent() {
	if !w.isRootOwner {
		return
	}
	w.resolveLocal(w.root, mailbox.False)
}

func (w *worker) updateMaxParked() {
	max := int64(-1)
	for _, rec := range w.parkedNeg {
		d := int64(rec.depth + 1)
		if d > max {
			max = d
		}
	}
	w.maxParkedDepth.Store(max)
}
