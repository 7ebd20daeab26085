// Package mailbox implements the inter-worker message passing substrate
// the solver runs on: a fixed set of per-worker inboxes and the seven
// message shapes workers exchange while building the Extended Dependency
// Graph and propagating fixed-point assignments across it (spec §4.3, §4.4).
package mailbox

import "github.com/edgsolve/atlcheck/pkg/edg"

// Kind distinguishes the seven message shapes the solver's workers exchange.
type Kind uint8

const (
	// Request asks the owner of a vertex to explore it (compute its
	// outgoing edges and start propagating an assignment), registering the
	// sender as a dependent.
	Request Kind = iota
	// Answer carries a vertex's current assignment back to a dependent.
	Answer
	// Hyper registers a hyper-edge as a new dependency of its source.
	Hyper
	// Negate registers a negation edge as a new dependency of its source,
	// carrying the depth the edge was first explored at.
	Negate
	// Release broadcasts that negation edges whose target sits at the given
	// depth may now fire, once the termination detector reports quiescence.
	Release
	// Quiescent tells the root vertex's owner that the whole pool has gone
	// quiescent with no negation edges left parked anywhere, so the root is
	// certain-zero: still UNDECIDED, and provably unable to ever become
	// anything but FALSE. It carries no vertex.
	Quiescent
	// Terminate is broadcast to every worker once Solve has its result (or
	// its context is done); a worker stops on receiving it.
	Terminate
)

func (k Kind) String() string {
	switch k {
	case Request:
		return "REQUEST"
	case Answer:
		return "ANSWER"
	case Hyper:
		return "HYPER"
	case Negate:
		return "NEGATE"
	case Release:
		return "RELEASE"
	case Quiescent:
		return "QUIESCENT"
	case Terminate:
		return "TERMINATE"
	}
	return "UNKNOWN"
}

// Assignment is a vertex's three-valued fixed-point status.
type Assignment uint8

const (
	Unknown Assignment = iota
	True
	False
)

func (a Assignment) String() string {
	switch a {
	case True:
		return "TRUE"
	case False:
		return "FALSE"
	}
	return "UNKNOWN"
}

// Message is the single wire type carried on every inbox channel. Only the
// fields relevant to Kind are populated; the rest are zero values.
type Message struct {
	Kind Kind
	From int // sending worker's index; left at 0 for messages from Solve or the release coordinator
	To   int // receiving worker's index

	Vertex edg.Vertex // REQUEST, ANSWER, HYPER, NEGATE: the subject vertex

	Edge edg.Edge // HYPER, NEGATE: the edge being registered as a dependency

	Assignment Assignment // ANSWER: the vertex's resolved value

	Depth int // NEGATE: depth the edge was explored at. RELEASE: the depth now safe to resolve.

	White bool // not set or read by the solver
}
