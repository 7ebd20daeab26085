package solver

import "errors"

// ErrNoWorkers is returned by Solve when Config.Workers resolves to zero or
// less even after defaulting.
var ErrNoWorkers = errors.New("solver: worker count must be positive")

// ErrTimedOut is returned by Solve when ctx is cancelled before the root
// vertex reaches a final assignment.
var ErrTimedOut = errors.New("solver: context cancelled before resolution")

// ErrGameStructureNil is returned by Solve when g is nil.
var ErrGameStructureNil = errors.New("solver: game structure must not be nil")

// ErrMailboxClosed is returned when a worker observes its broker inbox
// behaving as if closed mid-run, which should never happen since Solve owns
// the broker's lifetime for the whole call and never closes an inbox before
// every worker goroutine has exited.
var ErrMailboxClosed = errors.New("solver: mailbox closed while a worker was still running")

// ErrProtocolViolation is returned when a worker receives a message whose
// Kind is none of REQUEST/ANSWER/RELEASE/QUIESCENT/TERMINATE (that is,
// HYPER or NEGATE, which nothing in the solver sends).
var ErrProtocolViolation = errors.New("solver: received a message the mailbox protocol does not permit")
