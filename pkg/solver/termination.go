package solver

import (
	"sync/atomic"
)

// terminationDetector keeps, per worker, an atomic count of messages sent
// and received. It does not circulate a token through the mailboxes: round
// scans workers 0..n-1 in turn, summing the net (sent - received) delta
// and asking each worker whether it is idle.
//
// The release coordinator in solve.go is its only caller; it decides
// whether a quiescent round means "broadcast a RELEASE" or "default the
// root to FALSE".
type terminationDetector struct {
	n    int
	sent []int64
	recv []int64
}

func newTerminationDetector(n int) *terminationDetector {
	return &terminationDetector{
		n:    n,
		sent: make([]int64, n),
		recv: make([]int64, n),
	}
}

func (t *terminationDetector) recordSend(worker int) {
	atomic.AddInt64(&t.sent[worker], 1)
}

func (t *terminationDetector) recordRecv(worker int) {
	atomic.AddInt64(&t.recv[worker], 1)
}

// round calls idle(i) for each worker i and reads its counters, one worker
// after another. It returns true iff every worker reported idle and the
// summed send/receive delta over all workers is zero.
func (t *terminationDetector) round(idle func(worker int) bool) bool {
	delta := int64(0)
	allIdle := true
	for i := 0; i < t.n; i++ {
		if !idle(i) {
			allIdle = false
		}
		delta += atomic.LoadInt64(&t.sent[i]) - atomic.LoadInt64(&t.recv[i])
	}
	return allIdle && delta == 0
}
