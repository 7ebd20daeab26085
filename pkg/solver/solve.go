// Package solver runs the distributed (in-process) certain-zero fixed
// point computation over the Extended Dependency Graph a formula and game
// structure reduce to (spec §4.3, §4.4): a pool of workers, each the sole
// owner of a hash-partitioned slice of vertices, exchanging REQUEST/ANSWER
// messages to resolve hyper-edges and a depth-staged RELEASE protocol to
// resolve negation edges only once the stratum they depend on has gone
// quiescent.
package solver

import (
	"context"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/edgsolve/atlcheck/internal/mailbox"
	"github.com/edgsolve/atlcheck/pkg/atlf"
	"github.com/edgsolve/atlcheck/pkg/cgs"
	"github.com/edgsolve/atlcheck/pkg/edg"
	"github.com/edgsolve/atlcheck/pkg/solver/metrics"
)

// Config controls a Solve run.
type Config struct {
	// Workers is the worker pool size. Zero or negative defaults to
	// runtime.NumCPU().
	Workers int
	// Strategy builds each worker's local exploration order. Nil defaults
	// to BFSStrategy.
	Strategy StrategyBuilder
	// InboxCapacity is the buffer size of each worker's mailbox channel.
	// Zero or negative defaults to 64.
	InboxCapacity int
	// PollInterval is how often the release coordinator checks for
	// quiescence. Zero or negative defaults to 200 microseconds.
	PollInterval time.Duration
	// Metrics receives traffic and assignment counters, if non-nil.
	Metrics *metrics.Collector
	// Logger receives lifecycle events (release rounds, certain-zero
	// defaults, fatal reducer errors). Nil disables logging entirely.
	Logger *log.Logger
}

// DefaultConfig returns a Config sized to the host's CPUs with the
// teacher's usual defaults: breadth-first exploration, a modest mailbox
// buffer, and no metrics collector (callers opt in explicitly).
func DefaultConfig() Config {
	return Config{
		Workers:       runtime.NumCPU(),
		Strategy:      BFSStrategy,
		InboxCapacity: 64,
		PollInterval:  200 * time.Microsecond,
	}
}

func (c Config) normalize() Config {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Strategy == nil {
		c.Strategy = BFSStrategy
	}
	if c.InboxCapacity <= 0 {
		c.InboxCapacity = 64
	}
	if c.PollInterval <= 0 {
		c.PollInterval = 200 * time.Microsecond
	}
	return c
}

// Solve checks whether formula holds at g's initial state, returning its
// three-valued result collapsed to a bool (true iff the formula's root
// vertex resolves to TRUE).
func Solve(ctx context.Context, g cgs.GameStructure, formula atlf.Formula, cfg Config) (bool, error) {
	if g == nil {
		return false, ErrGameStructureNil
	}
	cfg = cfg.normalize()
	if cfg.Workers <= 0 {
		return false, ErrNoWorkers
	}

	broker := mailbox.NewBroker(cfg.Workers, cfg.InboxCapacity)
	reducer := edg.NewReducer(g)
	td := newTerminationDetector(cfg.Workers)

	root := edg.NewFull(g.InitialStateIndex(), formula)
	rootOwner := int(root.Hash() % uint64(cfg.Workers))

	var fatalOnce sync.Once
	var fatalErr error
	fatal := func(err error) {
		fatalOnce.Do(func() {
			fatalErr = err
			if cfg.Logger != nil {
				cfg.Logger.Printf("[solver] fatal reducer error: %v", err)
			}
		})
	}

	workers := make([]*worker, cfg.Workers)
	for i := range workers {
		w := newWorker(i, cfg.Workers, broker, reducer, td, cfg.Strategy(), cfg.Metrics)
		w.onFatal = fatal
		workers[i] = w
	}
	workers[rootOwner].root = root
	workers[rootOwner].isRootOwner = true
	workers[rootOwner].resultCh = make(chan mailbox.Assignment, 1)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func(w *worker) {
			defer wg.Done()
			w.run(runCtx)
		}(w)
	}

	// Kick off exploration: the root's own owner asks itself for the root's
	// value, at depth 0.
	if err := broker.Send(mailbox.Message{Kind: mailbox.Request, From: rootOwner, To: rootOwner, Vertex: root, Depth: 0}); err != nil {
		return false, err
	}
	td.recordSend(rootOwner)

	go runReleaseCoordinator(runCtx, broker, td, workers, rootOwner, cfg.PollInterval, cfg.Metrics, cfg.Logger)

	var result mailbox.Assignment
	var err error
	select {
	case result = <-workers[rootOwner].resultCh:
	case <-runCtx.Done():
		err = ErrTimedOut
	}

	cancel()
	broker.Broadcast(mailbox.Message{Kind: mailbox.Terminate}, -1)
	wg.Wait()

	if err != nil {
		return false, err
	}
	if fatalErr != nil {
		return false, fatalErr
	}
	if cfg.Metrics != nil {
		cfg.Metrics.ObserveResult(result == mailbox.True)
	}
	return result == mailbox.True, nil
}

// runReleaseCoordinator polls for global quiescence and advances the
// negation release depth from the deepest pending stratum inward, the
// safe (if conservative) choice documented for this resolved Open
// Question: release never runs ahead of a round the whole pool has
// actually gone idle in. Once quiescence is reached with no parked
// negation edges left anywhere in the pool (depth 0, in spec terms), the
// root is certain-zero: it can never become TRUE through any further
// work, so it is defaulted to FALSE rather than left UNDECIDED (§4.5).
func runReleaseCoordinator(ctx context.Context, b *mailbox.Broker, td *terminationDetector, workers []*worker, rootOwner int, interval time.Duration, m *metrics.Collector, logger *log.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		quiescent := td.round(func(i int) bool { return workers[i].idle.Load() })
		if !quiescent {
			continue
		}

		maxParked := int64(-1)
		for _, w := range workers {
			if d := w.maxParkedDepth.Load(); d > maxParked {
				maxParked = d
			}
		}
		if maxParked < 0 {
			if logger != nil {
				logger.Printf("[solver] reached quiescence with no parked negations left; defaulting the root to FALSE (certain-zero)")
			}
			if err := b.Send(mailbox.Message{Kind: mailbox.Quiescent, To: rootOwner}); err != nil {
				if logger != nil {
					logger.Printf("[solver] failed to deliver quiescence notice: %v", err)
				}
				continue
			}
			td.recordSend(rootOwner)
			continue
		}
		b.Broadcast(mailbox.Message{Kind: mailbox.Release, Depth: int(maxParked)}, -1)
		for i := range workers {
			td.recordSend(i)
		}
		m.ObserveRelease()
		if logger != nil {
			logger.Printf("[solver] released negation depth %d", maxParked)
		}
	}
}
