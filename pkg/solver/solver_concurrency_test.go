package solver

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edgsolve/atlcheck/pkg/atlf"
	"github.com/edgsolve/atlcheck/pkg/cgs"
)

// TestSolveConcurrentCallsAreIndependent runs several unrelated Solve calls
// against separate game structures at once, each with its own worker pool,
// and checks none of them observe another's state. Run with -race to catch
// any accidental sharing.
func TestSolveConcurrentCallsAreIndependent(t *testing.T) {
	const n = 8
	var wg sync.WaitGroup
	results := make([]bool, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			cfg := DefaultConfig()
			cfg.Workers = 4
			want := i%2 == 0
			f := atlf.True
			if !want {
				f = atlf.False
			}
			results[i], errs[i] = Solve(ctx, coinFlip(), f, cfg)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, i%2 == 0, results[i], "call %d", i)
	}
}

// TestSolveStableAcrossWorkerCounts checks the hash-partitioned worker pool
// agrees with itself regardless of how many workers share the vertex space.
func TestSolveStableAcrossWorkerCounts(t *testing.T) {
	f := atlf.DespiteUntilF([]cgs.Player{0}, atlf.True, atlf.Prop("win"))
	for _, workers := range []int{1, 2, 3, 5, 8} {
		cfg := DefaultConfig()
		cfg.Workers = workers
		// player 0 can pick tails and never reach win, so [0](true U win)
		// is FALSE at every worker count.
		got := solveT(t, coinFlip(), f, cfg)
		require.False(t, got, "workers=%d", workers)
	}
}

// TestSolveRespectsCancellation checks a context cancelled before Solve has
// a chance to make progress surfaces ErrTimedOut rather than hanging.
func TestSolveRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := DefaultConfig()
	cfg.Workers = 2
	_, err := Solve(ctx, coinFlip(), atlf.EnforceNextF([]cgs.Player{0}, atlf.Prop("win")), cfg)
	require.ErrorIs(t, err, ErrTimedOut)
}
