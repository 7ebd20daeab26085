// Command atlcheck-demo runs the bundled end-to-end scenarios from
// examples/scenarios through the solver and reports PASS/FAIL against each
// scenario's expected result.
//
// This example is written in a literate, explanatory style so you can see
// how a caller wires a game structure and an ATL formula through
// solver.Solve.
//
// High-level idea
//   - Each scenario in examples/scenarios bundles a cgs.GameStructure, an
//     atlf.Formula to check at its initial state, and the boolean result a
//     correct solver should return.
//   - This binary runs every bundled scenario (or a single named one, with
//     -scenario) and checks Solve's answer against that expectation.
//
// Command-line flags
//   - -scenario string (default "" meaning all): run only the scenario
//     whose Case.Name matches exactly
//   - -workers int (default runtime.NumCPU()): worker pool size passed to
//     solver.Config
//   - -verbose: log solver lifecycle events (release rounds, certain-zero
//     defaults, fatal errors) to stderr while running
//
// Usage examples
//   - Run every bundled scenario:
//     go run ./cmd/atlcheck-demo
//   - Run just the mutual-exclusion scenario with 4 workers:
//     go run ./cmd/atlcheck-demo -scenario peterson-3-process-mutex -workers 4
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/edgsolve/atlcheck/examples/scenarios"
	"github.com/edgsolve/atlcheck/pkg/solver"
)

func main() {
	name := flag.String("scenario", "", "run only the scenario with this exact name (default: run all)")
	workers := flag.Int("workers", runtime.NumCPU(), "worker pool size")
	verbose := flag.Bool("verbose", false, "log solver lifecycle events to stderr")
	flag.Parse()

	cases := scenarios.All()
	if *name != "" {
		var filtered []scenarios.Case
		for _, c := range cases {
			if c.Name == *name {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) == 0 {
			fmt.Fprintf(os.Stderr, "no bundled scenario named %q\n", *name)
			os.Exit(2)
		}
		cases = filtered
	}

	cfg := solver.DefaultConfig()
	cfg.Workers = *workers
	if *verbose {
		cfg.Logger = log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
	}

	failures := 0
	for _, c := range cases {
		start := time.Now()
		got, err := solver.Solve(context.Background(), c.Game, c.Formula, cfg)
		elapsed := time.Since(start)

		if err != nil {
			failures++
			fmt.Printf("FAIL  %-32s  error: %v  (%s)\n", c.Name, err, elapsed)
			continue
		}
		if got != c.Expected {
			failures++
			fmt.Printf("FAIL  %-32s  got %v, want %v  (%s)\n", c.Name, got, c.Expected, elapsed)
			continue
		}
		fmt.Printf("PASS  %-32s  %v  (%s)\n", c.Name, got, elapsed)
	}

	fmt.Printf("\n%d/%d scenarios passed\n", len(cases)-failures, len(cases))
	if failures > 0 {
		os.Exit(1)
	}
}
