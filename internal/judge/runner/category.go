package runner

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"arbiter/internal/judge/observer"
	"arbiter/internal/judge/result"
	"arbiter/internal/judge/spec"
	"arbiter/internal/judge/workspace"
)

// CategoryRunner executes one named category of tests with bounded
// concurrency. All tests in a category run even after a failure; only the
// compile step short-circuits.
type CategoryRunner struct {
	runner  *TestRunner
	workers int
	obs     observer.Observer
}

// NewCategoryRunner creates a category runner. workers <= 0 sizes the pool
// to the available CPU cores.
func NewCategoryRunner(r *TestRunner, workers int, obs observer.Observer) *CategoryRunner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if obs == nil {
		obs = observer.Noop{}
	}
	return &CategoryRunner{runner: r, workers: workers, obs: obs}
}

// RunCategory runs the tests in ascending ordinal order. Tests are
// dispatched to a bounded pool; per-test resource accounting stays
// independent and the emitted sequence is ordinal-ordered regardless of
// completion order.
func (c *CategoryRunner) RunCategory(ctx context.Context, executable string, category spec.Category, tests []spec.TestCase, limits spec.ResourceLimits, ws *workspace.Workspace) result.CategoryResult {
	ordered := make([]spec.TestCase, len(tests))
	copy(ordered, tests)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Ordinal < ordered[j].Ordinal })

	results := make([]result.TestcaseResult, len(ordered))
	var g errgroup.Group
	g.SetLimit(c.workers)

	// Progress events stream in ordinal order: each completion flushes the
	// longest finished prefix, so an observer sees tests as they land
	// without ever seeing them out of order.
	var mu sync.Mutex
	finished := make([]bool, len(ordered))
	next := 0
	for i, tc := range ordered {
		i, tc := i, tc
		g.Go(func() error {
			res := c.runner.RunOne(ctx, executable, tc, limits, ws)
			mu.Lock()
			defer mu.Unlock()
			results[i] = res
			finished[i] = true
			for next < len(finished) && finished[next] {
				c.obs.OnTestFinished(ctx, category, results[next])
				next++
			}
			return nil
		})
	}
	// RunOne never fails across its boundary, so Wait only synchronizes.
	_ = g.Wait()

	catRes := result.CategoryResult{
		Category: category,
		Verdict:  result.VerdictAC,
		Tests:    results,
	}
	for i := range results {
		catRes.TotalTimeMs += results[i].TimeMs
		if results[i].Verdict == result.VerdictAC {
			catRes.PassedCount++
		} else {
			catRes.FailedCount++
			if catRes.Verdict == result.VerdictAC {
				catRes.Verdict = results[i].Verdict
			}
		}
	}
	c.obs.OnCategoryFinished(ctx, catRes)
	return catRes
}
