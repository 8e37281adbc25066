package runner_test

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"arbiter/internal/judge/checker"
	"arbiter/internal/judge/limiter"
	"arbiter/internal/judge/result"
	"arbiter/internal/judge/runner"
	"arbiter/internal/judge/spec"
)

// jitterLimiter sleeps a random short interval so completion order differs
// from dispatch order.
type jitterLimiter struct {
	outputs map[string][]byte
}

func (j *jitterLimiter) Run(ctx context.Context, cmd limiter.Command, limits limiter.Limits) (result.ExecutionResult, error) {
	time.Sleep(time.Duration(rand.Intn(20)) * time.Millisecond)
	return result.ExecutionResult{Stdout: j.outputs[string(cmd.Stdin)], TimeMs: 1}, nil
}

func makeTests(n int) ([]spec.TestCase, map[string][]byte) {
	tests := make([]spec.TestCase, 0, n)
	outputs := make(map[string][]byte)
	for i := 1; i <= n; i++ {
		input := fmt.Sprintf("case-%d", i)
		tests = append(tests, spec.TestCase{
			Ordinal:        uint32(i),
			Input:          []byte(input),
			ExpectedAnswer: []byte("ok\n"),
			Category:       spec.CategorySystem,
		})
		outputs[input] = []byte("ok\n")
	}
	return tests, outputs
}

func TestRunCategoryOrdinalOrderUnderConcurrency(t *testing.T) {
	tests, outputs := makeTests(16)
	lim := &jitterLimiter{outputs: outputs}
	cr := runner.NewCategoryRunner(runner.NewTestRunner(lim, checker.DiffChecker{}), 8, nil)

	res := cr.RunCategory(context.Background(), "/bin/solution", spec.CategorySystem, tests, testLimits, newWorkspace(t))
	if len(res.Tests) != len(tests) {
		t.Fatalf("got %d results, want %d", len(res.Tests), len(tests))
	}
	for i := 1; i < len(res.Tests); i++ {
		if res.Tests[i-1].Ordinal >= res.Tests[i].Ordinal {
			t.Fatalf("ordinals not strictly increasing: %d then %d", res.Tests[i-1].Ordinal, res.Tests[i].Ordinal)
		}
	}
	if res.Verdict != result.VerdictAC || res.PassedCount != len(tests) {
		t.Fatalf("category summary wrong: %+v", res)
	}
}

func TestRunCategoryDoesNotShortCircuit(t *testing.T) {
	tests, outputs := makeTests(5)
	// Break the third test only.
	outputs["case-3"] = []byte("wrong\n")
	lim := &jitterLimiter{outputs: outputs}
	cr := runner.NewCategoryRunner(runner.NewTestRunner(lim, checker.DiffChecker{}), 1, nil)

	res := cr.RunCategory(context.Background(), "/bin/solution", spec.CategorySystem, tests, testLimits, newWorkspace(t))
	if len(res.Tests) != 5 {
		t.Fatalf("all tests must run after a failure, got %d results", len(res.Tests))
	}
	if res.Verdict != result.VerdictWA {
		t.Fatalf("category verdict = %s, want WA from first failure", res.Verdict)
	}
	if res.PassedCount != 4 || res.FailedCount != 1 {
		t.Fatalf("counts = %d passed, %d failed", res.PassedCount, res.FailedCount)
	}
	if failure := res.FirstFailure(); failure == nil || failure.Ordinal != 3 {
		t.Fatalf("first failure = %+v, want ordinal 3", failure)
	}
}

// gateObserver closes its gate once the first test's event arrives.
type gateObserver struct {
	gate chan struct{}
	once sync.Once
}

func (g *gateObserver) OnCompileFinished(ctx context.Context, res result.CompileResult) {}

func (g *gateObserver) OnTestFinished(ctx context.Context, category spec.Category, res result.TestcaseResult) {
	if res.Ordinal == 1 {
		g.once.Do(func() { close(g.gate) })
	}
}

func (g *gateObserver) OnCategoryFinished(ctx context.Context, res result.CategoryResult) {}

// gatedLimiter holds the second test open until the gate closes, recording
// whether it ever did.
type gatedLimiter struct {
	gate     <-chan struct{}
	streamed atomic.Bool
}

func (g *gatedLimiter) Run(ctx context.Context, cmd limiter.Command, limits limiter.Limits) (result.ExecutionResult, error) {
	if string(cmd.Stdin) == "case-2" {
		select {
		case <-g.gate:
			g.streamed.Store(true)
		case <-time.After(2 * time.Second):
		}
	}
	return result.ExecutionResult{Stdout: []byte("ok\n"), TimeMs: 1}, nil
}

func TestRunCategoryStreamsProgress(t *testing.T) {
	gate := make(chan struct{})
	obs := &gateObserver{gate: gate}
	lim := &gatedLimiter{gate: gate}
	tests, _ := makeTests(2)
	cr := runner.NewCategoryRunner(runner.NewTestRunner(lim, checker.DiffChecker{}), 2, obs)

	res := cr.RunCategory(context.Background(), "/bin/solution", spec.CategorySystem, tests, testLimits, newWorkspace(t))
	if !lim.streamed.Load() {
		t.Fatal("first test's event must arrive while the second test is still running")
	}
	if res.PassedCount != 2 {
		t.Fatalf("passed = %d, want 2", res.PassedCount)
	}
}

func TestRunCategoryUnorderedInput(t *testing.T) {
	tests, outputs := makeTests(4)
	// Shuffle dispatch order; emitted order must still be by ordinal.
	tests[0], tests[3] = tests[3], tests[0]
	tests[1], tests[2] = tests[2], tests[1]
	lim := &jitterLimiter{outputs: outputs}
	cr := runner.NewCategoryRunner(runner.NewTestRunner(lim, checker.DiffChecker{}), 2, nil)

	res := cr.RunCategory(context.Background(), "/bin/solution", spec.CategorySystem, tests, testLimits, newWorkspace(t))
	for i, tc := range res.Tests {
		if tc.Ordinal != uint32(i+1) {
			t.Fatalf("result %d has ordinal %d", i, tc.Ordinal)
		}
	}
}
