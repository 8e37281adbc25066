// Package runner executes compiled submissions against test cases and maps
// every outcome, engine faults included, to a concrete verdict.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"arbiter/internal/judge/checker"
	"arbiter/internal/judge/limiter"
	"arbiter/internal/judge/result"
	"arbiter/internal/judge/spec"
	"arbiter/internal/judge/workspace"
	"arbiter/pkg/logger"
)

// TestRunner runs one test under the resource limiter and applies the
// configured checker to the captured output.
type TestRunner struct {
	lim limiter.Limiter
	chk checker.Checker
}

// NewTestRunner creates a test runner.
func NewTestRunner(lim limiter.Limiter, chk checker.Checker) *TestRunner {
	return &TestRunner{lim: lim, chk: chk}
}

// RunOne judges a single test case. It never returns an error: every
// failure mode resolves to a verdict, with engine faults reported as JE so
// the category loop needs no exception handling.
func (r *TestRunner) RunOne(ctx context.Context, executable string, tc spec.TestCase, limits spec.ResourceLimits, ws *workspace.Workspace) result.TestcaseResult {
	ctx = logger.WithTestID(ctx, fmt.Sprintf("%s/%03d", tc.Category, tc.Ordinal))

	testDir, err := ws.TestDir(tc.Category, tc.Ordinal)
	if err != nil {
		return r.judgeError(ctx, tc, err)
	}
	inputPath := filepath.Join(testDir, workspace.InputFileName)
	answerPath := filepath.Join(testDir, workspace.AnswerFileName)
	if err := os.WriteFile(inputPath, tc.Input, 0644); err != nil {
		return r.judgeError(ctx, tc, err)
	}
	if err := os.WriteFile(answerPath, tc.ExpectedAnswer, 0644); err != nil {
		return r.judgeError(ctx, tc, err)
	}

	execRes, err := r.lim.Run(ctx, limiter.Command{
		Path:  executable,
		Dir:   testDir,
		Stdin: tc.Input,
	}, limiter.Limits{
		WallTimeMs: int64(limits.TimeLimitMs),
		MemoryMB:   int64(limits.MemoryLimitMB),
	})
	if err != nil {
		return r.judgeError(ctx, tc, err)
	}

	res := result.TestcaseResult{
		Ordinal:  tc.Ordinal,
		TimeMs:   execRes.TimeMs,
		MemoryKB: execRes.MemoryKB,
	}
	switch {
	case execRes.TimedOut:
		res.Verdict = result.VerdictTLE
		res.Detail = fmt.Sprintf("wall time limit %dms exceeded", limits.TimeLimitMs)
		return res
	case execRes.MemoryExceeded:
		res.Verdict = result.VerdictMLE
		res.Detail = fmt.Sprintf("memory limit %dMB exceeded (peak %dKB)", limits.MemoryLimitMB, execRes.MemoryKB)
		return res
	case execRes.Crashed:
		res.Verdict = result.VerdictRTE
		res.Detail = crashDetail(execRes)
		return res
	}

	outputPath := filepath.Join(testDir, workspace.OutputFileName)
	if err := os.WriteFile(outputPath, execRes.Stdout, 0644); err != nil {
		return r.judgeError(ctx, tc, err)
	}

	verdict, detail, err := r.chk.Check(ctx, checker.Job{
		Input:      tc.Input,
		Output:     execRes.Stdout,
		Expected:   tc.ExpectedAnswer,
		InputPath:  inputPath,
		OutputPath: outputPath,
		AnswerPath: answerPath,
	})
	if err != nil {
		return r.judgeError(ctx, tc, err)
	}

	res.Verdict = verdict
	res.Detail = detail
	return res
}

// judgeError folds an engine fault into a JE verdict with full diagnostics
// logged, since it indicates a judge-infrastructure problem rather than a
// submission defect.
func (r *TestRunner) judgeError(ctx context.Context, tc spec.TestCase, err error) result.TestcaseResult {
	logger.Error(ctx, "judge error while running test", zap.Error(err))
	return result.TestcaseResult{
		Ordinal: tc.Ordinal,
		Verdict: result.VerdictJE,
		Detail:  err.Error(),
	}
}

func crashDetail(execRes result.ExecutionResult) string {
	detail := fmt.Sprintf("exit code %d", execRes.ExitCode)
	if stderr := strings.TrimSpace(string(execRes.Stderr)); stderr != "" {
		detail += ": " + stderr
	}
	return detail
}
