// Package engine orchestrates compile, category execution and verdict
// aggregation for one submission.
package engine

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"arbiter/internal/judge/checker"
	"arbiter/internal/judge/compiler"
	"arbiter/internal/judge/limiter"
	"arbiter/internal/judge/observer"
	"arbiter/internal/judge/result"
	"arbiter/internal/judge/runner"
	"arbiter/internal/judge/spec"
	"arbiter/internal/judge/workspace"
	appErr "arbiter/pkg/errors"
	"arbiter/pkg/logger"
)

// Config controls engine-wide behavior shared by all submissions.
type Config struct {
	// WorkRoot is where per-submission workspaces are created.
	WorkRoot string
	// Workers bounds concurrent test execution within one category.
	// Zero sizes the pool to the available CPU cores.
	Workers int
	// StopOnPretestFailure skips system tests when any pretest is not AC.
	StopOnPretestFailure bool
}

// Engine judges submissions. Each invocation is stateless aside from its
// transient workspace and artifact, so one Engine may serve concurrent
// submissions.
type Engine struct {
	toolchain spec.ToolchainConfig
	lim       limiter.Limiter
	cfg       Config
	obs       observer.Observer
}

// New creates a judge engine with an explicit toolchain configuration.
func New(toolchain spec.ToolchainConfig, lim limiter.Limiter, cfg Config, obs observer.Observer) *Engine {
	if obs == nil {
		obs = observer.Noop{}
	}
	return &Engine{toolchain: toolchain.Normalized(), lim: lim, cfg: cfg, obs: obs}
}

// Judge compiles sourceText and runs it against the given categories.
// The returned error is non-nil only for invocation-level engine faults, in
// which case the overall verdict is JE; submission-caused failures are
// reported through verdicts alone.
func (e *Engine) Judge(ctx context.Context, sourceText []byte, problem spec.ProblemConfig, tests map[spec.Category][]spec.TestCase) (result.SubmissionResult, error) {
	submissionID := uuid.NewString()
	ctx = logger.WithSubmissionID(ctx, submissionID)

	res := result.SubmissionResult{
		SubmissionID:   submissionID,
		OverallVerdict: result.VerdictJE,
		Categories:     make(map[spec.Category]*result.CategoryResult),
	}

	if err := problem.Validate(); err != nil {
		return res, err
	}

	ws, err := workspace.New(e.cfg.WorkRoot, submissionID)
	if err != nil {
		return res, err
	}
	defer ws.Cleanup()

	compileDir, err := ws.CompileDir()
	if err != nil {
		return res, err
	}

	logger.Info(ctx, "judging submission",
		zap.String("problem", problem.Title),
		zap.Uint32("time_limit_ms", problem.Limits.TimeLimitMs),
		zap.Uint32("memory_limit_mb", problem.Limits.MemoryLimitMB),
		zap.String("checker", string(problem.Checker.Type)))

	compileRes, artifact, err := compiler.New(e.toolchain, e.lim).
		Compile(ctx, sourceText, compileDir, problem.Limits.CompileTimeoutS)
	res.Compile = &compileRes
	e.obs.OnCompileFinished(ctx, compileRes)
	if err != nil {
		return res, appErr.Wrap(err, appErr.JudgeSystemError)
	}
	if !compileRes.OK {
		// Short-circuit: no tests execute after a compile failure.
		res.OverallVerdict = result.VerdictCE
		return res, nil
	}
	defer artifact.Release()

	chk, err := checker.New(problem.Checker, e.lim)
	if err != nil {
		return res, err
	}
	categories := runner.NewCategoryRunner(runner.NewTestRunner(e.lim, chk), e.cfg.Workers, e.obs)

	for _, category := range spec.Categories {
		cases := tests[category]
		if len(cases) == 0 {
			continue
		}
		catRes := categories.RunCategory(ctx, artifact.Path, category, cases, problem.Limits, ws)
		res.Categories[category] = &catRes
		if category == spec.CategoryPretest && e.cfg.StopOnPretestFailure && catRes.Verdict != result.VerdictAC {
			break
		}
	}

	res.OverallVerdict = overallVerdict(res.Categories)
	res.Statistics = aggregateStatistics(res.Categories)
	logger.Info(ctx, "submission judged",
		zap.String("verdict", string(res.OverallVerdict)),
		zap.Float64("total_time_ms", res.Statistics.TotalTimeMs),
		zap.Uint64("max_memory_kb", res.Statistics.MaxMemoryKB))
	return res, nil
}

// overallVerdict is the verdict of the first non-AC test scanning pretests
// then system tests in ordinal order, or AC when every test passed.
func overallVerdict(categories map[spec.Category]*result.CategoryResult) result.Verdict {
	for _, category := range spec.Categories {
		catRes, ok := categories[category]
		if !ok {
			continue
		}
		if failure := catRes.FirstFailure(); failure != nil {
			return failure.Verdict
		}
	}
	return result.VerdictAC
}

func aggregateStatistics(categories map[spec.Category]*result.CategoryResult) result.Statistics {
	var stats result.Statistics
	for _, category := range spec.Categories {
		catRes, ok := categories[category]
		if !ok {
			continue
		}
		stats.TotalTimeMs += catRes.TotalTimeMs
		stats.TestsRun += len(catRes.Tests)
		stats.TestsPassed += catRes.PassedCount
		for _, t := range catRes.Tests {
			if t.MemoryKB > stats.MaxMemoryKB {
				stats.MaxMemoryKB = t.MemoryKB
			}
		}
	}
	return stats
}
