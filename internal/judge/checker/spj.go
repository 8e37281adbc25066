package checker

import (
	"context"
	"os"
	"strings"

	"go.uber.org/zap"

	"arbiter/internal/judge/limiter"
	"arbiter/internal/judge/result"
	appErr "arbiter/pkg/errors"
	"arbiter/pkg/logger"
)

const (
	spjExitAC = 0
	spjExitWA = 1
	spjExitPE = 2

	defaultSPJTimeLimitMs int64 = 10_000
	defaultSPJMemoryMB    int64 = 1024
	spjOutputMaxBytes     int64 = 64 * 1024
)

// SpecialJudgeChecker runs an external compiled checker with
// (input, participant output, reference answer) as positional arguments.
// It is untrusted-adjacent native code and runs under the same limiter
// discipline as a submission.
type SpecialJudgeChecker struct {
	path        string
	timeLimitMs int64
	lim         limiter.Limiter
}

// NewSpecialJudgeChecker builds the SPJ variant. timeLimitMs zero selects
// the default short timeout.
func NewSpecialJudgeChecker(path string, timeLimitMs int64, lim limiter.Limiter) SpecialJudgeChecker {
	if timeLimitMs <= 0 {
		timeLimitMs = defaultSPJTimeLimitMs
	}
	return SpecialJudgeChecker{path: path, timeLimitMs: timeLimitMs, lim: lim}
}

func (c SpecialJudgeChecker) Check(ctx context.Context, job Job) (result.Verdict, string, error) {
	if job.InputPath == "" || job.OutputPath == "" || job.AnswerPath == "" {
		return "", "", appErr.New(appErr.CheckerInputInvalid).WithMessage("special judge requires file views of input, output and answer")
	}
	if _, err := os.Stat(c.path); err != nil {
		return "", "", appErr.Wrapf(err, appErr.CheckerMissing, "special judge binary %s", c.path)
	}

	execRes, err := c.lim.Run(ctx, limiter.Command{
		Path:           c.path,
		Args:           []string{job.InputPath, job.OutputPath, job.AnswerPath},
		MaxStdoutBytes: spjOutputMaxBytes,
		MaxStderrBytes: spjOutputMaxBytes,
	}, limiter.Limits{WallTimeMs: c.timeLimitMs, MemoryMB: defaultSPJMemoryMB})
	if err != nil {
		return "", "", appErr.Wrap(err, appErr.CheckerSpawnFailed)
	}
	if execRes.TimedOut {
		return "", "", appErr.Newf(appErr.CheckerTimeout, "special judge exceeded %dms", c.timeLimitMs)
	}

	detail := checkerMessage(execRes)
	switch execRes.ExitCode {
	case spjExitAC:
		return result.VerdictAC, detail, nil
	case spjExitWA:
		return result.VerdictWA, detail, nil
	case spjExitPE:
		return result.VerdictPE, detail, nil
	default:
		logger.Warn(ctx, "special judge exited with unexpected code",
			zap.String("path", c.path),
			zap.Int("exit_code", execRes.ExitCode),
			zap.String("message", detail))
		return "", "", appErr.Newf(appErr.CheckerBadExit, "special judge exit code %d: %s", execRes.ExitCode, detail)
	}
}

// checkerMessage prefers stderr, where testlib-style checkers report.
func checkerMessage(execRes result.ExecutionResult) string {
	if msg := strings.TrimSpace(string(execRes.Stderr)); msg != "" {
		return msg
	}
	return strings.TrimSpace(string(execRes.Stdout))
}
