// Package checker implements the three output-equivalence semantics: exact
// diff, floating-point tolerance, and the external special judge.
//
// Special judge exit-code convention: 0 = accepted, 1 = wrong answer,
// 2 = presentation error; any other exit, or a timeout of the checker
// itself, is a judge fault and must never be reported as AC.
package checker

import (
	"context"

	"arbiter/internal/judge/limiter"
	"arbiter/internal/judge/result"
	"arbiter/internal/judge/spec"
	appErr "arbiter/pkg/errors"
)

// Job carries one comparison. The byte views are always present; the path
// views point at materialized files and are required by the special judge.
type Job struct {
	Input    []byte
	Output   []byte
	Expected []byte

	InputPath  string
	OutputPath string
	AnswerPath string
}

// Checker decides output equivalence for a clean run. Timeouts, memory
// violations and crashes never reach a checker. A returned error is an
// engine fault and resolves to verdict JE upstream.
type Checker interface {
	Check(ctx context.Context, job Job) (result.Verdict, string, error)
}

// New builds the configured checker variant. The variant set is closed:
// anything outside it is rejected here, not discovered mid-run.
func New(cs spec.CheckerSpec, lim limiter.Limiter) (Checker, error) {
	switch cs.Type {
	case spec.CheckerDiff, "":
		// The zero value selects the diff checker, matching config defaults.
		return DiffChecker{}, nil
	case spec.CheckerFloat:
		tol := cs.FloatAbsTol
		if tol <= 0 {
			tol = spec.DefaultFloatAbsTol
		}
		return FloatChecker{Tolerance: tol}, nil
	case spec.CheckerSPJ:
		if cs.SPJExecutablePath == "" {
			return nil, appErr.ValidationError("spj_exec", "required")
		}
		return NewSpecialJudgeChecker(cs.SPJExecutablePath, cs.SPJTimeLimitMs, lim), nil
	default:
		return nil, appErr.Newf(appErr.UnknownCheckerType, "unknown checker type: %q", cs.Type)
	}
}
