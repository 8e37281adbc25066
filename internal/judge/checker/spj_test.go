package checker_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"arbiter/internal/judge/checker"
	"arbiter/internal/judge/limiter"
	"arbiter/internal/judge/result"
	"arbiter/internal/judge/spec"
)

type fakeLimiter struct {
	res     result.ExecutionResult
	err     error
	lastCmd limiter.Command
}

func (f *fakeLimiter) Run(ctx context.Context, cmd limiter.Command, limits limiter.Limits) (result.ExecutionResult, error) {
	f.lastCmd = cmd
	return f.res, f.err
}

func newSPJJob(t *testing.T) checker.Job {
	t.Helper()
	dir := t.TempDir()
	job := checker.Job{
		InputPath:  filepath.Join(dir, "input.txt"),
		OutputPath: filepath.Join(dir, "output.txt"),
		AnswerPath: filepath.Join(dir, "answer.txt"),
	}
	for _, p := range []string{job.InputPath, job.OutputPath, job.AnswerPath} {
		if err := os.WriteFile(p, []byte("x\n"), 0644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	return job
}

func newSPJBinary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spj")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatalf("write spj: %v", err)
	}
	return path
}

func TestSPJExitCodeMapping(t *testing.T) {
	cases := []struct {
		exitCode int
		want     result.Verdict
	}{
		{0, result.VerdictAC},
		{1, result.VerdictWA},
		{2, result.VerdictPE},
	}
	for _, tc := range cases {
		lim := &fakeLimiter{res: result.ExecutionResult{ExitCode: tc.exitCode, Crashed: tc.exitCode != 0, Stderr: []byte("checker says\n")}}
		chk := checker.NewSpecialJudgeChecker(newSPJBinary(t), 0, lim)
		verdict, detail, err := chk.Check(context.Background(), newSPJJob(t))
		if err != nil {
			t.Fatalf("exit %d: unexpected error %v", tc.exitCode, err)
		}
		if verdict != tc.want {
			t.Fatalf("exit %d: verdict = %s, want %s", tc.exitCode, verdict, tc.want)
		}
		if detail != "checker says" {
			t.Fatalf("detail = %q, want checker message", detail)
		}
	}
}

func TestSPJUnexpectedExitIsJudgeError(t *testing.T) {
	lim := &fakeLimiter{res: result.ExecutionResult{ExitCode: 3, Crashed: true}}
	chk := checker.NewSpecialJudgeChecker(newSPJBinary(t), 0, lim)
	if _, _, err := chk.Check(context.Background(), newSPJJob(t)); err == nil {
		t.Fatal("exit code 3 must surface as an error, never as a verdict")
	}
}

func TestSPJTimeoutIsJudgeError(t *testing.T) {
	lim := &fakeLimiter{res: result.ExecutionResult{TimedOut: true}}
	chk := checker.NewSpecialJudgeChecker(newSPJBinary(t), 50, lim)
	if _, _, err := chk.Check(context.Background(), newSPJJob(t)); err == nil {
		t.Fatal("checker timeout must surface as an error")
	}
}

func TestSPJMissingBinary(t *testing.T) {
	lim := &fakeLimiter{}
	chk := checker.NewSpecialJudgeChecker(filepath.Join(t.TempDir(), "absent"), 0, lim)
	if _, _, err := chk.Check(context.Background(), newSPJJob(t)); err == nil {
		t.Fatal("missing binary must surface as an error")
	}
}

func TestSPJArgumentOrder(t *testing.T) {
	lim := &fakeLimiter{res: result.ExecutionResult{ExitCode: 0}}
	chk := checker.NewSpecialJudgeChecker(newSPJBinary(t), 0, lim)
	job := newSPJJob(t)
	if _, _, err := chk.Check(context.Background(), job); err != nil {
		t.Fatalf("check: %v", err)
	}
	want := []string{job.InputPath, job.OutputPath, job.AnswerPath}
	if len(lim.lastCmd.Args) != 3 {
		t.Fatalf("args = %v, want 3 positional paths", lim.lastCmd.Args)
	}
	for i, arg := range lim.lastCmd.Args {
		if arg != want[i] {
			t.Fatalf("arg %d = %q, want %q", i, arg, want[i])
		}
	}
}

func TestNewChecker(t *testing.T) {
	lim := &fakeLimiter{}
	if _, err := checker.New(spec.CheckerSpec{Type: spec.CheckerDiff}, lim); err != nil {
		t.Fatalf("diff: %v", err)
	}
	if _, err := checker.New(spec.CheckerSpec{Type: spec.CheckerFloat}, lim); err != nil {
		t.Fatalf("float: %v", err)
	}
	if _, err := checker.New(spec.CheckerSpec{Type: spec.CheckerSPJ, SPJExecutablePath: "/bin/true"}, lim); err != nil {
		t.Fatalf("spj: %v", err)
	}
	if _, err := checker.New(spec.CheckerSpec{Type: "fancy"}, lim); err == nil {
		t.Fatal("unknown checker type must be rejected")
	}
}

func TestNewCheckerZeroValueIsDiff(t *testing.T) {
	chk, err := checker.New(spec.CheckerSpec{}, &fakeLimiter{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := chk.(checker.DiffChecker); !ok {
		t.Fatalf("checker type = %T, want DiffChecker", chk)
	}
	if err := (spec.CheckerSpec{}).Validate(); err != nil {
		t.Fatalf("zero-value checker spec must validate: %v", err)
	}
}

func TestNewFloatCheckerDefaultTolerance(t *testing.T) {
	chk, err := checker.New(spec.CheckerSpec{Type: spec.CheckerFloat}, &fakeLimiter{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	fc, ok := chk.(checker.FloatChecker)
	if !ok {
		t.Fatalf("checker type = %T, want FloatChecker", chk)
	}
	if fc.Tolerance != spec.DefaultFloatAbsTol {
		t.Fatalf("tolerance = %g, want explicit default %g", fc.Tolerance, spec.DefaultFloatAbsTol)
	}
}
