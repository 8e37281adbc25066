// Package compiler invokes the native toolchain on submitted source under a
// compile timeout and produces an executable artifact.
package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/shlex"
	"go.uber.org/zap"

	"arbiter/internal/judge/limiter"
	"arbiter/internal/judge/result"
	"arbiter/internal/judge/spec"
	appErr "arbiter/pkg/errors"
	"arbiter/pkg/logger"
)

const compileOutputMaxBytes int64 = 64 * 1024

// Artifact owns the compiled executable path. It is released exactly once
// at the end of the submission lifecycle.
type Artifact struct {
	Path string

	once sync.Once
}

// Release removes the executable file. Safe to call more than once.
func (a *Artifact) Release() {
	if a == nil {
		return
	}
	a.once.Do(func() {
		_ = os.Remove(a.Path)
	})
}

// Compiler runs a fixed, pre-declared command template. Flags are never
// attacker-influenced.
type Compiler struct {
	toolchain spec.ToolchainConfig
	lim       limiter.Limiter
}

// New creates a compiler bound to an explicit toolchain configuration.
func New(toolchain spec.ToolchainConfig, lim limiter.Limiter) *Compiler {
	return &Compiler{toolchain: toolchain.Normalized(), lim: lim}
}

// Compile writes the source into workDir, invokes the toolchain and returns
// the compile outcome. A non-nil Artifact is returned only when res.OK is
// true. A returned error is an engine fault (judge error), not a CE: a
// hanging or failing toolchain run caused by the submitted source reports
// through res instead.
func (c *Compiler) Compile(ctx context.Context, sourceText []byte, workDir string, timeoutS uint32) (res result.CompileResult, art *Artifact, err error) {
	srcPath := filepath.Join(workDir, c.toolchain.SourceFileName)
	outPath := filepath.Join(workDir, c.toolchain.BinaryFileName)
	if err := os.WriteFile(srcPath, sourceText, 0644); err != nil {
		return res, nil, appErr.Wrapf(err, appErr.FileWriteFailed, "write source file failed")
	}

	argv, err := expandTemplate(c.toolchain.CompileCmdTpl, srcPath, outPath)
	if err != nil {
		return res, nil, err
	}

	execRes, runErr := c.lim.Run(ctx, limiter.Command{
		Path:           argv[0],
		Args:           argv[1:],
		Dir:            workDir,
		MaxStdoutBytes: compileOutputMaxBytes,
		MaxStderrBytes: compileOutputMaxBytes,
	}, limiter.Limits{WallTimeMs: int64(timeoutS) * 1000})
	if runErr != nil {
		return res, nil, appErr.Wrap(runErr, appErr.CompileSpawnFailed)
	}

	res = result.CompileResult{
		ExitCode: execRes.ExitCode,
		TimeMs:   execRes.TimeMs,
		Output:   combinedOutput(execRes),
		TimedOut: execRes.TimedOut,
	}
	if execRes.TimedOut {
		logger.Info(ctx, "compile timed out",
			zap.Uint32("timeout_s", timeoutS),
			zap.Float64("time_ms", execRes.TimeMs))
		return res, nil, nil
	}
	if execRes.ExitCode != 0 || execRes.Crashed {
		return res, nil, nil
	}
	if _, statErr := os.Stat(outPath); statErr != nil {
		return res, nil, appErr.Wrapf(statErr, appErr.ArtifactMissing, "toolchain exited 0 but produced no artifact")
	}

	res.OK = true
	return res, &Artifact{Path: outPath}, nil
}

// expandTemplate substitutes {src} and {out} and splits the command with
// shell-style quoting rules.
func expandTemplate(tpl, srcPath, outPath string) ([]string, error) {
	if strings.TrimSpace(tpl) == "" {
		return nil, appErr.New(appErr.ConfigInvalid).WithMessage("compile command template is required")
	}
	expanded := strings.ReplaceAll(tpl, "{src}", srcPath)
	expanded = strings.ReplaceAll(expanded, "{out}", outPath)
	fields, err := shlex.Split(expanded)
	if err != nil {
		return nil, appErr.Wrapf(err, appErr.ConfigInvalid, "parse compile command template failed")
	}
	if len(fields) == 0 {
		return nil, appErr.New(appErr.ConfigInvalid).WithMessage("compile command is empty after expansion")
	}
	return fields, nil
}

func combinedOutput(execRes result.ExecutionResult) string {
	out := string(execRes.Stdout)
	errOut := string(execRes.Stderr)
	switch {
	case out == "":
		return errOut
	case errOut == "":
		return out
	default:
		return out + "\n" + errOut
	}
}
