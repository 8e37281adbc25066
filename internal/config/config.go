// Package config loads problem and toolchain configuration from YAML.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"arbiter/internal/judge/spec"
	appErr "arbiter/pkg/errors"
)

// ProblemFileName is the per-problem configuration file.
const ProblemFileName = "problem.yaml"

const (
	defaultTimeLimitMs     = 1000
	defaultMemoryLimitMB   = 256
	defaultCompileTimeoutS = 30
)

type problemYAML struct {
	Title           string  `yaml:"title"`
	TimeLimitMs     uint32  `yaml:"time_limit_ms"`
	MemoryLimitMB   uint32  `yaml:"memory_limit_mb"`
	CompileTimeoutS uint32  `yaml:"compile_timeout_s"`
	Checker         string  `yaml:"checker"`
	FloatAbsTol     float64 `yaml:"float_abs_tol"`
	SPJExec         string  `yaml:"spj_exec"`
	SPJTimeLimitMs  int64   `yaml:"spj_time_limit_ms"`
}

// LoadProblem reads <problemDir>/problem.yaml, applies defaults and
// validates the result. A relative spj_exec is resolved against problemDir.
func LoadProblem(problemDir string) (spec.ProblemConfig, error) {
	path := filepath.Join(problemDir, ProblemFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return spec.ProblemConfig{}, appErr.Wrapf(err, appErr.ConfigLoadFailed, "read %s failed", path)
	}

	var raw problemYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return spec.ProblemConfig{}, appErr.Wrapf(err, appErr.ConfigLoadFailed, "parse %s failed", path)
	}

	if raw.TimeLimitMs == 0 {
		raw.TimeLimitMs = defaultTimeLimitMs
	}
	if raw.MemoryLimitMB == 0 {
		raw.MemoryLimitMB = defaultMemoryLimitMB
	}
	if raw.CompileTimeoutS == 0 {
		raw.CompileTimeoutS = defaultCompileTimeoutS
	}
	if raw.Checker == "" {
		raw.Checker = string(spec.CheckerDiff)
	}

	checkerSpec := spec.CheckerSpec{
		Type:           spec.CheckerType(raw.Checker),
		FloatAbsTol:    raw.FloatAbsTol,
		SPJTimeLimitMs: raw.SPJTimeLimitMs,
	}
	if checkerSpec.Type == spec.CheckerFloat && checkerSpec.FloatAbsTol == 0 {
		checkerSpec.FloatAbsTol = spec.DefaultFloatAbsTol
	}
	if raw.SPJExec != "" {
		checkerSpec.SPJExecutablePath = raw.SPJExec
		if !filepath.IsAbs(raw.SPJExec) {
			checkerSpec.SPJExecutablePath = filepath.Join(problemDir, raw.SPJExec)
		}
	}

	cfg := spec.ProblemConfig{
		Title: raw.Title,
		Limits: spec.ResourceLimits{
			TimeLimitMs:     raw.TimeLimitMs,
			MemoryLimitMB:   raw.MemoryLimitMB,
			CompileTimeoutS: raw.CompileTimeoutS,
		},
		Checker: checkerSpec,
	}
	if err := cfg.Validate(); err != nil {
		return spec.ProblemConfig{}, err
	}
	return cfg, nil
}

type toolchainYAML struct {
	CompileCmd string `yaml:"compile_cmd"`
	SourceFile string `yaml:"source_file"`
	BinaryFile string `yaml:"binary_file"`
}

// LoadToolchain reads a toolchain file, falling back to the stock C++
// toolchain when path is empty or the file does not exist.
func LoadToolchain(path string) (spec.ToolchainConfig, error) {
	if path == "" {
		return spec.DefaultToolchain(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return spec.DefaultToolchain(), nil
		}
		return spec.ToolchainConfig{}, appErr.Wrapf(err, appErr.ConfigLoadFailed, "read %s failed", path)
	}

	var raw toolchainYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return spec.ToolchainConfig{}, appErr.Wrapf(err, appErr.ConfigLoadFailed, "parse %s failed", path)
	}
	return spec.ToolchainConfig{
		CompileCmdTpl:  raw.CompileCmd,
		SourceFileName: raw.SourceFile,
		BinaryFileName: raw.BinaryFile,
	}.Normalized(), nil
}
