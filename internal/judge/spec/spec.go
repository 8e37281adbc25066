// Package spec defines resource limits, checker selection and problem
// configuration consumed by the judging engine.
package spec

import (
	appErr "arbiter/pkg/errors"
)

// Category names one ordered group of test cases.
type Category string

const (
	CategoryPretest Category = "pretests"
	CategorySystem  Category = "system"
)

// Categories lists the run order: pretests are always evaluated first.
var Categories = []Category{CategoryPretest, CategorySystem}

// ResourceLimits describes hard limits for one problem.
// Loaded once, passed by value into every run.
type ResourceLimits struct {
	TimeLimitMs     uint32 `yaml:"time_limit_ms"`
	MemoryLimitMB   uint32 `yaml:"memory_limit_mb"`
	CompileTimeoutS uint32 `yaml:"compile_timeout_s"`
}

// CheckerType selects the output-equivalence semantics.
type CheckerType string

const (
	CheckerDiff  CheckerType = "diff"
	CheckerFloat CheckerType = "float"
	CheckerSPJ   CheckerType = "spj"
)

// DefaultFloatAbsTol is applied when a float checker is configured without
// an explicit tolerance. Never zero.
const DefaultFloatAbsTol = 1e-6

// CheckerSpec is the closed checker configuration.
type CheckerSpec struct {
	Type CheckerType
	// FloatAbsTol is the inclusive absolute tolerance for float checking.
	FloatAbsTol float64
	// SPJExecutablePath points at the compiled special judge binary.
	SPJExecutablePath string
	// SPJTimeLimitMs bounds the special judge run itself.
	SPJTimeLimitMs int64
}

// Validate rejects inconsistent checker configuration early so the engine
// never branches on an unknown checker type at run time.
func (c CheckerSpec) Validate() error {
	switch c.Type {
	case CheckerDiff, "":
		// The zero value selects the diff checker.
		return nil
	case CheckerFloat:
		if c.FloatAbsTol < 0 {
			return appErr.ValidationError("float_abs_tol", "must not be negative")
		}
		return nil
	case CheckerSPJ:
		if c.SPJExecutablePath == "" {
			return appErr.ValidationError("spj_exec", "required")
		}
		return nil
	default:
		return appErr.Newf(appErr.UnknownCheckerType, "unknown checker type: %q", c.Type)
	}
}

// ToolchainConfig carries the compile command template. It is passed
// explicitly into the compiler at construction, never read from ambient
// environment mid-run.
type ToolchainConfig struct {
	// CompileCmdTpl is expanded with {src} and {out} before execution.
	CompileCmdTpl string
	// SourceFileName is the file name the submitted source is written to.
	SourceFileName string
	// BinaryFileName is the artifact file name inside the workspace.
	BinaryFileName string
}

// DefaultCompileCmdTpl matches the stock native toolchain invocation.
const DefaultCompileCmdTpl = "g++ -O2 -static -s {src} -o {out}"

// DefaultToolchain returns the stock C++ toolchain configuration.
func DefaultToolchain() ToolchainConfig {
	return ToolchainConfig{
		CompileCmdTpl:  DefaultCompileCmdTpl,
		SourceFileName: "main.cpp",
		BinaryFileName: "solution",
	}
}

func (t ToolchainConfig) withDefaults() ToolchainConfig {
	def := DefaultToolchain()
	if t.CompileCmdTpl == "" {
		t.CompileCmdTpl = def.CompileCmdTpl
	}
	if t.SourceFileName == "" {
		t.SourceFileName = def.SourceFileName
	}
	if t.BinaryFileName == "" {
		t.BinaryFileName = def.BinaryFileName
	}
	return t
}

// Normalized fills unset fields with defaults.
func (t ToolchainConfig) Normalized() ToolchainConfig {
	return t.withDefaults()
}

// ProblemConfig is everything the engine needs to judge one problem.
type ProblemConfig struct {
	Title   string
	Limits  ResourceLimits
	Checker CheckerSpec
}

// Validate checks limits and checker configuration.
func (p ProblemConfig) Validate() error {
	if p.Limits.TimeLimitMs == 0 {
		return appErr.ValidationError("time_limit_ms", "required")
	}
	if p.Limits.MemoryLimitMB == 0 {
		return appErr.ValidationError("memory_limit_mb", "required")
	}
	if p.Limits.CompileTimeoutS == 0 {
		return appErr.ValidationError("compile_timeout_s", "required")
	}
	return p.Checker.Validate()
}

// TestCase is one immutable (input, expected answer) pair.
type TestCase struct {
	Ordinal        uint32
	Input          []byte
	ExpectedAnswer []byte
	Category       Category
}
