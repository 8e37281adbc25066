// Package result defines execution results and the verdict vocabulary.
package result

import "arbiter/internal/judge/spec"

// Verdict represents the classification of one test or an aggregate.
type Verdict string

const (
	VerdictAC  Verdict = "AC"
	VerdictWA  Verdict = "WA"
	VerdictTLE Verdict = "TLE"
	VerdictMLE Verdict = "MLE"
	VerdictRTE Verdict = "RTE"
	VerdictPE  Verdict = "PE"
	VerdictCE  Verdict = "CE"
	VerdictJE  Verdict = "JE"
)

// ExecutionResult captures raw supervised-process execution data.
// Produced once per run and consumed immediately by the checker; only the
// truncated stdout/stderr is retained for diagnostics.
type ExecutionResult struct {
	ExitCode        int
	Stdout          []byte
	Stderr          []byte
	StdoutTruncated bool
	TimeMs          float64
	MemoryKB        uint64
	TimedOut        bool
	MemoryExceeded  bool
	Crashed         bool
}

// CompileResult contains compilation outcomes. Output holds the combined
// toolchain diagnostics, truncated to a bounded size.
type CompileResult struct {
	OK       bool
	ExitCode int
	TimeMs   float64
	Output   string
	TimedOut bool
}

// TestcaseResult contains per-testcase verdict and telemetry.
type TestcaseResult struct {
	Ordinal  uint32
	Verdict  Verdict
	TimeMs   float64
	MemoryKB uint64
	Detail   string
}

// CategoryResult aggregates one ordered category run.
// Tests are in ascending ordinal order regardless of completion order.
type CategoryResult struct {
	Category    spec.Category
	Verdict     Verdict
	Tests       []TestcaseResult
	PassedCount int
	FailedCount int
	TotalTimeMs float64
}

// FirstFailure returns the first non-AC test in ordinal order, or nil.
func (c *CategoryResult) FirstFailure() *TestcaseResult {
	for i := range c.Tests {
		if c.Tests[i].Verdict != VerdictAC {
			return &c.Tests[i]
		}
	}
	return nil
}

// Statistics captures submission-level telemetry.
type Statistics struct {
	TotalTimeMs float64
	MaxMemoryKB uint64
	TestsRun    int
	TestsPassed int
}

// SubmissionResult is the complete outcome of one judge invocation.
// Owned by the caller; the engine holds no state afterward.
type SubmissionResult struct {
	SubmissionID   string
	OverallVerdict Verdict
	Compile        *CompileResult
	Categories     map[spec.Category]*CategoryResult
	Statistics     Statistics
}
