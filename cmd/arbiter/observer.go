package main

import (
	"context"
	"fmt"

	"arbiter/internal/judge/observer"
	"arbiter/internal/judge/result"
	"arbiter/internal/judge/spec"
)

// consoleObserver prints per-test progress lines as categories complete.
type consoleObserver struct{}

var _ observer.Observer = (*consoleObserver)(nil)

func (*consoleObserver) OnCompileFinished(ctx context.Context, res result.CompileResult) {
	if res.OK {
		fmt.Printf("Compiled in %.0fms\n", res.TimeMs)
	}
}

func (*consoleObserver) OnTestFinished(ctx context.Context, category spec.Category, res result.TestcaseResult) {
	line := fmt.Sprintf("  %03d: %s (%.0fms, %dKB)", res.Ordinal, res.Verdict, res.TimeMs, res.MemoryKB)
	if res.Verdict != result.VerdictAC && res.Detail != "" {
		line += " - " + res.Detail
	}
	fmt.Println(line)
}

func (*consoleObserver) OnCategoryFinished(ctx context.Context, res result.CategoryResult) {
	fmt.Printf("[%s] %d/%d passed, %.0fms\n", res.Category, res.PassedCount, len(res.Tests), res.TotalTimeMs)
}
