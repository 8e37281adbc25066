// Package observer defines progress and telemetry hooks for judge runs.
package observer

import (
	"context"

	"arbiter/internal/judge/result"
	"arbiter/internal/judge/spec"
)

// Observer receives judge progress events. Test events stream in ascending
// ordinal order as tests complete, so implementations need no ordering
// logic of their own. Callbacks run on runner goroutines and must not block.
type Observer interface {
	OnCompileFinished(ctx context.Context, res result.CompileResult)
	OnTestFinished(ctx context.Context, category spec.Category, res result.TestcaseResult)
	OnCategoryFinished(ctx context.Context, res result.CategoryResult)
}

// Noop is the default observer that does nothing.
type Noop struct{}

func (Noop) OnCompileFinished(ctx context.Context, res result.CompileResult) {}

func (Noop) OnTestFinished(ctx context.Context, category spec.Category, res result.TestcaseResult) {}

func (Noop) OnCategoryFinished(ctx context.Context, res result.CategoryResult) {}
