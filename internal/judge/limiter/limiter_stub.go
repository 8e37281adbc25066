//go:build !linux

package limiter

import (
	"context"

	"arbiter/internal/judge/result"
	appErr "arbiter/pkg/errors"
)

type stubLimiter struct{}

// New returns a limiter that refuses to run on unsupported platforms.
func New() Limiter {
	return stubLimiter{}
}

func (stubLimiter) Run(ctx context.Context, cmd Command, limits Limits) (result.ExecutionResult, error) {
	return result.ExecutionResult{}, appErr.New(appErr.LimiterUnsupported)
}
