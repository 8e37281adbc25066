// Package limiter supervises child processes under wall-clock and memory
// limits. One implementation exists per platform; only the adapter varies.
package limiter

import (
	"context"

	"arbiter/internal/judge/result"
)

const (
	defaultStdoutMaxBytes int64 = 32 * 1024 * 1024
	defaultStderrMaxBytes int64 = 64 * 1024
)

// Command describes one supervised execution.
type Command struct {
	Path  string
	Args  []string
	Dir   string
	Env   []string
	Stdin []byte
	// MaxStdoutBytes bounds captured stdout; zero selects the default.
	MaxStdoutBytes int64
	// MaxStderrBytes bounds captured stderr; zero selects the default.
	MaxStderrBytes int64
}

// Limits are the per-run ceilings. Zero disables the respective limit.
type Limits struct {
	WallTimeMs int64
	MemoryMB   int64
}

// Limiter runs a command and reports time/memory used and whether a limit
// was exceeded. A returned error means the limiter itself faulted (spawn
// failure, wait failure) and must surface as a judge error, never as a
// program verdict.
type Limiter interface {
	Run(ctx context.Context, cmd Command, limits Limits) (result.ExecutionResult, error)
}

// cappedBuffer keeps at most max bytes and records whether it truncated.
type cappedBuffer struct {
	max       int64
	buf       []byte
	truncated bool
}

func newCappedBuffer(max int64) *cappedBuffer {
	return &cappedBuffer{max: max}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	remain := b.max - int64(len(b.buf))
	if remain > 0 {
		if int64(len(p)) > remain {
			b.buf = append(b.buf, p[:remain]...)
			b.truncated = true
		} else {
			b.buf = append(b.buf, p...)
		}
	} else if len(p) > 0 {
		b.truncated = true
	}
	// Report full length so the child never sees a write error.
	return len(p), nil
}

func (b *cappedBuffer) Bytes() []byte { return b.buf }
