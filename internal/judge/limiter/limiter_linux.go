//go:build linux

package limiter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"arbiter/internal/judge/result"
	appErr "arbiter/pkg/errors"
	"arbiter/pkg/logger"
)

const defaultSampleInterval = 10 * time.Millisecond

type linuxLimiter struct {
	sampleInterval time.Duration
}

// New creates the Linux resource limiter.
func New() Limiter {
	return &linuxLimiter{sampleInterval: defaultSampleInterval}
}

func (l *linuxLimiter) Run(ctx context.Context, command Command, limits Limits) (result.ExecutionResult, error) {
	if command.Path == "" {
		return result.ExecutionResult{}, appErr.ValidationError("path", "required")
	}

	maxStdout := command.MaxStdoutBytes
	if maxStdout <= 0 {
		maxStdout = defaultStdoutMaxBytes
	}
	maxStderr := command.MaxStderrBytes
	if maxStderr <= 0 {
		maxStderr = defaultStderrMaxBytes
	}

	cmd := exec.Command(command.Path, command.Args...)
	cmd.Dir = command.Dir
	cmd.Env = command.Env
	cmd.Stdin = bytes.NewReader(command.Stdin)
	stdout := newCappedBuffer(maxStdout)
	stderr := newCappedBuffer(maxStderr)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid:   true,
		Pdeathsig: syscall.SIGKILL,
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return result.ExecutionResult{}, appErr.Wrapf(err, appErr.SpawnFailed, "start %s failed", command.Path)
	}
	pid := cmd.Process.Pid

	var timedOut, memExceeded atomic.Bool
	var sampledPeakKB atomic.Int64
	done := make(chan struct{})

	go func() {
		var wallTimer <-chan time.Time
		if limits.WallTimeMs > 0 {
			wallTimer = time.After(time.Duration(limits.WallTimeMs) * time.Millisecond)
		}
		ticker := time.NewTicker(l.sampleInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				killProcessGroup(pid)
				return
			case <-wallTimer:
				timedOut.Store(true)
				killProcessGroup(pid)
				return
			case <-ticker.C:
				peakKB, ok := readProcPeakKB(pid)
				if !ok {
					continue
				}
				if peakKB > sampledPeakKB.Load() {
					sampledPeakKB.Store(peakKB)
				}
				if limits.MemoryMB > 0 && peakKB > limits.MemoryMB*1024 {
					memExceeded.Store(true)
					killProcessGroup(pid)
					return
				}
			}
		}
	}()

	waitErr := cmd.Wait()
	close(done)
	// The process is gone; sweep any orphans left in its group.
	killProcessGroup(pid)

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return result.ExecutionResult{}, appErr.Wrapf(waitErr, appErr.WaitFailed, "wait for %s failed", command.Path)
		}
	}
	if ctx.Err() != nil && !timedOut.Load() && !memExceeded.Load() {
		return result.ExecutionResult{}, appErr.Wrap(ctx.Err(), appErr.Timeout)
	}

	elapsedMs := float64(time.Since(start).Nanoseconds()) / 1e6
	if timedOut.Load() && limits.WallTimeMs > 0 && elapsedMs < float64(limits.WallTimeMs) {
		elapsedMs = float64(limits.WallTimeMs)
	}

	// The sampler only sees a breach while the process is alive; a fast
	// allocator can exit between samples, so the final peak is checked too.
	peakKB := peakMemoryKB(cmd.ProcessState, sampledPeakKB.Load())
	if limits.MemoryMB > 0 && peakKB > uint64(limits.MemoryMB)*1024 {
		memExceeded.Store(true)
	}

	execRes := result.ExecutionResult{
		ExitCode:        cmd.ProcessState.ExitCode(),
		Stdout:          stdout.Bytes(),
		Stderr:          stderr.Bytes(),
		StdoutTruncated: stdout.truncated,
		TimeMs:          elapsedMs,
		MemoryKB:        peakKB,
		TimedOut:        timedOut.Load(),
		MemoryExceeded:  memExceeded.Load(),
	}
	if !execRes.TimedOut && !execRes.MemoryExceeded && !cleanExit(cmd.ProcessState) {
		execRes.Crashed = true
	}
	if execRes.Crashed {
		logger.Debug(ctx, "supervised process crashed",
			zap.String("path", command.Path),
			zap.Int("exit_code", execRes.ExitCode),
			zap.String("signal", waitSignal(cmd.ProcessState)))
	}
	return execRes, nil
}

func cleanExit(state *os.ProcessState) bool {
	return state != nil && state.Exited() && state.ExitCode() == 0
}

func waitSignal(state *os.ProcessState) string {
	if state == nil {
		return ""
	}
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return ""
	}
	return ws.Signal().String()
}

// peakMemoryKB prefers the live /proc sample and falls back to rusage.
func peakMemoryKB(state *os.ProcessState, sampledKB int64) uint64 {
	peak := sampledKB
	if state != nil {
		if usage, ok := state.SysUsage().(*syscall.Rusage); ok && usage.Maxrss > peak {
			peak = usage.Maxrss
		}
	}
	if peak < 0 {
		return 0
	}
	return uint64(peak)
}

// readProcPeakKB reads VmHWM from /proc/<pid>/status.
func readProcPeakKB(pid int) (int64, bool) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/status", pid))
	if err != nil {
		return 0, false
	}
	for _, line := range strings.Split(string(data), "\n") {
		if !strings.HasPrefix(line, "VmHWM:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, false
		}
		val, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0, false
		}
		return val, true
	}
	return 0, false
}

func killProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = unix.Kill(-pid, unix.SIGKILL)
}
