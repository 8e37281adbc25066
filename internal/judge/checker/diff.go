package checker

import (
	"context"
	"fmt"
	"strings"

	"arbiter/internal/judge/result"
)

// DiffChecker compares outputs line by line after trimming trailing
// whitespace on each line and trailing blank lines. Interior blank lines
// are significant. This is the default when no checker is configured.
type DiffChecker struct{}

func (DiffChecker) Check(ctx context.Context, job Job) (result.Verdict, string, error) {
	got := normalizeLines(job.Output)
	want := normalizeLines(job.Expected)

	n := len(got)
	if len(want) < n {
		n = len(want)
	}
	for i := 0; i < n; i++ {
		if got[i] != want[i] {
			return result.VerdictWA, fmt.Sprintf("line %d: got %q, want %q", i+1, got[i], want[i]), nil
		}
	}
	if len(got) > len(want) {
		return result.VerdictWA, fmt.Sprintf("line %d: got %q, want nothing", n+1, got[n]), nil
	}
	if len(want) > len(got) {
		return result.VerdictWA, fmt.Sprintf("line %d: got nothing, want %q", n+1, want[n]), nil
	}
	return result.VerdictAC, "", nil
}

// normalizeLines splits text into lines with trailing whitespace removed
// per line and trailing blank lines dropped.
func normalizeLines(text []byte) []string {
	if len(text) == 0 {
		return nil
	}
	raw := strings.Split(strings.ReplaceAll(string(text), "\r\n", "\n"), "\n")
	lines := make([]string, len(raw))
	for i, line := range raw {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
