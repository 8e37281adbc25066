package checker

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"arbiter/internal/judge/result"
)

// FloatChecker tokenizes both outputs and compares numeric tokens within an
// inclusive absolute tolerance. Non-numeric tokens require exact equality.
type FloatChecker struct {
	Tolerance float64
}

func (c FloatChecker) Check(ctx context.Context, job Job) (result.Verdict, string, error) {
	got := strings.Fields(string(job.Output))
	want := strings.Fields(string(job.Expected))
	if len(got) != len(want) {
		return result.VerdictWA, fmt.Sprintf("token count differs: got %d, want %d", len(got), len(want)), nil
	}

	for i := range want {
		a, errA := strconv.ParseFloat(got[i], 64)
		b, errB := strconv.ParseFloat(want[i], 64)
		if errA == nil && errB == nil {
			diff := math.Abs(a - b)
			if diff <= c.Tolerance {
				continue
			}
			return result.VerdictWA,
				fmt.Sprintf("token %d: got %s, want %s (|diff| = %g > %g)", i+1, got[i], want[i], diff, c.Tolerance), nil
		}
		if got[i] != want[i] {
			return result.VerdictWA, fmt.Sprintf("token %d: got %q, want %q", i+1, got[i], want[i]), nil
		}
	}
	return result.VerdictAC, "", nil
}
