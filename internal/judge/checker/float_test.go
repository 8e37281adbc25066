package checker_test

import (
	"context"
	"strings"
	"testing"

	"arbiter/internal/judge/checker"
	"arbiter/internal/judge/result"
)

func runFloat(t *testing.T, tol float64, output, expected string) (result.Verdict, string) {
	t.Helper()
	verdict, detail, err := checker.FloatChecker{Tolerance: tol}.Check(context.Background(), checker.Job{
		Output:   []byte(output),
		Expected: []byte(expected),
	})
	if err != nil {
		t.Fatalf("float check: %v", err)
	}
	return verdict, detail
}

func TestFloatWithinTolerance(t *testing.T) {
	// |3.141592 - 3.1415927| is about 7e-7, inside 1e-6.
	if v, d := runFloat(t, 1e-6, "3.141592\n", "3.1415927\n"); v != result.VerdictAC {
		t.Fatalf("verdict = %s (%s), want AC", v, d)
	}
}

func TestFloatBoundaryInclusive(t *testing.T) {
	if v, d := runFloat(t, 0.5, "1.0\n", "1.5\n"); v != result.VerdictAC {
		t.Fatalf("|diff| == tol must be AC, got %s (%s)", v, d)
	}
	if v, _ := runFloat(t, 0.5, "1.0\n", "1.6\n"); v != result.VerdictWA {
		t.Fatalf("|diff| > tol must be WA, got %s", v)
	}
}

func TestFloatTokenCountMismatch(t *testing.T) {
	v, detail := runFloat(t, 1e-6, "1.0 2.0\n", "1.0 2.0 3.0\n")
	if v != result.VerdictWA {
		t.Fatalf("verdict = %s, want WA", v)
	}
	if !strings.Contains(detail, "token count differs") {
		t.Fatalf("detail = %q, want token count mismatch", detail)
	}
}

func TestFloatNonNumericTokens(t *testing.T) {
	if v, _ := runFloat(t, 1e-6, "YES 1.000000\n", "YES 1.0000004\n"); v != result.VerdictAC {
		t.Fatal("matching non-numeric token with close numeric token should be AC")
	}
	if v, _ := runFloat(t, 1e-6, "YES\n", "NO\n"); v != result.VerdictWA {
		t.Fatal("differing non-numeric tokens should be WA")
	}
}

func TestFloatFirstViolatingTokenReported(t *testing.T) {
	v, detail := runFloat(t, 1e-6, "1.0 5.0 9.0\n", "1.0 6.0 9.0\n")
	if v != result.VerdictWA {
		t.Fatalf("verdict = %s, want WA", v)
	}
	if !strings.Contains(detail, "token 2") {
		t.Fatalf("detail = %q, want first violating token position", detail)
	}
}

func TestFloatEmptyOutputs(t *testing.T) {
	if v, _ := runFloat(t, 1e-6, "", ""); v != result.VerdictAC {
		t.Fatal("empty vs empty should be AC")
	}
	if v, _ := runFloat(t, 1e-6, "1.0\n", ""); v != result.VerdictWA {
		t.Fatal("output present when none expected should be WA")
	}
}
