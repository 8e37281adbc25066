package errors_test

import (
	stderrors "errors"
	"io/fs"
	"strings"
	"testing"

	appErr "arbiter/pkg/errors"
)

func TestNewCarriesCodeAndMessage(t *testing.T) {
	err := appErr.Newf(appErr.CompileFailed, "compilation failed")
	if appErr.GetCode(err) != appErr.CompileFailed {
		t.Fatalf("code = %d", appErr.GetCode(err))
	}
	if !strings.Contains(err.Error(), "compilation failed") {
		t.Fatalf("message lost: %v", err)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fs.ErrNotExist
	err := appErr.Wrapf(cause, appErr.FileReadFailed, "read %s failed", "001.in")

	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Fatal("wrapped cause not reachable via errors.Is")
	}
	if appErr.GetCode(err) != appErr.FileReadFailed {
		t.Fatalf("code = %d", appErr.GetCode(err))
	}
	if !strings.Contains(err.Error(), "001.in") {
		t.Fatalf("context lost: %v", err)
	}
}

func TestGetCodeOnForeignError(t *testing.T) {
	if code := appErr.GetCode(stderrors.New("plain")); code != appErr.InternalError {
		t.Fatalf("foreign error code = %d, want internal", code)
	}
	if code := appErr.GetCode(nil); code != appErr.Success {
		t.Fatalf("nil error code = %d, want success", code)
	}
}

func TestValidationError(t *testing.T) {
	err := appErr.ValidationError("time_limit_ms", "required")
	if appErr.GetCode(err) != appErr.ValidationFailed {
		t.Fatalf("code = %d", appErr.GetCode(err))
	}
	if err.Details["field"] != "time_limit_ms" || err.Details["reason"] != "required" {
		t.Fatalf("details = %v", err.Details)
	}
}
