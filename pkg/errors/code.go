package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 11000-11999: Configuration & Problem data errors
// 12000-12999: Compile errors
// 13000-13999: Execution & Sandbox errors
// 14000-14999: Checker errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalError ErrorCode = 10001
	InvalidParams ErrorCode = 10002
	NotFound      ErrorCode = 10003
	Timeout       ErrorCode = 10004

	// Filesystem errors (10100-10199)
	FileReadFailed  ErrorCode = 10100
	FileWriteFailed ErrorCode = 10101
	WorkspaceFailed ErrorCode = 10102
	ArtifactMissing ErrorCode = 10103
	DataPackCorrupt ErrorCode = 10104
	DataPackEscape  ErrorCode = 10105

	// Validation errors (10300-10399)
	ValidationFailed ErrorCode = 10300

	// ========== Configuration & Problem Data Errors (11000-11999) ==========

	ConfigLoadFailed     ErrorCode = 11000
	ConfigInvalid        ErrorCode = 11001
	UnknownCheckerType   ErrorCode = 11002
	TestDataMissing      ErrorCode = 11100
	TestDataInconsistent ErrorCode = 11101

	// ========== Compile Errors (12000-12999) ==========

	CompileFailed      ErrorCode = 12000
	CompileTimeout     ErrorCode = 12001
	CompileSpawnFailed ErrorCode = 12002

	// ========== Execution & Sandbox Errors (13000-13999) ==========

	SpawnFailed        ErrorCode = 13000
	WaitFailed         ErrorCode = 13001
	KillFailed         ErrorCode = 13002
	LimiterUnsupported ErrorCode = 13003
	JudgeSystemError   ErrorCode = 13100

	// ========== Checker Errors (14000-14999) ==========

	CheckerMissing      ErrorCode = 14000
	CheckerSpawnFailed  ErrorCode = 14001
	CheckerTimeout      ErrorCode = 14002
	CheckerBadExit      ErrorCode = 14003
	CheckerInputInvalid ErrorCode = 14004
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	Success:       "success",
	InternalError: "internal error",
	InvalidParams: "invalid parameters",
	NotFound:      "not found",
	Timeout:       "operation timed out",

	FileReadFailed:  "file read failed",
	FileWriteFailed: "file write failed",
	WorkspaceFailed: "workspace setup failed",
	ArtifactMissing: "compiled artifact missing",
	DataPackCorrupt: "test data pack is corrupt",
	DataPackEscape:  "test data pack entry escapes target directory",

	ValidationFailed: "validation failed",

	ConfigLoadFailed:     "configuration load failed",
	ConfigInvalid:        "configuration is invalid",
	UnknownCheckerType:   "unknown checker type",
	TestDataMissing:      "test data missing",
	TestDataInconsistent: "test data inconsistent",

	CompileFailed:      "compilation failed",
	CompileTimeout:     "compilation timed out",
	CompileSpawnFailed: "failed to start compiler",

	SpawnFailed:        "failed to start process",
	WaitFailed:         "failed to wait for process",
	KillFailed:         "failed to kill process",
	LimiterUnsupported: "resource limiter is not supported on this platform",
	JudgeSystemError:   "judge system error",

	CheckerMissing:      "checker executable missing",
	CheckerSpawnFailed:  "failed to start checker",
	CheckerTimeout:      "checker timed out",
	CheckerBadExit:      "checker exited with unexpected code",
	CheckerInputInvalid: "checker input invalid",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "unknown error"
}
