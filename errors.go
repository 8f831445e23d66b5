package toolbox

import (
	"errors"
	"fmt"
)

// Sentinel errors for the registry. Use errors.Is to check.
var (
	ErrToolNotFound = errors.New("tool not found")
	ErrTimeout      = errors.New("tool execution timeout")
	ErrValidation   = errors.New("validation failed")
	ErrShutdown     = errors.New("registry is shutting down")
	// ErrNotConfigured is wrapped in a SystemError when a tool depends on an optional
	// collaborator (e.g. an AI provider) that was not configured at startup.
	ErrNotConfigured = errors.New("tool is not configured")
)

// Operation failure kinds. Tools wrap them in a ClientError via Fail so callers
// can classify a failure with errors.Is.
var (
	ErrInvalidEncoding      = errors.New("invalid encoding")
	ErrInvalidExpression    = errors.New("invalid expression")
	ErrInvalidPattern       = errors.New("invalid pattern")
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	ErrInvalidDate          = errors.New("invalid date")
	ErrConfiguration        = errors.New("invalid configuration")
	ErrEncoding             = errors.New("encoding failed")
	ErrDivisionByZero       = errors.New("division by zero")
	ErrInvalidColor         = errors.New("invalid color")
	ErrInvalidJSON          = errors.New("invalid json")
)

// ClientError is an error caused by the caller's input (invalid JSON, schema
// violation, undecodable text). Its message is safe to return to the caller.
// Err optionally wraps a sentinel (e.g. ErrValidation) for errors.Is/errors.As.
type ClientError struct {
	Reason string
	// Retryable is set by the application. When true, the same call may succeed
	// later without changing arguments.
	Retryable bool
	Err       error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("invalid tool input: %s", e.Reason)
}

// Unwrap supports errors.Is/errors.As on wrapped chains (e.g. errors.Is(err, ErrValidation)).
func (e *ClientError) Unwrap() error { return e.Err }

// SystemError represents an internal failure (provider down, panic, etc.).
// The caller should not see the underlying error message.
type SystemError struct {
	Err error
}

func (e *SystemError) Error() string {
	return "internal system error during tool execution"
}

func (e *SystemError) Unwrap() error { return e.Err }

// Fail returns a ClientError of the given kind with a formatted reason.
func Fail(kind error, format string, args ...any) error {
	return &ClientError{Reason: fmt.Sprintf(format, args...), Err: kind}
}

// IsClientError returns true if err is or wraps a ClientError.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// IsSystemError returns true if err is or wraps a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// wrapJSONParseError returns a ClientError for JSON unmarshal failures.
func wrapJSONParseError(err error) error {
	return &ClientError{Reason: "json parse error: " + err.Error(), Err: ErrInvalidJSON}
}
