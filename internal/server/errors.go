package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/skosovsky/toolbox"
	"github.com/skosovsky/toolbox/internal/logging"
)

// Error codes returned in ErrorResponse.Code.
const (
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeValidation         = "VALIDATION_FAILED"
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeInvalidEncoding    = "INVALID_ENCODING"
	ErrCodeInvalidExpression  = "INVALID_EXPRESSION"
	ErrCodeInvalidPattern     = "INVALID_PATTERN"
	ErrCodeUnsupportedAlgo    = "UNSUPPORTED_ALGORITHM"
	ErrCodeInvalidDate        = "INVALID_DATE"
	ErrCodeConfiguration      = "CONFIGURATION_ERROR"
	ErrCodeEncoding           = "ENCODING_ERROR"
	ErrCodeDivisionByZero     = "DIVISION_BY_ZERO"
	ErrCodeInvalidColor       = "INVALID_COLOR"
	ErrCodeToolNotFound       = "TOOL_NOT_FOUND"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeRequestTooLarge    = "REQUEST_TOO_LARGE"
	ErrCodeTooManyCalls       = "TOO_MANY_CALLS"
	ErrCodeTimeout            = "TIMEOUT"
	ErrCodeCanceled           = "REQUEST_CANCELED"
	ErrCodeNotConfigured      = "NOT_CONFIGURED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// kindCodes maps ClientError kinds to their error code.
var kindCodes = []struct {
	kind error
	code string
}{
	{toolbox.ErrValidation, ErrCodeValidation},
	{toolbox.ErrInvalidJSON, ErrCodeInvalidJSON},
	{toolbox.ErrInvalidEncoding, ErrCodeInvalidEncoding},
	{toolbox.ErrInvalidExpression, ErrCodeInvalidExpression},
	{toolbox.ErrInvalidPattern, ErrCodeInvalidPattern},
	{toolbox.ErrUnsupportedAlgorithm, ErrCodeUnsupportedAlgo},
	{toolbox.ErrInvalidDate, ErrCodeInvalidDate},
	{toolbox.ErrConfiguration, ErrCodeConfiguration},
	{toolbox.ErrEncoding, ErrCodeEncoding},
	{toolbox.ErrDivisionByZero, ErrCodeDivisionByZero},
	{toolbox.ErrInvalidColor, ErrCodeInvalidColor},
}

// apiError is the HTTP rendering of a tool error.
type apiError struct {
	status    int
	code      string
	message   string
	retryable bool
}

// classify maps a tool execution error to status, code and a caller-safe message.
// System errors never expose their cause.
func classify(err error) apiError {
	var ce *toolbox.ClientError
	switch {
	case errors.Is(err, toolbox.ErrToolNotFound):
		return apiError{http.StatusNotFound, ErrCodeToolNotFound, err.Error(), false}
	case errors.Is(err, toolbox.ErrShutdown):
		return apiError{http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "service is shutting down", true}
	case errors.Is(err, toolbox.ErrTimeout):
		return apiError{http.StatusGatewayTimeout, ErrCodeTimeout, "tool execution timed out", true}
	case errors.Is(err, context.Canceled):
		return apiError{http.StatusRequestTimeout, ErrCodeCanceled, "request canceled", true}
	case errors.Is(err, toolbox.ErrNotConfigured):
		return apiError{http.StatusNotImplemented, ErrCodeNotConfigured, "tool is not configured on this server", false}
	case errors.As(err, &ce):
		code := ErrCodeInvalidRequest
		for _, kc := range kindCodes {
			if errors.Is(ce, kc.kind) {
				code = kc.code
				break
			}
		}
		return apiError{http.StatusBadRequest, code, ce.Reason, ce.Retryable}
	default:
		return apiError{http.StatusInternalServerError, ErrCodeInternalError, "internal error", true}
	}
}

func newErrorResponse(r *http.Request, code, message string, retryable bool, details map[string]any) ErrorResponse {
	return ErrorResponse{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: logging.RequestIDFromContext(r.Context()),
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}
}

// writeError writes an ErrorResponse with the given status.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string,
	retryable bool, details map[string]any) {
	respondJSON(w, r, status, newErrorResponse(r, code, message, retryable, details))
}

// writeToolError renders err as returned by the registry and logs system failures.
func writeToolError(w http.ResponseWriter, r *http.Request, tool string, err error) {
	e := classify(err)
	if e.status >= http.StatusInternalServerError && e.status != http.StatusNotImplemented {
		logging.Ctx(r.Context()).Error().Err(err).Str("tool", tool).Int("status", e.status).Msg("tool call failed")
	}
	writeError(w, r, e.status, e.code, e.message, e.retryable, map[string]any{"tool": tool})
}

// respondJSON marshals body and writes it with status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	respondRaw(w, r, status, data)
}

// respondRaw writes an already-encoded JSON body.
func respondRaw(w http.ResponseWriter, r *http.Request, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("failed to write response")
	}
}
