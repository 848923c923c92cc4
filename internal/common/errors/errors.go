// internal/common/errors/errors.go

// Package errors provides the engine's error taxonomy. Remote-service and
// parse failures are recoverable (the caller substitutes a local result);
// input validation failures are rejected at the API boundary and never
// retried.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeRemoteRankFailed      ErrorCode = "REMOTE_RANK_FAILED"
	ErrCodeRemoteTimeout         ErrorCode = "REMOTE_TIMEOUT"
	ErrCodeMalformedResponse     ErrorCode = "MALFORMED_RESPONSE"
	ErrCodeEmptyRemoteResult     ErrorCode = "EMPTY_REMOTE_RESULT"
	ErrCodeReportSynthesisFailed ErrorCode = "REPORT_SYNTHESIS_FAILED"
	ErrCodePredictionFailed      ErrorCode = "PREDICTION_FAILED"
	ErrCodePredictorUnavailable  ErrorCode = "PREDICTOR_UNAVAILABLE"
	ErrCodeInvalidProject        ErrorCode = "INVALID_PROJECT"
	ErrCodeInvalidProvider       ErrorCode = "INVALID_PROVIDER"
	ErrCodeCatalogQueryFailed    ErrorCode = "CATALOG_QUERY_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	// Recoverable errors are absorbed by a local fallback instead of being
	// surfaced to the caller.
	Recoverable bool      `json:"recoverable"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewRemoteRankFailedError creates a recoverable remote ranking error.
func NewRemoteRankFailedError(err error) *StandardError {
	return &StandardError{
		Code:        ErrCodeRemoteRankFailed,
		Message:     "Remote ranking service error",
		Details:     err.Error(),
		Recoverable: true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewRemoteTimeoutError creates a recoverable timeout error.
func NewRemoteTimeoutError(service string) *StandardError {
	return &StandardError{
		Code:        ErrCodeRemoteTimeout,
		Message:     fmt.Sprintf("Service '%s' timeout", service),
		Details:     "call exceeded the caller-supplied deadline",
		Recoverable: true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewMalformedResponseError creates a recoverable parse error.
func NewMalformedResponseError(details string) *StandardError {
	return &StandardError{
		Code:        ErrCodeMalformedResponse,
		Message:     "Remote response could not be parsed",
		Details:     details,
		Recoverable: true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewEmptyRemoteResultError signals a remote result that matched nothing.
func NewEmptyRemoteResultError() *StandardError {
	return &StandardError{
		Code:        ErrCodeEmptyRemoteResult,
		Message:     "Remote ranking returned no usable entries",
		Recoverable: true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewReportSynthesisFailedError creates a recoverable narrative error.
func NewReportSynthesisFailedError(err error) *StandardError {
	return &StandardError{
		Code:        ErrCodeReportSynthesisFailed,
		Message:     "Remote analysis generation failed",
		Details:     err.Error(),
		Recoverable: true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewPredictorUnavailableError signals the prediction service could not be
// reached at all, as opposed to answering with a failed prediction.
func NewPredictorUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:        ErrCodePredictorUnavailable,
		Message:     "Cost prediction service unreachable",
		Details:     err.Error(),
		Recoverable: true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewPredictionFailedError creates a recoverable prediction error; the
// caller returns the deterministic estimate alongside it.
func NewPredictionFailedError(err error) *StandardError {
	return &StandardError{
		Code:        ErrCodePredictionFailed,
		Message:     "Cost prediction service error",
		Details:     err.Error(),
		Recoverable: true,
		Timestamp:   time.Now().UTC(),
	}
}

// NewInvalidProjectError creates a non-recoverable validation error.
func NewInvalidProjectError(err error) *StandardError {
	return &StandardError{
		Code:        ErrCodeInvalidProject,
		Message:     "Project failed validation",
		Details:     err.Error(),
		Recoverable: false,
		Timestamp:   time.Now().UTC(),
	}
}

// NewInvalidProviderError creates a non-recoverable validation error.
func NewInvalidProviderError(err error) *StandardError {
	return &StandardError{
		Code:        ErrCodeInvalidProvider,
		Message:     "Provider failed validation",
		Details:     err.Error(),
		Recoverable: false,
		Timestamp:   time.Now().UTC(),
	}
}

// NewCatalogQueryFailedError creates a non-recoverable store error.
func NewCatalogQueryFailedError(err error) *StandardError {
	return &StandardError{
		Code:        ErrCodeCatalogQueryFailed,
		Message:     "Provider catalog query failed",
		Details:     err.Error(),
		Recoverable: false,
		Timestamp:   time.Now().UTC(),
	}
}

// IsRecoverable reports whether err (or anything it wraps) is a recoverable
// StandardError. Recoverable errors must never reach the end caller; the
// component that sees one substitutes its local fallback.
func IsRecoverable(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Recoverable
	}
	return false
}
