// Package errors provides the standardized error taxonomy for capability
// calls, routing and session transitions.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeCapabilityCallFailed ErrorCode = "CAPABILITY_CALL_FAILED"
	ErrCodeCapabilityTimeout    ErrorCode = "CAPABILITY_TIMEOUT"
	ErrCodeUnknownCapability    ErrorCode = "UNKNOWN_CAPABILITY"
	ErrCodeEmptyRequest         ErrorCode = "EMPTY_REQUEST"

	ErrCodeRoutingFailed  ErrorCode = "ROUTING_FAILED"
	ErrCodeUnmappedIntent ErrorCode = "UNMAPPED_INTENT"

	ErrCodeShapeMismatch ErrorCode = "SHAPE_MISMATCH"

	ErrCodeInvalidTransition  ErrorCode = "INVALID_TRANSITION"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodePreconditionFailed ErrorCode = "PRECONDITION_FAILED"
	ErrCodeStaleResponse      ErrorCode = "STALE_RESPONSE"
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches another *StandardError by code, so sentinels built with New
// work with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMetadata returns e with the key set.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// New builds a bare error for a code. Mostly useful as an errors.Is target.
func New(code ErrorCode) *StandardError {
	return &StandardError{Code: code}
}

// NewCapabilityCallFailedError wraps a transport or non-success status failure.
func NewCapabilityCallFailedError(capability string, err error) *StandardError {
	details := fmt.Sprintf("capability: %s", capability)
	if err != nil {
		details = fmt.Sprintf("capability: %s, error: %s", capability, err.Error())
	}
	return newError(ErrCodeCapabilityCallFailed, "Capability call failed", details, true, err)
}

// NewCapabilityStatusError reports a response whose status was not success.
func NewCapabilityStatusError(capability, status, message string) *StandardError {
	return newError(ErrCodeCapabilityCallFailed,
		"Capability returned a non-success status",
		fmt.Sprintf("capability: %s, status: %s, message: %s", capability, status, message),
		true, nil)
}

func NewCapabilityTimeoutError(capability string, err error) *StandardError {
	return newError(ErrCodeCapabilityTimeout, "Capability call timed out",
		fmt.Sprintf("capability: %s", capability), true, err)
}

func NewUnknownCapabilityError(capability string) *StandardError {
	return newError(ErrCodeUnknownCapability, "Unknown capability",
		fmt.Sprintf("capability: %q", capability), false, nil)
}

func NewEmptyRequestError(capability string) *StandardError {
	return newError(ErrCodeEmptyRequest, "Capability request must not be empty",
		fmt.Sprintf("capability: %s", capability), false, nil)
}

// NewRoutingFailedError means the classification call itself failed; no
// downstream capability was invoked.
func NewRoutingFailedError(err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return newError(ErrCodeRoutingFailed, "Intent routing failed", details, true, err)
}

func NewUnmappedIntentError(intent string) *StandardError {
	return newError(ErrCodeUnmappedIntent, "Classifier returned an intent with no target capability",
		fmt.Sprintf("intent: %q", intent), false, nil)
}

func NewShapeMismatchError(capability string, problems []string) *StandardError {
	return newError(ErrCodeShapeMismatch, "Capability payload does not match its schema",
		fmt.Sprintf("capability: %s, problems: %s", capability, strings.Join(problems, "; ")), false, nil)
}

func NewInvalidTransitionError(from, to string) *StandardError {
	return newError(ErrCodeInvalidTransition, "Screen transition not allowed",
		fmt.Sprintf("from: %s, to: %s", from, to), false, nil)
}

func NewNotFoundError(kind, id string) *StandardError {
	return newError(ErrCodeNotFound, fmt.Sprintf("%s not found", kind),
		fmt.Sprintf("id: %s", id), false, nil)
}

func NewPreconditionFailedError(details string) *StandardError {
	return newError(ErrCodePreconditionFailed, "Action not available in the current state", details, false, nil)
}

func NewStaleResponseError(slot string, token, latest uint64) *StandardError {
	return newError(ErrCodeStaleResponse, "Response superseded by a newer request",
		fmt.Sprintf("slot: %s, token: %d, latest: %d", slot, token, latest), false, nil)
}

func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid input", details, false, nil)
}

// Normalize ensures we always have a StandardError.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// CodeOf returns the code of err, or "" when err is nil.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	return Normalize(err).Code
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CAPABILITY") || codeStr == string(ErrCodeEmptyRequest):
		return "CAPABILITY"
	case strings.Contains(codeStr, "ROUTING") || strings.Contains(codeStr, "INTENT"):
		return "ROUTING"
	case strings.Contains(codeStr, "SHAPE"):
		return "NORMALIZATION"
	case strings.Contains(codeStr, "TRANSITION") || strings.Contains(codeStr, "PRECONDITION") || strings.Contains(codeStr, "STALE"):
		return "SESSION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "NOT_FOUND"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
