// Package errors provides standardized error handling for the console and
// its backend client.
package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Local, never reach the network.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeIncompleteDraft  ErrorCode = "INCOMPLETE_DRAFT"
	ErrCodeUnknownUnitType  ErrorCode = "UNKNOWN_UNIT_TYPE"
	ErrCodeFormUnavailable  ErrorCode = "FORM_UNAVAILABLE"
	ErrCodeInvalidStep      ErrorCode = "INVALID_STEP"
	ErrCodeAttachment       ErrorCode = "ATTACHMENT_INVALID"
	ErrCodeEncodingFailed   ErrorCode = "ENCODING_FAILED"

	// Transport and backend.
	ErrCodeNetwork          ErrorCode = "NETWORK_ERROR"
	ErrCodeBackendRejected  ErrorCode = "BACKEND_REJECTED"
	ErrCodeDecodeFailed     ErrorCode = "RESPONSE_DECODE_FAILED"
	ErrCodeNotFound         ErrorCode = "RESOURCE_NOT_FOUND"
	ErrCodeNotAuthenticated ErrorCode = "NOT_AUTHENTICATED"
	ErrCodeLoginInProgress  ErrorCode = "LOGIN_IN_PROGRESS"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Status    int                    `json:"status,omitempty"`
	Fields    map[string][]string    `json:"fields,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// HasFieldErrors reports whether the backend returned a per-field map.
func (e *StandardError) HasFieldErrors() bool {
	return len(e.Fields) > 0
}

// ==========================
// 2. Constructors
// ==========================

// NewValidationError carries local field errors keyed by field name.
func NewValidationError(fields map[string]string) *StandardError {
	converted := make(map[string][]string, len(fields))
	for k, v := range fields {
		converted[k] = []string{v}
	}
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Validation failed",
		Details:   FieldErrorSummary(converted),
		Retryable: false,
		Fields:    converted,
		Timestamp: time.Now().UTC(),
	}
}

// NewIncompleteDraftError is returned when the final submit gate fails.
func NewIncompleteDraftError(missing []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIncompleteDraft,
		Message:   "Please fill all required company details",
		Details:   fmt.Sprintf("missing: %s", strings.Join(missing, ", ")),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewUnknownUnitTypeError(unitType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnknownUnitType,
		Message:   "Unknown unit type",
		Details:   fmt.Sprintf("unitType: %s", unitType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewFormUnavailableError(unitType string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFormUnavailable,
		Message:   "Machine Setup under development",
		Details:   fmt.Sprintf("unitType: %s", unitType),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidStepError(from, action string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidStep,
		Message:   "Action not available on this step",
		Details:   fmt.Sprintf("step: %s, action: %s", from, action),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewAttachmentError(name string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAttachment,
		Message:   "Attachment could not be used",
		Details:   fmt.Sprintf("file: %s, error: %s", name, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewEncodingError(part string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEncodingFailed,
		Message:   "Failed to encode request body",
		Details:   fmt.Sprintf("part: %s, error: %s", part, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewNetworkError wraps a transport failure.
func NewNetworkError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNetwork,
		Message:   fmt.Sprintf("Request '%s' failed", operation),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewBackendRejectedError carries the backend's message and field map.
func NewBackendRejectedError(operation string, status int, message string, fields map[string][]string) *StandardError {
	return &StandardError{
		Code:      ErrCodeBackendRejected,
		Message:   message,
		Details:   fmt.Sprintf("operation: %s, status: %d", operation, status),
		Retryable: status >= 500,
		Status:    status,
		Fields:    fields,
		Timestamp: time.Now().UTC(),
	}
}

func NewDecodeError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDecodeFailed,
		Message:   "Unexpected response from server",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewNotFoundError(resource, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Status:    404,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotAuthenticatedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotAuthenticated,
		Message:   "Not authenticated",
		Details:   details,
		Retryable: false,
		Status:    401,
		Timestamp: time.Now().UTC(),
	}
}

func NewLoginInProgressError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLoginInProgress,
		Message:   "Login already in progress",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// As extracts a *StandardError from anywhere in err's chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Code == code
}

// UserMessage returns a message fit for a notice: the backend or local
// message when there is one, otherwise fallback.
func UserMessage(err error, fallback string) string {
	stdErr, ok := As(err)
	if !ok || stdErr.Message == "" || stdErr.Code == ErrCodeNetwork {
		return fallback
	}
	return stdErr.Message
}

// FieldErrorSummary renders {"a": ["x", "y"], "b": ["z"]} as
// "a: x, y | b: z" with fields in sorted order.
func FieldErrorSummary(fields map[string][]string) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(fields[k], ", ")))
	}
	return strings.Join(parts, " | ")
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed, ErrCodeIncompleteDraft, ErrCodeUnknownUnitType,
		ErrCodeFormUnavailable, ErrCodeInvalidStep, ErrCodeAttachment:
		return "LOCAL"
	case ErrCodeNetwork, ErrCodeDecodeFailed, ErrCodeEncodingFailed:
		return "TRANSPORT"
	case ErrCodeBackendRejected, ErrCodeNotFound:
		return "BACKEND"
	case ErrCodeNotAuthenticated, ErrCodeLoginInProgress:
		return "AUTH"
	default:
		return "OTHER"
	}
}

// Outcome labels err for submission metrics: success, rejected,
// network_error, invalid or error.
func Outcome(err error) string {
	if err == nil {
		return "success"
	}
	stdErr, ok := As(err)
	if !ok {
		return "error"
	}
	switch GetErrorCategory(stdErr.Code) {
	case "LOCAL":
		return "invalid"
	case "TRANSPORT":
		return "network_error"
	case "BACKEND", "AUTH":
		return "rejected"
	default:
		return "error"
	}
}
