// internal/common/errors/handler.go
package errors

import (
	"time"

	"directory-console/internal/models"
)

// Logger is the subset of logger.Logger the handler needs.
type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

// ErrorHandler turns failed operations into user notices and log lines.
type ErrorHandler struct {
	logger Logger
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Notice logs err and builds the notice shown for it. title is the
// headline for the operation; fallback is used when err carries no
// message worth showing.
func (h *ErrorHandler) Notice(operation string, err error, title, fallback string) models.Notice {
	stdErr := h.normalizeError(err)
	h.logError(operation, stdErr)

	description := UserMessage(stdErr, fallback)
	if stdErr.HasFieldErrors() && stdErr.Code == ErrCodeBackendRejected {
		description = FieldErrorSummary(stdErr.Fields)
	}
	return models.NewNotice(models.NoticeError, title, description)
}

func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := As(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func (h *ErrorHandler) logError(operation string, stdErr *StandardError) {
	if h.logger == nil {
		return
	}
	fields := map[string]interface{}{
		"operation": operation,
		"errorCode": string(stdErr.Code),
		"category":  GetErrorCategory(stdErr.Code),
		"details":   stdErr.Details,
		"retryable": stdErr.Retryable,
	}
	if stdErr.Status != 0 {
		fields["status"] = stdErr.Status
	}

	// Local validation problems are expected input errors.
	if GetErrorCategory(stdErr.Code) == "LOCAL" {
		h.logger.Warn("Operation rejected locally", fields)
		return
	}
	h.logger.Error("Operation failed", fields)
}
