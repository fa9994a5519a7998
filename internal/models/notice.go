package models

import "time"

// NoticeLevel is the severity of a user-facing notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a one-shot message surfaced to the operator.
type Notice struct {
	Level       NoticeLevel `json:"level"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// NewNotice stamps a notice with the current time.
func NewNotice(level NoticeLevel, title, description string) Notice {
	return Notice{
		Level:       level,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
}
