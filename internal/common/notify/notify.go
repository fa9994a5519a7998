// Package notify delivers one-shot operator notices.
package notify

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"directory-console/internal/models"
)

// Notifier shows a notice to the operator.
type Notifier interface {
	Notify(n models.Notice)
}

func Info(n Notifier, title, description string) {
	n.Notify(models.NewNotice(models.NoticeInfo, title, description))
}

func Success(n Notifier, title, description string) {
	n.Notify(models.NewNotice(models.NoticeSuccess, title, description))
}

func Warning(n Notifier, title, description string) {
	n.Notify(models.NewNotice(models.NoticeWarning, title, description))
}

func Error(n Notifier, title, description string) {
	n.Notify(models.NewNotice(models.NoticeError, title, description))
}

// Recorder keeps every notice in order.
type Recorder struct {
	mu      sync.Mutex
	notices []models.Notice
}

func (r *Recorder) Notify(n models.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of what was recorded.
func (r *Recorder) Notices() []models.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Last returns the most recent notice.
func (r *Recorder) Last() (models.Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return models.Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Writer prints notices as text lines or JSON objects.
type Writer struct {
	mu     sync.Mutex
	out    io.Writer
	asJSON bool
}

// NewWriter writes to out; format is "text" or "json".
func NewWriter(out io.Writer, format string) *Writer {
	return &Writer{out: out, asJSON: format == "json"}
}

func (w *Writer) Notify(n models.Notice) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.asJSON {
		_ = json.NewEncoder(w.out).Encode(n)
		return
	}
	if n.Description != "" {
		fmt.Fprintf(w.out, "[%s] %s: %s\n", n.Level, n.Title, n.Description)
		return
	}
	fmt.Fprintf(w.out, "[%s] %s\n", n.Level, n.Title)
}

// Multi fans a notice out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(n models.Notice) {
	for _, target := range m {
		target.Notify(n)
	}
}
