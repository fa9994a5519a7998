package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"directory-console/internal/models"
)

type mockLogger struct {
	mock.Mock
}

func (m *mockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *mockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func TestStandardError_Error(t *testing.T) {
	err := NewNotAuthenticatedError("cookie expired")
	assert.Equal(t, "StandardError[NOT_AUTHENTICATED]: Not authenticated", err.Error())
}

func TestFieldErrorSummary(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string][]string
		want   string
	}{
		{"empty", nil, ""},
		{"single", map[string][]string{"unitType": {"is required"}}, "unitType: is required"},
		{
			name: "multiple sorted",
			fields: map[string][]string{
				"orderQuantity":    {"must be positive"},
				"location":         {"is required", "too short"},
				"shortDescription": {"too short"},
			},
			want: "location: is required, too short | orderQuantity: must be positive | shortDescription: too short",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FieldErrorSummary(tt.fields))
		})
	}
}

func TestAsAndIsCode(t *testing.T) {
	base := NewBackendRejectedError("onboard", 400, "GST number invalid", nil)
	wrapped := fmt.Errorf("failed to onboard company: %w", base)

	got, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, base, got)
	assert.True(t, IsCode(wrapped, ErrCodeBackendRejected))
	assert.False(t, IsCode(wrapped, ErrCodeNetwork))
	assert.False(t, IsCode(stderrors.New("plain"), ErrCodeNetwork))
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"backend message", NewBackendRejectedError("delete", 409, "Company has open jobs", nil), "Company has open jobs"},
		{"empty backend message", NewBackendRejectedError("delete", 500, "", nil), "Failed to delete company"},
		{"network error", NewNetworkError("delete", stderrors.New("connection refused")), "Failed to delete company"},
		{"plain error", stderrors.New("boom"), "Failed to delete company"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err, "Failed to delete company"))
		})
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := NewNetworkError("login", cause)
	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, err.Retryable)
}

func TestErrorHandler_Notice(t *testing.T) {
	t.Run("backend field map is summarized", func(t *testing.T) {
		log := &mockLogger{}
		log.On("Error", "Operation failed", mock.Anything).Return()
		h := NewErrorHandler(log)

		err := NewBackendRejectedError("jobs.create", 422, "Invalid", map[string][]string{
			"orderQuantity": {"must be positive"},
		})
		notice := h.Notice("jobs.create", err, "Validation failed", "Please check your inputs and try again.")

		assert.Equal(t, models.NoticeError, notice.Level)
		assert.Equal(t, "Validation failed", notice.Title)
		assert.Equal(t, "orderQuantity: must be positive", notice.Description)
		log.AssertExpectations(t)
	})

	t.Run("local errors log as warnings", func(t *testing.T) {
		log := &mockLogger{}
		log.On("Warn", "Operation rejected locally", mock.MatchedBy(func(f map[string]interface{}) bool {
			return f["errorCode"] == string(ErrCodeIncompleteDraft)
		})).Return()
		h := NewErrorHandler(log)

		notice := h.Notice("wizard.submit", NewIncompleteDraftError([]string{"location"}), "Error", "Something went wrong")
		assert.Equal(t, "Please fill all required company details", notice.Description)
		log.AssertExpectations(t)
	})

	t.Run("unknown errors fall back", func(t *testing.T) {
		h := NewErrorHandler(nil)
		notice := h.Notice("wizard.submit", stderrors.New("eof"), "Error", "Something went wrong")
		assert.Equal(t, "Something went wrong", notice.Description)
	})
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{NewValidationError(map[string]string{"a": "b"}), "invalid"},
		{NewNetworkError("op", stderrors.New("refused")), "network_error"},
		{NewBackendRejectedError("op", 400, "bad", nil), "rejected"},
		{NewNotAuthenticatedError("expired"), "rejected"},
		{stderrors.New("boom"), "error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Outcome(tt.err))
	}
}
