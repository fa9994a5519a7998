package jobs

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"directory-console/internal/common/backend"
	"directory-console/internal/common/errors"
	"directory-console/internal/common/logger"
	"directory-console/internal/common/notify"
	"directory-console/internal/models"
	"directory-console/internal/submission"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) CreateJob(ctx context.Context, p *submission.Payload) (*backend.Result, error) {
	args := m.Called(ctx, p)
	res, _ := args.Get(0).(*backend.Result)
	return res, args.Error(1)
}

func validJob() models.JobPosting {
	return models.JobPosting{
		UnitType:         models.UnitStitching,
		OrderQuantity:    5000,
		ShortDescription: "Polo t-shirts, 5000 pcs",
		Location:         "Tiruppur",
		Certifications:   []string{"GOTS"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.JobPosting)
		field  string
		want   string
	}{
		{"unit type", func(j *models.JobPosting) { j.UnitType = "" }, "unitType", "Unit Type is required"},
		{"zero quantity", func(j *models.JobPosting) { j.OrderQuantity = 0 }, "orderQuantity", "Order quantity must be a positive number"},
		{"negative quantity", func(j *models.JobPosting) { j.OrderQuantity = -3 }, "orderQuantity", "Order quantity must be a positive number"},
		{"short missing", func(j *models.JobPosting) { j.ShortDescription = "   " }, "shortDescription", "Short description is required"},
		{"short too short", func(j *models.JobPosting) { j.ShortDescription = "  tees   " }, "shortDescription", "Short description must be at least 10 characters"},
		{"detailed too short", func(j *models.JobPosting) { j.DetailedDescription = "needs piping" }, "detailedDescription", "Detailed description must be at least 20 characters"},
		{"detailed blank", func(j *models.JobPosting) { j.DetailedDescription = "    " }, "detailedDescription", "Detailed description must be at least 20 characters"},
		{"location", func(j *models.JobPosting) { j.Location = "" }, "location", "Location is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := validJob()
			tt.mutate(&job)
			errs := Validate(job)
			assert.Equal(t, tt.want, errs[tt.field])
			assert.Len(t, errs, 1)
		})
	}

	assert.True(t, Validate(validJob()).OK())
}

func newTestPoster(t *testing.T, b *mockBackend) (*Poster, *notify.Recorder) {
	t.Helper()
	rec := &notify.Recorder{}
	p := NewPoster(Dependencies{Logger: logger.NewTestLogger(t), Backend: b, Notifier: rec})
	p.Job = validJob()
	return p, rec
}

func TestSubmit_InvalidNeverCallsBackend(t *testing.T) {
	b := &mockBackend{}
	p, rec := newTestPoster(t, b)
	p.Job.Location = ""

	err := p.Submit(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidationFailed))
	assert.Empty(t, rec.Notices())
	b.AssertNotCalled(t, "CreateJob", mock.Anything, mock.Anything)
}

func TestSubmit_Success(t *testing.T) {
	b := &mockBackend{}
	var sent *submission.Payload
	b.On("CreateJob", mock.Anything, mock.AnythingOfType("*submission.Payload")).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*submission.Payload) }).
		Return(&backend.Result{Status: http.StatusCreated}, nil)

	p, rec := newTestPoster(t, b)
	require.NoError(t, p.Submit(context.Background()))
	b.AssertExpectations(t)

	req, err := http.NewRequest(http.MethodPost, "/", bytes.NewReader(sent.Body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", sent.ContentType)
	require.NoError(t, req.ParseMultipartForm(1<<20))
	assert.Equal(t, "tiruppur", req.FormValue("location"))
	assert.Equal(t, "5000", req.FormValue("orderQuantity"))
	assert.Equal(t, []string{"GOTS"}, req.MultipartForm.Value["certifications"])

	last, _ := rec.Last()
	assert.Equal(t, models.NoticeSuccess, last.Level)
	assert.Equal(t, "Job posted successfully!", last.Title)
	assert.Equal(t, models.JobPosting{}, p.Job)
}

func TestSubmit_Failures(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantTitle string
		wantDesc  string
	}{
		{
			name:      "field errors",
			err:       errors.NewBackendRejectedError("jobs.create", 422, "Invalid", map[string][]string{"orderQuantity": {"too large"}, "location": {"unknown"}}),
			wantTitle: "Validation failed",
			wantDesc:  "location: unknown | orderQuantity: too large",
		},
		{
			name:      "message",
			err:       errors.NewBackendRejectedError("jobs.create", 400, "Duplicate job", nil),
			wantTitle: "Failed to post job",
			wantDesc:  "Duplicate job",
		},
		{
			name:      "no message",
			err:       errors.NewBackendRejectedError("jobs.create", 400, "", nil),
			wantTitle: "Failed to post job",
			wantDesc:  "Please check your inputs and try again.",
		},
		{
			name:      "transport",
			err:       errors.NewNetworkError("jobs.create", context.DeadlineExceeded),
			wantTitle: "An error occurred",
			wantDesc:  "Unable to post job. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &mockBackend{}
			b.On("CreateJob", mock.Anything, mock.Anything).Return(nil, tt.err)
			p, rec := newTestPoster(t, b)

			require.Error(t, p.Submit(context.Background()))

			last, _ := rec.Last()
			assert.Equal(t, models.NoticeError, last.Level)
			assert.Equal(t, tt.wantTitle, last.Title)
			assert.Equal(t, tt.wantDesc, last.Description)
			assert.True(t, strings.HasPrefix(p.Job.ShortDescription, "Polo"))
		})
	}
}

func TestToggleCertification(t *testing.T) {
	p := NewPoster(Dependencies{})
	p.ToggleCertification("GOTS")
	p.ToggleCertification("OEKO-TEX")
	p.ToggleCertification("GOTS")
	assert.Equal(t, []string{"OEKO-TEX"}, p.Job.Certifications)
}
