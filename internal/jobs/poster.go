// Package jobs posts manufacturing job requirements.
package jobs

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"directory-console/internal/common/backend"
	"directory-console/internal/common/errors"
	"directory-console/internal/common/logger"
	"directory-console/internal/common/metrics"
	"directory-console/internal/common/notify"
	"directory-console/internal/common/observability"
	"directory-console/internal/common/validation"
	"directory-console/internal/models"
	"directory-console/internal/submission"
)

const (
	msgPosted        = "Job posted successfully!"
	msgPostedDesc    = "Your job posting is now live and visible to suppliers."
	msgInvalid       = "Validation failed"
	msgPostFailed    = "Failed to post job"
	msgPostFallback  = "Please check your inputs and try again."
	msgTransport     = "An error occurred"
	msgTransportDesc = "Unable to post job. Please try again later."
)

var jobMessages = validation.Messages{
	"unitType":                  "Unit Type is required",
	"orderQuantity":             "Order quantity must be a positive number",
	"shortDescription.required": "Short description is required",
	"shortDescription.min":      "Short description must be at least 10 characters",
	"detailedDescription":       "Detailed description must be at least 20 characters",
	"location":                  "Location is required",
}

var jobValidator = validation.NewStructValidator()

// Backend creates jobs.
type Backend interface {
	CreateJob(ctx context.Context, p *submission.Payload) (*backend.Result, error)
}

type Dependencies struct {
	Logger        logger.Logger
	Backend       Backend
	Notifier      notify.Notifier
	Observability *observability.Observability
	Encoder       submission.Encoder
}

// Poster holds one job form. It is cleared after a successful post.
type Poster struct {
	deps   Dependencies
	logger logger.Logger

	Job    models.JobPosting
	Images []submission.Attachment
}

func NewPoster(deps Dependencies) *Poster {
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	if deps.Notifier == nil {
		deps.Notifier = &notify.Recorder{}
	}
	return &Poster{
		deps:   deps,
		logger: deps.Logger.WithFields(map[string]interface{}{"component": "jobs"}),
		Images: []submission.Attachment{},
	}
}

// ToggleCertification adds name if absent, removes it if present.
func (p *Poster) ToggleCertification(name string) {
	for i, c := range p.Job.Certifications {
		if c == name {
			p.Job.Certifications = append(p.Job.Certifications[:i:i], p.Job.Certifications[i+1:]...)
			return
		}
	}
	p.Job.Certifications = append(p.Job.Certifications, name)
}

// Validate applies the job form's rules. Descriptions are measured
// without surrounding whitespace.
func Validate(job models.JobPosting) validation.FieldErrors {
	trimmed := job
	trimmed.UnitType = models.UnitType(strings.TrimSpace(string(job.UnitType)))
	trimmed.ShortDescription = strings.TrimSpace(job.ShortDescription)
	trimmed.DetailedDescription = strings.TrimSpace(job.DetailedDescription)

	errs := jobValidator.Validate(trimmed, jobMessages)
	if job.DetailedDescription != "" && trimmed.DetailedDescription == "" {
		errs.Add("detailedDescription", jobMessages["detailedDescription"])
	}
	return errs
}

// Submit validates and posts the job. Invalid input never reaches the
// backend and produces no notice; the caller renders the field errors.
func (p *Poster) Submit(ctx context.Context) error {
	if errs := Validate(p.Job); !errs.OK() {
		return errs.Err()
	}

	payload, err := p.deps.Encoder.EncodeJob(p.Job, p.Images)
	if err != nil {
		notify.Error(p.deps.Notifier, msgTransport, msgTransportDesc)
		return err
	}

	ctx, span := p.deps.Observability.StartSpan(ctx, "jobs.create",
		attribute.String("unitType", string(p.Job.UnitType)),
		attribute.Int("images", len(p.Images)),
	)
	defer span.End()

	start := time.Now()
	_, err = p.deps.Backend.CreateJob(ctx, payload)
	status := errors.Outcome(err)
	p.deps.Observability.RecordSubmission(ctx, "job", status)
	p.deps.Observability.RecordSubmissionDuration(ctx, "job", time.Since(start), status)
	metrics.Submissions.WithLabelValues("job", status).Inc()

	if err != nil {
		span.RecordError(err)
		p.notifyFailure(err)
		return err
	}

	p.logger.Info("Job posted", map[string]interface{}{
		"unitType":      string(p.Job.UnitType),
		"orderQuantity": p.Job.OrderQuantity,
	})
	notify.Success(p.deps.Notifier, msgPosted, msgPostedDesc)
	p.Job = models.JobPosting{}
	p.Images = []submission.Attachment{}
	return nil
}

func (p *Poster) notifyFailure(err error) {
	se, ok := errors.As(err)
	if !ok || se.Code != errors.ErrCodeBackendRejected {
		p.logger.Error("Job post failed", map[string]interface{}{"error": err.Error()})
		notify.Error(p.deps.Notifier, msgTransport, msgTransportDesc)
		return
	}

	p.logger.Warn("Job rejected by backend", map[string]interface{}{
		"status":  se.Status,
		"message": se.Message,
	})
	if se.HasFieldErrors() {
		notify.Error(p.deps.Notifier, msgInvalid, errors.FieldErrorSummary(se.Fields))
		return
	}
	notify.Error(p.deps.Notifier, msgPostFailed, errors.UserMessage(err, msgPostFallback))
}
