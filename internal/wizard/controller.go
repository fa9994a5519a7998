package wizard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"directory-console/internal/common/backend"
	"directory-console/internal/common/errors"
	"directory-console/internal/common/logger"
	"directory-console/internal/common/metrics"
	"directory-console/internal/common/notify"
	"directory-console/internal/common/observability"
	"directory-console/internal/machinery"
	"directory-console/internal/models"
	"directory-console/internal/submission"
)

const (
	msgUnitTypeChanged = "Unit type changed - machinery data has been reset"
	msgIncomplete      = "Please fill all required company details"
	msgNoServices      = "Add at least one service"
	msgOnboarded       = "Company onboarded successfully"
	msgOnboardFailed   = "Failed to onboard"
	msgSomethingWrong  = "Something went wrong"
)

// Submitter posts an encoded onboarding payload.
type Submitter interface {
	OnboardCompany(ctx context.Context, p *submission.Payload) (*backend.Result, error)
}

// Dependencies are the collaborators of a Controller.
type Dependencies struct {
	Logger        logger.Logger
	Backend       Submitter
	Notifier      notify.Notifier
	Registry      *machinery.Registry
	Observability *observability.Observability
	Encoder       submission.Encoder
}

// Controller drives one onboarding session through company, machinery
// and service. It is not safe for concurrent use.
type Controller struct {
	deps       Dependencies
	logger     logger.Logger
	errHandler *errors.ErrorHandler

	sessionID    string
	step         Step
	draft        *Draft
	lastUnitType models.UnitType

	company   *CompanyStep
	machinery *MachineryStep
	services  *ServiceStep
}

func NewController(deps Dependencies) *Controller {
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	if deps.Registry == nil {
		deps.Registry = machinery.Default()
	}
	if deps.Notifier == nil {
		deps.Notifier = &notify.Recorder{}
	}

	c := &Controller{deps: deps}
	c.start()
	return c
}

// start opens a fresh session on an empty draft.
func (c *Controller) start() {
	c.sessionID = uuid.NewString()
	c.logger = c.deps.Logger.WithFields(map[string]interface{}{
		"component": "wizard",
		"sessionId": c.sessionID,
	})
	c.errHandler = errors.NewErrorHandler(c.logger)
	c.step = StepCompany
	c.lastUnitType = ""
	if c.draft == nil {
		c.draft = NewDraft()
	} else {
		c.draft.reset()
	}
	c.company = &CompanyStep{draft: c.draft, owner: c}
	c.machinery = &MachineryStep{draft: c.draft, registry: c.deps.Registry}
	c.services = &ServiceStep{draft: c.draft}
}

func (c *Controller) Step() Step                { return c.step }
func (c *Controller) Draft() *Draft             { return c.draft }
func (c *Controller) SessionID() string         { return c.sessionID }
func (c *Controller) Company() *CompanyStep     { return c.company }
func (c *Controller) Machinery() *MachineryStep { return c.machinery }
func (c *Controller) Services() *ServiceStep    { return c.services }

// SetUnitType selects the unit type. Switching away from a unit type that
// already has machines clears them.
func (c *Controller) SetUnitType(u models.UnitType) error {
	if !u.Valid() {
		return errors.NewUnknownUnitTypeError(string(u))
	}
	c.draft.UnitType = u
	c.reconcile()
	return nil
}

// reconcile notices a unit-type change made directly on the draft as well
// as through SetUnitType.
func (c *Controller) reconcile() {
	current := c.draft.UnitType
	if c.lastUnitType != "" && c.lastUnitType != current && len(c.draft.Machinery) > 0 {
		cleared := len(c.draft.Machinery)
		c.draft.Machinery = []machinery.Record{}
		metrics.MachineryResets.Inc()
		notify.Info(c.deps.Notifier, msgUnitTypeChanged, "")
		c.logger.Info("Machinery cleared after unit type change", map[string]interface{}{
			"from":    string(c.lastUnitType),
			"to":      string(current),
			"cleared": cleared,
		})
	}
	if c.lastUnitType != current {
		c.machinery.forget()
	}
	c.lastUnitType = current
}

// Next advances one step. Leaving the company step requires valid company
// details; leaving machinery is unconditional.
func (c *Controller) Next() error {
	c.reconcile()
	from := c.step
	switch c.step {
	case StepCompany:
		if errs := c.company.Validate(); !errs.OK() {
			c.transition(from, from, "rejected")
			return errs.Err()
		}
		c.step = StepMachinery
	case StepMachinery:
		c.step = StepService
	default:
		return errors.NewInvalidStepError(string(c.step), "next")
	}
	c.transition(from, c.step, "ok")
	return nil
}

// Back returns one step; it does nothing on the company step.
func (c *Controller) Back() {
	c.reconcile()
	from := c.step
	switch c.step {
	case StepService:
		c.step = StepMachinery
	case StepMachinery:
		c.step = StepCompany
	default:
		return
	}
	c.transition(from, c.step, "back")
}

func (c *Controller) transition(from, to Step, outcome string) {
	metrics.WizardTransitions.WithLabelValues(string(from), string(to), outcome).Inc()
	c.logger.Debug("Wizard transition", map[string]interface{}{
		"from":    string(from),
		"to":      string(to),
		"outcome": outcome,
	})
}

// Submit sends the draft. Only the service step can submit. On success the
// draft is cleared and the wizard restarts; on any failure the draft is
// left as it was.
func (c *Controller) Submit(ctx context.Context) error {
	c.reconcile()
	if c.step != StepService {
		return errors.NewInvalidStepError(string(c.step), "submit")
	}

	if missing := c.draft.MissingRequired(); len(missing) > 0 {
		from := c.step
		c.step = StepCompany
		c.transition(from, c.step, "incomplete")
		err := errors.NewIncompleteDraftError(missing)
		notify.Error(c.deps.Notifier, msgIncomplete, "")
		c.logger.Warn("Submit blocked by missing company details", map[string]interface{}{
			"missing": missing,
		})
		metrics.Submissions.WithLabelValues("onboard", "incomplete").Inc()
		return err
	}
	if !c.services.CanSubmit() {
		notify.Error(c.deps.Notifier, msgNoServices, "")
		metrics.Submissions.WithLabelValues("onboard", "incomplete").Inc()
		return errors.NewValidationError(map[string]string{"services": msgNoServices})
	}

	payload, err := c.deps.Encoder.Encode(c.draft.Onboarding())
	if err != nil {
		c.deps.Notifier.Notify(c.errHandler.Notice("companies.onboard", err, msgSomethingWrong, ""))
		return err
	}

	ctx, span := c.deps.Observability.StartSpan(ctx, "wizard.submit",
		attribute.String("unitType", string(c.draft.UnitType)),
		attribute.Int("machinery", len(c.draft.Machinery)),
		attribute.Int("services", len(c.draft.Services)),
	)
	defer span.End()

	start := time.Now()
	_, err = c.deps.Backend.OnboardCompany(ctx, payload)
	status := errors.Outcome(err)
	c.deps.Observability.RecordSubmission(ctx, "onboard", status)
	c.deps.Observability.RecordSubmissionDuration(ctx, "onboard", time.Since(start), status)
	metrics.Submissions.WithLabelValues("onboard", status).Inc()

	if err != nil {
		span.RecordError(err)
		c.deps.Notifier.Notify(c.failureNotice(err))
		return err
	}

	c.logger.Info("Company onboarded", map[string]interface{}{
		"name":      c.draft.Name,
		"unitType":  string(c.draft.UnitType),
		"machinery": len(c.draft.Machinery),
	})
	notify.Success(c.deps.Notifier, msgOnboarded, "")
	c.start()
	return nil
}

// failureNotice picks the headline the way the onboarding screen does:
// transport trouble is generic, backend answers show their own message.
func (c *Controller) failureNotice(err error) models.Notice {
	if errors.IsCode(err, errors.ErrCodeNetwork) {
		return c.errHandler.Notice("companies.onboard", err, msgSomethingWrong, "")
	}
	title := errors.UserMessage(err, msgOnboardFailed)
	if errors.IsCode(err, errors.ErrCodeDecodeFailed) {
		title = msgSomethingWrong
	}
	n := c.errHandler.Notice("companies.onboard", err, title, "")
	if se, ok := errors.As(err); !ok || !se.HasFieldErrors() {
		n.Description = ""
	}
	return n
}

// Abandon discards the draft and starts over.
func (c *Controller) Abandon() {
	c.logger.Info("Onboarding abandoned", nil)
	c.start()
}
