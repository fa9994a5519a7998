package companies

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"directory-console/internal/common/errors"
	"directory-console/internal/common/logger"
	"directory-console/internal/common/metrics"
	"directory-console/internal/common/notify"
	"directory-console/internal/common/validation"
	"directory-console/internal/machinery"
	"directory-console/internal/models"
	"directory-console/internal/submission"
)

const (
	msgUnitTypeReset = "Changing unit type will reset all machinery data"
	msgFixErrors     = "Please fix the errors in the form"
	msgUpdated       = "Company updated successfully!"
	msgUpdateFailed  = "Failed to update company"
	msgLoadFailed    = "Failed to load company"
)

type editDetails struct {
	Name          string          `json:"name" validate:"required"`
	ContactNumber string          `json:"contactNumber" validate:"required"`
	UnitType      models.UnitType `json:"unitType" validate:"required"`
	WorkType      models.WorkType `json:"workType" validate:"required"`
	UnitSqFeet    int             `json:"unitSqFeet" validate:"gt=0"`
}

var editMessages = validation.Messages{
	"name":          "Company name is required",
	"contactNumber": "Contact number is required",
	"unitType":      "Unit type is required",
	"workType":      "Work type is required",
	"unitSqFeet":    "Valid unit square feet is required",
}

var editValidator = validation.NewStructValidator()

// Editor holds an edit session for one stored company. Images already on
// the backend are kept as URLs; only new attachments are uploaded.
// It is not safe for concurrent use.
type Editor struct {
	browser *Browser
	logger  logger.Logger
	id      string

	Name              string
	ContactNumber     string
	GSTNumber         string
	AboutCompany      string
	WorkType          models.WorkType
	UnitSqFeet        int
	Certifications    []string
	Location          *models.Location
	ExistingLogoURL   string
	Logo              *submission.Attachment
	ExistingImageURLs []string
	NewImages         []submission.Attachment
	Services          []models.Service

	unitType  models.UnitType
	machinery []machinery.Record
	form      machinery.Form
}

// Edit loads the company behind id into a new Editor.
func (b *Browser) Edit(ctx context.Context, id string) (*Editor, error) {
	c, err := b.deps.Backend.GetCompany(ctx, id)
	if err != nil {
		notify.Error(b.deps.Notifier, msgLoadFailed, "")
		b.logger.Warn("Company load for edit failed", map[string]interface{}{
			"companyId": id,
			"error":     err.Error(),
		})
		return nil, err
	}

	e := &Editor{
		browser:           b,
		logger:            b.logger.WithFields(map[string]interface{}{"companyId": c.ID}),
		id:                c.ID,
		Name:              c.Name,
		ContactNumber:     c.ContactNumber,
		GSTNumber:         c.GSTNumber,
		AboutCompany:      c.AboutCompany,
		WorkType:          c.WorkType,
		UnitSqFeet:        c.UnitSqFeet,
		Certifications:    append([]string{}, c.Certifications...),
		Location:          c.Location,
		ExistingLogoURL:   c.CompanyLogo,
		ExistingImageURLs: append([]string{}, c.UnitImages...),
		NewImages:         []submission.Attachment{},
		Services:          append([]models.Service{}, c.Services...),
		unitType:          c.UnitType,
		machinery:         b.decodeMachinery(c),
	}
	if e.id == "" {
		e.id = id
	}
	return e, nil
}

func (e *Editor) ID() string                    { return e.id }
func (e *Editor) UnitType() models.UnitType     { return e.unitType }
func (e *Editor) Machinery() []machinery.Record { return e.machinery }

// SetUnitType switches the unit type. Existing machinery belongs to the
// old type and is cleared with a warning.
func (e *Editor) SetUnitType(u models.UnitType) error {
	if !u.Valid() {
		return errors.NewUnknownUnitTypeError(string(u))
	}
	if u != e.unitType && len(e.machinery) > 0 {
		notify.Warning(e.browser.deps.Notifier, msgUnitTypeReset, "Your current machinery data will be lost.")
		e.machinery = []machinery.Record{}
		metrics.MachineryResets.Inc()
	}
	if u != e.unitType {
		e.form = nil
	}
	e.unitType = u
	return nil
}

// ToggleCertification adds name if absent, removes it if present.
func (e *Editor) ToggleCertification(name string) {
	for i, c := range e.Certifications {
		if c == name {
			e.Certifications = append(e.Certifications[:i:i], e.Certifications[i+1:]...)
			return
		}
	}
	e.Certifications = append(e.Certifications, name)
}

// RemoveExistingImage drops a stored image URL from the session.
func (e *Editor) RemoveExistingImage(i int) {
	if i < 0 || i >= len(e.ExistingImageURLs) {
		return
	}
	e.ExistingImageURLs = append(e.ExistingImageURLs[:i:i], e.ExistingImageURLs[i+1:]...)
}

// MachineForm returns the form for the current unit type.
func (e *Editor) MachineForm() (machinery.Form, error) {
	if e.unitType == "" {
		return nil, errors.NewValidationError(map[string]string{"unitType": "Unit type is required"})
	}
	if e.form != nil {
		return e.form, nil
	}
	f, ok := e.browser.deps.Registry.Lookup(e.unitType)
	if !ok {
		return nil, errors.NewUnknownUnitTypeError(string(e.unitType))
	}
	e.form = f
	return f, nil
}

// AddMachine appends the machine pending in MachineForm.
func (e *Editor) AddMachine() (validation.FieldErrors, error) {
	f, err := e.MachineForm()
	if err != nil {
		return nil, err
	}
	if !f.Implemented() {
		return nil, errors.NewFormUnavailableError(string(e.unitType))
	}
	return f.Add(func(r machinery.Record) {
		e.machinery = append(e.machinery, r)
	}), nil
}

// EditMachine moves machine i back into the form for changes. Records the
// form cannot hold, such as stored shapes the form does not know, are left
// in place.
func (e *Editor) EditMachine(i int) error {
	if i < 0 || i >= len(e.machinery) {
		return errors.NewValidationError(map[string]string{"machinery": "No such machine"})
	}
	f, err := e.MachineForm()
	if err != nil {
		return err
	}
	if err := f.Load(e.machinery[i]); err != nil {
		return errors.NewFormUnavailableError(string(e.unitType))
	}
	e.RemoveMachine(i)
	return nil
}

func (e *Editor) RemoveMachine(i int) {
	if i < 0 || i >= len(e.machinery) {
		return
	}
	e.machinery = append(e.machinery[:i:i], e.machinery[i+1:]...)
}

// Validate checks the edit form.
func (e *Editor) Validate() validation.FieldErrors {
	errs := editValidator.Validate(editDetails{
		Name:          strings.TrimSpace(e.Name),
		ContactNumber: strings.TrimSpace(e.ContactNumber),
		UnitType:      e.unitType,
		WorkType:      e.WorkType,
		UnitSqFeet:    e.UnitSqFeet,
	}, editMessages)
	if e.Location == nil {
		errs.Add("location", "Location is required")
	}
	return errs
}

func (e *Editor) update() submission.Update {
	return submission.Update{
		Name:           e.Name,
		ContactNumber:  e.ContactNumber,
		GSTNumber:      e.GSTNumber,
		AboutCompany:   e.AboutCompany,
		UnitType:       e.unitType,
		WorkType:       e.WorkType,
		UnitSqFeet:     e.UnitSqFeet,
		Certifications: e.Certifications,
		Location:       e.Location,
		CompanyLogo:    e.Logo,
		UnitImages:     e.NewImages,
		Machinery:      e.machinery,
		Services:       e.Services,
	}
}

// Save validates and PUTs the changes. The session is kept on failure.
func (e *Editor) Save(ctx context.Context) error {
	deps := e.browser.deps
	if errs := e.Validate(); !errs.OK() {
		notify.Error(deps.Notifier, msgFixErrors, "")
		return errs.Err()
	}

	payload, err := deps.Encoder.EncodeUpdate(e.update())
	if err != nil {
		notify.Error(deps.Notifier, msgUpdateFailed, "")
		return err
	}

	ctx, span := deps.Observability.StartSpan(ctx, "companies.update",
		attribute.String("companyId", e.id),
		attribute.String("unitType", string(e.unitType)),
	)
	defer span.End()

	start := time.Now()
	_, err = deps.Backend.UpdateCompany(ctx, e.id, payload)
	status := errors.Outcome(err)
	deps.Observability.RecordSubmission(ctx, "update", status)
	deps.Observability.RecordSubmissionDuration(ctx, "update", time.Since(start), status)
	metrics.Submissions.WithLabelValues("update", status).Inc()

	if err != nil {
		span.RecordError(err)
		notify.Error(deps.Notifier, backendMessage(err, msgUpdateFailed), "")
		fields := map[string]interface{}{"error": err.Error()}
		if se, ok := errors.As(err); ok && se.HasFieldErrors() {
			fields["fieldErrors"] = errors.FieldErrorSummary(se.Fields)
		}
		e.logger.Error("Company update failed", fields)
		return err
	}

	e.logger.Info("Company updated", map[string]interface{}{
		"unitType":  string(e.unitType),
		"machinery": len(e.machinery),
		"newImages": len(e.NewImages),
	})
	notify.Success(deps.Notifier, msgUpdated, "")
	return nil
}
