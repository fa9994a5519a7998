package wizard

import (
	"strings"

	"directory-console/internal/common/validation"
	"directory-console/internal/models"
	"directory-console/internal/submission"
)

// companyDetails mirrors the first screen for struct-tag validation.
type companyDetails struct {
	Name          string          `json:"name" validate:"required"`
	ContactNumber string          `json:"contactNumber" validate:"required"`
	UnitType      models.UnitType `json:"unitType" validate:"required"`
	WorkType      models.WorkType `json:"workType" validate:"required"`
	UnitSqFeet    int             `json:"unitSqFeet" validate:"gt=0"`
}

var companyMessages = validation.Messages{
	"name":          "Company name is required",
	"contactNumber": "Contact number required",
	"unitType":      "Unit Type required",
	"workType":      "Work Type required",
	"unitSqFeet":    "Unit sq feet must be positive",
}

var companyValidator = validation.NewStructValidator()

// CompanyStep edits the company details on the draft.
type CompanyStep struct {
	draft *Draft
	owner *Controller
}

// Validate checks the company screen.
func (s *CompanyStep) Validate() validation.FieldErrors {
	return ValidateCompany(s.draft)
}

// ValidateCompany applies the company screen's rules to d.
func ValidateCompany(d *Draft) validation.FieldErrors {
	errs := companyValidator.Validate(companyDetails{
		Name:          strings.TrimSpace(d.Name),
		ContactNumber: strings.TrimSpace(d.ContactNumber),
		UnitType:      models.UnitType(strings.TrimSpace(string(d.UnitType))),
		WorkType:      models.WorkType(strings.TrimSpace(string(d.WorkType))),
		UnitSqFeet:    d.UnitSqFeet,
	}, companyMessages)
	if d.Location == nil {
		errs.Add("location", "Location is required")
	}
	return errs
}

func (s *CompanyStep) SetName(v string)          { s.draft.Name = v }
func (s *CompanyStep) SetContactNumber(v string) { s.draft.ContactNumber = v }
func (s *CompanyStep) SetGSTNumber(v string)     { s.draft.GSTNumber = v }
func (s *CompanyStep) SetAboutCompany(v string)  { s.draft.AboutCompany = v }
func (s *CompanyStep) SetUnitSqFeet(v int)       { s.draft.UnitSqFeet = v }

// SetUnitType goes through the controller so stale machinery is cleared.
func (s *CompanyStep) SetUnitType(u models.UnitType) error {
	return s.owner.SetUnitType(u)
}

func (s *CompanyStep) SetWorkType(w models.WorkType) error {
	if !w.Valid() {
		return validation.FieldErrors{"workType": "Work Type required"}.Err()
	}
	s.draft.WorkType = w
	return nil
}

// SetLocation stores loc with the city lower-cased.
func (s *CompanyStep) SetLocation(loc models.Location) {
	loc.City = strings.ToLower(strings.TrimSpace(loc.City))
	s.draft.Location = &loc
}

// ToggleCertification adds name if absent, removes it if present.
func (s *CompanyStep) ToggleCertification(name string) error {
	if !models.IsCertification(name) {
		return validation.FieldErrors{"certifications": "Unknown certification"}.Err()
	}
	for i, c := range s.draft.Certifications {
		if c == name {
			s.draft.Certifications = append(s.draft.Certifications[:i:i], s.draft.Certifications[i+1:]...)
			return nil
		}
	}
	s.draft.Certifications = append(s.draft.Certifications, name)
	return nil
}

func (s *CompanyStep) SetLogo(a *submission.Attachment) { s.draft.CompanyLogo = a }

func (s *CompanyStep) AddUnitImages(images ...submission.Attachment) {
	s.draft.UnitImages = append(s.draft.UnitImages, images...)
}

// RemoveUnitImage drops the image at i; out-of-range is a no-op.
func (s *CompanyStep) RemoveUnitImage(i int) {
	if i < 0 || i >= len(s.draft.UnitImages) {
		return
	}
	s.draft.UnitImages = append(s.draft.UnitImages[:i:i], s.draft.UnitImages[i+1:]...)
}
