// Package wizard runs the three-step company onboarding flow.
package wizard

import (
	"directory-console/internal/machinery"
	"directory-console/internal/models"
	"directory-console/internal/submission"
)

// Step is a wizard screen.
type Step string

const (
	StepCompany   Step = "company"
	StepMachinery Step = "machinery"
	StepService   Step = "service"
)

// Number is the 1-based position shown as "Step n / 3".
func (s Step) Number() int {
	switch s {
	case StepMachinery:
		return 2
	case StepService:
		return 3
	default:
		return 1
	}
}

// Draft is the company being onboarded. It lives for one wizard session.
type Draft struct {
	Name           string
	ContactNumber  string
	GSTNumber      string
	AboutCompany   string
	UnitType       models.UnitType
	WorkType       models.WorkType
	UnitSqFeet     int
	Certifications []string
	Location       *models.Location
	CompanyLogo    *submission.Attachment
	UnitImages     []submission.Attachment
	Machinery      []machinery.Record
	Services       []models.Service
}

func NewDraft() *Draft {
	return &Draft{
		Certifications: []string{},
		UnitImages:     []submission.Attachment{},
		Machinery:      []machinery.Record{},
		Services:       []models.Service{},
	}
}

// MissingRequired lists the fields the final submit insists on, in form
// order.
func (d *Draft) MissingRequired() []string {
	var missing []string
	if d.Name == "" {
		missing = append(missing, "name")
	}
	if d.ContactNumber == "" {
		missing = append(missing, "contactNumber")
	}
	if d.UnitType == "" {
		missing = append(missing, "unitType")
	}
	if d.WorkType == "" {
		missing = append(missing, "workType")
	}
	if d.Location == nil {
		missing = append(missing, "location")
	}
	return missing
}

// Onboarding converts the draft into the encoder's input.
func (d *Draft) Onboarding() submission.Onboarding {
	return submission.Onboarding{
		Name:           d.Name,
		ContactNumber:  d.ContactNumber,
		GSTNumber:      d.GSTNumber,
		AboutCompany:   d.AboutCompany,
		UnitType:       d.UnitType,
		WorkType:       d.WorkType,
		UnitSqFeet:     d.UnitSqFeet,
		Certifications: d.Certifications,
		Location:       d.Location,
		CompanyLogo:    d.CompanyLogo,
		UnitImages:     d.UnitImages,
		Machinery:      d.Machinery,
		Services:       d.Services,
	}
}

// reset empties the draft in place so held pointers see the change.
func (d *Draft) reset() {
	*d = *NewDraft()
}
