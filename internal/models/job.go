package models

// JobPosting is the form behind POST /jobs/create.
type JobPosting struct {
	UnitType            UnitType `json:"unitType" yaml:"unitType" validate:"required"`
	OrderQuantity       int      `json:"orderQuantity" yaml:"orderQuantity" validate:"gt=0"`
	ShortDescription    string   `json:"shortDescription" yaml:"shortDescription" validate:"required,min=10"`
	DetailedDescription string   `json:"detailedDescription,omitempty" yaml:"detailedDescription,omitempty" validate:"omitempty,min=20"`
	Location            string   `json:"location" yaml:"location" validate:"required"`
	Certifications      []string `json:"certifications,omitempty" yaml:"certifications,omitempty"`
}
