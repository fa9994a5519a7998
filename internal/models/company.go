package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Location is where a unit sits. City is stored lower-cased.
type Location struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	City      string  `json:"city,omitempty" yaml:"city,omitempty"`
	State     string  `json:"state,omitempty" yaml:"state,omitempty"`
	Pincode   string  `json:"pincode,omitempty" yaml:"pincode,omitempty"`
	Address   string  `json:"address,omitempty" yaml:"address,omitempty"`
}

// Format renders the address, then "city, state, pincode", then coordinates.
func (l *Location) Format() string {
	if l == nil {
		return ""
	}
	if l.Address != "" {
		return l.Address
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{l.City, l.State, l.Pincode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%.6f, %.6f", l.Latitude, l.Longitude)
}

// Service is one offering listed by a company.
type Service struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// MachineryEntry is machinery as stored by the backend.
type MachineryEntry struct {
	ID          string          `json:"id"`
	UnitType    UnitType        `json:"unitType,omitempty"`
	Quantity    int             `json:"quantity"`
	MachineData json.RawMessage `json:"machineData"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}

// Company is a directory record as returned by the backend.
type Company struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	CompanyLogo    string           `json:"companyLogo,omitempty"`
	ContactNumber  string           `json:"contactNumber"`
	GSTNumber      string           `json:"gstNumber,omitempty"`
	AboutCompany   string           `json:"aboutCompany,omitempty"`
	UnitType       UnitType         `json:"unitType"`
	WorkType       WorkType         `json:"workType"`
	UnitSqFeet     int              `json:"unitSqFeet"`
	Location       *Location        `json:"location,omitempty"`
	Certifications []string         `json:"certifications"`
	UnitImages     []string         `json:"unitImages"`
	Machinery      []MachineryEntry `json:"machinery"`
	Services       []Service        `json:"services"`
	CreatedAt      string           `json:"createdAt,omitempty"`
	UpdatedAt      string           `json:"updatedAt,omitempty"`
}

// Pagination mirrors the list endpoint's paging block.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// CompanyQuery holds the list endpoint filters. Empty fields are not sent.
type CompanyQuery struct {
	Page     int
	Limit    int
	Name     string
	UnitType UnitType
	WorkType WorkType
	Location string
}

// CompanyPage is one page of the company list.
type CompanyPage struct {
	Companies  []Company
	Pagination Pagination
}
