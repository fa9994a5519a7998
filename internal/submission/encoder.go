// Package submission turns onboarding drafts, company edits and job posts
// into the multipart bodies the backend accepts.
package submission

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"
	"strings"

	"directory-console/internal/common/errors"
	"directory-console/internal/machinery"
	"directory-console/internal/models"
)

// Payload is an encoded request body.
type Payload struct {
	Body        []byte
	ContentType string
}

// Onboarding is everything POST /companies/onboard takes.
type Onboarding struct {
	Name           string
	ContactNumber  string
	GSTNumber      string
	AboutCompany   string
	UnitType       models.UnitType
	WorkType       models.WorkType
	UnitSqFeet     int
	Certifications []string
	Location       *models.Location
	CompanyLogo    *Attachment
	UnitImages     []Attachment
	Machinery      []machinery.Record
	Services       []models.Service
}

// Update is a company edit for PUT /companies/:id. UnitImages and
// CompanyLogo hold newly selected files only.
type Update struct {
	Name           string
	ContactNumber  string
	GSTNumber      string
	AboutCompany   string
	UnitType       models.UnitType
	WorkType       models.WorkType
	UnitSqFeet     int
	Certifications []string
	Location       *models.Location
	CompanyLogo    *Attachment
	UnitImages     []Attachment
	Machinery      []machinery.Record
	Services       []models.Service
}

// Encoder builds multipart payloads. The zero value picks a random
// boundary per payload.
type Encoder struct {
	Boundary string
}

// Encode builds the onboarding body.
func (e Encoder) Encode(o Onboarding) (*Payload, error) {
	w := e.newWriter()

	w.field("name", o.Name)
	w.field("contactNumber", o.ContactNumber)
	w.field("gstNumber", o.GSTNumber)
	w.field("aboutCompany", o.AboutCompany)
	w.field("workType", string(o.WorkType))
	w.field("unitType", string(o.UnitType))
	w.field("unitSqFeet", strconv.Itoa(o.UnitSqFeet))

	if o.WorkType == models.WorkExport {
		for _, c := range o.Certifications {
			w.field("certifications", c)
		}
	}
	if o.CompanyLogo != nil {
		w.file("companyLogo", *o.CompanyLogo)
	}
	for _, img := range o.UnitImages {
		w.file("unitImages", img)
	}
	if o.Location != nil {
		w.jsonField("location", o.Location)
	}
	w.jsonField("machinery", nonNil(o.Machinery))
	w.jsonField("services", nonNil(o.Services))

	return w.close()
}

// EncodeUpdate builds the edit body. Optional parts are left out when
// empty so the backend keeps what it has.
func (e Encoder) EncodeUpdate(u Update) (*Payload, error) {
	w := e.newWriter()

	w.field("name", strings.TrimSpace(u.Name))
	w.field("contactNumber", strings.TrimSpace(u.ContactNumber))
	if u.GSTNumber != "" {
		w.field("gstNumber", strings.TrimSpace(u.GSTNumber))
	}
	if u.AboutCompany != "" {
		w.field("aboutCompany", u.AboutCompany)
	}
	w.field("workType", string(u.WorkType))
	w.field("unitType", string(u.UnitType))
	w.field("unitSqFeet", strconv.Itoa(u.UnitSqFeet))

	if u.Location != nil {
		w.jsonField("location", u.Location)
	}
	if u.CompanyLogo != nil {
		w.file("companyLogo", *u.CompanyLogo)
	}
	for _, img := range u.UnitImages {
		w.file("unitImages", img)
	}
	for _, c := range u.Certifications {
		w.field("certifications", c)
	}
	if len(u.Machinery) > 0 {
		w.jsonField("machinery", u.Machinery)
	}
	if len(u.Services) > 0 {
		kept := make([]models.Service, 0, len(u.Services))
		for _, s := range u.Services {
			if strings.TrimSpace(s.Title) != "" || strings.TrimSpace(s.Description) != "" {
				kept = append(kept, s)
			}
		}
		w.jsonField("services", kept)
	}

	return w.close()
}

// EncodeJob builds the job-post body.
func (e Encoder) EncodeJob(job models.JobPosting, images []Attachment) (*Payload, error) {
	w := e.newWriter()

	w.field("unitType", string(job.UnitType))
	w.field("orderQuantity", strconv.Itoa(job.OrderQuantity))
	w.field("shortDescription", job.ShortDescription)
	w.field("location", strings.ToLower(job.Location))
	if job.DetailedDescription != "" {
		w.field("detailedDescription", job.DetailedDescription)
	}
	for _, c := range job.Certifications {
		w.field("certifications", c)
	}
	for _, img := range images {
		w.file("jobImages", img)
	}

	return w.close()
}

// Encode builds the onboarding body with a random boundary.
func Encode(o Onboarding) (*Payload, error) { return Encoder{}.Encode(o) }

// EncodeUpdate builds the edit body with a random boundary.
func EncodeUpdate(u Update) (*Payload, error) { return Encoder{}.EncodeUpdate(u) }

// EncodeJob builds the job-post body with a random boundary.
func EncodeJob(job models.JobPosting, images []Attachment) (*Payload, error) {
	return Encoder{}.EncodeJob(job, images)
}

// partWriter records the first failure and turns later writes into no-ops.
type partWriter struct {
	buf bytes.Buffer
	mw  *multipart.Writer
	err error
}

func (e Encoder) newWriter() *partWriter {
	w := &partWriter{}
	w.mw = multipart.NewWriter(&w.buf)
	if e.Boundary != "" {
		if err := w.mw.SetBoundary(e.Boundary); err != nil {
			w.err = errors.NewEncodingError("boundary", err)
		}
	}
	return w
}

func (w *partWriter) field(name, value string) {
	if w.err != nil {
		return
	}
	if err := w.mw.WriteField(name, value); err != nil {
		w.err = errors.NewEncodingError(name, err)
	}
}

func (w *partWriter) jsonField(name string, v interface{}) {
	if w.err != nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		w.err = errors.NewEncodingError(name, err)
		return
	}
	w.field(name, string(data))
}

func (w *partWriter) file(name string, a Attachment) {
	if w.err != nil {
		return
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, name, escapeQuotes(a.Filename)))
	h.Set("Content-Type", a.ContentType)
	part, err := w.mw.CreatePart(h)
	if err != nil {
		w.err = errors.NewEncodingError(name, err)
		return
	}
	if _, err := part.Write(a.Content); err != nil {
		w.err = errors.NewEncodingError(name, err)
	}
}

func (w *partWriter) close() (*Payload, error) {
	if w.err != nil {
		return nil, w.err
	}
	if err := w.mw.Close(); err != nil {
		return nil, errors.NewEncodingError("close", err)
	}
	return &Payload{Body: w.buf.Bytes(), ContentType: w.mw.FormDataContentType()}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
