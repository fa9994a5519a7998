package console

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"directory-console/internal/common/errors"
	"directory-console/internal/jobs"
	"directory-console/internal/models"
	"directory-console/internal/submission"
	"directory-console/internal/wizard"
)

// DraftFile prefills the onboarding wizard. Machines are written as
// field/value pairs exactly as the machine form accepts them; image paths
// are relative to the file.
type DraftFile struct {
	Name           string                   `yaml:"name"`
	ContactNumber  string                   `yaml:"contactNumber"`
	GSTNumber      string                   `yaml:"gstNumber"`
	AboutCompany   string                   `yaml:"aboutCompany"`
	UnitType       models.UnitType          `yaml:"unitType"`
	WorkType       models.WorkType          `yaml:"workType"`
	UnitSqFeet     int                      `yaml:"unitSqFeet"`
	Certifications []string                 `yaml:"certifications"`
	Location       *models.Location         `yaml:"location"`
	Logo           string                   `yaml:"logo"`
	UnitImages     []string                 `yaml:"unitImages"`
	Machinery      []map[string]interface{} `yaml:"machinery"`
	Services       []models.Service         `yaml:"services"`
	dir            string
}

// JobFile prefills the job form.
type JobFile struct {
	models.JobPosting `yaml:",inline"`
	Images            []string `yaml:"images"`
	dir               string
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func LoadDraftFile(path string) (*DraftFile, error) {
	var f DraftFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	f.dir = filepath.Dir(path)
	return &f, nil
}

func LoadJobFile(path string) (*JobFile, error) {
	var f JobFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	f.dir = filepath.Dir(path)
	return &f, nil
}

// findFile returns p when it exists, otherwise p under dir.
func findFile(dir, p string) string {
	if dir == "" || filepath.IsAbs(p) {
		return p
	}
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return filepath.Join(dir, p)
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Apply replaces the wizard draft with the file's content. Every field is
// checked the way the screens check it; the first failure stops loading
// and leaves the draft partly filled.
func (f *DraftFile) Apply(c *wizard.Controller) error {
	c.Abandon()
	company := c.Company()

	company.SetName(f.Name)
	company.SetContactNumber(f.ContactNumber)
	company.SetGSTNumber(f.GSTNumber)
	company.SetAboutCompany(f.AboutCompany)
	company.SetUnitSqFeet(f.UnitSqFeet)
	if f.UnitType != "" {
		if err := company.SetUnitType(f.UnitType); err != nil {
			return err
		}
	}
	if f.WorkType != "" {
		if err := company.SetWorkType(f.WorkType); err != nil {
			return err
		}
	}
	for _, name := range f.Certifications {
		if err := company.ToggleCertification(name); err != nil {
			return err
		}
	}
	if f.Location != nil {
		company.SetLocation(*f.Location)
	}

	if f.Logo != "" {
		logo, err := submission.LoadAttachment(resolve(f.dir, f.Logo))
		if err != nil {
			return err
		}
		company.SetLogo(&logo)
	}
	images := make([]string, len(f.UnitImages))
	for i, p := range f.UnitImages {
		images[i] = resolve(f.dir, p)
	}
	loaded, err := submission.LoadAttachments(images)
	if err != nil {
		return err
	}
	company.AddUnitImages(loaded...)

	for i, m := range f.Machinery {
		if err := addMachine(c.Machinery(), m); err != nil {
			return fmt.Errorf("machine %d: %w", i+1, err)
		}
	}
	for i, s := range f.Services {
		if errs := c.Services().Add(s.Title, s.Description); !errs.OK() {
			return fmt.Errorf("service %d: %w", i+1, errs.Err())
		}
	}
	return nil
}

func addMachine(step *wizard.MachineryStep, values map[string]interface{}) error {
	step.Cancel()
	// Sorted so a bad file fails on the same field every time.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := step.Set(k, formValue(values[k])); err != nil {
			return err
		}
	}
	errs, err := step.Add()
	if err != nil {
		return err
	}
	return errs.Err()
}

// formValue renders a YAML scalar or list the way a form field is typed.
func formValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case []interface{}:
		out := ""
		for i, item := range x {
			if i > 0 {
				out += ", "
			}
			out += formValue(item)
		}
		return out
	default:
		return fmt.Sprint(x)
	}
}

// Apply replaces the poster's form with the file's content.
func (f *JobFile) Apply(p *jobs.Poster) error {
	images := make([]string, len(f.Images))
	for i, path := range f.Images {
		images[i] = resolve(f.dir, path)
	}
	loaded, err := submission.LoadAttachments(images)
	if err != nil {
		return err
	}
	if f.UnitType != "" && !f.UnitType.Valid() {
		return errors.NewUnknownUnitTypeError(string(f.UnitType))
	}
	p.Job = f.JobPosting
	p.Images = loaded
	return nil
}
