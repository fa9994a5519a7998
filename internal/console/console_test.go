package console

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"directory-console/internal/common/auth"
	"directory-console/internal/common/backend"
	"directory-console/internal/common/errors"
	"directory-console/internal/common/logger"
	"directory-console/internal/common/notify"
	"directory-console/internal/companies"
	"directory-console/internal/jobs"
	"directory-console/internal/models"
	"directory-console/internal/submission"
	"directory-console/internal/wizard"
)

// fakeAPI stands in for the REST backend behind every flow.
type fakeAPI struct {
	user *models.AdminUser

	onboarded *submission.Payload
	jobPosted *submission.Payload

	listQuery models.CompanyQuery
	companies []models.Company
	updatedID string
	deletedID string
}

func (f *fakeAPI) Login(_ context.Context, email, password string) error {
	if password != "secret" {
		return errors.NewBackendRejectedError("auth.login", http.StatusUnauthorized, "Invalid credentials", nil)
	}
	f.user = &models.AdminUser{Email: email, Role: "ADMIN"}
	return nil
}

func (f *fakeAPI) Logout(context.Context) error {
	f.user = nil
	return nil
}

func (f *fakeAPI) CurrentAdmin(context.Context) (*models.AdminUser, error) {
	if f.user == nil {
		return nil, errors.NewNotAuthenticatedError("no session")
	}
	return f.user, nil
}

func (f *fakeAPI) OnboardCompany(_ context.Context, p *submission.Payload) (*backend.Result, error) {
	f.onboarded = p
	return &backend.Result{Status: http.StatusCreated, Message: "created"}, nil
}

func (f *fakeAPI) CreateJob(_ context.Context, p *submission.Payload) (*backend.Result, error) {
	f.jobPosted = p
	return &backend.Result{Status: http.StatusCreated}, nil
}

func (f *fakeAPI) ListCompanies(_ context.Context, q models.CompanyQuery) (*models.CompanyPage, error) {
	f.listQuery = q
	return &models.CompanyPage{
		Companies:  f.companies,
		Pagination: models.Pagination{Total: len(f.companies), Page: q.Page, Limit: q.Limit, TotalPages: 1},
	}, nil
}

func (f *fakeAPI) GetCompany(_ context.Context, id string) (*models.Company, error) {
	for i := range f.companies {
		if f.companies[i].ID == id {
			c := f.companies[i]
			return &c, nil
		}
	}
	return nil, errors.NewNotFoundError("company", id)
}

func (f *fakeAPI) UpdateCompany(_ context.Context, id string, _ *submission.Payload) (*backend.Result, error) {
	f.updatedID = id
	return &backend.Result{Status: http.StatusOK}, nil
}

func (f *fakeAPI) DeleteCompany(_ context.Context, id string) (*backend.Result, error) {
	f.deletedID = id
	return &backend.Result{Status: http.StatusOK}, nil
}

type harness struct {
	api     *fakeAPI
	notices *notify.Recorder
	out     *bytes.Buffer
	console *Console
	wizard  *wizard.Controller
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	log := logger.NewTestLogger(t)
	api := &fakeAPI{companies: []models.Company{
		{
			ID:            "c-1",
			Name:          "Acme Weaving",
			ContactNumber: "9999999999",
			UnitType:      models.UnitWeaving,
			WorkType:      models.WorkDomestic,
			UnitSqFeet:    1200,
			Location:      &models.Location{City: "surat", State: "Gujarat"},
			Machinery: []models.MachineryEntry{
				{ID: "m-1", Quantity: 2, MachineData: json.RawMessage(`{"machineType":"Rapier Loom","typeOfYarn":"Cotton","noOfMachines":2}`)},
			},
		},
		{
			ID:            "c-2",
			Name:          "Blue Knits",
			ContactNumber: "8888888888",
			UnitType:      models.UnitKnitting,
			WorkType:      models.WorkExport,
			UnitSqFeet:    800,
		},
	}}
	notices := &notify.Recorder{}
	out := &bytes.Buffer{}

	w := wizard.NewController(wizard.Dependencies{Logger: log, Backend: api, Notifier: notices})
	c := New(Dependencies{
		Logger:    log,
		Auth:      auth.NewStore(api, log),
		Wizard:    w,
		Companies: companies.NewBrowser(companies.Dependencies{Logger: log, Backend: api, Notifier: notices}),
		Jobs:      jobs.NewPoster(jobs.Dependencies{Logger: log, Backend: api, Notifier: notices}),
		In:        strings.NewReader(input),
		Out:       out,
	})
	return &harness{api: api, notices: notices, out: out, console: c, wizard: w}
}

func (h *harness) exec(t *testing.T, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, h.console.Exec(context.Background(), line), "command %q\n%s", line, h.out.String())
	}
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	h.exec(t, "login admin@example.com secret")
}

func lastNotice(t *testing.T, r *notify.Recorder) models.Notice {
	t.Helper()
	n, ok := r.Last()
	require.True(t, ok, "expected a notice")
	return n
}

// pngBytes is enough of a PNG for content sniffing.
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: "", want: nil},
		{line: "  status  ", want: []string{"status"}},
		{line: `set name "Acme Weaving Mills"`, want: []string{"set", "name", "Acme Weaving Mills"}},
		{line: `service add Dyeing ""`, want: []string{"service", "add", "Dyeing", ""}},
		{line: "location 12.9\t77.5", want: []string{"location", "12.9", "77.5"}},
		{line: `set name "Acme`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLocation(t *testing.T) {
	loc, err := parseLocation([]string{"21.17", "72.83", "city=Surat", "pincode=395003"})
	require.NoError(t, err)
	assert.Equal(t, models.Location{Latitude: 21.17, Longitude: 72.83, City: "Surat", Pincode: "395003"}, loc)

	for _, args := range [][]string{
		{"21.17"},
		{"north", "72.83"},
		{"91", "72.83"},
		{"21.17", "72.83", "zone=west"},
		{"21.17", "72.83", "city"},
	} {
		_, err := parseLocation(args)
		assert.Error(t, err, "%v", args)
	}
}

func TestExec_RequiresSignIn(t *testing.T) {
	h := newHarness(t, "")

	err := h.console.Exec(context.Background(), "status")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotAuthenticated))
	assert.Contains(t, h.out.String(), "Not signed in")

	h.exec(t, "help", "whoami")
	assert.Contains(t, h.out.String(), "Not signed in\n")
}

func TestExec_UnknownCommand(t *testing.T) {
	h := newHarness(t, "")
	assert.Error(t, h.console.Exec(context.Background(), "frobnicate"))
	assert.Contains(t, h.out.String(), `unknown command "frobnicate"`)
}

func TestLogin(t *testing.T) {
	t.Run("inline password", func(t *testing.T) {
		h := newHarness(t, "")
		h.exec(t, "login admin@example.com secret", "whoami")
		assert.Contains(t, h.out.String(), "Signed in as admin@example.com (ADMIN)")
		assert.Contains(t, h.out.String(), "admin@example.com (ADMIN)\n")
	})

	t.Run("prompted password", func(t *testing.T) {
		h := newHarness(t, "secret\n")
		h.exec(t, "login admin@example.com")
		assert.Contains(t, h.out.String(), "Password: ")
		assert.True(t, h.console.deps.Auth.Snapshot().Authenticated())
	})

	t.Run("rejected", func(t *testing.T) {
		h := newHarness(t, "")
		h.exec(t, "login admin@example.com wrong")
		assert.Contains(t, h.out.String(), "! Invalid credentials")
		assert.False(t, h.console.deps.Auth.Snapshot().Authenticated())
	})

	t.Run("invalid email", func(t *testing.T) {
		h := newHarness(t, "")
		err := h.console.Exec(context.Background(), "login not-an-email secret")
		assert.True(t, errors.IsCode(err, errors.ErrCodeValidationFailed))
		assert.Contains(t, h.out.String(), "email: Invalid email format")
	})
}

func TestLogout_ClearsDraft(t *testing.T) {
	h := newHarness(t, "")
	h.signIn(t)
	h.exec(t, "set name Acme", "logout")

	assert.Empty(t, h.wizard.Draft().Name)
	assert.False(t, h.console.deps.Auth.Snapshot().Authenticated())
	assert.Contains(t, h.out.String(), "Signed out")
}

func TestOnboardingFlow(t *testing.T) {
	h := newHarness(t, "")
	h.signIn(t)

	h.exec(t,
		`set name "Acme Weaving"`,
		"set contact 9999999999",
		"set unit weaving_unit",
		"set work domestic_work",
		"set sqft 1200",
		"location 21.17 72.83 city=Surat state=Gujarat",
		"next",
	)
	assert.Equal(t, wizard.StepMachinery, h.wizard.Step())
	assert.Contains(t, h.out.String(), "Weaving Unit machine fields:")

	h.exec(t,
		`machine set machineType "Rapier Loom"`,
		"machine set noOfMachines 4",
		"machine add",
	)
	require.Len(t, h.wizard.Draft().Machinery, 1)
	assert.Contains(t, h.out.String(), "1. Machine Type: Rapier Loom")

	h.exec(t, "next")
	assert.Equal(t, wizard.StepService, h.wizard.Step())

	err := h.console.Exec(context.Background(), "submit")
	assert.Error(t, err)
	assert.Nil(t, h.api.onboarded)

	h.exec(t, `service add Weaving "Job work on rapier looms"`, "submit")
	require.NotNil(t, h.api.onboarded)
	assert.Contains(t, string(h.api.onboarded.Body), "Acme Weaving")
	assert.Equal(t, models.NoticeSuccess, lastNotice(t, h.notices).Level)
	assert.Equal(t, wizard.StepCompany, h.wizard.Step())
	assert.Empty(t, h.wizard.Draft().Name)
}

func TestOnboarding_FieldErrorsArePrinted(t *testing.T) {
	h := newHarness(t, "")
	h.signIn(t)

	err := h.console.Exec(context.Background(), "next")
	assert.Error(t, err)
	assert.Contains(t, h.out.String(), "name: Company name is required")
	assert.Contains(t, h.out.String(), "location: Location is required")

	err = h.console.Exec(context.Background(), "set sqft -5")
	assert.Error(t, err)
	assert.Contains(t, h.out.String(), "unitSqFeet: Unit sq feet must be positive")
}

func TestMachine_PlaceholderUnit(t *testing.T) {
	h := newHarness(t, "")
	h.signIn(t)
	h.exec(t, "set unit WASHING_UNIT", "form")
	assert.Contains(t, h.out.String(), "Machine Setup under development")

	err := h.console.Exec(context.Background(), "machine add")
	assert.True(t, errors.IsCode(err, errors.ErrCodeFormUnavailable))
	assert.Empty(t, h.wizard.Draft().Machinery)
}

func TestLoad_DraftFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), pngBytes, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "draft.yaml"), []byte(`
name: Blue Looms
contactNumber: "8888888888"
unitType: WEAVING_UNIT
workType: EXPORT_WORK
unitSqFeet: 800
certifications: [GOTS, OEKO-TEX]
location:
  latitude: 11.1
  longitude: 77.3
  city: Tiruppur
logo: logo.png
machinery:
  - machineType: Air Jet Loom
    typeOfYarn: Cotton
    noOfMachines: 2
services:
  - title: Weaving
    description: Grey fabric
`), 0o644))

	h := newHarness(t, "")
	h.signIn(t)
	h.exec(t, "load "+filepath.Join(dir, "draft.yaml"))

	d := h.wizard.Draft()
	assert.Equal(t, "Blue Looms", d.Name)
	assert.Equal(t, models.UnitWeaving, d.UnitType)
	assert.Equal(t, []string{"GOTS", "OEKO-TEX"}, d.Certifications)
	assert.Equal(t, "tiruppur", d.Location.City)
	require.NotNil(t, d.CompanyLogo)
	assert.Equal(t, "image/png", d.CompanyLogo.ContentType)
	require.Len(t, d.Machinery, 1)
	assert.Equal(t, "Machine Type: Air Jet Loom • Type Of Yarn: Cotton • No Of Machines: 2", wizard.Preview(d.Machinery[0]))
	require.Len(t, d.Services, 1)
	assert.Empty(t, d.MissingRequired())
}

func TestLoad_BadMachineStops(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draft.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: Acme
unitType: WEAVING_UNIT
machinery:
  - machineType: Teleport Loom
`), 0o644))

	h := newHarness(t, "")
	h.signIn(t)
	err := h.console.Exec(context.Background(), "load "+path)
	assert.Error(t, err)
	assert.Contains(t, h.out.String(), "machineType: must be one of")
	assert.Empty(t, h.wizard.Draft().Machinery)
}

func TestCompanies_ListShowDelete(t *testing.T) {
	h := newHarness(t, "")
	h.signIn(t)

	h.exec(t, `companies name=" Acme " unit=weaving_unit`)
	assert.Equal(t, "Acme", h.api.listQuery.Name)
	assert.Equal(t, models.UnitWeaving, h.api.listQuery.UnitType)
	assert.Equal(t, companies.DefaultPageLimit, h.api.listQuery.Limit)
	assert.Contains(t, h.out.String(), "Blue Knits")
	assert.Contains(t, h.out.String(), "surat, Gujarat")

	h.exec(t, "show #2")
	assert.Contains(t, h.out.String(), "Blue Knits (c-2)")
	assert.Contains(t, h.out.String(), "Location not specified")

	h.exec(t, "delete #1")
	assert.Equal(t, "c-1", h.api.deletedID)
	assert.Equal(t, `Company "Acme Weaving" deleted successfully`, lastNotice(t, h.notices).Title)

	err := h.console.Exec(context.Background(), "show #1")
	assert.Error(t, err, "the listing is dropped after a delete")
}

func TestCompanies_BadFilter(t *testing.T) {
	h := newHarness(t, "")
	h.signIn(t)
	assert.Error(t, h.console.Exec(context.Background(), "companies page=two"))
	assert.Error(t, h.console.Exec(context.Background(), "companies colour=red"))
}

func TestEdit_Save(t *testing.T) {
	h := newHarness(t, "")
	h.signIn(t)

	h.exec(t, "edit c-1")
	assert.Contains(t, h.out.String(), "Editing Acme Weaving (c-1)")

	h.exec(t, `edit set name "Acme Weaving Mills"`, "edit save")
	assert.Equal(t, "c-1", h.api.updatedID)
	assert.Equal(t, "Company updated successfully!", lastNotice(t, h.notices).Title)
	assert.Nil(t, h.console.editor)

	err := h.console.Exec(context.Background(), "edit save")
	assert.Error(t, err)
}

func TestEdit_UnitChangeWarns(t *testing.T) {
	h := newHarness(t, "")
	h.signIn(t)
	h.exec(t, "edit c-1", "edit unit KNITTING_UNIT")

	n := lastNotice(t, h.notices)
	assert.Equal(t, models.NoticeWarning, n.Level)
	assert.Equal(t, "Changing unit type will reset all machinery data", n.Title)
	assert.Equal(t, models.UnitKnitting, h.console.editor.UnitType())
}

func TestJob_LoadAndPost(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
unitType: STITCHING_UNIT
orderQuantity: 5000
shortDescription: Polo t-shirts, 3 sizes
location: Tiruppur
certifications: [GOTS]
`), 0o644))

	h := newHarness(t, "")
	h.signIn(t)
	h.exec(t, "job load "+path)
	assert.Contains(t, h.out.String(), "Order quantity: 5000")

	h.exec(t, "job post")
	require.NotNil(t, h.api.jobPosted)
	assert.Equal(t, "Job posted successfully!", lastNotice(t, h.notices).Title)
	assert.Empty(t, h.console.deps.Jobs.Job.ShortDescription)
}

func TestJob_InvalidIsNotPosted(t *testing.T) {
	h := newHarness(t, "")
	h.signIn(t)
	h.exec(t, "job set unit stitching_unit", "job set short too short")

	err := h.console.Exec(context.Background(), "job post")
	assert.Error(t, err)
	assert.Nil(t, h.api.jobPosted)
	assert.Contains(t, h.out.String(), "shortDescription: Short description must be at least 10 characters")
	assert.Contains(t, h.out.String(), "orderQuantity: Order quantity must be a positive number")
}

func TestRun(t *testing.T) {
	h := newHarness(t, "login admin@example.com secret\nset name Acme\nquit\nset name Ignored\n")
	require.NoError(t, h.console.Run(context.Background()))
	assert.Equal(t, "Acme", h.wizard.Draft().Name)
	assert.Contains(t, h.out.String(), "onboard 1/3 company> ")

	h = newHarness(t, "whoami\n")
	require.NoError(t, h.console.Run(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h = newHarness(t, "whoami\n")
	assert.ErrorIs(t, h.console.Run(ctx), context.Canceled)
}

func TestExampleFiles(t *testing.T) {
	examples := filepath.Join("..", "..", "configs", "examples")

	draft, err := LoadDraftFile(filepath.Join(examples, "weaving-draft.yaml"))
	require.NoError(t, err)
	w := wizard.NewController(wizard.Dependencies{Logger: logger.NewTestLogger(t)})
	require.NoError(t, draft.Apply(w))
	assert.Empty(t, w.Draft().MissingRequired())
	assert.Len(t, w.Draft().Machinery, 2)
	assert.Len(t, w.Draft().Services, 2)
	assert.Equal(t, []string{"ISO 9001", "OEKO-TEX"}, w.Draft().Certifications)

	job, err := LoadJobFile(filepath.Join(examples, "job.yaml"))
	require.NoError(t, err)
	p := jobs.NewPoster(jobs.Dependencies{})
	require.NoError(t, job.Apply(p))
	assert.Equal(t, models.UnitKnitting, p.Job.UnitType)
	assert.Equal(t, 2000, p.Job.OrderQuantity)
	assert.Equal(t, []string{"GOTS"}, p.Job.Certifications)
}

func TestFindFile(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "draft.yaml")

	assert.Equal(t, "draft.yaml", findFile("", "draft.yaml"))
	assert.Equal(t, abs, findFile(dir, "draft.yaml"), "missing locally, found under the draft dir")
	assert.Equal(t, abs, findFile("elsewhere", abs))
	assert.Equal(t, "console_test.go", findFile(dir, "console_test.go"), "present in the working directory")
}
