package companies

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"directory-console/internal/common/backend"
	"directory-console/internal/common/errors"
	"directory-console/internal/common/logger"
	"directory-console/internal/common/notify"
	"directory-console/internal/machinery"
	"directory-console/internal/models"
	"directory-console/internal/submission"
)

type fakeBackend struct {
	listQuery models.CompanyQuery
	page      *models.CompanyPage
	company   *models.Company
	err       error

	updatedID string
	updated   *submission.Payload
	deletedID string
}

func (f *fakeBackend) ListCompanies(_ context.Context, q models.CompanyQuery) (*models.CompanyPage, error) {
	f.listQuery = q
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeBackend) GetCompany(_ context.Context, id string) (*models.Company, error) {
	if f.company == nil {
		return nil, errors.NewNotFoundError("company", id)
	}
	return f.company, nil
}

func (f *fakeBackend) UpdateCompany(_ context.Context, id string, p *submission.Payload) (*backend.Result, error) {
	f.updatedID = id
	f.updated = p
	if f.err != nil {
		return nil, f.err
	}
	return &backend.Result{Status: http.StatusOK}, nil
}

func (f *fakeBackend) DeleteCompany(_ context.Context, id string) (*backend.Result, error) {
	f.deletedID = id
	if f.err != nil {
		return nil, f.err
	}
	return &backend.Result{Status: http.StatusOK}, nil
}

func storedCompany() *models.Company {
	return &models.Company{
		ID:             "c-1",
		Name:           "Acme Weaving",
		ContactNumber:  "9999999999",
		UnitType:       models.UnitWeaving,
		WorkType:       models.WorkExport,
		UnitSqFeet:     2400,
		Location:       &models.Location{Latitude: 11.1, Longitude: 77.3, City: "tiruppur", State: "Tamil Nadu"},
		Certifications: []string{"GOTS"},
		UnitImages:     []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
		Machinery: []models.MachineryEntry{
			{ID: "m-1", Quantity: 2, MachineData: json.RawMessage(`{"machineType":"Rapier Loom","typeOfYarn":"Cotton","noOfMachines":2}`)},
			{ID: "m-2", Quantity: 1, MachineData: json.RawMessage(`{"legacy":"shape"}`)},
		},
		Services: []models.Service{{ID: "s-1", Title: "Weaving", Description: "Plain"}},
	}
}

func newTestBrowser(t *testing.T, fb *fakeBackend) (*Browser, *notify.Recorder) {
	t.Helper()
	rec := &notify.Recorder{}
	return NewBrowser(Dependencies{
		Logger:   logger.NewTestLogger(t),
		Backend:  fb,
		Notifier: rec,
	}), rec
}

func TestList_Defaults(t *testing.T) {
	fb := &fakeBackend{page: &models.CompanyPage{
		Companies:  []models.Company{{ID: "1", Name: "A"}},
		Pagination: models.Pagination{Total: 1, Page: 1, Limit: 10, TotalPages: 1},
	}}
	b, _ := newTestBrowser(t, fb)

	page, err := b.List(context.Background(), models.CompanyQuery{Name: "  acme  "})
	require.NoError(t, err)
	assert.Len(t, page.Companies, 1)
	assert.Equal(t, 1, fb.listQuery.Page)
	assert.Equal(t, DefaultPageLimit, fb.listQuery.Limit)
	assert.Equal(t, "acme", fb.listQuery.Name)
}

func TestList_ConfiguredLimitAndFailure(t *testing.T) {
	fb := &fakeBackend{err: errors.NewNetworkError("companies.list", context.DeadlineExceeded)}
	rec := &notify.Recorder{}
	b := NewBrowser(Dependencies{Backend: fb, Notifier: rec, PageLimit: 25})

	_, err := b.List(context.Background(), models.CompanyQuery{Page: 3})
	require.Error(t, err)
	assert.Equal(t, 3, fb.listQuery.Page)
	assert.Equal(t, 25, fb.listQuery.Limit)

	last, _ := rec.Last()
	assert.Equal(t, "Failed to load companies", last.Title)
}

func TestDetail(t *testing.T) {
	b, _ := newTestBrowser(t, &fakeBackend{company: storedCompany()})

	d, err := b.Detail(context.Background(), "c-1")
	require.NoError(t, err)
	assert.Equal(t, "tiruppur, Tamil Nadu", d.Location)
	require.Len(t, d.Machinery, 2)

	weaving, ok := d.Machinery[0].(machinery.WeavingRecord)
	require.True(t, ok)
	assert.Equal(t, "Rapier Loom", weaving.MachineType)
	assert.Equal(t, 2, weaving.NoOfMachines)

	_, ok = d.Machinery[1].(machinery.RawRecord)
	assert.True(t, ok)
}

func TestDetail_NotFound(t *testing.T) {
	b, rec := newTestBrowser(t, &fakeBackend{})

	_, err := b.Detail(context.Background(), "missing")
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
	last, _ := rec.Last()
	assert.Equal(t, "Failed to load company details", last.Title)
}

func TestFormatLocation(t *testing.T) {
	tests := []struct {
		name string
		loc  *models.Location
		want string
	}{
		{"nil", nil, "Location not specified"},
		{"address wins", &models.Location{Address: "12 Mill Road", City: "x"}, "12 Mill Road"},
		{"city state pincode", &models.Location{City: "erode", Pincode: "638001"}, "erode, 638001"},
		{"coordinates", &models.Location{Latitude: 11.1, Longitude: 77.34}, "11.100000, 77.340000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatLocation(tt.loc))
		})
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel models.NoticeLevel
		wantTitle string
	}{
		{"success", nil, models.NoticeSuccess, `Company "Acme Weaving" deleted successfully`},
		{"backend message", errors.NewBackendRejectedError("companies.delete", 409, "Company has open jobs", nil), models.NoticeError, "Company has open jobs"},
		{"no message", errors.NewBackendRejectedError("companies.delete", 500, "", nil), models.NoticeError, "Failed to delete company"},
		{"network", errors.NewNetworkError("companies.delete", context.Canceled), models.NoticeError, "Failed to delete company"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := &fakeBackend{err: tt.err}
			b, rec := newTestBrowser(t, fb)

			err := b.Delete(context.Background(), storedCompany())
			assert.Equal(t, tt.err == nil, err == nil)
			assert.Equal(t, "c-1", fb.deletedID)

			last, _ := rec.Last()
			assert.Equal(t, tt.wantLevel, last.Level)
			assert.Equal(t, tt.wantTitle, last.Title)
		})
	}
}

func TestEdit_LoadFailure(t *testing.T) {
	b, rec := newTestBrowser(t, &fakeBackend{})

	_, err := b.Edit(context.Background(), "nope")
	require.Error(t, err)
	last, _ := rec.Last()
	assert.Equal(t, "Failed to load company", last.Title)
}

func TestEditor_UnitTypeChangeClearsMachinery(t *testing.T) {
	b, rec := newTestBrowser(t, &fakeBackend{company: storedCompany()})
	e, err := b.Edit(context.Background(), "c-1")
	require.NoError(t, err)
	require.Len(t, e.Machinery(), 2)

	require.NoError(t, e.SetUnitType(models.UnitWeaving))
	assert.Empty(t, rec.Notices())

	require.NoError(t, e.SetUnitType(models.UnitKnitting))
	assert.Empty(t, e.Machinery())
	last, _ := rec.Last()
	assert.Equal(t, models.NoticeWarning, last.Level)
	assert.Equal(t, "Changing unit type will reset all machinery data", last.Title)

	f, err := e.MachineForm()
	require.NoError(t, err)
	assert.Equal(t, models.UnitKnitting, f.UnitType())
}

func TestEditor_EditAndAddMachine(t *testing.T) {
	b, _ := newTestBrowser(t, &fakeBackend{company: storedCompany()})
	e, err := b.Edit(context.Background(), "c-1")
	require.NoError(t, err)

	require.NoError(t, e.EditMachine(0))
	require.Len(t, e.Machinery(), 1)

	f, _ := e.MachineForm()
	require.NoError(t, f.Set("noOfMachines", "5"))
	errs, err := e.AddMachine()
	require.NoError(t, err)
	assert.True(t, errs.OK())
	require.Len(t, e.Machinery(), 2)
	assert.Equal(t, 5, e.Machinery()[1].(machinery.WeavingRecord).NoOfMachines)

	err = e.EditMachine(0)
	assert.True(t, errors.IsCode(err, errors.ErrCodeFormUnavailable))
	assert.Len(t, e.Machinery(), 2)
}

func TestEditor_Validate(t *testing.T) {
	b, _ := newTestBrowser(t, &fakeBackend{company: storedCompany()})
	e, err := b.Edit(context.Background(), "c-1")
	require.NoError(t, err)

	e.Name = "  "
	e.ContactNumber = ""
	e.UnitSqFeet = 0
	e.Location = nil

	errs := e.Validate()
	assert.Equal(t, "Company name is required", errs["name"])
	assert.Equal(t, "Contact number is required", errs["contactNumber"])
	assert.Equal(t, "Valid unit square feet is required", errs["unitSqFeet"])
	assert.Equal(t, "Location is required", errs["location"])
	assert.NotContains(t, errs, "unitType")
}

func TestEditor_Save(t *testing.T) {
	fb := &fakeBackend{company: storedCompany()}
	b, rec := newTestBrowser(t, fb)
	e, err := b.Edit(context.Background(), "c-1")
	require.NoError(t, err)

	e.Name = "  Acme Textiles "
	e.Services = append(e.Services, models.Service{})
	require.NoError(t, e.Save(context.Background()))

	assert.Equal(t, "c-1", fb.updatedID)
	req, err := http.NewRequest(http.MethodPut, "/", bytes.NewReader(fb.updated.Body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", fb.updated.ContentType)
	require.NoError(t, req.ParseMultipartForm(1<<20))

	assert.Equal(t, "Acme Textiles", req.FormValue("name"))
	assert.Equal(t, []string{"GOTS"}, req.MultipartForm.Value["certifications"])
	assert.Empty(t, req.MultipartForm.File["unitImages"])

	var services []models.Service
	require.NoError(t, json.Unmarshal([]byte(req.FormValue("services")), &services))
	assert.Len(t, services, 1)

	var machines []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(req.FormValue("machinery")), &machines))
	require.Len(t, machines, 2)
	assert.JSONEq(t, `{"legacy":"shape"}`, string(machines[1]))

	last, _ := rec.Last()
	assert.Equal(t, "Company updated successfully!", last.Title)
}

func TestEditor_SaveFailures(t *testing.T) {
	t.Run("invalid form never reaches backend", func(t *testing.T) {
		fb := &fakeBackend{company: storedCompany()}
		b, rec := newTestBrowser(t, fb)
		e, _ := b.Edit(context.Background(), "c-1")
		e.Location = nil

		err := e.Save(context.Background())
		assert.True(t, errors.IsCode(err, errors.ErrCodeValidationFailed))
		assert.Nil(t, fb.updated)
		last, _ := rec.Last()
		assert.Equal(t, "Please fix the errors in the form", last.Title)
	})

	t.Run("backend message", func(t *testing.T) {
		fb := &fakeBackend{company: storedCompany()}
		b, rec := newTestBrowser(t, fb)
		e, _ := b.Edit(context.Background(), "c-1")
		fb.err = errors.NewBackendRejectedError("companies.update", 400, "GST number already registered", nil)

		require.Error(t, e.Save(context.Background()))
		last, _ := rec.Last()
		assert.Equal(t, "GST number already registered", last.Title)
		assert.Equal(t, "Acme Weaving", e.Name)
	})

	t.Run("network", func(t *testing.T) {
		fb := &fakeBackend{company: storedCompany()}
		b, rec := newTestBrowser(t, fb)
		e, _ := b.Edit(context.Background(), "c-1")
		fb.err = errors.NewNetworkError("companies.update", context.DeadlineExceeded)

		require.Error(t, e.Save(context.Background()))
		last, _ := rec.Last()
		assert.Equal(t, "Failed to update company", last.Title)
	})
}
