package wizard

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

type fakeSubmitter struct {
	err      error
	payloads []*submission.Payload
}

func (f *fakeSubmitter) OnboardCompany(_ context.Context, p *submission.Payload) (*backend.Result, error) {
	f.payloads = append(f.payloads, p)
	if f.err != nil {
		return nil, f.err
	}
	return &backend.Result{Status: http.StatusCreated, Message: "created"}, nil
}

func newTestController(t *testing.T, sub *fakeSubmitter) (*Controller, *notify.Recorder) {
	t.Helper()
	rec := &notify.Recorder{}
	c := NewController(Dependencies{
		Logger:   logger.NewTestLogger(t),
		Backend:  sub,
		Notifier: rec,
	})
	return c, rec
}

func fillCompany(t *testing.T, c *Controller, unit models.UnitType) {
	t.Helper()
	s := c.Company()
	s.SetName("Acme")
	s.SetContactNumber("9999999999")
	s.SetUnitSqFeet(1200)
	require.NoError(t, s.SetUnitType(unit))
	require.NoError(t, s.SetWorkType(models.WorkDomestic))
	s.SetLocation(models.Location{Latitude: 11.1, Longitude: 77.3, City: "Tiruppur"})
}

func addWeavingMachine(t *testing.T, c *Controller) {
	t.Helper()
	require.NoError(t, c.Machinery().Set("machineType", "Rapier Loom"))
	errs, err := c.Machinery().Add()
	require.NoError(t, err)
	require.True(t, errs.OK(), "unexpected field errors: %v", errs)
}

func TestNext_CompanyStepGate(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(*Controller)
		wantStep  Step
		wantField string
		wantMsg   string
	}{
		{
			name:      "empty draft stays on company",
			setup:     func(*Controller) {},
			wantStep:  StepCompany,
			wantField: "name",
			wantMsg:   "Company name is required",
		},
		{
			name: "missing location",
			setup: func(c *Controller) {
				s := c.Company()
				s.SetName("Acme")
				s.SetContactNumber("9999999999")
				s.SetUnitSqFeet(100)
				_ = s.SetUnitType(models.UnitWeaving)
				_ = s.SetWorkType(models.WorkDomestic)
			},
			wantStep:  StepCompany,
			wantField: "location",
			wantMsg:   "Location is required",
		},
		{
			name: "non-positive square feet",
			setup: func(c *Controller) {
				s := c.Company()
				s.SetName("Acme")
				s.SetContactNumber("9999999999")
				_ = s.SetUnitType(models.UnitWeaving)
				_ = s.SetWorkType(models.WorkDomestic)
				s.SetLocation(models.Location{City: "x"})
			},
			wantStep:  StepCompany,
			wantField: "unitSqFeet",
			wantMsg:   "Unit sq feet must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t, &fakeSubmitter{})
			tt.setup(c)

			err := c.Next()
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeValidationFailed))
			se, _ := errors.As(err)
			assert.Equal(t, []string{tt.wantMsg}, se.Fields[tt.wantField])
			assert.Equal(t, tt.wantStep, c.Step())
		})
	}
}

func TestNext_ValidCompanyAdvances(t *testing.T) {
	c, _ := newTestController(t, &fakeSubmitter{})
	fillCompany(t, c, models.UnitWeaving)

	require.NoError(t, c.Next())
	assert.Equal(t, StepMachinery, c.Step())
	assert.Equal(t, 2, c.Step().Number())
	assert.Equal(t, "tiruppur", c.Draft().Location.City)
}

func TestNext_MachineryToServiceWithNoMachines(t *testing.T) {
	c, _ := newTestController(t, &fakeSubmitter{})
	fillCompany(t, c, models.UnitKnitting)

	require.NoError(t, c.Next())
	require.NoError(t, c.Next())
	assert.Equal(t, StepService, c.Step())
	assert.Empty(t, c.Draft().Machinery)

	err := c.Next()
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidStep))
}

func TestBack(t *testing.T) {
	c, _ := newTestController(t, &fakeSubmitter{})
	fillCompany(t, c, models.UnitWeaving)
	require.NoError(t, c.Next())
	require.NoError(t, c.Next())

	c.Back()
	assert.Equal(t, StepMachinery, c.Step())
	c.Back()
	assert.Equal(t, StepCompany, c.Step())
	c.Back()
	assert.Equal(t, StepCompany, c.Step())
}

func TestSetUnitType_ClearsMachineryOnChange(t *testing.T) {
	c, rec := newTestController(t, &fakeSubmitter{})
	fillCompany(t, c, models.UnitWeaving)
	require.NoError(t, c.Next())
	addWeavingMachine(t, c)
	addWeavingMachine(t, c)
	require.Len(t, c.Draft().Machinery, 2)

	c.Back()
	require.NoError(t, c.Company().SetUnitType(models.UnitKnitting))

	assert.Empty(t, c.Draft().Machinery)
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, models.NoticeInfo, last.Level)
	assert.Equal(t, "Unit type changed - machinery data has been reset", last.Title)

	f, err := c.Machinery().Form()
	require.NoError(t, err)
	assert.Equal(t, models.UnitKnitting, f.UnitType())
}

func TestSetUnitType_NoNoticeWithoutMachinery(t *testing.T) {
	c, rec := newTestController(t, &fakeSubmitter{})
	require.NoError(t, c.Company().SetUnitType(models.UnitWeaving))
	require.NoError(t, c.Company().SetUnitType(models.UnitDyeing))
	require.NoError(t, c.Company().SetUnitType(models.UnitDyeing))

	assert.Empty(t, rec.Notices())
	assert.Equal(t, models.UnitDyeing, c.Draft().UnitType)
}

func TestSetUnitType_RejectsUnknown(t *testing.T) {
	c, _ := newTestController(t, &fakeSubmitter{})
	err := c.SetUnitType("SPACE_UNIT")
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownUnitType))
	assert.Empty(t, c.Draft().UnitType)
}

func TestDirectDraftMutation_IsReconciled(t *testing.T) {
	c, rec := newTestController(t, &fakeSubmitter{})
	fillCompany(t, c, models.UnitWeaving)
	require.NoError(t, c.Next())
	addWeavingMachine(t, c)

	c.Draft().UnitType = models.UnitCutting
	require.NoError(t, c.Next())

	assert.Empty(t, c.Draft().Machinery)
	require.Len(t, rec.Notices(), 1)
}

func TestMachineryStep_NoUnitType(t *testing.T) {
	c, _ := newTestController(t, &fakeSubmitter{})
	_, err := c.Machinery().Form()
	require.Error(t, err)
	se, _ := errors.As(err)
	assert.Equal(t, []string{NoUnitTypeMessage}, se.Fields["unitType"])
}

func TestMachineryStep_PlaceholderCannotAdd(t *testing.T) {
	c, _ := newTestController(t, &fakeSubmitter{})
	require.NoError(t, c.SetUnitType(models.UnitWashing))

	f, err := c.Machinery().Form()
	require.NoError(t, err)
	assert.False(t, f.Implemented())

	_, err = c.Machinery().Add()
	assert.True(t, errors.IsCode(err, errors.ErrCodeFormUnavailable))
	assert.Empty(t, c.Draft().Machinery)
}

func TestMachineryStep_RemoveAndPreview(t *testing.T) {
	c, _ := newTestController(t, &fakeSubmitter{})
	fillCompany(t, c, models.UnitWeaving)
	addWeavingMachine(t, c)
	require.NoError(t, c.Machinery().Set("machineType", "Air Jet Loom"))
	_, err := c.Machinery().Add()
	require.NoError(t, err)

	c.Machinery().Remove(0)
	c.Machinery().Remove(5)
	require.Len(t, c.Machinery().Records(), 1)
	assert.Equal(t, "Machine Type: Air Jet Loom • Type Of Yarn: Cotton • No Of Machines: 1",
		Preview(c.Machinery().Records()[0]))
}

func TestServiceStep(t *testing.T) {
	c, _ := newTestController(t, &fakeSubmitter{})
	s := c.Services()

	errs := s.Add("  ", "ignored")
	assert.Equal(t, "Service title is required", errs["title"])
	assert.False(t, s.CanSubmit())

	assert.Nil(t, s.Add("Dyeing", "Reactive dyeing"))
	assert.Nil(t, s.Add("Knitting", ""))
	require.True(t, s.CanSubmit())

	svc, ok := s.Edit(0)
	require.True(t, ok)
	assert.Equal(t, "Dyeing", svc.Title)
	assert.Len(t, s.Services(), 1)

	_, ok = s.Edit(3)
	assert.False(t, ok)
}

func TestSubmit_OnlyFromServiceStep(t *testing.T) {
	sub := &fakeSubmitter{}
	c, _ := newTestController(t, sub)

	err := c.Submit(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidStep))
	assert.Empty(t, sub.payloads)
}

func TestSubmit_IncompleteDraftReturnsToCompany(t *testing.T) {
	sub := &fakeSubmitter{}
	c, rec := newTestController(t, sub)
	fillCompany(t, c, models.UnitWeaving)
	require.NoError(t, c.Next())
	require.NoError(t, c.Next())
	require.Nil(t, c.Services().Add("Weaving", ""))

	c.Draft().Name = ""
	err := c.Submit(context.Background())

	assert.True(t, errors.IsCode(err, errors.ErrCodeIncompleteDraft))
	assert.Equal(t, StepCompany, c.Step())
	assert.Empty(t, sub.payloads)
	last, _ := rec.Last()
	assert.Equal(t, models.NoticeError, last.Level)
	assert.Equal(t, "Please fill all required company details", last.Title)
}

func TestSubmit_RequiresService(t *testing.T) {
	sub := &fakeSubmitter{}
	c, rec := newTestController(t, sub)
	fillCompany(t, c, models.UnitWeaving)
	require.NoError(t, c.Next())
	require.NoError(t, c.Next())

	err := c.Submit(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodeValidationFailed))
	assert.Empty(t, sub.payloads)
	last, _ := rec.Last()
	assert.Equal(t, "Add at least one service", last.Title)
}

func TestSubmit_Success(t *testing.T) {
	sub := &fakeSubmitter{}
	c, rec := newTestController(t, sub)
	firstSession := c.SessionID()
	fillCompany(t, c, models.UnitWeaving)
	require.NoError(t, c.Next())
	addWeavingMachine(t, c)
	require.NoError(t, c.Next())
	require.Nil(t, c.Services().Add("Weaving", "Plain weave"))

	require.NoError(t, c.Submit(context.Background()))

	require.Len(t, sub.payloads, 1)
	req, err := http.NewRequest(http.MethodPost, "/", bytes.NewReader(sub.payloads[0].Body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", sub.payloads[0].ContentType)
	require.NoError(t, req.ParseMultipartForm(1<<20))
	assert.Equal(t, "Acme", req.FormValue("name"))
	assert.Equal(t, "WEAVING_UNIT", req.FormValue("unitType"))

	var machines []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(req.FormValue("machinery")), &machines))
	require.Len(t, machines, 1)
	assert.Equal(t, "Rapier Loom", machines[0]["machineType"])

	last, _ := rec.Last()
	assert.Equal(t, models.NoticeSuccess, last.Level)
	assert.Equal(t, "Company onboarded successfully", last.Title)

	assert.Equal(t, StepCompany, c.Step())
	assert.Empty(t, c.Draft().Name)
	assert.Empty(t, c.Draft().Machinery)
	assert.Empty(t, c.Draft().Services)
	assert.NotEqual(t, firstSession, c.SessionID())
}

func TestSubmit_Failures(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantTitle string
		wantDesc  string
	}{
		{
			name: "backend rejection with field errors",
			err: errors.NewBackendRejectedError("companies.onboard", 400, "Validation error",
				map[string][]string{"gstNumber": {"invalid"}, "name": {"taken"}}),
			wantTitle: "Validation error",
			wantDesc:  "gstNumber: invalid | name: taken",
		},
		{
			name:      "backend rejection without message",
			err:       errors.NewBackendRejectedError("companies.onboard", 500, "", nil),
			wantTitle: "Failed to onboard",
		},
		{
			name:      "network failure",
			err:       errors.NewNetworkError("companies.onboard", context.DeadlineExceeded),
			wantTitle: "Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &fakeSubmitter{err: tt.err}
			c, rec := newTestController(t, sub)
			fillCompany(t, c, models.UnitWeaving)
			require.NoError(t, c.Next())
			require.NoError(t, c.Next())
			require.Nil(t, c.Services().Add("Weaving", ""))

			err := c.Submit(context.Background())
			require.Error(t, err)

			last, _ := rec.Last()
			assert.Equal(t, models.NoticeError, last.Level)
			assert.Equal(t, tt.wantTitle, last.Title)
			assert.Equal(t, tt.wantDesc, last.Description)

			assert.Equal(t, StepService, c.Step())
			assert.Equal(t, "Acme", c.Draft().Name)
			assert.Len(t, c.Draft().Services, 1)
		})
	}
}

func TestAbandon(t *testing.T) {
	c, _ := newTestController(t, &fakeSubmitter{})
	fillCompany(t, c, models.UnitWeaving)
	draft := c.Draft()

	c.Abandon()
	assert.Same(t, draft, c.Draft())
	assert.Empty(t, draft.Name)
	assert.Equal(t, StepCompany, c.Step())
}

func TestNewController_UsesGivenRegistry(t *testing.T) {
	reg, err := machinery.NewRegistry(machinery.DefaultEntries()...)
	require.NoError(t, err)
	c := NewController(Dependencies{Registry: reg, Backend: &fakeSubmitter{}})
	require.NoError(t, c.SetUnitType(models.UnitDyeing))
	f, err := c.Machinery().Form()
	require.NoError(t, err)
	assert.True(t, f.Implemented())
}
