// Package companies lists, shows, edits and deletes directory records.
package companies

import (
	"context"
	"fmt"
	"strings"

	"directory-console/internal/common/backend"
	"directory-console/internal/common/errors"
	"directory-console/internal/common/logger"
	"directory-console/internal/common/metrics"
	"directory-console/internal/common/notify"
	"directory-console/internal/common/observability"
	"directory-console/internal/machinery"
	"directory-console/internal/models"
	"directory-console/internal/submission"
)

// DefaultPageLimit is used when neither the query nor config sets one.
const DefaultPageLimit = 10

// Backend is the part of the REST client the company screens use.
type Backend interface {
	ListCompanies(ctx context.Context, q models.CompanyQuery) (*models.CompanyPage, error)
	GetCompany(ctx context.Context, id string) (*models.Company, error)
	UpdateCompany(ctx context.Context, id string, p *submission.Payload) (*backend.Result, error)
	DeleteCompany(ctx context.Context, id string) (*backend.Result, error)
}

type Dependencies struct {
	Logger        logger.Logger
	Backend       Backend
	Notifier      notify.Notifier
	Registry      *machinery.Registry
	Observability *observability.Observability
	Encoder       submission.Encoder
	PageLimit     int
}

// Browser serves the company list and detail screens.
type Browser struct {
	deps       Dependencies
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

func NewBrowser(deps Dependencies) *Browser {
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	if deps.Notifier == nil {
		deps.Notifier = &notify.Recorder{}
	}
	if deps.Registry == nil {
		deps.Registry = machinery.Default()
	}
	if deps.PageLimit <= 0 {
		deps.PageLimit = DefaultPageLimit
	}
	log := deps.Logger.WithFields(map[string]interface{}{"component": "companies"})
	return &Browser{
		deps:       deps,
		logger:     log,
		errHandler: errors.NewErrorHandler(log),
	}
}

// List fetches one page. Page defaults to 1 and Limit to the configured
// page size.
func (b *Browser) List(ctx context.Context, q models.CompanyQuery) (*models.CompanyPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = b.deps.PageLimit
	}
	q.Name = strings.TrimSpace(q.Name)
	q.Location = strings.TrimSpace(q.Location)

	page, err := b.deps.Backend.ListCompanies(ctx, q)
	if err != nil {
		b.deps.Notifier.Notify(b.errHandler.Notice("companies.list", err, "Failed to load companies", ""))
		return nil, err
	}
	b.logger.Debug("Listed companies", map[string]interface{}{
		"page":  page.Pagination.Page,
		"total": page.Pagination.Total,
		"count": len(page.Companies),
	})
	return page, nil
}

// Detail is a company with its machinery decoded for display.
type Detail struct {
	Company   *models.Company
	Location  string
	Machinery []machinery.Record
}

// Detail loads one company.
func (b *Browser) Detail(ctx context.Context, id string) (*Detail, error) {
	c, err := b.deps.Backend.GetCompany(ctx, id)
	if err != nil {
		notify.Error(b.deps.Notifier, "Failed to load company details", "")
		b.logger.Warn("Company detail failed", map[string]interface{}{
			"companyId": id,
			"error":     err.Error(),
		})
		return nil, err
	}
	return &Detail{
		Company:   c,
		Location:  FormatLocation(c.Location),
		Machinery: b.decodeMachinery(c),
	}, nil
}

// FormatLocation prefers the street address, then "city, state, pincode",
// then the coordinates.
func FormatLocation(l *models.Location) string {
	if l == nil {
		return "Location not specified"
	}
	return l.Format()
}

func (b *Browser) decodeMachinery(c *models.Company) []machinery.Record {
	out := make([]machinery.Record, 0, len(c.Machinery))
	for _, m := range c.Machinery {
		unit := m.UnitType
		if unit == "" {
			unit = c.UnitType
		}
		out = append(out, b.deps.Registry.DecodeStored(unit, m.MachineData))
	}
	return out
}

// Delete removes c and reports the outcome.
func (b *Browser) Delete(ctx context.Context, c *models.Company) error {
	_, err := b.deps.Backend.DeleteCompany(ctx, c.ID)
	metrics.Submissions.WithLabelValues("delete", errors.Outcome(err)).Inc()
	if err != nil {
		notify.Error(b.deps.Notifier, backendMessage(err, "Failed to delete company"), "")
		b.logger.Warn("Company delete failed", map[string]interface{}{
			"companyId": c.ID,
			"error":     err.Error(),
		})
		return err
	}

	b.logger.Info("Company deleted", map[string]interface{}{"companyId": c.ID})
	notify.Success(b.deps.Notifier, fmt.Sprintf("Company %q deleted successfully", c.Name), "")
	return nil
}

// backendMessage is the backend's own message for a rejection, otherwise
// fallback.
func backendMessage(err error, fallback string) string {
	if errors.IsCode(err, errors.ErrCodeBackendRejected) || errors.IsCode(err, errors.ErrCodeNotFound) {
		return errors.UserMessage(err, fallback)
	}
	return fallback
}
