// Package backend talks to the directory REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"directory-console/internal/common/config"
	"directory-console/internal/common/errors"
	httpc "directory-console/internal/common/http"
	"directory-console/internal/common/logger"
	"directory-console/internal/models"
	"directory-console/internal/submission"
)

// maxBodySize bounds how much of a response is read.
const maxBodySize = 8 << 20

// Client is the backend API client. It keeps the session cookie set by
// /auth/login and sends it on every later call.
type Client struct {
	baseURL *url.URL
	http    *httpc.Client
	logger  logger.Logger
}

// NewClient builds a client for cfg.BaseURL.
func NewClient(cfg config.BackendConfig, log logger.Logger, opts ...httpc.Option) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse backend url: %w", err)
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if cfg.UserAgent != "" {
		opts = append([]httpc.Option{httpc.WithUserAgent(cfg.UserAgent)}, opts...)
	}
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: base,
		http:    httpc.NewClient(timeout, opts...),
		logger:  log.WithFields(map[string]interface{}{"component": "backend"}),
	}, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

// SetSessionCookie seeds the cookie jar with an existing session.
func (c *Client) SetSessionCookie(name, value string) {
	c.http.SetCookies(c.baseURL, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
}

// SessionCookie returns the value of the named cookie the jar holds for
// the API, e.g. to hand a console session to a browser.
func (c *Client) SessionCookie(name string) (string, bool) {
	for _, ck := range c.http.Cookies(c.baseURL) {
		if ck.Name == name {
			return ck.Value, true
		}
	}
	return "", false
}

// Login posts credentials. The backend answers with an HttpOnly cookie
// that the jar keeps.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body, err := json.Marshal(models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return errors.NewEncodingError("credentials", err)
	}
	_, err = c.do(ctx, call{
		operation:   "auth.login",
		method:      http.MethodPost,
		path:        "/auth/login",
		body:        bytes.NewReader(body),
		contentType: "application/json",
	})
	return err
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, call{
		operation:   "auth.logout",
		method:      http.MethodPost,
		path:        "/auth/logout",
		contentType: "application/json",
	})
	return err
}

// CurrentAdmin returns the admin behind the session cookie. Any failure,
// including a missing cookie, is NOT_AUTHENTICATED.
func (c *Client) CurrentAdmin(ctx context.Context) (*models.AdminUser, error) {
	return c.admin(ctx, call{
		operation: "auth.admin",
		method:    http.MethodGet,
		path:      "/auth/admin",
	})
}

// VerifySession checks a session cookie taken from another request
// without touching the client's own jar session.
func (c *Client) VerifySession(ctx context.Context, cookie *http.Cookie) (*models.AdminUser, error) {
	h := http.Header{}
	h.Set("Cookie", cookie.String())
	return c.admin(ctx, call{
		operation: "auth.verify",
		method:    http.MethodGet,
		path:      "/auth/admin",
		header:    h,
	})
}

func (c *Client) admin(ctx context.Context, in call) (*models.AdminUser, error) {
	resp, err := c.do(ctx, in)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNetwork) {
			return nil, err
		}
		return nil, errors.NewNotAuthenticatedError(err.Error())
	}

	// The endpoint returns the user either bare or under "data".
	payload := resp.raw
	if len(resp.Data) > 0 && resp.Data[0] == '{' {
		payload = resp.Data
	}
	var user models.AdminUser
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, errors.NewDecodeError(in.operation, err)
	}
	if user.Email == "" {
		return nil, errors.NewNotAuthenticatedError("no admin in response")
	}
	return &user, nil
}

// ListCompanies fetches one page of companies.
func (c *Client) ListCompanies(ctx context.Context, q models.CompanyQuery) (*models.CompanyPage, error) {
	params := url.Values{}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	setIf(params, "name", q.Name)
	setIf(params, "unitType", string(q.UnitType))
	setIf(params, "workType", string(q.WorkType))
	setIf(params, "location", q.Location)

	resp, err := c.do(ctx, call{
		operation: "companies.list",
		method:    http.MethodGet,
		path:      "/companies/list",
		query:     params,
	})
	if err != nil {
		return nil, err
	}

	page := &models.CompanyPage{Companies: []models.Company{}}
	if len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, &page.Companies); err != nil {
			return nil, errors.NewDecodeError("companies.list", err)
		}
	}
	if resp.Pagination != nil {
		page.Pagination = *resp.Pagination
	}
	return page, nil
}

func (c *Client) GetCompany(ctx context.Context, id string) (*models.Company, error) {
	resp, err := c.do(ctx, call{
		operation: "companies.get",
		method:    http.MethodGet,
		path:      "/companies/" + url.PathEscape(id),
	})
	if err != nil {
		if se, ok := errors.As(err); ok && se.Status == http.StatusNotFound {
			return nil, errors.NewNotFoundError("company", id)
		}
		return nil, err
	}

	var company models.Company
	if err := json.Unmarshal(resp.Data, &company); err != nil {
		return nil, errors.NewDecodeError("companies.get", err)
	}
	return &company, nil
}

func (c *Client) UpdateCompany(ctx context.Context, id string, p *submission.Payload) (*Result, error) {
	return c.multipart(ctx, "companies.update", http.MethodPut, "/companies/"+url.PathEscape(id), p)
}

func (c *Client) DeleteCompany(ctx context.Context, id string) (*Result, error) {
	resp, err := c.do(ctx, call{
		operation: "companies.delete",
		method:    http.MethodDelete,
		path:      "/companies/" + url.PathEscape(id),
	})
	if err != nil {
		return nil, err
	}
	return resp.result(), nil
}

// OnboardCompany posts a new company.
func (c *Client) OnboardCompany(ctx context.Context, p *submission.Payload) (*Result, error) {
	return c.multipart(ctx, "companies.onboard", http.MethodPost, "/companies/onboard", p)
}

// CreateJob posts a job.
func (c *Client) CreateJob(ctx context.Context, p *submission.Payload) (*Result, error) {
	return c.multipart(ctx, "jobs.create", http.MethodPost, "/jobs/create", p)
}

func (c *Client) multipart(ctx context.Context, operation, method, path string, p *submission.Payload) (*Result, error) {
	if p == nil {
		return nil, errors.NewEncodingError(operation, fmt.Errorf("empty payload"))
	}
	resp, err := c.do(ctx, call{
		operation:   operation,
		method:      method,
		path:        path,
		body:        bytes.NewReader(p.Body),
		contentType: p.ContentType,
	})
	if err != nil {
		return nil, err
	}
	return resp.result(), nil
}

func setIf(v url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		v.Set(key, value)
	}
}
