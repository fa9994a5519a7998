// internal/common/http/client.go
package http

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"directory-console/internal/common/metrics"
)

// RequestIDHeader correlates console log lines with backend logs.
const RequestIDHeader = "X-Request-ID"

// Client is an instrumented HTTP client that keeps the backend's session
// cookie between calls.
type Client struct {
	httpClient *http.Client
	userAgent  string
	tracer     trace.Tracer
}

// Option customizes NewClient.
type Option func(*Client)

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithTransport swaps the round tripper, mostly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.httpClient.Transport = rt }
}

func NewClient(timeout time.Duration, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil) // only fails with a non-nil PublicSuffixList
	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		tracer: noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends req under ctx, labelled with operation for metrics and tracing.
func (c *Client) Do(ctx context.Context, operation string, req *http.Request) (*http.Response, error) {
	ctx, span := c.tracer.Start(ctx, "backend "+operation, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
		))
	defer span.End()

	req = req.WithContext(ctx)
	if req.Header.Get(RequestIDHeader) == "" {
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	inFlight := metrics.BackendRequestsInFlight.WithLabelValues(operation)
	inFlight.Inc()
	defer inFlight.Dec()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.BackendRequests.WithLabelValues(operation, metrics.StatusClass(0)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.BackendRequests.WithLabelValues(operation, metrics.StatusClass(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, resp.Status)
	}
	return resp, nil
}

// Cookies returns the cookies the jar would send to u.
func (c *Client) Cookies(u *url.URL) []*http.Cookie {
	return c.httpClient.Jar.Cookies(u)
}

// SetCookies seeds the jar, e.g. with a token carried in from a browser.
func (c *Client) SetCookies(u *url.URL, cookies []*http.Cookie) {
	c.httpClient.Jar.SetCookies(u, cookies)
}
