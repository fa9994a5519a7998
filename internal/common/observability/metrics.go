package observability

import (
	"context"
	"log"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Observability owns the otel meter and tracer providers for one binary.
type Observability struct {
	meterProvider      *metric.MeterProvider
	tracerProvider     *sdktrace.TracerProvider
	meter              otelmetric.Meter
	tracer             trace.Tracer
	submissionCounter  otelmetric.Int64Counter
	submissionDuration otelmetric.Float64Histogram
}

// Option customizes New.
type Option func(*options)

type options struct {
	registerer     promclient.Registerer
	spanProcessors []sdktrace.SpanProcessor
	setGlobal      bool
}

// WithRegisterer exports otel metrics into reg instead of the default registry.
func WithRegisterer(reg promclient.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithSpanProcessor attaches a span processor, e.g. a recorder in tests.
func WithSpanProcessor(sp sdktrace.SpanProcessor) Option {
	return func(o *options) { o.spanProcessors = append(o.spanProcessors, sp) }
}

// WithoutGlobal keeps the providers out of otel's global registry.
func WithoutGlobal() Option {
	return func(o *options) { o.setGlobal = false }
}

func New(serviceName string, opts ...Option) *Observability {
	o := &options{setGlobal: true}
	for _, opt := range opts {
		opt(o)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	for _, sp := range o.spanProcessors {
		tpOpts = append(tpOpts, sdktrace.WithSpanProcessor(sp))
	}
	tracerProvider := sdktrace.NewTracerProvider(tpOpts...)

	obs := &Observability{
		tracerProvider: tracerProvider,
		tracer:         tracerProvider.Tracer(serviceName),
	}

	var exporterOpts []prometheus.Option
	if o.registerer != nil {
		exporterOpts = append(exporterOpts, prometheus.WithRegisterer(o.registerer))
	}
	exporter, err := prometheus.New(exporterOpts...)
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return obs
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	if o.setGlobal {
		otel.SetMeterProvider(provider)
		otel.SetTracerProvider(tracerProvider)
	}

	meter := provider.Meter(serviceName)

	submissionCounter, _ := meter.Int64Counter(
		"submissions.processed",
		otelmetric.WithDescription("Number of multipart submissions sent to the backend"),
	)

	submissionDuration, _ := meter.Float64Histogram(
		"submissions.duration",
		otelmetric.WithDescription("Submission round-trip duration"),
		otelmetric.WithUnit("ms"),
	)

	obs.meterProvider = provider
	obs.meter = meter
	obs.submissionCounter = submissionCounter
	obs.submissionDuration = submissionDuration
	return obs
}

// StartSpan opens a span on the console tracer.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Tracer exposes the tracer for packages that start their own spans.
func (o *Observability) Tracer() trace.Tracer {
	if o == nil || o.tracer == nil {
		return noop.NewTracerProvider().Tracer("")
	}
	return o.tracer
}

func (o *Observability) RecordSubmission(ctx context.Context, kind, status string) {
	if o != nil && o.submissionCounter != nil {
		o.submissionCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordSubmissionDuration(ctx context.Context, kind string, duration time.Duration, status string) {
	if o != nil && o.submissionDuration != nil {
		o.submissionDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
