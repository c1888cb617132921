// Package otel provides OpenTelemetry initialization for interview-coach.
//
// Traces (gateway GenAI spans, HTTP server and client spans) and metrics
// (actions, tokens) are exported to an OTLP endpoint set in the config file
// or OTEL_EXPORTER_OTLP_ENDPOINT. Without an endpoint telemetry is a no-op.
//
// Custom headers (e.g. Langfuse authentication) come from the config file
// or OTEL_EXPORTER_OTLP_HEADERS.
package otel

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "interview-coach"

// DefaultMetricInterval is how often metrics are pushed.
const DefaultMetricInterval = 15 * time.Second

// Version is set by the caller (from the linker-injected cmd.Version).
var Version = "dev"

// OTELConfig holds the configuration needed by the OTEL init.
type OTELConfig struct {
	Endpoint string // OTLP base URL, e.g. "http://localhost:3000/api/public/otel"
	Headers  string // Comma-separated key=value pairs, e.g. "Authorization=Basic abc123"
	// MetricInterval overrides DefaultMetricInterval.
	MetricInterval time.Duration
}

// Telemetry holds the OTEL providers and metric instruments.
type Telemetry struct {
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider

	Tracer  trace.Tracer
	Metrics *Metrics
}

// ParseHeaders parses a comma-separated "key=value,key2=value2" string into a map,
// the OTEL_EXPORTER_OTLP_HEADERS format. Pairs without a key are skipped.
func ParseHeaders(raw string) map[string]string {
	headers := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		key, val, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(val)
	}
	return headers
}

// target is an OTLP endpoint split the way the HTTP exporters want it:
// host:port plus a base path the signal suffix is appended to.
type target struct {
	host     string
	basePath string
	insecure bool
	headers  map[string]string
}

func parseTarget(endpoint, headers string) (target, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return target{}, fmt.Errorf("invalid endpoint URL %q: %w", endpoint, err)
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return target{}, fmt.Errorf("invalid endpoint URL %q: want http(s)://host[:port][/path]", endpoint)
	}
	return target{
		host:     u.Host,
		basePath: strings.TrimRight(u.Path, "/"),
		insecure: u.Scheme == "http",
		headers:  ParseHeaders(headers),
	}, nil
}

func (t target) traceOptions() []otlptracehttp.Option {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(t.host),
		otlptracehttp.WithURLPath(t.basePath + "/v1/traces"),
	}
	if t.insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(t.headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(t.headers))
	}
	return opts
}

func (t target) metricOptions() []otlpmetrichttp.Option {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(t.host),
		otlpmetrichttp.WithURLPath(t.basePath + "/v1/metrics"),
	}
	if t.insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	if len(t.headers) > 0 {
		opts = append(opts, otlpmetrichttp.WithHeaders(t.headers))
	}
	return opts
}

// Init initializes OTEL with OTLP HTTP exporters. With an empty endpoint it
// returns a Telemetry whose tracer and instruments are no-ops.
func Init(ctx context.Context, cfg OTELConfig) (*Telemetry, error) {
	t := &Telemetry{}

	if cfg.Endpoint != "" {
		if err := t.startExport(ctx, cfg); err != nil {
			return nil, err
		}
	}

	t.Tracer = otel.Tracer(serviceName)

	metrics, err := NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("otel metrics: %w", err)
	}
	t.Metrics = metrics
	return t, nil
}

// startExport installs global providers that push to cfg.Endpoint.
func (t *Telemetry) startExport(ctx context.Context, cfg OTELConfig) error {
	tgt, err := parseTarget(cfg.Endpoint, cfg.Headers)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(Version),
		),
		resource.WithHost(),
	)
	if err != nil {
		return fmt.Errorf("otel resource: %w", err)
	}

	traceExp, err := otlptracehttp.New(ctx, tgt.traceOptions()...)
	if err != nil {
		return fmt.Errorf("otel trace exporter: %w", err)
	}
	metricExp, err := otlpmetrichttp.New(ctx, tgt.metricOptions()...)
	if err != nil {
		_ = traceExp.Shutdown(ctx)
		return fmt.Errorf("otel metric exporter: %w", err)
	}

	interval := cfg.MetricInterval
	if interval <= 0 {
		interval = DefaultMetricInterval
	}

	t.tp = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExp),
		sdktrace.WithResource(res),
	)
	t.mp = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp, sdkmetric.WithInterval(interval))),
		sdkmetric.WithResource(res),
	)

	otel.SetTracerProvider(t.tp)
	otel.SetMeterProvider(t.mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))
	return nil
}

// Enabled reports whether telemetry is exported anywhere.
func (t *Telemetry) Enabled() bool {
	return t != nil && t.tp != nil
}

// Shutdown flushes pending spans and metrics. Safe on a nil Telemetry.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error
	if t.tp != nil {
		errs = append(errs, t.tp.Shutdown(ctx))
	}
	if t.mp != nil {
		errs = append(errs, t.mp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
