package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "interview-coach"

// Metrics holds all OTEL metric instruments for interview-coach.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// LLM token counters (partitioned by provider + model via attributes)
	InputTokens  metric.Int64Counter
	OutputTokens metric.Int64Counter

	// Interview actions partitioned by action and outcome
	// (ok, request, configuration, provider, extraction, validation).
	Actions        metric.Int64Counter
	ActionDuration metric.Float64Histogram
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.InputTokens, err = meter.Int64Counter("llm.tokens.input",
		metric.WithDescription("Total LLM input tokens consumed"),
		metric.WithUnit("{token}"))
	if err != nil {
		return nil, err
	}

	m.OutputTokens, err = meter.Int64Counter("llm.tokens.output",
		metric.WithDescription("Total LLM output tokens consumed"),
		metric.WithUnit("{token}"))
	if err != nil {
		return nil, err
	}

	m.Actions, err = meter.Int64Counter("interview.actions",
		metric.WithDescription("Interview actions partitioned by action and outcome"))
	if err != nil {
		return nil, err
	}

	m.ActionDuration, err = meter.Float64Histogram("interview.action.duration",
		metric.WithDescription("Wall-clock time of an interview action including the LLM call"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordTokens records LLM token usage on the metric counters.
func (m *Metrics) RecordTokens(ctx context.Context, provider, model string, input, output int64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("llm.provider", provider),
		attribute.String("llm.model", model),
	)
	m.InputTokens.Add(ctx, input, attrs)
	m.OutputTokens.Add(ctx, output, attrs)
}

// RecordAction records one finished interview action.
func (m *Metrics) RecordAction(ctx context.Context, action, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("interview.action", action),
		attribute.String("interview.outcome", outcome),
	)
	m.Actions.Add(ctx, 1, attrs)
	m.ActionDuration.Record(ctx, d.Seconds(), attrs)
}
