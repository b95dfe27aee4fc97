package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RunMetrics records workflow run and step measurements.
type RunMetrics struct {
	runs         metric.Int64Counter
	steps        metric.Int64Counter
	stepDuration metric.Float64Histogram
}

// NewRunMetrics creates instruments on the global meter provider.
func NewRunMetrics(service string) (*RunMetrics, error) {
	meter := otel.Meter(service)

	runs, err := meter.Int64Counter("workflow.runs",
		metric.WithDescription("Workflow runs by terminal status"))
	if err != nil {
		return nil, fmt.Errorf("observability: runs counter: %w", err)
	}
	steps, err := meter.Int64Counter("workflow.steps",
		metric.WithDescription("Executed workflow steps"))
	if err != nil {
		return nil, fmt.Errorf("observability: steps counter: %w", err)
	}
	stepDuration, err := meter.Float64Histogram("workflow.step.duration",
		metric.WithDescription("Step execution duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("observability: step duration histogram: %w", err)
	}

	return &RunMetrics{runs: runs, steps: steps, stepDuration: stepDuration}, nil
}

// RecordRun counts one finished run with its terminal status
// (finished, failed, truncated, bounded).
func (m *RunMetrics) RecordRun(ctx context.Context, status string) {
	if m == nil {
		return
	}
	m.runs.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordStep counts one executed step and its duration.
func (m *RunMetrics) RecordStep(ctx context.Context, node string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("node", node))
	m.steps.Add(ctx, 1, attrs)
	m.stepDuration.Record(ctx, float64(d)/float64(time.Millisecond), attrs)
}
