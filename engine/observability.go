package engine

import (
	"context"
	"time"

	"github.com/flowforge/graphrun/logger"
	"github.com/flowforge/graphrun/observability"
)

// WithTracing wraps a Step with OpenTelemetry span creation.
// Each execution creates a span named "{prefix}.{stepName}".
func WithTracing(step Step, prefix string) Step {
	return &tracingStep{inner: step, prefix: prefix}
}

type tracingStep struct {
	inner  Step
	prefix string
}

func (s *tracingStep) Name() string { return s.inner.Name() }

func (s *tracingStep) Run(ctx context.Context, state *State) (*State, error) {
	ctx, span := observability.StartSpan(ctx, s.prefix+"."+s.inner.Name())
	defer span.End()

	observability.SetSpanAttribute(ctx, "workflow.step", s.inner.Name())
	observability.SetSpanAttribute(ctx, "workflow.iteration", state.Iteration)

	result, err := s.inner.Run(ctx, state)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return result, err
}

// WithLogging wraps a Step with execution logging: step name, duration and
// success/error status.
func WithLogging(step Step, log *logger.Logger) Step {
	return &loggingStep{inner: step, log: log}
}

type loggingStep struct {
	inner Step
	log   *logger.Logger
}

func (s *loggingStep) Name() string { return s.inner.Name() }

func (s *loggingStep) Run(ctx context.Context, state *State) (*State, error) {
	start := time.Now()
	result, err := s.inner.Run(ctx, state)
	duration := time.Since(start)

	fields := map[string]interface{}{
		"step":     s.inner.Name(),
		"duration": duration.String(),
	}
	if err != nil {
		fields["error"] = err.Error()
		s.log.Error("workflow step failed", fields)
	} else {
		s.log.Debug("workflow step completed", fields)
	}
	return result, err
}
