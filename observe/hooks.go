package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fulcrumops/backstop/resilience"
)

// Instrumentation bridges logging, metrics, and tracing into the resilience
// package's callbacks.
//
// Contract:
//   - Concurrency: hooks returned by Instrumentation are safe for concurrent
//     use.
//   - Errors: errors from wrapped operations are recorded and propagated
//     unchanged.
type Instrumentation struct {
	logger  Logger
	metrics Metrics
	tracer  Tracer
}

// NewInstrumentation creates an Instrumentation from a logger and
// caller-supplied OpenTelemetry meter and tracer.
func NewInstrumentation(logger Logger, meter metric.Meter, tracer trace.Tracer) (*Instrumentation, error) {
	metrics, err := NewMetrics(meter)
	if err != nil {
		return nil, err
	}

	return &Instrumentation{
		logger:  logger,
		metrics: metrics,
		tracer:  NewTracer(tracer),
	}, nil
}

// RetryHook returns a callback for RetryConfig.OnRetry that logs each failed
// attempt and records the attempt counter and delay histogram.
//
// The resilience hooks carry no context, so the ambient ctx is captured
// here; pass the context the retry sequence runs under.
func (i *Instrumentation) RetryHook(ctx context.Context, op string) func(attempt int, err error, delay time.Duration) {
	logger := i.logger.With(Field{Key: "op", Value: op})

	return func(attempt int, err error, delay time.Duration) {
		logger.Warn(ctx, "attempt failed, retrying",
			Field{Key: "attempt", Value: attempt},
			Field{Key: "delay_ms", Value: float64(delay.Milliseconds())},
			Field{Key: "error", Value: err.Error()},
		)
		i.metrics.RecordAttempt(ctx, op, attempt, delay, err)
	}
}

// BreakerHook returns a callback for CircuitBreakerConfig.OnStateChange that
// logs and counts every transition.
func (i *Instrumentation) BreakerHook(ctx context.Context, name string) func(from, to resilience.State) {
	logger := i.logger.With(Field{Key: "breaker", Value: name})

	return func(from, to resilience.State) {
		fields := []Field{
			{Key: "from", Value: from.String()},
			{Key: "to", Value: to.String()},
		}
		if to == resilience.StateOpen {
			logger.Error(ctx, "circuit opened", fields...)
		} else {
			logger.Info(ctx, "circuit state changed", fields...)
		}
		i.metrics.RecordTransition(ctx, name, from.String(), to.String())
	}
}

// WrapOperation wraps op with a span, an outcome log entry, and execution
// metrics. The returned operation can be handed to a Retrier, a
// CircuitBreaker, or an Executor.
func (i *Instrumentation) WrapOperation(op string, fn func(context.Context) error) func(context.Context) error {
	logger := i.logger.With(Field{Key: "op", Value: op})

	return func(ctx context.Context) error {
		ctx, span := i.tracer.StartSpan(ctx, op)
		start := time.Now()

		err := fn(ctx)
		duration := time.Since(start)

		i.tracer.EndSpan(span, err)
		i.metrics.RecordExecution(ctx, op, duration, err)

		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			logger.Error(ctx, "operation failed", fields...)
		} else {
			logger.Debug(ctx, "operation completed", fields...)
		}

		return err
	}
}
