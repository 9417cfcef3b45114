package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records retry and circuit-breaker telemetry.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordAttempt records one failed attempt and the backoff delay chosen
	// before the next one.
	RecordAttempt(ctx context.Context, op string, attempt int, delay time.Duration, err error)

	// RecordExecution records the outcome of a whole guarded execution.
	RecordExecution(ctx context.Context, op string, duration time.Duration, err error)

	// RecordTransition records a circuit-breaker state change.
	RecordTransition(ctx context.Context, breaker, from, to string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	attempts     metric.Int64Counter
	executions   metric.Int64Counter
	transitions  metric.Int64Counter
	delayHist    metric.Float64Histogram
	durationHist metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	attempts, err := meter.Int64Counter(
		"backstop.retry.attempts",
		metric.WithDescription("Failed attempts that triggered a retry"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	executions, err := meter.Int64Counter(
		"backstop.executions",
		metric.WithDescription("Guarded executions by outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter(
		"backstop.breaker.transitions",
		metric.WithDescription("Circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	delayHist, err := meter.Float64Histogram(
		"backstop.retry.delay_ms",
		metric.WithDescription("Backoff delay chosen before each retry"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"backstop.execution.duration_ms",
		metric.WithDescription("Guarded execution duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		attempts:     attempts,
		executions:   executions,
		transitions:  transitions,
		delayHist:    delayHist,
		durationHist: durationHist,
	}, nil
}

func (m *metricsImpl) RecordAttempt(ctx context.Context, op string, attempt int, delay time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("op", op),
		attribute.Int("attempt", attempt),
	)

	m.attempts.Add(ctx, 1, attrs)
	m.delayHist.Record(ctx, float64(delay)/float64(time.Millisecond),
		metric.WithAttributes(attribute.String("op", op)))
}

func (m *metricsImpl) RecordExecution(ctx context.Context, op string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}

	m.executions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))
	m.durationHist.Record(ctx, float64(duration)/float64(time.Millisecond),
		metric.WithAttributes(attribute.String("op", op)))
}

func (m *metricsImpl) RecordTransition(ctx context.Context, breaker, from, to string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("breaker", breaker),
		attribute.String("from", from),
		attribute.String("to", to),
	))
}
