package resilience

import (
	"context"
	"time"
)

// Executor composes a circuit breaker, a retrier, and a timeout around one
// operation.
type Executor struct {
	circuitBreaker *CircuitBreaker
	retrier        *Retrier
	timeout        *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates an executor from the given options. Patterns that are
// not configured are skipped.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithCircuitBreaker adds a circuit breaker to the executor.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.circuitBreaker = cb
	}
}

// WithRetrier adds retry logic to the executor.
func WithRetrier(r *Retrier) ExecutorOption {
	return func(e *Executor) {
		e.retrier = r
	}
}

// WithTimeout bounds each individual attempt.
func WithTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(TimeoutConfig{Timeout: timeout})
	}
}

// Execute runs the operation through the configured patterns.
//
// Wrapping order, outermost first: circuit breaker, then retry, then
// timeout. The breaker sits outside so an open circuit rejects the whole
// sequence in one cheap check instead of timing out every retry; the timeout
// sits inside so it bounds each attempt rather than the sequence.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	execute := op

	if e.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}

	if e.retrier != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.retrier.Do(ctx, inner)
		}
	}

	if e.circuitBreaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.circuitBreaker.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}
