package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means operations execute normally.
	StateClosed State = iota
	// StateOpen means calls are rejected without invoking the operation.
	StateOpen
	// StateHalfOpen means a single probe is testing whether the resource
	// recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the
	// circuit.
	// Default: 5
	FailureThreshold int

	// ResetTimeout is how long the circuit stays open before a probe is
	// admitted.
	// Default: 30s
	ResetTimeout time.Duration

	// IsFailure decides whether an error counts against the threshold.
	// Default: every non-nil error except context.Canceled.
	IsFailure func(err error) bool

	// OnStateChange is called after each state transition.
	OnStateChange func(from, to State)
}

// CircuitBreaker guards a single protected resource. It is shared mutable
// state: create one per resource, long-lived, and use it from every call
// site against that resource so failures accumulate in one place. Safe for
// concurrent use.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
}

// NewCircuitBreaker creates a circuit breaker in the closed state.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool {
			return err != nil && !errors.Is(err, context.Canceled)
		}
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Execute runs the operation through the circuit breaker. While the circuit
// is open it returns ErrCircuitOpen without invoking op; once ResetTimeout
// has elapsed since the last failure, exactly one call is admitted as a
// half-open probe.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	err := op(ctx)
	cb.afterRequest(err)
	return err
}

// State returns the current circuit state. It is a pure read: the
// open-to-half-open transition only happens when a call is admitted, so an
// expired reset timeout still reads as open until the next Execute.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset unconditionally forces the circuit closed and clears the failure
// count. Operator escape hatch; the automatic state machine never calls it.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	from := cb.state
	cb.state = StateClosed
	cb.failures = 0

	if from != StateClosed && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, StateClosed)
	}
}

// beforeRequest decides whether the call may proceed. The whole
// read-check-transition sequence runs under the mutex, so two callers racing
// the reset-timeout boundary cannot both become the half-open probe.
func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if time.Since(cb.lastFailure) < cb.config.ResetTimeout {
			return ErrCircuitOpen
		}
		// Recovery window elapsed: this call becomes the probe.
		cb.transitionLocked(StateHalfOpen)
		return nil
	case StateHalfOpen:
		// A probe is already in flight.
		return ErrCircuitOpen
	}

	return nil
}

func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	failed := cb.config.IsFailure(err)

	switch cb.state {
	case StateClosed:
		if failed {
			cb.failures++
			cb.lastFailure = time.Now()
			if cb.failures >= cb.config.FailureThreshold {
				cb.transitionLocked(StateOpen)
			}
		} else {
			cb.failures = 0
		}

	case StateHalfOpen:
		if failed {
			// Probe failed: reopen and restart the recovery window.
			cb.lastFailure = time.Now()
			cb.transitionLocked(StateOpen)
		} else {
			cb.failures = 0
			cb.transitionLocked(StateClosed)
		}
	}
}

func (cb *CircuitBreaker) transitionLocked(to State) {
	from := cb.state
	cb.state = to
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}

// Snapshot is a point-in-time view of breaker internals for observability.
type Snapshot struct {
	State       State
	Failures    int
	LastFailure time.Time
}

// Snapshot returns the breaker's current internals without perturbing the
// state machine.
func (cb *CircuitBreaker) Snapshot() Snapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return Snapshot{
		State:       cb.state,
		Failures:    cb.failures,
		LastFailure: cb.lastFailure,
	}
}
