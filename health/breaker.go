package health

import (
	"context"
	"time"

	"github.com/fulcrumops/backstop/resilience"
)

// BreakerChecker reports the state of a circuit breaker as a health result:
// closed is healthy, half-open is degraded (recovery in progress), open is
// unhealthy.
type BreakerChecker struct {
	name    string
	breaker *resilience.CircuitBreaker
}

// NewBreakerChecker creates a checker for the given breaker. The breaker is
// only read, never driven, so checks cannot admit probes or trip the
// circuit.
func NewBreakerChecker(name string, breaker *resilience.CircuitBreaker) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: breaker}
}

// Name returns the name of this checker.
func (c *BreakerChecker) Name() string {
	return c.name
}

// Check reads the breaker's snapshot and maps it to a health result.
func (c *BreakerChecker) Check(ctx context.Context) Result {
	snap := c.breaker.Snapshot()

	details := map[string]any{
		"state":    snap.State.String(),
		"failures": snap.Failures,
	}
	if !snap.LastFailure.IsZero() {
		details["last_failure"] = snap.LastFailure.UTC().Format(time.RFC3339Nano)
	}

	result := Result{
		Details:   details,
		Timestamp: time.Now(),
	}

	switch snap.State {
	case resilience.StateOpen:
		result.Status = StatusUnhealthy
		result.Message = "circuit open: resource is failing"
	case resilience.StateHalfOpen:
		result.Status = StatusDegraded
		result.Message = "circuit half-open: probing for recovery"
	default:
		result.Status = StatusHealthy
		result.Message = "circuit closed"
	}

	return result
}

var _ Checker = (*BreakerChecker)(nil)
