package resilience

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when a call is rejected because the circuit
	// breaker is open. It is distinct from the operation's own failures so
	// callers can tell "the resource is known-bad" from "this call failed".
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrTimeout is returned when an operation exceeds its time limit.
	ErrTimeout = errors.New("resilience: operation timed out")
)

// RetryError aggregates every failure from a retry sequence that ended
// without success, either because attempts were exhausted or because a
// failure was classified non-retryable.
//
// A RetryError is immutable once returned. Invariants:
// len(Errors) == Attempts, Last == Errors[len(Errors)-1], and TotalDelay is
// the sum of delays actually waited (zero when Attempts == 1).
type RetryError struct {
	// Attempts is the number of invocations made.
	Attempts int

	// Errors holds every failure encountered, in order.
	Errors []error

	// Last is the most recent underlying failure.
	Last error

	// TotalDelay is the sum of all inter-attempt delays actually waited.
	TotalDelay time.Duration
}

// Error summarizes the sequence; the full history stays available through
// Errors and Unwrap.
func (e *RetryError) Error() string {
	if e.Attempts == 1 {
		return fmt.Sprintf("resilience: operation failed after 1 attempt: %v", e.Last)
	}
	return fmt.Sprintf("resilience: operation failed after %d attempts (waited %v): %v",
		e.Attempts, e.TotalDelay, e.Last)
}

// Unwrap exposes the recorded failures so errors.Is and errors.As see every
// attempt, not just the last one.
func (e *RetryError) Unwrap() []error {
	return e.Errors
}
