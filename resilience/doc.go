// Package resilience wraps fallible operations with automatic retry and
// circuit-breaker protection.
//
// The package is built around two independent mechanisms:
//
//   - Retry: repeated invocation of an operation with exponential backoff,
//     driven by an error classifier that separates transient failures
//     (connection resets, serialization failures, deadlocks) from failures
//     that retrying cannot fix. Exhausted or non-retryable sequences surface
//     a *RetryError carrying the complete failure history.
//
//   - Circuit Breaker: a per-resource guard that stops invoking an operation
//     after a run of failures, waits out a recovery window, then admits a
//     single probe before closing again.
//
// # Usage
//
// The common case is one of the preset policies:
//
//	err := resilience.WithDatabaseRetry(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
//
//	err := resilience.WithTransactionRetry(ctx, func(ctx context.Context) error {
//	    return runTransfer(ctx, tx)
//	})
//
// Custom policies go through a Retrier:
//
//	r := resilience.NewRetrier(resilience.RetryConfig{
//	    MaxAttempts: 5,
//	    BaseDelay:   200 * time.Millisecond,
//	    MaxDelay:    5 * time.Second,
//	})
//	err := r.Do(ctx, op)
//
// A CircuitBreaker is created once per protected resource and shared across
// all call sites for that resource; recreating it per call defeats failure
// accumulation:
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    FailureThreshold: 5,
//	    ResetTimeout:     30 * time.Second,
//	})
//	err := cb.Execute(ctx, op)
//
// Both mechanisms compose through an Executor:
//
//	ex := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(cb),
//	    resilience.WithRetrier(r),
//	    resilience.WithTimeout(2*time.Second),
//	)
//	err := ex.Execute(ctx, op)
package resilience
