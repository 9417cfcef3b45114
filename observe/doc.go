// Package observe reports retry attempts, outcomes, and circuit-breaker
// transitions to structured logging, OpenTelemetry metrics, and tracing.
//
// The package owns no exporters or providers: callers hand it a
// metric.Meter and a trace.Tracer from whatever telemetry pipeline the host
// service runs, and a Logger writing JSON lines. How the backends render the
// data is their concern.
//
// Instrumentation bridges the three into resilience hooks:
//
//	ins, err := observe.NewInstrumentation(logger, meter, tracer)
//	if err != nil { ... }
//
//	cfg := resilience.DatabaseRetryConfig()
//	cfg.OnRetry = ins.RetryHook(ctx, "db.connect")
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    OnStateChange: ins.BreakerHook(ctx, "primary-db"),
//	})
//
//	op := ins.WrapOperation("db.connect", pingDatabase)
//	err = resilience.NewRetrier(cfg).Do(ctx, op)
package observe
