package resilience

import (
	"context"
	"math/rand"
	"time"
)

// RetryConfig configures the retry behavior.
type RetryConfig struct {
	// MaxAttempts is the maximum number of invocations (including the first).
	// Default: 3
	MaxAttempts int

	// BaseDelay is the delay before the first retry.
	// Default: 100ms
	BaseDelay time.Duration

	// MaxDelay caps the delay between retries.
	// Default: 30s
	MaxDelay time.Duration

	// Multiplier is the exponential backoff multiplier.
	// Default: 2.0
	Multiplier float64

	// Jitter randomizes each delay to desynchronize concurrent retriers.
	// Every preset config enables it; zero-value configs leave it off so
	// delay sequences stay predictable.
	Jitter bool

	// IsRetryable decides whether a failure is worth another attempt.
	// Default: the base transient classifier.
	IsRetryable func(err error) bool

	// OnRetry is called before each inter-attempt wait with the completed
	// attempt number, its failure, and the chosen delay.
	OnRetry func(attempt int, err error, delay time.Duration)

	// Rand supplies randomness for jitter as a value in [0, n). Injectable
	// so tests can keep jitter enabled yet deterministic.
	// Default: rand.Int63n
	Rand func(n int64) int64
}

// Retrier drives repeated invocation of an operation. It holds no mutable
// state, so a single Retrier is safe for concurrent use and independent
// retry sequences never interfere.
type Retrier struct {
	config RetryConfig
}

// NewRetrier creates a retry executor, applying defaults for unset fields.
// BaseDelay is clamped to MaxDelay.
func NewRetrier(config RetryConfig) *Retrier {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.BaseDelay > config.MaxDelay {
		config.BaseDelay = config.MaxDelay
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.IsRetryable == nil {
		config.IsRetryable = baseClassifier.Retryable
	}
	if config.Rand == nil {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		config.Rand = rand.Int63n
	}

	return &Retrier{config: config}
}

// Do runs op, retrying transient failures with exponential backoff.
//
// On success the result of op is returned immediately with no further
// attempts. When attempts are exhausted or a failure is classified
// non-retryable, Do returns a *RetryError summarizing every failure. If ctx
// is cancelled during an inter-attempt wait, Do returns ctx.Err() and the
// sequence is abandoned with no partial state.
func (r *Retrier) Do(ctx context.Context, op func(context.Context) error) error {
	var (
		errs   []error
		waited time.Duration
	)

	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		errs = append(errs, err)

		if attempt >= r.config.MaxAttempts || !r.config.IsRetryable(err) {
			return &RetryError{
				Attempts:   attempt,
				Errors:     errs,
				Last:       err,
				TotalDelay: waited,
			}
		}

		delay := r.delay(attempt)

		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		waited += delay
	}
}

// Config returns the retry configuration after defaults were applied.
func (r *Retrier) Config() RetryConfig {
	return r.config
}
