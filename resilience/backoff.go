package resilience

import (
	"math"
	"time"
)

// delay computes the wait after the given completed attempt (1-based):
// min(BaseDelay × Multiplier^(attempt-1), MaxDelay), with full jitter when
// enabled.
func (r *Retrier) delay(attempt int) time.Duration {
	backoff := float64(r.config.BaseDelay) * math.Pow(r.config.Multiplier, float64(attempt-1))

	// Compare in float space first; large exponents overflow Duration.
	d := r.config.MaxDelay
	if backoff < float64(r.config.MaxDelay) {
		d = time.Duration(backoff)
	}

	if r.config.Jitter && d > 0 {
		// Full jitter: uniform over [0, d]. Never exceeds the capped value.
		d = time.Duration(r.config.Rand(int64(d) + 1))
	}

	return d
}
