package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewRetrier_Defaults(t *testing.T) {
	r := NewRetrier(RetryConfig{})

	if r.config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", r.config.MaxAttempts)
	}
	if r.config.BaseDelay != 100*time.Millisecond {
		t.Errorf("BaseDelay = %v, want 100ms", r.config.BaseDelay)
	}
	if r.config.MaxDelay != 30*time.Second {
		t.Errorf("MaxDelay = %v, want 30s", r.config.MaxDelay)
	}
	if r.config.Multiplier != 2.0 {
		t.Errorf("Multiplier = %f, want 2.0", r.config.Multiplier)
	}
	if r.config.IsRetryable == nil {
		t.Error("IsRetryable not defaulted")
	}
	if r.config.Rand == nil {
		t.Error("Rand not defaulted")
	}
}

func TestNewRetrier_ClampsBaseDelay(t *testing.T) {
	r := NewRetrier(RetryConfig{
		BaseDelay: time.Second,
		MaxDelay:  100 * time.Millisecond,
	})

	if r.config.BaseDelay != 100*time.Millisecond {
		t.Errorf("BaseDelay = %v, want clamped to 100ms", r.config.BaseDelay)
	}
}

func TestRetrier_SuccessOnFirstAttempt(t *testing.T) {
	r := NewRetrier(RetryConfig{MaxAttempts: 3})

	attempts := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("Do() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetrier_SuccessOnRetry(t *testing.T) {
	r := NewRetrier(RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		IsRetryable: func(err error) bool { return true },
	})

	attempts := 0
	testErr := errors.New("test error")

	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return testErr
		}
		return nil
	})

	if err != nil {
		t.Errorf("Do() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetrier_ExhaustedAttempts(t *testing.T) {
	r := NewRetrier(RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		IsRetryable: func(err error) bool { return true },
	})

	attempts := 0
	testErr := errors.New("persistent error")

	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return testErr
	})

	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}

	var re *RetryError
	if !errors.As(err, &re) {
		t.Fatalf("Do() error = %v, want *RetryError", err)
	}
	if re.Attempts != 3 {
		t.Errorf("RetryError.Attempts = %d, want 3", re.Attempts)
	}
	if len(re.Errors) != 3 {
		t.Errorf("len(RetryError.Errors) = %d, want 3", len(re.Errors))
	}
	if re.Last != testErr {
		t.Errorf("RetryError.Last = %v, want %v", re.Last, testErr)
	}
	if re.Last != re.Errors[len(re.Errors)-1] {
		t.Error("RetryError.Last is not the final recorded error")
	}
}

func TestRetrier_NonRetryableFailsFast(t *testing.T) {
	r := NewRetrier(RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   time.Millisecond,
		IsRetryable: func(err error) bool { return false },
	})

	attempts := 0
	testErr := errors.New("syntax error")

	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return testErr
	})

	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}

	var re *RetryError
	if !errors.As(err, &re) {
		t.Fatalf("Do() error = %v, want *RetryError", err)
	}
	if re.Attempts != 1 {
		t.Errorf("RetryError.Attempts = %d, want 1", re.Attempts)
	}
	if re.TotalDelay != 0 {
		t.Errorf("RetryError.TotalDelay = %v, want 0", re.TotalDelay)
	}
}

func TestRetrier_TotalDelayAccumulates(t *testing.T) {
	r := NewRetrier(RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		Multiplier:  2.0,
		IsRetryable: func(err error) bool { return true },
	})

	err := r.Do(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})

	var re *RetryError
	if !errors.As(err, &re) {
		t.Fatalf("Do() error = %v, want *RetryError", err)
	}

	// Two waits without jitter: 1ms + 2ms.
	if re.TotalDelay != 3*time.Millisecond {
		t.Errorf("RetryError.TotalDelay = %v, want 3ms", re.TotalDelay)
	}
}

func TestRetrier_OnRetryCallback(t *testing.T) {
	var gotAttempts []int
	var gotDelays []time.Duration

	r := NewRetrier(RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		IsRetryable: func(err error) bool { return true },
		OnRetry: func(attempt int, err error, delay time.Duration) {
			gotAttempts = append(gotAttempts, attempt)
			gotDelays = append(gotDelays, delay)
		},
	})

	_ = r.Do(context.Background(), func(ctx context.Context) error {
		return errors.New("fail")
	})

	if len(gotAttempts) != 2 {
		t.Fatalf("OnRetry called %d times, want 2", len(gotAttempts))
	}
	if gotAttempts[0] != 1 || gotAttempts[1] != 2 {
		t.Errorf("OnRetry attempts = %v, want [1 2]", gotAttempts)
	}
	if gotDelays[0] != time.Millisecond || gotDelays[1] != 2*time.Millisecond {
		t.Errorf("OnRetry delays = %v, want [1ms 2ms]", gotDelays)
	}
}

func TestRetrier_ContextCancellation(t *testing.T) {
	r := NewRetrier(RetryConfig{
		MaxAttempts: 10,
		BaseDelay:   100 * time.Millisecond,
		IsRetryable: func(err error) bool { return true },
	})

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := r.Do(ctx, func(ctx context.Context) error {
		return errors.New("fail")
	})

	if err != context.Canceled {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
	var re *RetryError
	if errors.As(err, &re) {
		t.Error("cancelled sequence should not produce a RetryError")
	}
}

func TestRetrier_ConcurrentSequencesIndependent(t *testing.T) {
	r := NewRetrier(RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		IsRetryable: func(err error) bool { return true },
	})

	done := make(chan error, 4)
	for i := 0; i < 4; i++ {
		go func() {
			attempts := 0
			done <- r.Do(context.Background(), func(ctx context.Context) error {
				attempts++
				if attempts < 2 {
					return errors.New("transient")
				}
				return nil
			})
		}()
	}

	for i := 0; i < 4; i++ {
		if err := <-done; err != nil {
			t.Errorf("Do() error = %v", err)
		}
	}
}
