package resilience

import (
	"context"
	"time"
)

// Transient signals shared by every preset.
var (
	baseCodes = []string{
		codeConnectionException,
		codeConnectionDoesNotExist,
		codeConnectionFailure,
		codeClientUnableToConnect,
		codeServerRejectedConnection,
		codeSerializationFailure,
		codeDeadlockDetected,
	}

	baseSubstrings = []string{
		"connection reset",
		"connection refused",
		"broken pipe",
		"i/o timeout",
		"timeout expired",
		"unexpected EOF",
	}
)

// Additional signals seen while establishing or holding a database
// connection: an administrator terminating the backend, the server closing
// the connection, or the server being unreachable mid-restart.
var (
	databaseCodes = append([]string{
		codeAdminShutdown,
		codeCrashShutdown,
		codeCannotConnectNow,
	}, baseCodes...)

	databaseSubstrings = append([]string{
		"terminating connection due to administrator command",
		"server closed the connection unexpectedly",
		"could not connect to server",
		"the database system is starting up",
		"the database system is shutting down",
	}, baseSubstrings...)
)

// Additional signals raised by transaction conflicts under concurrency.
var (
	transactionCodes = append([]string{
		codeLockNotAvailable,
	}, baseCodes...)

	transactionSubstrings = append([]string{
		"could not serialize access",
		"deadlock detected",
		"tuple concurrently updated",
		"canceling statement due to lock timeout",
	}, baseSubstrings...)
)

var (
	baseClassifier        = NewClassifier(baseCodes, baseSubstrings)
	databaseClassifier    = NewClassifier(databaseCodes, databaseSubstrings)
	transactionClassifier = NewClassifier(transactionCodes, transactionSubstrings)
)

// DefaultRetryConfig is the general-purpose policy: three attempts, 100ms
// base delay doubling up to 30s, jitter on.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
		Jitter:      true,
		IsRetryable: baseClassifier.Retryable,
	}
}

// DatabaseRetryConfig is tuned for connection establishment: more attempts
// and longer delays, since a restarting server needs seconds, not
// milliseconds, to come back.
func DatabaseRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   250 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Multiplier:  2.0,
		Jitter:      true,
		IsRetryable: databaseClassifier.Retryable,
	}
}

// TransactionRetryConfig is tuned for serialization and deadlock conflicts,
// which usually resolve as soon as the competing transaction commits.
func TransactionRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 4,
		BaseDelay:   50 * time.Millisecond,
		MaxDelay:    2 * time.Second,
		Multiplier:  2.0,
		Jitter:      true,
		IsRetryable: transactionClassifier.Retryable,
	}
}

// WithDatabaseRetry runs op under the database-connection policy.
func WithDatabaseRetry(ctx context.Context, op func(context.Context) error) error {
	return NewRetrier(DatabaseRetryConfig()).Do(ctx, op)
}

// WithTransactionRetry runs op under the transaction-conflict policy.
func WithTransactionRetry(ctx context.Context, op func(context.Context) error) error {
	return NewRetrier(TransactionRetryConfig()).Do(ctx, op)
}
