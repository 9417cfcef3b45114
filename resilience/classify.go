package resilience

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes for transient conditions.
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	// Class 08 - Connection Exception
	codeConnectionException      = "08000"
	codeConnectionDoesNotExist   = "08003"
	codeConnectionFailure        = "08006"
	codeClientUnableToConnect    = "08001"
	codeServerRejectedConnection = "08004"

	// Class 40 - Transaction Rollback
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"

	// Class 55 - Object Not In Prerequisite State
	codeLockNotAvailable = "55P03"

	// Class 57 - Operator Intervention
	codeAdminShutdown    = "57P01"
	codeCrashShutdown    = "57P02"
	codeCannotConnectNow = "57P03"
)

// transientErrnos are the network-level failures worth retrying.
var transientErrnos = []syscall.Errno{
	syscall.ECONNRESET,
	syscall.ECONNREFUSED,
	syscall.ETIMEDOUT,
}

// Classifier decides whether a failure is transient by looking it up against
// a set of SQLSTATE codes and a list of message substrings. Classification is
// a pure function; a Classifier is immutable and safe for concurrent use.
type Classifier struct {
	codes      map[string]struct{}
	substrings []string
}

// NewClassifier creates a classifier from a SQLSTATE code set and a message
// substring list. Substring matching is case-sensitive.
func NewClassifier(codes []string, substrings []string) *Classifier {
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return &Classifier{codes: set, substrings: substrings}
}

// Retryable reports whether err is worth another attempt.
//
// A failure is transient when its SQLSTATE code is in the configured set,
// when it wraps a known transient errno or a network timeout, or when its
// message contains a configured substring. Anything else is non-retryable:
// retrying a syntax error cannot fix it, so unknown failures fail fast.
func (c *Classifier) Retryable(err error) bool {
	if err == nil {
		return false
	}

	// Caller-initiated aborts are never transient.
	if errors.Is(err, context.Canceled) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if _, ok := c.codes[pgErr.Code]; ok {
			return true
		}
	}

	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := err.Error()
	for _, s := range c.substrings {
		if strings.Contains(msg, s) {
			return true
		}
	}

	return false
}
