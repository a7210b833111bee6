package retry

import (
	"errors"
	"strings"
	"time"
)

// RepeatableFunc is invoked once per attempt. Returning retry=true with a
// non-nil error schedules another attempt.
type RepeatableFunc func(attempt int) (retry bool, err error)

// Try runs fn up to retries times with a fixed one second pause between
// attempts. It returns nil as soon as fn succeeds or declines to retry.
func Try(fn RepeatableFunc, retries int) error {
	attempt := 1
	for {
		cont, err := fn(attempt)
		if !cont || err == nil {
			return nil
		}
		attempt++
		if attempt > retries {
			return errors.New("max retry reached")
		}
		time.Sleep(1 * time.Second)
	}
}

// IsTransientError reports whether an error is likely transient and worth
// retrying (connectivity hiccups, broker churn, bad pooled connections).
func IsTransientError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection refused",
		"timeout",
		"temporary failure",
		"network unreachable",
		"connection reset",
		"broken pipe",
		"context deadline exceeded",
		"driver: bad connection",
		"kafka",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
