package database

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers that mean "the transaction lost a lock race
// and was rolled back; running it again is safe".
const (
	errLockWaitTimeout uint16 = 1205
	errDeadlock        uint16 = 1213
)

// IsRetryable reports whether err is a deadlock or lock wait timeout.
func IsRetryable(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == errDeadlock || me.Number == errLockWaitTimeout
	}
	return false
}

// WithRetry runs fn until it succeeds, returns a non-retryable error, or
// attempts are exhausted.  Between attempts it backs off briefly; a
// cancelled ctx stops the loop with ctx.Err().
func WithRetry(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	backoff := 20 * time.Millisecond
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}
