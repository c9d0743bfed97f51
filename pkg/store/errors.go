package store

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient backend failure, such as a refused
// connection while a Redis or MongoDB server is still starting.
type RetryableError struct{ Err error }

// Retryable tags err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether any error in err's chain was tagged by Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

const retryAttempts = 3

// retryDelay is the wait before the second attempt; later waits double it.
var retryDelay = 500 * time.Millisecond

// RetryWithBackoff calls fn until it succeeds, returns an error not tagged by
// Retryable, or has been tried retryAttempts times. The last error is
// returned. Cancelling ctx aborts the wait between attempts.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	err := fn()
	for attempt, wait := 1, retryDelay; attempt < retryAttempts && IsRetryable(err); attempt, wait = attempt+1, wait*2 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		err = fn()
	}
	return err
}
