package utils

import (
	"errors"
	"time"
)

// ErrPermanent wraps failures that retrying cannot fix. WithBackoff
// returns them immediately instead of burning the remaining attempts.
var ErrPermanent = errors.New("permanent failure")

// WithBackoff runs fn up to attempts times, doubling the delay between
// tries. It returns the last error when every attempt fails; it never
// retries forever.
func WithBackoff(attempts int, initialDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	delay := initialDelay
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if errors.Is(err, ErrPermanent) {
			return err
		}
		if i < attempts-1 {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return err
}
