package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

var warmupBackoff = 2 * time.Second

// permanentError marks failures that another attempt cannot fix
// (bad credentials, unknown model).
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func permanent(err error) error {
	return &permanentError{err: err}
}

// retry executes f up to attempts times with exponential backoff. It stops
// waiting as soon as ctx is done.
func retry(ctx context.Context, attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = f()
		if err == nil {
			return nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return err
		}
		if i == attempts-1 {
			break
		}

		log.Printf("⚠️ Attempt %d/%d failed: %v. Retrying in %v...", i+1, attempts, err, sleep)
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted after %d attempts: %w (last error: %v)", i+1, ctx.Err(), err)
		case <-timer.C:
		}
		sleep *= 2
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}
