package core

import (
	"context"
	"time"
)

// TimeProvider abstracts time operations for the domain so that tests can
// control timestamps and skip real backoff delays
type TimeProvider interface {
	// Now returns the current time
	Now() time.Time

	// Since returns the time elapsed since t
	Since(t time.Time) time.Duration

	// Sleep pauses until d has elapsed or ctx is canceled.
	// Returns the context error when the wait was interrupted.
	Sleep(ctx context.Context, d time.Duration) error

	// WithTimeout returns a context that is canceled after the given timeout
	WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc)
}
