package lib

import (
	"context"
	"errors"

	"github.com/gravitational/trace"
)

// IsCanceled reports whether err was caused by a canceled context.
func IsCanceled(err error) bool {
	return errors.Is(trace.Unwrap(err), context.Canceled)
}

// IsDeadline reports whether err was caused by an expired context deadline.
func IsDeadline(err error) bool {
	return errors.Is(trace.Unwrap(err), context.DeadlineExceeded)
}
