package utils

import (
	"context"
	"errors"
	"net"
)

// IsTimeoutError reports whether err represents a transport timeout or an
// exceeded deadline, so callers can map it to the timeout error kind.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
