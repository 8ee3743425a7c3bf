package processor

import (
	"context"
	"errors"
	"net"
	"strings"

	errs "github.com/anchorpay/settlement-processor/internal/domain/error"
)

// failureClass partitions verification failures into the two retry policies
type failureClass int

const (
	classTransient failureClass = iota
	classPermanent
)

func (c failureClass) String() string {
	if c == classTransient {
		return "transient"
	}
	return "permanent"
}

// transientPatterns catches connection-level failures that arrive as plain
// errors rather than typed verification errors
var transientPatterns = []string{
	"connection reset",
	"connection refused",
	"timeout",
	"timed out",
	"broken pipe",
	"i/o error",
	"eof",
	"pool exhausted",
	"too many connections",
	"temporary failure",
}

// classifyFailure decides whether a verification failure may be retried.
// Typed verification errors carry their own classification; untyped errors
// are checked for connection/pool/I-O symptoms. Anything unclassified is
// permanent, so unknown failures quarantine instead of burning retries.
func classifyFailure(err error) failureClass {
	if err == nil {
		return classPermanent
	}

	if errs.IsTransientVerificationError(err) {
		return classTransient
	}
	if errs.IsPermanentVerificationError(err) {
		return classPermanent
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return classTransient
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return classTransient
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return classTransient
		}
	}

	return classPermanent
}
