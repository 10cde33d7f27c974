package forwarder

import (
	"context"
	"errors"

	"firebase.google.com/go/v4/errorutils"
)

// Delivery error classes used in logs and metrics.
const (
	ClassInvalidArgument   = "invalid_argument"
	ClassUnavailable       = "unavailable"
	ClassInternal          = "internal"
	ClassResourceExhausted = "resource_exhausted"
	ClassUnauthenticated   = "unauthenticated"
	ClassPermissionDenied  = "permission_denied"
	ClassNotFound          = "not_found"
	ClassDeadlineExceeded  = "deadline_exceeded"
	ClassCanceled          = "canceled"
	ClassUnknown           = "unknown"
)

// Classify maps a delivery error to a coarse class. It never affects how the
// error is propagated.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return ClassCanceled
	case errors.Is(err, context.DeadlineExceeded), errorutils.IsDeadlineExceeded(err):
		return ClassDeadlineExceeded
	case errorutils.IsInvalidArgument(err):
		return ClassInvalidArgument
	case errorutils.IsUnavailable(err):
		return ClassUnavailable
	case errorutils.IsInternal(err):
		return ClassInternal
	case errorutils.IsResourceExhausted(err):
		return ClassResourceExhausted
	case errorutils.IsUnauthenticated(err):
		return ClassUnauthenticated
	case errorutils.IsPermissionDenied(err):
		return ClassPermissionDenied
	case errorutils.IsNotFound(err):
		return ClassNotFound
	default:
		return ClassUnknown
	}
}
