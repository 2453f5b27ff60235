package rollbar

import (
	"github.com/cresjie/rollbar/internal/check"
)

// ErrInvalidArgument is wrapped by every validation failure: malformed
// configuration, unrecognized severity levels, bad field values. Check with
// errors.Is. Validation failures always surface to the caller; they are
// never converted into a Response.
var ErrInvalidArgument = check.ErrInvalidArgument

// ErrorWrapper pairs an error with delivery metadata. Reporting a wrapped
// error instead of a bare one lets the pipeline know whether the error was
// caught by application code or is propagating out of it.
type ErrorWrapper struct {
	Err error

	// IsUncaught marks an error that application code did not recover.
	// When Config.RaiseOnError is set, Report returns the wrapper to the
	// caller after the payload has been delivered and logged, so telemetry
	// is never lost even when the error ultimately propagates.
	IsUncaught bool
}

func (w *ErrorWrapper) Error() string { return w.Err.Error() }

func (w *ErrorWrapper) Unwrap() error { return w.Err }

// Uncaught wraps err with the uncaught marker set.
func Uncaught(err error) *ErrorWrapper {
	return &ErrorWrapper{Err: err, IsUncaught: true}
}

// isUncaughtLogData reports whether toLog is an error wrapper explicitly
// marked uncaught. A bare error, or a wrapper without the marker, is not.
func isUncaughtLogData(toLog any) bool {
	w, ok := toLog.(*ErrorWrapper)
	return ok && w.IsUncaught
}
