package rollbar

// Response is the outcome of one report call. Status 0 is the sentinel for
// items that never reached the collector (rejected, pending, ignored,
// disabled, over capacity); statuses >= 400 are collector API errors;
// anything else is success. Immutable once constructed.
type Response struct {
	// Status is the collector's HTTP status, or 0 when no delivery was
	// attempted or the attempt failed before a status was obtained.
	Status int

	// Info is a human-readable description of the outcome.
	Info string

	// Body is the decoded collector response body, when one was received.
	Body map[string]any
}

// Success reports whether the item was accepted by the collector.
func (r Response) Success() bool {
	return r.Status != 0 && r.Status < 400
}

// Rejected reports whether the item never produced a collector status.
func (r Response) Rejected() bool {
	return r.Status == 0
}

// APIError reports whether the collector returned an error status.
func (r Response) APIError() bool {
	return r.Status >= 400
}

// Fixed info strings for the zero-status outcomes.
const (
	infoDisabled   = "Disabled"
	infoIgnored    = "Ignored"
	infoPending    = "Pending"
	infoQueueEmpty = "Queue empty"
	infoMaxItems   = "Maximum number of items per process reached; item not sent. " +
		"Raise MaxItems to report more items."
)

func responseDisabled() Response   { return Response{Info: infoDisabled} }
func responseIgnored() Response    { return Response{Info: infoIgnored} }
func responsePending() Response    { return Response{Info: infoPending} }
func responseQueueEmpty() Response { return Response{Info: infoQueueEmpty} }
func responseMaxItems() Response   { return Response{Info: infoMaxItems} }
