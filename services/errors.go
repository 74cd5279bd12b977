package services

import "errors"

// Decision outcomes surfaced to callers unchanged. Controllers map these to
// HTTP status codes; everything else is treated as an internal failure.
var (
	// ErrNotFound means a referenced donation, request, match or account
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied means the acting user is not a participant of the
	// entity being modified.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidArgument means a caller-supplied value is out of range,
	// e.g. quantity <= 0 or a similarity threshold outside [0, 1].
	ErrInvalidArgument = errors.New("invalid argument")
)
