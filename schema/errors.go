package schema

import "errors"

var (
	// ErrValidation marks a missing or malformed required field. The
	// operation is aborted with no partial state change.
	ErrValidation = errors.New("validation")

	// ErrNotFound marks an operation referencing a nonexistent id.
	ErrNotFound = errors.New("not_found")

	// ErrDeliveryFailed marks a failed email delivery for an otherwise
	// successful local operation. The local state is never rolled back;
	// callers surface it as a warning.
	ErrDeliveryFailed = errors.New("delivery_failed")
)
