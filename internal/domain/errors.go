package domain

import "errors"

// ErrNotFound is returned when the remote API reports that the requested
// resource does not exist (HTTP 404).
// Callers should usually render this as an empty state, not a failure.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails a client-side business rule
// (e.g. missing required field, end date before start date).
// Requests that fail validation never reach the transport layer.
var ErrValidation = errors.New("validation error")

// ErrUnauthenticated is returned when the remote API rejects the bearer
// credential (HTTP 401). The transport client only reports this condition;
// clearing the session and navigating to login is owned by app.Coordinator.
var ErrUnauthenticated = errors.New("unauthenticated")
