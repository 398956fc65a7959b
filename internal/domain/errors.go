package domain

import "errors"

// ErrNotFound is returned by service functions when the requested trip, day
// or location does not exist. Slot backends also return it for an absent key.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing name, malformed start date, latitude out of range).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrStorage is returned by service functions when the trip store reports a
// failed write. The underlying cause has already been logged by the store.
// Handlers should map this to HTTP 500.
var ErrStorage = errors.New("storage failure")

// ErrNoValidLocation is returned by the location gateway when the host picker
// completes without both a name and an address.
var ErrNoValidLocation = errors.New("no valid location selected")

// ErrHostUnavailable is returned when no device host is configured to serve
// location or map requests. Handlers should map this to HTTP 503.
var ErrHostUnavailable = errors.New("location host unavailable")
