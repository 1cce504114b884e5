package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. comment too long, worksite required but missing).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write collides with an existing record:
// a duplicate journey insert, or a second validation attempt for the same
// (access id, start time). Handlers should map this to HTTP 409.
var ErrConflict = errors.New("already exists")

// ErrInvalidWorksite is returned when a worksite token is malformed or does
// not resolve to a known worksite. Distinct from ErrValidation so callers can
// tell "bad worksite" apart from "worksite missing".
var ErrInvalidWorksite = errors.New("invalid worksite")
