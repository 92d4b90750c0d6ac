package types

import "errors"

// Hard failures: malformed caller input, rejected immediately, never retried.
// Upstream unavailability is never an error; it surfaces as tagged results
// with IsReal=false.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrMissingCoords   = errors.New("missing or invalid coordinates")
	ErrInvalidBounds   = errors.New("invalid bounding box")
	ErrMissingBoundary = errors.New("building boundary is required")
	ErrUnknownMode     = errors.New("unknown analysis mode")
)
