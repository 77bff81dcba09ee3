package models

import "errors"

// Resolution failures. Every error that leaves the service layer wraps one of these.
var (
	ErrStreetNotFound          = errors.New("street not found")
	ErrTooFarFromStreet        = errors.New("point is too far from the street")
	ErrGeometryUnavailable     = errors.New("street geometry unavailable")
	ErrAmbiguousOrDegradedPath = errors.New("no connected path between street fragments")
	ErrExternalService         = errors.New("external service failure")
	ErrInvalidCoordinate       = errors.New("invalid coordinate")
	ErrInvalidQuery            = errors.New("invalid query")
)
