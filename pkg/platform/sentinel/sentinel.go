package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors with stable
// application codes.
//
// These represent factual states about rows, not validation failures:
// - ErrNotFound: row does not exist (or is filtered out as soft-deleted)
// - ErrDuplicate: a unique natural key is already taken
// - ErrInUse: dependent rows still reference the entity
// - ErrInvalidState: row is in the wrong state for the requested operation
// - ErrUnavailable: backing resource or remote service temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors
// directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrDuplicate    = errors.New("duplicate")
	ErrInUse        = errors.New("in use")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
