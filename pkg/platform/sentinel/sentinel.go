package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into coded domain errors.
//
// These represent factual states about rows, not validation failures:
// - ErrNotFound: row does not exist in the store
// - ErrConflict: unique constraint violated (duplicate email, token)
//
// For validation errors (bad input, missing fields), use pkg/domain-errors
// directly. State-transition refusals are decided in services, which already
// hold the row, so they build coded errors without a sentinel.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
