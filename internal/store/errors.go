package store

import "errors"

// ErrNotFound is returned when a record does not exist or is inactive.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write would violate an invariant, such as
// accepting a second auction under a post or replaying an order transition.
var ErrConflict = errors.New("conflict")
