package domain

import "errors"

// ErrNotFound is returned by store and service functions when the requested
// route does not exist in the collection.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing airport code, target price not positive).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrStoreWrite is returned when the canonical data file cannot be written or
// atomically replaced. A tracking run that hits this must report failure: the
// pre-run file remains canonical and the in-memory mutations are discarded.
var ErrStoreWrite = errors.New("store write failure")
