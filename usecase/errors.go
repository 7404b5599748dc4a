package usecase

import "errors"

// Error taxonomy for domain operations. Callers branch with errors.Is;
// anything else is a storage failure and should be surfaced as
// retry-later, never swallowed.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)
