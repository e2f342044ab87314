package service

import "errors"

// Error kinds for the allocation and reporting core. Callers classify
// failures with errors.Is; the concrete message carries the detail.
var (
	// ErrValidation marks bad caller input (non-positive amount, malformed filter)
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks an absent loan, snapshot or debtor
	ErrNotFound = errors.New("not found")

	// ErrDuplicate marks a repeated external transaction id
	ErrDuplicate = errors.New("duplicate transaction")

	// ErrConsistency marks a violated sum-of-buckets invariant. This should
	// never occur while the allocation engine is the sole balance writer; it
	// is treated as fatal, never silently corrected.
	ErrConsistency = errors.New("balance consistency violation")

	// ErrUpstream marks a persistence or collaborator failure
	ErrUpstream = errors.New("upstream failure")
)
