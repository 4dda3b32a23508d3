package sync

import "errors"

var (
	// ErrOrderNotFound is reported when an order id cannot be resolved at
	// submission time.
	ErrOrderNotFound = errors.New("order not found")

	// ErrAlreadySubmitted marks an order that already carries a vendor order
	// number; submission becomes a no-op with the cancelled outcome.
	ErrAlreadySubmitted = errors.New("order already submitted")
)

// PassStatus is the terminal state of a catalog sync pass.
type PassStatus string

const (
	PassDone   PassStatus = "done"
	PassFailed PassStatus = "failed"
)

// Outcome is the terminal state of an order submission.
type Outcome string

const (
	OutcomeDone      Outcome = "done"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)
