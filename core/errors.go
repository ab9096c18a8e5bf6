package core

import "fmt"

// ValidationError reports malformed bid input: a negative price, a price
// below the asset's starting price, or a missing required field. Callers
// re-prompt the user with the message; it never escalates to the backend.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid bid: %s %s", e.Field, e.Reason)
}

// DuplicateBidError reports that the same participant (by citizen id) already
// has a draft bid for the same asset in the current session.
type DuplicateBidError struct {
	CitizenID string
	AssetTag  string
}

func (e *DuplicateBidError) Error() string {
	return fmt.Sprintf("participant %s already has a bid for asset %q in this round", e.CitizenID, e.AssetTag)
}

// NotFoundError reports an operation that referenced a bid id not present in
// the ledger, typically a stale record after a refresh.
type NotFoundError struct {
	BidID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("bid %s not found, please refresh", e.BidID)
}

// NetworkError wraps a failed call to the auction backend. The engine performs
// no retries; each failure is reported once and the user retries manually.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("backend request %s failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
