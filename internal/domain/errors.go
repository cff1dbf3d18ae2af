package domain

import (
	"errors"
	"fmt"
)

// UpstreamError is a non-2xx response from the PMS. Recoverable by the caller
// retrying; the status code is kept for logs and telemetry, never shown to end
// users verbatim.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}

// StayRuleViolationError is a locally rejected range: the night count falls
// outside the resolved min/max stay for its check-in date.
type StayRuleViolationError struct {
	Nights  int
	MinStay int
	MaxStay int
}

func (e *StayRuleViolationError) Error() string {
	return fmt.Sprintf("stay of %d nights violates rules (min %d, max %d)", e.Nights, e.MinStay, e.MaxStay)
}

var (
	// ErrMalformedUpstream marks a 2xx body that failed JSON parsing or
	// matched none of the known payload shapes.
	ErrMalformedUpstream = errors.New("malformed upstream response")

	// ErrInvalidDateRange rejects checkout <= checkin and zero-night ranges
	// before any network call.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrGapInAvailability marks a range with at least one unavailable night.
	ErrGapInAvailability = errors.New("gap in availability")

	// ErrNoUsablePrices marks a record carrying no price data at all.
	ErrNoUsablePrices = errors.New("record has no usable price data")

	// ErrSessionNotFound marks an expired or unknown selection session.
	ErrSessionNotFound = errors.New("selection session not found")
)
