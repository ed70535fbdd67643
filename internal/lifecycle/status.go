// Package lifecycle holds the task status state machine. It is pure: no
// storage, no clocks, no identity. Callers supply the facts a transition
// depends on and persist the result themselves.
package lifecycle

import "strings"

// Status is the persisted lifecycle state of a task.
type Status string

const (
	StatusCreated             Status = "created"
	StatusOfferPending        Status = "offer_pending"
	StatusOfferAccepted       Status = "offer_accepted"
	StatusOfferRejected       Status = "offer_rejected"
	StatusInProgress          Status = "in_progress"
	StatusCompletedByProvider Status = "completed_by_provider"
	StatusCompletionAccepted  Status = "completion_accepted"
	StatusCompletionRejected  Status = "completion_rejected"
	StatusCancelledByUser     Status = "cancelled_by_user"
	StatusCancelledByProvider Status = "cancelled_by_provider"
)

// StatusAll is a list filter value meaning "any status". It is never stored.
const StatusAll = "ALL"

// Statuses lists every task status in declaration order.
var Statuses = []Status{
	StatusCreated,
	StatusOfferPending,
	StatusOfferAccepted,
	StatusOfferRejected,
	StatusInProgress,
	StatusCompletedByProvider,
	StatusCompletionAccepted,
	StatusCompletionRejected,
	StatusCancelledByUser,
	StatusCancelledByProvider,
}

// Valid reports whether s is a known task status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }

// IsTerminal reports whether no further event can move a task out of s.
func IsTerminal(s Status) bool {
	switch s {
	case StatusCompletionAccepted, StatusCancelledByUser, StatusCancelledByProvider:
		return true
	default:
		return false
	}
}

// AcceptsOffers reports whether providers may submit offers on a task in s.
func AcceptsOffers(s Status) bool {
	switch s {
	case StatusCreated, StatusOfferPending, StatusOfferRejected:
		return true
	default:
		return false
	}
}

// AcceptsProgress reports whether the assigned provider may report work in s.
func AcceptsProgress(s Status) bool {
	switch s {
	case StatusOfferAccepted, StatusInProgress, StatusCompletionRejected:
		return true
	default:
		return false
	}
}

// ParseStatus parses a list filter value. The boolean result is true when the
// value is empty or StatusAll, meaning no status filter applies.
func ParseStatus(raw string) (status Status, unfiltered bool, err error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, StatusAll) {
		return "", true, nil
	}
	s := Status(strings.ToLower(trimmed))
	if !s.Valid() {
		return "", false, &UnknownStatusError{Value: raw}
	}
	return s, false, nil
}
