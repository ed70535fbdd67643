package lifecycle

// Event is something an actor does to a task.
type Event string

const (
	EventOfferSubmitted      Event = "offer_submitted"
	EventOfferAccepted       Event = "offer_accepted"
	EventOfferRejected       Event = "offer_rejected"
	EventProgressAdded       Event = "progress_added"
	EventCompletionMarked    Event = "completion_marked"
	EventCompletionAccepted  Event = "completion_accepted"
	EventCompletionRejected  Event = "completion_rejected"
	EventCancelledByUser     Event = "cancelled_by_user"
	EventCancelledByProvider Event = "cancelled_by_provider"
)

// Events lists every event in declaration order.
var Events = []Event{
	EventOfferSubmitted,
	EventOfferAccepted,
	EventOfferRejected,
	EventProgressAdded,
	EventCompletionMarked,
	EventCompletionAccepted,
	EventCompletionRejected,
	EventCancelledByUser,
	EventCancelledByProvider,
}

func (e Event) String() string { return string(e) }

// Facts carries the offer state a transition may depend on.
type Facts struct {
	// PendingOffers is the number of offers on the task that are still
	// undecided after the event's own offer has been decided.
	PendingOffers int
}

// Next returns the status a task moves to when event happens in status from.
//
// Next only knows about statuses. Role and ownership checks belong to the
// caller and must happen before Next is consulted.
func Next(from Status, event Event, facts Facts) (Status, error) {
	switch event {
	case EventOfferSubmitted:
		if AcceptsOffers(from) {
			return StatusOfferPending, nil
		}
	case EventOfferAccepted:
		if from == StatusOfferPending {
			return StatusOfferAccepted, nil
		}
	case EventOfferRejected:
		if from == StatusOfferPending {
			if facts.PendingOffers > 0 {
				return StatusOfferPending, nil
			}
			return StatusOfferRejected, nil
		}
	case EventProgressAdded:
		if AcceptsProgress(from) {
			return StatusInProgress, nil
		}
	case EventCompletionMarked:
		// Marking an already completed task again is a no-op.
		if from == StatusInProgress || from == StatusCompletedByProvider {
			return StatusCompletedByProvider, nil
		}
	case EventCompletionAccepted:
		if from == StatusCompletedByProvider {
			return StatusCompletionAccepted, nil
		}
	case EventCompletionRejected:
		if from == StatusCompletedByProvider {
			return StatusCompletionRejected, nil
		}
	case EventCancelledByUser:
		if AcceptsOffers(from) {
			return StatusCancelledByUser, nil
		}
	case EventCancelledByProvider:
		if from == StatusOfferAccepted {
			return StatusCancelledByProvider, nil
		}
	}
	return from, &TransitionError{From: from, Event: event}
}

// Allowed reports whether event may happen in status from.
func Allowed(from Status, event Event) bool {
	_, err := Next(from, event, Facts{})
	return err == nil
}
