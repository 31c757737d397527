package domain

import "time"

// EventKind identifies a notification-worthy domain event.
type EventKind string

const (
	EventInterestRegistered EventKind = "interest_registered"
	EventGoalReached        EventKind = "goal_reached"
	EventBookingApproved    EventKind = "booking_approved"
	EventSlotSuggested      EventKind = "slot_suggested"
	EventCodeRedeemed       EventKind = "code_redeemed"
)

// Event is emitted by the services after a transaction commits and consumed
// asynchronously by the notification dispatcher. Delivery is best-effort.
type Event struct {
	Kind       EventKind
	DiscountID string
	ProviderID string
	// CustomerID is set for events about a single registration.
	CustomerID string
	// CustomerIDs is set for fan-out events (goal reached).
	CustomerIDs []string
	OccurredAt  time.Time
}
