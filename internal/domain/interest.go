package domain

import "time"

type BookingStatus string

const (
	BookingNone      BookingStatus = "none"
	BookingPending   BookingStatus = "pending"
	BookingSuggested BookingStatus = "suggested"
	BookingApproved  BookingStatus = "approved"
	BookingClaimed   BookingStatus = "claimed"
	BookingCancelled BookingStatus = "cancelled"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingNone:      {BookingPending},
	BookingPending:   {BookingApproved, BookingSuggested},
	BookingSuggested: {BookingApproved},
	BookingApproved:  {BookingClaimed},
}

// CanTransition reports whether the negotiation may move from s to next.
// Claimed and cancelled are terminal.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Interest is one customer's registration for one discount. PromoCode stays
// empty until the parent discount activates and the issuance pass runs.
type Interest struct {
	ID         string
	DiscountID string
	CustomerID string
	PromoCode  string
	Redeemed   bool
	Status     BookingStatus
	Booking    *Slot
	Suggestion *Slot
	CreatedAt  time.Time
}

// Slot is a requested or suggested appointment: a calendar date plus a wall
// clock time of day ("15:04").
type Slot struct {
	Date time.Time
	Time string
}

const slotTimeLayout = "15:04"

// NewSlot parses a (date, time) pair from their wire representations. The
// time of day is stored re-formatted, so spellings like "9:30" and "09:30"
// name the same slot in comparisons and in the slot uniqueness index.
func NewSlot(date, timeOfDay string) (Slot, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return Slot{}, ErrInvalidSlot
	}
	parsed, err := time.Parse(slotTimeLayout, timeOfDay)
	if err != nil {
		return Slot{}, ErrInvalidSlot
	}
	return Slot{Date: d.UTC(), Time: parsed.Format(slotTimeLayout)}, nil
}

func (s Slot) Equal(other Slot) bool {
	return s.Date.Equal(other.Date) && s.Time == other.Time
}
