package domain

import "time"

// Discount is a provider-defined group offer. Interest is collected during
// [InterestFrom, InterestTo]; issued codes are redeemable during
// [DiscountStart, DiscountEnd].
type Discount struct {
	ID                      string
	ProviderID              string
	ServiceID               string
	DiscountPercentage      int
	PriceCents              int64
	PriceAfterDiscountCents int64
	InterestFrom            time.Time
	InterestTo              time.Time
	DiscountStart           time.Time
	DiscountEnd             time.Time
	RequiredInterestCount   int
	CurrentInterestCount    int
	IsActive                bool
	CreatedAt               time.Time
	DeletedAt               *time.Time
}

// HasInterestWindow reports whether an interest-collection window is
// configured. A discount without one activates on count alone.
func (d Discount) HasInterestWindow() bool {
	return !d.InterestFrom.IsZero() || !d.InterestTo.IsZero()
}

// InterestWindowClosed reports whether new registrations are no longer
// accepted at the given instant. Dates are inclusive.
func (d Discount) InterestWindowClosed(now time.Time) bool {
	if !d.HasInterestWindow() {
		return false
	}
	return DateOf(now).After(d.InterestTo)
}

// InterestWindowContains reports whether the instant falls inside the
// configured interest window.
func (d Discount) InterestWindowContains(now time.Time) bool {
	day := DateOf(now)
	return !day.Before(d.InterestFrom) && !day.After(d.InterestTo)
}

// RedemptionWindowContains reports whether the date is a valid booking date.
func (d Discount) RedemptionWindowContains(date time.Time) bool {
	day := DateOf(date)
	return !day.Before(d.DiscountStart) && !day.After(d.DiscountEnd)
}

// RedemptionEnded reports whether the redemption window is in the past.
func (d Discount) RedemptionEnded(now time.Time) bool {
	return DateOf(now).After(d.DiscountEnd)
}

// GoalReached reports whether the interest threshold has been met.
func (d Discount) GoalReached() bool {
	return d.CurrentInterestCount >= d.RequiredInterestCount
}

// PriceAfterDiscount computes the discounted price in cents, rounded down.
// It is derived once at creation and stored, never recomputed.
func PriceAfterDiscount(priceCents int64, percentage int) int64 {
	return priceCents * int64(100-percentage) / 100
}

// DateOf truncates an instant to its UTC calendar date.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
