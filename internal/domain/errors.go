package domain

import "errors"

var (
	// Eligibility guard failures, in check order.
	ErrRoleNotAllowed       = errors.New("role not allowed")
	ErrInterestCapExceeded  = errors.New("active interest cap exceeded")
	ErrGoalAlreadyReached   = errors.New("interest goal already reached")
	ErrInterestWindowClosed = errors.New("interest window closed")
	ErrAlreadyRegistered    = errors.New("already registered for discount")

	ErrDiscountNotFound = errors.New("discount not found")
	ErrInterestNotFound = errors.New("interest not found")
	ErrNotOwner         = errors.New("actor does not own target")
	ErrInvalidID        = errors.New("invalid id")

	ErrDiscountActive    = errors.New("discount already active")
	ErrDiscountNotActive = errors.New("discount not active")
	ErrCounterUnderflow  = errors.New("interest counter underflow")

	// Booking negotiation failures.
	ErrInvalidSlot        = errors.New("invalid slot")
	ErrSlotOutsideWindow  = errors.New("slot outside redemption window")
	ErrSlotTaken          = errors.New("slot already taken")
	ErrInvalidTransition  = errors.New("invalid booking state transition")
	ErrNoSuggestion       = errors.New("no pending suggestion")
	ErrPromoCodeMismatch  = errors.New("promo code mismatch")
	ErrAlreadyClaimed     = errors.New("promo code already claimed")
	ErrPromoCodeCollision = errors.New("promo code collision")

	// Discount creation validation.
	ErrInvalidPercentage    = errors.New("discount percentage out of range")
	ErrInvalidPrice         = errors.New("invalid price")
	ErrInvalidRequiredCount = errors.New("required interest count must be at least 1")
	ErrInvalidWindow        = errors.New("invalid discount windows")
)
