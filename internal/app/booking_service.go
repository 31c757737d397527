package app

import (
	"context"

	"github.com/seralva/groupdeals/internal/clock"
	"github.com/seralva/groupdeals/internal/domain"
)

type BookingRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetDiscount(ctx context.Context, discountID string) (domain.Discount, error)
	GetInterestForUpdate(ctx context.Context, discountID, customerID string) (domain.Interest, error)
	UpdateNegotiation(ctx context.Context, interest domain.Interest) error
}

// BookingService drives the slot negotiation state machine on interest rows:
// customer books, provider approves or counter-suggests, customer accepts,
// provider redeems the promo code.
type BookingService struct {
	repo   BookingRepository
	clock  clock.Clock
	events EventSink
}

func NewBookingService(repo BookingRepository, clk clock.Clock, events EventSink) *BookingService {
	return &BookingService{
		repo:   repo,
		clock:  clk,
		events: events,
	}
}

// BookSlot requests a redemption appointment. The slot must fall inside the
// redemption window and no other non-cancelled registration for the same
// discount may hold the identical (date, time) pair.
func (s *BookingService) BookSlot(ctx context.Context, actor domain.Actor, discountID string, slot domain.Slot) (domain.Interest, error) {
	if actor.Role != domain.RoleCustomer {
		return domain.Interest{}, domain.ErrRoleNotAllowed
	}

	var result domain.Interest
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		discount, err := s.repo.GetDiscount(txCtx, discountID)
		if err != nil {
			return err
		}
		if !discount.IsActive {
			return domain.ErrDiscountNotActive
		}
		if !discount.RedemptionWindowContains(slot.Date) {
			return domain.ErrSlotOutsideWindow
		}

		interest, err := s.repo.GetInterestForUpdate(txCtx, discountID, actor.ID)
		if err != nil {
			return err
		}
		if !interest.Status.CanTransition(domain.BookingPending) {
			return domain.ErrInvalidTransition
		}

		interest.Booking = &slot
		interest.Status = domain.BookingPending
		// The slot uniqueness check rides on the conditional write itself;
		// a racing booking surfaces as ErrSlotTaken, not a half-state.
		if err := s.repo.UpdateNegotiation(txCtx, interest); err != nil {
			return err
		}
		result = interest
		return nil
	})
	if err != nil {
		return domain.Interest{}, err
	}
	return result, nil
}

// ApproveBooking is the provider's acceptance of the customer's requested slot.
func (s *BookingService) ApproveBooking(ctx context.Context, actor domain.Actor, discountID, customerID string) (domain.Interest, error) {
	var (
		result     domain.Interest
		providerID string
	)
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		discount, err := s.ownedDiscount(txCtx, actor, discountID)
		if err != nil {
			return err
		}
		providerID = discount.ProviderID

		interest, err := s.repo.GetInterestForUpdate(txCtx, discountID, customerID)
		if err != nil {
			return err
		}
		if interest.Status != domain.BookingPending {
			return domain.ErrInvalidTransition
		}

		interest.Status = domain.BookingApproved
		if err := s.repo.UpdateNegotiation(txCtx, interest); err != nil {
			return err
		}
		result = interest
		return nil
	})
	if err != nil {
		return domain.Interest{}, err
	}

	s.events.Emit(domain.Event{
		Kind:       domain.EventBookingApproved,
		DiscountID: discountID,
		ProviderID: providerID,
		CustomerID: customerID,
		OccurredAt: s.clock.Now(),
	})
	return result, nil
}

// SuggestSlot counter-proposes an alternate appointment to the customer.
func (s *BookingService) SuggestSlot(ctx context.Context, actor domain.Actor, discountID, customerID string, slot domain.Slot) (domain.Interest, error) {
	var (
		result     domain.Interest
		providerID string
	)
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		discount, err := s.ownedDiscount(txCtx, actor, discountID)
		if err != nil {
			return err
		}
		providerID = discount.ProviderID
		if !discount.RedemptionWindowContains(slot.Date) {
			return domain.ErrSlotOutsideWindow
		}

		interest, err := s.repo.GetInterestForUpdate(txCtx, discountID, customerID)
		if err != nil {
			return err
		}
		if !interest.Status.CanTransition(domain.BookingSuggested) {
			return domain.ErrInvalidTransition
		}

		interest.Suggestion = &slot
		interest.Status = domain.BookingSuggested
		if err := s.repo.UpdateNegotiation(txCtx, interest); err != nil {
			return err
		}
		result = interest
		return nil
	})
	if err != nil {
		return domain.Interest{}, err
	}

	s.events.Emit(domain.Event{
		Kind:       domain.EventSlotSuggested,
		DiscountID: discountID,
		ProviderID: providerID,
		CustomerID: customerID,
		OccurredAt: s.clock.Now(),
	})
	return result, nil
}

// AcceptSuggestion adopts the provider's counter-proposal: the suggested slot
// becomes the booking and the suggestion fields are cleared.
func (s *BookingService) AcceptSuggestion(ctx context.Context, actor domain.Actor, discountID string) (domain.Interest, error) {
	if actor.Role != domain.RoleCustomer {
		return domain.Interest{}, domain.ErrRoleNotAllowed
	}

	var result domain.Interest
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		interest, err := s.repo.GetInterestForUpdate(txCtx, discountID, actor.ID)
		if err != nil {
			return err
		}
		if interest.Suggestion == nil {
			return domain.ErrNoSuggestion
		}
		if !interest.Status.CanTransition(domain.BookingApproved) {
			return domain.ErrInvalidTransition
		}

		interest.Booking = interest.Suggestion
		interest.Suggestion = nil
		interest.Status = domain.BookingApproved
		if err := s.repo.UpdateNegotiation(txCtx, interest); err != nil {
			return err
		}
		result = interest
		return nil
	})
	if err != nil {
		return domain.Interest{}, err
	}
	return result, nil
}

// SubmitPromoCode is the provider's redemption confirmation. The code must
// match the stored value exactly; a claimed row rejects any resubmission.
func (s *BookingService) SubmitPromoCode(ctx context.Context, actor domain.Actor, discountID, customerID, code string) (domain.Interest, error) {
	var (
		result     domain.Interest
		providerID string
	)
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		discount, err := s.ownedDiscount(txCtx, actor, discountID)
		if err != nil {
			return err
		}
		providerID = discount.ProviderID

		interest, err := s.repo.GetInterestForUpdate(txCtx, discountID, customerID)
		if err != nil {
			return err
		}
		if interest.Status == domain.BookingClaimed {
			return domain.ErrAlreadyClaimed
		}
		if interest.PromoCode == "" || interest.PromoCode != code {
			return domain.ErrPromoCodeMismatch
		}
		if !interest.Status.CanTransition(domain.BookingClaimed) {
			return domain.ErrInvalidTransition
		}

		interest.Status = domain.BookingClaimed
		interest.Redeemed = true
		if err := s.repo.UpdateNegotiation(txCtx, interest); err != nil {
			return err
		}
		result = interest
		return nil
	})
	if err != nil {
		return domain.Interest{}, err
	}

	s.events.Emit(domain.Event{
		Kind:       domain.EventCodeRedeemed,
		DiscountID: discountID,
		ProviderID: providerID,
		CustomerID: customerID,
		OccurredAt: s.clock.Now(),
	})
	return result, nil
}

func (s *BookingService) ownedDiscount(ctx context.Context, actor domain.Actor, discountID string) (domain.Discount, error) {
	discount, err := s.repo.GetDiscount(ctx, discountID)
	if err != nil {
		return domain.Discount{}, err
	}
	if actor.Role != domain.RoleAdmin && (actor.Role != domain.RoleProvider || discount.ProviderID != actor.ID) {
		return domain.Discount{}, domain.ErrNotOwner
	}
	return discount, nil
}
