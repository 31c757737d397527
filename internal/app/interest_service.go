package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/seralva/groupdeals/internal/clock"
	"github.com/seralva/groupdeals/internal/config"
	"github.com/seralva/groupdeals/internal/domain"
)

type InterestRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetDiscountForUpdate(ctx context.Context, discountID string) (domain.Discount, error)
	GetDiscount(ctx context.Context, discountID string) (domain.Discount, error)
	CountActiveInterests(ctx context.Context, customerID string, now time.Time) (int, error)
	FindInterest(ctx context.Context, discountID, customerID string) (*domain.Interest, error)
	GetInterestByID(ctx context.Context, interestID string) (domain.Interest, error)
	CreateInterest(ctx context.Context, interest domain.Interest) error
	DeleteInterest(ctx context.Context, interestID string) error
	IncrementInterestCount(ctx context.Context, discountID string) (int, error)
	DecrementInterestCount(ctx context.Context, discountID string) error
	ActivateDiscount(ctx context.Context, discountID string) (bool, error)
	ListInterestsByDiscount(ctx context.Context, discountID string) ([]domain.Interest, error)
	ListInterestsByCustomer(ctx context.Context, customerID string) ([]domain.Interest, error)
	ListInterestsMissingCode(ctx context.Context, discountID string) ([]domain.Interest, error)
	SetPromoCode(ctx context.Context, interestID, code string) (bool, error)
}

// EventSink receives domain events after the owning transaction commits.
type EventSink interface {
	Emit(event domain.Event)
}

// InterestService owns interest registration, withdrawal, and the threshold
// activation pass.
type InterestService struct {
	repo      InterestRepository
	clock     clock.Clock
	events    EventSink
	logger    *log.Logger
	maxActive int
}

func NewInterestService(repo InterestRepository, clk clock.Clock, events EventSink, opts ...InterestServiceOption) *InterestService {
	svc := &InterestService{
		repo:      repo,
		clock:     clk,
		events:    events,
		logger:    log.Default(),
		maxActive: config.DefaultMaxActiveInterests,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type InterestServiceOption func(*InterestService)

// WithMaxActiveInterests overrides the per-customer concurrent interest cap.
func WithMaxActiveInterests(n int) InterestServiceOption {
	return func(s *InterestService) {
		if n > 0 {
			s.maxActive = n
		}
	}
}

// WithInterestLogger overrides the logger used for best-effort failures.
func WithInterestLogger(logger *log.Logger) InterestServiceOption {
	return func(s *InterestService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// RegisterInterest records a customer's interest in a discount and, when the
// freshly incremented counter crosses the threshold inside the interest
// window, flips the discount active exactly once.
//
// The eligibility checks, the row insert, and the increment-then-reread run
// in one transaction holding the discount row lock, so concurrent
// registrations for the same discount serialize and cannot double-fire or
// miss the activation.
func (s *InterestService) RegisterInterest(ctx context.Context, actor domain.Actor, discountID string) (domain.Interest, error) {
	if actor.Role != domain.RoleCustomer {
		return domain.Interest{}, domain.ErrRoleNotAllowed
	}

	now := s.clock.Now()
	var (
		interest   domain.Interest
		providerID string
		activated  bool
	)

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		discount, err := s.repo.GetDiscountForUpdate(txCtx, discountID)
		if err != nil {
			return err
		}
		providerID = discount.ProviderID

		active, err := s.repo.CountActiveInterests(txCtx, actor.ID, now)
		if err != nil {
			return err
		}
		if active >= s.maxActive {
			return domain.ErrInterestCapExceeded
		}
		if discount.IsActive || discount.GoalReached() {
			return domain.ErrGoalAlreadyReached
		}
		if discount.InterestWindowClosed(now) {
			return domain.ErrInterestWindowClosed
		}
		if existing, err := s.repo.FindInterest(txCtx, discountID, actor.ID); err != nil {
			return err
		} else if existing != nil {
			return domain.ErrAlreadyRegistered
		}

		interest = domain.Interest{
			ID:         newID(),
			DiscountID: discountID,
			CustomerID: actor.ID,
			Status:     domain.BookingNone,
			CreatedAt:  now,
		}
		if err := s.repo.CreateInterest(txCtx, interest); err != nil {
			return err
		}

		count, err := s.repo.IncrementInterestCount(txCtx, discountID)
		if err != nil {
			return err
		}
		if count >= discount.RequiredInterestCount &&
			(!discount.HasInterestWindow() || discount.InterestWindowContains(now)) {
			activated, err = s.repo.ActivateDiscount(txCtx, discountID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Interest{}, err
	}

	s.events.Emit(domain.Event{
		Kind:       domain.EventInterestRegistered,
		DiscountID: discountID,
		ProviderID: providerID,
		CustomerID: actor.ID,
		OccurredAt: now,
	})

	// Code issuance and fan-out run after the commit: a partial failure
	// leaves is_active set and rows without a code, which the reconcile
	// pass picks up later.
	if activated {
		issued := s.issueCodes(ctx, discountID)
		if code, ok := issued[interest.ID]; ok {
			interest.PromoCode = code
		}

		cohort := make([]string, 0)
		rows, err := s.repo.ListInterestsByDiscount(ctx, discountID)
		if err != nil {
			s.logger.Printf("WARN: list interests for goal-reached fan-out: %v", err)
			cohort = append(cohort, actor.ID)
		} else {
			for _, row := range rows {
				cohort = append(cohort, row.CustomerID)
			}
		}
		s.events.Emit(domain.Event{
			Kind:        domain.EventGoalReached,
			DiscountID:  discountID,
			ProviderID:  providerID,
			CustomerIDs: cohort,
			OccurredAt:  now,
		})
	}

	return interest, nil
}

// RemoveInterest withdraws a registration and decrements the parent counter.
// Withdrawal is rejected once the goal is reached so issued promo codes are
// never orphaned.
func (s *InterestService) RemoveInterest(ctx context.Context, actor domain.Actor, interestID string) error {
	if actor.Role != domain.RoleCustomer && actor.Role != domain.RoleAdmin {
		return domain.ErrRoleNotAllowed
	}

	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		interest, err := s.repo.GetInterestByID(txCtx, interestID)
		if err != nil {
			return err
		}
		if actor.Role == domain.RoleCustomer && interest.CustomerID != actor.ID {
			return domain.ErrNotOwner
		}

		discount, err := s.repo.GetDiscountForUpdate(txCtx, interest.DiscountID)
		if err != nil {
			return err
		}
		if discount.IsActive || discount.GoalReached() {
			return domain.ErrDiscountActive
		}

		if err := s.repo.DeleteInterest(txCtx, interestID); err != nil {
			return err
		}
		return s.repo.DecrementInterestCount(txCtx, interest.DiscountID)
	})
}

// ListInterests returns the calling customer's registrations.
func (s *InterestService) ListInterests(ctx context.Context, actor domain.Actor) ([]domain.Interest, error) {
	if actor.Role != domain.RoleCustomer {
		return nil, domain.ErrRoleNotAllowed
	}
	return s.repo.ListInterestsByCustomer(ctx, actor.ID)
}

// ReconcileMissingCodes issues promo codes to rows an earlier activation pass
// left without one. Safe to run repeatedly.
func (s *InterestService) ReconcileMissingCodes(ctx context.Context, actor domain.Actor, discountID string) (int, error) {
	discount, err := s.repo.GetDiscount(ctx, discountID)
	if err != nil {
		return 0, err
	}
	if actor.Role != domain.RoleAdmin && (actor.Role != domain.RoleProvider || discount.ProviderID != actor.ID) {
		return 0, domain.ErrNotOwner
	}
	if !discount.IsActive {
		return 0, domain.ErrDiscountNotActive
	}
	return len(s.issueCodes(ctx, discountID)), nil
}

// issueCodes assigns a per-discount-unique code to every row still missing
// one. Failures are logged, never propagated: a skipped row stays detectable
// (promo_code IS NULL with the discount active).
func (s *InterestService) issueCodes(ctx context.Context, discountID string) map[string]string {
	rows, err := s.repo.ListInterestsMissingCode(ctx, discountID)
	if err != nil {
		s.logger.Printf("WARN: list interests missing code: %v", err)
		return nil
	}

	issued := make(map[string]string, len(rows))
	for _, row := range rows {
		for attempt := 0; attempt < promoCodeMaxAttempts; attempt++ {
			code := newPromoCode()
			if code == "" {
				break
			}
			written, err := s.repo.SetPromoCode(ctx, row.ID, code)
			if err == nil && written {
				issued[row.ID] = code
				break
			}
			if err == nil {
				// A concurrent issuance pass got there first; report the
				// stored code, not the one that lost the race.
				current, err := s.repo.GetInterestByID(ctx, row.ID)
				if err != nil {
					s.logger.Printf("WARN: reread promo code for interest %s: %v", row.ID, err)
				} else if current.PromoCode != "" {
					issued[row.ID] = current.PromoCode
				}
				break
			}
			if errors.Is(err, domain.ErrPromoCodeCollision) {
				continue
			}
			s.logger.Printf("WARN: assign promo code to interest %s: %v", row.ID, err)
			break
		}
		if _, ok := issued[row.ID]; !ok {
			s.logger.Printf("WARN: promo code not issued for interest %s", row.ID)
		}
	}
	return issued
}
