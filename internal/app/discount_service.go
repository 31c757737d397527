package app

import (
	"context"
	"time"

	"github.com/seralva/groupdeals/internal/clock"
	"github.com/seralva/groupdeals/internal/domain"
)

type DiscountRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateDiscount(ctx context.Context, discount domain.Discount) error
	GetDiscount(ctx context.Context, discountID string) (domain.Discount, error)
	ListDiscounts(ctx context.Context) ([]domain.Discount, error)
	SoftDeleteDiscount(ctx context.Context, discountID string, deletedAt time.Time) error
	CancelInterestsByDiscount(ctx context.Context, discountID string) error
}

// DiscountService is the provider-facing administration surface: offer
// creation, browsing, and soft deletion with interest cascade.
type DiscountService struct {
	repo  DiscountRepository
	clock clock.Clock
}

func NewDiscountService(repo DiscountRepository, clk clock.Clock) *DiscountService {
	return &DiscountService{
		repo:  repo,
		clock: clk,
	}
}

type CreateDiscountInput struct {
	ServiceID             string
	DiscountPercentage    int
	PriceCents            int64
	InterestFrom          *time.Time
	InterestTo            *time.Time
	DiscountStart         time.Time
	DiscountEnd           time.Time
	RequiredInterestCount int
}

func (s *DiscountService) CreateDiscount(ctx context.Context, actor domain.Actor, in CreateDiscountInput) (domain.Discount, error) {
	if actor.Role != domain.RoleProvider {
		return domain.Discount{}, domain.ErrRoleNotAllowed
	}
	if in.ServiceID == "" {
		return domain.Discount{}, domain.ErrInvalidID
	}
	if in.DiscountPercentage < 0 || in.DiscountPercentage > 100 {
		return domain.Discount{}, domain.ErrInvalidPercentage
	}
	if in.PriceCents < 0 {
		return domain.Discount{}, domain.ErrInvalidPrice
	}
	if in.RequiredInterestCount < 1 {
		return domain.Discount{}, domain.ErrInvalidRequiredCount
	}
	if err := validateWindows(in); err != nil {
		return domain.Discount{}, err
	}

	discount := domain.Discount{
		ID:                      newID(),
		ProviderID:              actor.ID,
		ServiceID:               in.ServiceID,
		DiscountPercentage:      in.DiscountPercentage,
		PriceCents:              in.PriceCents,
		PriceAfterDiscountCents: domain.PriceAfterDiscount(in.PriceCents, in.DiscountPercentage),
		DiscountStart:           domain.DateOf(in.DiscountStart),
		DiscountEnd:             domain.DateOf(in.DiscountEnd),
		RequiredInterestCount:   in.RequiredInterestCount,
		CreatedAt:               s.clock.Now(),
	}
	if in.InterestFrom != nil {
		discount.InterestFrom = domain.DateOf(*in.InterestFrom)
	}
	if in.InterestTo != nil {
		discount.InterestTo = domain.DateOf(*in.InterestTo)
	}

	if err := s.repo.CreateDiscount(ctx, discount); err != nil {
		return domain.Discount{}, err
	}
	return discount, nil
}

// validateWindows enforces interest_from ≤ interest_to ≤ discount_start ≤
// discount_end; the interest window is optional but must be whole.
func validateWindows(in CreateDiscountInput) error {
	if in.DiscountStart.IsZero() || in.DiscountEnd.IsZero() {
		return domain.ErrInvalidWindow
	}
	if domain.DateOf(in.DiscountEnd).Before(domain.DateOf(in.DiscountStart)) {
		return domain.ErrInvalidWindow
	}
	if (in.InterestFrom == nil) != (in.InterestTo == nil) {
		return domain.ErrInvalidWindow
	}
	if in.InterestFrom == nil {
		return nil
	}
	from, to := domain.DateOf(*in.InterestFrom), domain.DateOf(*in.InterestTo)
	if to.Before(from) {
		return domain.ErrInvalidWindow
	}
	if domain.DateOf(in.DiscountStart).Before(to) {
		return domain.ErrInvalidWindow
	}
	return nil
}

func (s *DiscountService) GetDiscount(ctx context.Context, discountID string) (domain.Discount, error) {
	if discountID == "" {
		return domain.Discount{}, domain.ErrInvalidID
	}
	return s.repo.GetDiscount(ctx, discountID)
}

func (s *DiscountService) ListDiscounts(ctx context.Context) ([]domain.Discount, error) {
	return s.repo.ListDiscounts(ctx)
}

// DeleteDiscount soft-deletes the offer and cancels every outstanding
// interest row under it, in one transaction.
func (s *DiscountService) DeleteDiscount(ctx context.Context, actor domain.Actor, discountID string) error {
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		discount, err := s.repo.GetDiscount(txCtx, discountID)
		if err != nil {
			return err
		}
		if actor.Role != domain.RoleAdmin && (actor.Role != domain.RoleProvider || discount.ProviderID != actor.ID) {
			return domain.ErrNotOwner
		}
		if err := s.repo.SoftDeleteDiscount(txCtx, discountID, s.clock.Now()); err != nil {
			return err
		}
		return s.repo.CancelInterestsByDiscount(txCtx, discountID)
	})
}
