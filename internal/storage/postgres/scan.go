package postgres

import (
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/seralva/groupdeals/internal/domain"
)

const discountColumns = `id, provider_id, service_id, discount_percentage, price_cents,
price_after_discount_cents, interest_from_date, interest_to_date,
discount_start_date, discount_end_date, required_interest_count,
current_interest_count, is_active, created_at, deleted_at`

func scanDiscount(row pgx.Row) (domain.Discount, error) {
	var (
		d                        domain.Discount
		interestFrom, interestTo *time.Time
	)
	err := row.Scan(
		&d.ID,
		&d.ProviderID,
		&d.ServiceID,
		&d.DiscountPercentage,
		&d.PriceCents,
		&d.PriceAfterDiscountCents,
		&interestFrom,
		&interestTo,
		&d.DiscountStart,
		&d.DiscountEnd,
		&d.RequiredInterestCount,
		&d.CurrentInterestCount,
		&d.IsActive,
		&d.CreatedAt,
		&d.DeletedAt,
	)
	if err != nil {
		return domain.Discount{}, err
	}
	if interestFrom != nil {
		d.InterestFrom = *interestFrom
	}
	if interestTo != nil {
		d.InterestTo = *interestTo
	}
	return d, nil
}

const interestColumns = `id, discount_id, customer_id, promo_code, redeemed, booking_status,
booking_date, booking_time, suggested_date, suggested_time, created_at`

func scanInterest(row pgx.Row) (domain.Interest, error) {
	var (
		in            domain.Interest
		promoCode     *string
		status        string
		bookingDate   *time.Time
		bookingTime   *string
		suggestedDate *time.Time
		suggestedTime *string
	)
	err := row.Scan(
		&in.ID,
		&in.DiscountID,
		&in.CustomerID,
		&promoCode,
		&in.Redeemed,
		&status,
		&bookingDate,
		&bookingTime,
		&suggestedDate,
		&suggestedTime,
		&in.CreatedAt,
	)
	if err != nil {
		return domain.Interest{}, err
	}
	if promoCode != nil {
		in.PromoCode = *promoCode
	}
	in.Status = domain.BookingStatus(status)
	if bookingDate != nil && bookingTime != nil {
		in.Booking = &domain.Slot{Date: *bookingDate, Time: *bookingTime}
	}
	if suggestedDate != nil && suggestedTime != nil {
		in.Suggestion = &domain.Slot{Date: *suggestedDate, Time: *suggestedTime}
	}
	return in, nil
}

// slotColumns splits an optional slot into its nullable column values.
func slotColumns(s *domain.Slot) (*time.Time, *string) {
	if s == nil {
		return nil, nil
	}
	date := s.Date
	t := s.Time
	return &date, &t
}
