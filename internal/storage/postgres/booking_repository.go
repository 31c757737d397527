package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seralva/groupdeals/internal/domain"
)

// BookingRepository backs the slot negotiation flow. The partial unique index
// on (discount_id, booking_date, booking_time) makes the double-booking check
// and the write one atomic conditional statement.
type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *BookingRepository) GetDiscount(ctx context.Context, discountID string) (domain.Discount, error) {
	query := `SELECT ` + discountColumns + ` FROM discounts WHERE id = $1 AND deleted_at IS NULL`
	d, err := scanDiscount(r.queryRow(ctx, query, discountID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Discount{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Discount{}, domain.ErrDiscountNotFound
		}
		return domain.Discount{}, fmt.Errorf("get discount: %w", err)
	}
	return d, nil
}

func (r *BookingRepository) GetInterestForUpdate(ctx context.Context, discountID, customerID string) (domain.Interest, error) {
	query := `SELECT ` + interestColumns + `
FROM interests
WHERE discount_id = $1 AND customer_id = $2
FOR UPDATE`

	in, err := scanInterest(r.queryRow(ctx, query, discountID, customerID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Interest{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Interest{}, domain.ErrInterestNotFound
		}
		return domain.Interest{}, fmt.Errorf("get interest for update: %w", err)
	}
	return in, nil
}

// UpdateNegotiation writes the row's negotiation state in one statement. A
// slot collision under the same discount surfaces as ErrSlotTaken.
func (r *BookingRepository) UpdateNegotiation(ctx context.Context, interest domain.Interest) error {
	const stmt = `
UPDATE interests
SET booking_status = $2,
    booking_date = $3,
    booking_time = $4,
    suggested_date = $5,
    suggested_time = $6,
    redeemed = $7
WHERE id = $1`

	bookingDate, bookingTime := slotColumns(interest.Booking)
	suggestedDate, suggestedTime := slotColumns(interest.Suggestion)

	tag, err := r.exec(ctx, stmt,
		interest.ID,
		interest.Status,
		bookingDate,
		bookingTime,
		suggestedDate,
		suggestedTime,
		interest.Redeemed,
	)
	if err != nil {
		if violatesConstraint(err, "interests_slot_key") {
			return domain.ErrSlotTaken
		}
		return fmt.Errorf("update negotiation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInterestNotFound
	}
	return nil
}

func (r *BookingRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *BookingRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
