package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seralva/groupdeals/internal/domain"
)

// DiscountRepository backs the provider administration surface.
type DiscountRepository struct {
	pool *pgxpool.Pool
}

func NewDiscountRepository(pool *pgxpool.Pool) *DiscountRepository {
	return &DiscountRepository{pool: pool}
}

func (r *DiscountRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *DiscountRepository) CreateDiscount(ctx context.Context, discount domain.Discount) error {
	const stmt = `
INSERT INTO discounts (
	id, provider_id, service_id, discount_percentage, price_cents,
	price_after_discount_cents, interest_from_date, interest_to_date,
	discount_start_date, discount_end_date, required_interest_count,
	current_interest_count, is_active, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 0, FALSE, $12)`

	var interestFrom, interestTo *time.Time
	if !discount.InterestFrom.IsZero() {
		interestFrom = &discount.InterestFrom
	}
	if !discount.InterestTo.IsZero() {
		interestTo = &discount.InterestTo
	}

	_, err := r.exec(ctx, stmt,
		discount.ID,
		discount.ProviderID,
		discount.ServiceID,
		discount.DiscountPercentage,
		discount.PriceCents,
		discount.PriceAfterDiscountCents,
		interestFrom,
		interestTo,
		discount.DiscountStart,
		discount.DiscountEnd,
		discount.RequiredInterestCount,
		discount.CreatedAt,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create discount: %w", err)
	}
	return nil
}

func (r *DiscountRepository) GetDiscount(ctx context.Context, discountID string) (domain.Discount, error) {
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

func (r *DiscountRepository) ListDiscounts(ctx context.Context) ([]domain.Discount, error) {
	query := `SELECT ` + discountColumns + ` FROM discounts WHERE deleted_at IS NULL ORDER BY created_at DESC`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}
	defer rows.Close()

	var out []domain.Discount
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan discount: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}
	return out, nil
}

func (r *DiscountRepository) SoftDeleteDiscount(ctx context.Context, discountID string, deletedAt time.Time) error {
	const stmt = `UPDATE discounts SET deleted_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	tag, err := r.exec(ctx, stmt, discountID, deletedAt)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("soft delete discount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDiscountNotFound
	}
	return nil
}

// CancelInterestsByDiscount cascade-invalidates every outstanding interest
// under a deleted discount.
func (r *DiscountRepository) CancelInterestsByDiscount(ctx context.Context, discountID string) error {
	const stmt = `
UPDATE interests
SET booking_status = 'cancelled'
WHERE discount_id = $1 AND booking_status <> 'cancelled'`

	if _, err := r.exec(ctx, stmt, discountID); err != nil {
		return fmt.Errorf("cancel interests: %w", err)
	}
	return nil
}

func (r *DiscountRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *DiscountRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *DiscountRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
