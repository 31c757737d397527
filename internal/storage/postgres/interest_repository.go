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

// InterestRepository backs the registration and activation flow. Counter
// mutations are single conditional UPDATEs so concurrent registrations can
// never act on a stale read.
type InterestRepository struct {
	pool *pgxpool.Pool
}

func NewInterestRepository(pool *pgxpool.Pool) *InterestRepository {
	return &InterestRepository{pool: pool}
}

func (r *InterestRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *InterestRepository) GetDiscountForUpdate(ctx context.Context, discountID string) (domain.Discount, error) {
	query := `SELECT ` + discountColumns + ` FROM discounts WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	d, err := scanDiscount(r.queryRow(ctx, query, discountID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Discount{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Discount{}, domain.ErrDiscountNotFound
		}
		return domain.Discount{}, fmt.Errorf("get discount for update: %w", err)
	}
	return d, nil
}

func (r *InterestRepository) GetDiscount(ctx context.Context, discountID string) (domain.Discount, error) {
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

// CountActiveInterests counts a customer's non-cancelled registrations whose
// parent discount's redemption window has not yet ended.
func (r *InterestRepository) CountActiveInterests(ctx context.Context, customerID string, now time.Time) (int, error) {
	const query = `
SELECT COUNT(*)
FROM interests i
JOIN discounts d ON d.id = i.discount_id
WHERE i.customer_id = $1
  AND i.booking_status <> 'cancelled'
  AND d.deleted_at IS NULL
  AND d.discount_end_date >= $2`

	var count int
	if err := r.queryRow(ctx, query, customerID, domain.DateOf(now)).Scan(&count); err != nil {
		if isInvalidUUID(err) {
			return 0, domain.ErrInvalidID
		}
		return 0, fmt.Errorf("count active interests: %w", err)
	}
	return count, nil
}

func (r *InterestRepository) FindInterest(ctx context.Context, discountID, customerID string) (*domain.Interest, error) {
	query := `SELECT ` + interestColumns + ` FROM interests WHERE discount_id = $1 AND customer_id = $2`
	in, err := scanInterest(r.queryRow(ctx, query, discountID, customerID))
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find interest: %w", err)
	}
	return &in, nil
}

func (r *InterestRepository) GetInterestByID(ctx context.Context, interestID string) (domain.Interest, error) {
	query := `SELECT ` + interestColumns + ` FROM interests WHERE id = $1`
	in, err := scanInterest(r.queryRow(ctx, query, interestID))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Interest{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Interest{}, domain.ErrInterestNotFound
		}
		return domain.Interest{}, fmt.Errorf("get interest: %w", err)
	}
	return in, nil
}

func (r *InterestRepository) CreateInterest(ctx context.Context, interest domain.Interest) error {
	const stmt = `
INSERT INTO interests (id, discount_id, customer_id, booking_status, created_at)
VALUES ($1, $2, $3, $4, $5)`

	_, err := r.exec(ctx, stmt,
		interest.ID,
		interest.DiscountID,
		interest.CustomerID,
		interest.Status,
		interest.CreatedAt,
	)
	if err != nil {
		if violatesConstraint(err, "interests_customer_discount_key") {
			return domain.ErrAlreadyRegistered
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create interest: %w", err)
	}
	return nil
}

func (r *InterestRepository) DeleteInterest(ctx context.Context, interestID string) error {
	tag, err := r.exec(ctx, `DELETE FROM interests WHERE id = $1`, interestID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("delete interest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInterestNotFound
	}
	return nil
}

// IncrementInterestCount bumps the counter and returns the fresh value in
// the same statement; activation decisions are made on this value only.
func (r *InterestRepository) IncrementInterestCount(ctx context.Context, discountID string) (int, error) {
	const stmt = `
UPDATE discounts
SET current_interest_count = current_interest_count + 1
WHERE id = $1 AND deleted_at IS NULL
RETURNING current_interest_count`

	var count int
	if err := r.queryRow(ctx, stmt, discountID).Scan(&count); err != nil {
		if err == pgx.ErrNoRows {
			return 0, domain.ErrDiscountNotFound
		}
		return 0, fmt.Errorf("increment interest count: %w", err)
	}
	return count, nil
}

// DecrementInterestCount refuses to drive the counter below zero; hitting
// the guard is a bookkeeping bug and fails loudly.
func (r *InterestRepository) DecrementInterestCount(ctx context.Context, discountID string) error {
	const stmt = `
UPDATE discounts
SET current_interest_count = current_interest_count - 1
WHERE id = $1 AND current_interest_count > 0`

	tag, err := r.exec(ctx, stmt, discountID)
	if err != nil {
		return fmt.Errorf("decrement interest count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCounterUnderflow
	}
	return nil
}

// ActivateDiscount is the single-fire guard: only the caller that flips
// is_active from false to true observes flipped = true.
func (r *InterestRepository) ActivateDiscount(ctx context.Context, discountID string) (bool, error) {
	const stmt = `UPDATE discounts SET is_active = TRUE WHERE id = $1 AND is_active = FALSE`

	tag, err := r.exec(ctx, stmt, discountID)
	if err != nil {
		return false, fmt.Errorf("activate discount: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *InterestRepository) ListInterestsByDiscount(ctx context.Context, discountID string) ([]domain.Interest, error) {
	query := `SELECT ` + interestColumns + ` FROM interests WHERE discount_id = $1 ORDER BY created_at`
	return r.listInterests(ctx, query, discountID)
}

func (r *InterestRepository) ListInterestsByCustomer(ctx context.Context, customerID string) ([]domain.Interest, error) {
	query := `SELECT ` + interestColumns + ` FROM interests WHERE customer_id = $1 ORDER BY created_at DESC`
	return r.listInterests(ctx, query, customerID)
}

func (r *InterestRepository) ListInterestsMissingCode(ctx context.Context, discountID string) ([]domain.Interest, error) {
	query := `SELECT ` + interestColumns + `
FROM interests
WHERE discount_id = $1 AND promo_code IS NULL AND booking_status <> 'cancelled'
ORDER BY created_at`
	return r.listInterests(ctx, query, discountID)
}

// SetPromoCode assigns a code at most once and reports whether this call
// wrote it. A row that already carries a code is left untouched and reported
// as not written, so a racing issuance pass never records a phantom code.
func (r *InterestRepository) SetPromoCode(ctx context.Context, interestID, code string) (bool, error) {
	const stmt = `UPDATE interests SET promo_code = $2 WHERE id = $1 AND promo_code IS NULL`

	tag, err := r.exec(ctx, stmt, interestID, code)
	if err != nil {
		if violatesConstraint(err, "interests_promo_code_key") {
			return false, domain.ErrPromoCodeCollision
		}
		return false, fmt.Errorf("set promo code: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *InterestRepository) listInterests(ctx context.Context, query string, args ...any) ([]domain.Interest, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list interests: %w", err)
	}
	defer rows.Close()

	var out []domain.Interest
	for rows.Next() {
		in, err := scanInterest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interest: %w", err)
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		if isInvalidUUID(err) {
			return nil, domain.ErrInvalidID
		}
		return nil, fmt.Errorf("list interests: %w", err)
	}
	return out, nil
}

func (r *InterestRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *InterestRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *InterestRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
