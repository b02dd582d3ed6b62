package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/duongtapcode03/lmobile-flashsale/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ActivationRepository performs the status-guarded batch transitions. The
// guard on the current status makes overlapping scheduler passes no-ops
// for sales another pass already moved.
type ActivationRepository struct {
	q querier
}

func NewActivationRepository(pool *pgxpool.Pool) *ActivationRepository {
	return &ActivationRepository{q: querier{pool: pool}}
}

func (r *ActivationRepository) ActivateDue(ctx context.Context, now time.Time) ([]domain.FlashSale, error) {
	const stmt = `
UPDATE flash_sales
SET status = 'active'
WHERE status = 'scheduled' AND starts_at <= $1
RETURNING id, name, starts_at, ends_at, status, created_at`

	rows, err := r.q.query(ctx, stmt, now)
	if err != nil {
		return nil, fmt.Errorf("activate due: %w", err)
	}
	return scanSales(rows)
}

func (r *ActivationRepository) CloseDue(ctx context.Context, now time.Time) ([]domain.FlashSale, error) {
	const stmt = `
UPDATE flash_sales
SET status = 'ended'
WHERE status = 'active' AND ends_at <= $1
RETURNING id, name, starts_at, ends_at, status, created_at`

	rows, err := r.q.query(ctx, stmt, now)
	if err != nil {
		return nil, fmt.Errorf("close due: %w", err)
	}
	return scanSales(rows)
}

func scanSales(rows pgx.Rows) ([]domain.FlashSale, error) {
	defer rows.Close()

	var out []domain.FlashSale
	for rows.Next() {
		var s domain.FlashSale
		if err := rows.Scan(&s.ID, &s.Name, &s.StartsAt, &s.EndsAt, &s.Status, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate sales: %w", rows.Err())
	}
	return out, nil
}
