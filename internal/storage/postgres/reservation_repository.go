package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/duongtapcode03/lmobile-flashsale/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReservationRepository backs the reservation service. Counter moves are
// guarded updates: the WHERE clause re-checks the invariant so a losing
// racer affects zero rows instead of overselling.
type ReservationRepository struct {
	q querier
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{q: querier{pool: pool}}
}

func (r *ReservationRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.q.pool, fn)
}

func (r *ReservationRepository) GetItemForUpdate(ctx context.Context, itemID uuid.UUID) (domain.Item, error) {
	const query = `
SELECT id, flash_sale_id, product_id, sale_price, total_quantity, reserved, sold, per_user_limit
FROM flash_sale_items
WHERE id = $1
FOR UPDATE`

	var i domain.Item
	err := r.q.queryRow(ctx, query, itemID).
		Scan(&i.ID, &i.SaleID, &i.ProductID, &i.SalePrice, &i.TotalQuantity, &i.Reserved, &i.Sold, &i.PerUserLimit)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Item{}, domain.ErrItemNotFound
		}
		return domain.Item{}, fmt.Errorf("get item: %w", err)
	}
	return i, nil
}

func (r *ReservationRepository) GetSale(ctx context.Context, saleID uuid.UUID) (domain.FlashSale, error) {
	const query = `
SELECT id, name, starts_at, ends_at, status, created_at
FROM flash_sales
WHERE id = $1`

	var s domain.FlashSale
	err := r.q.queryRow(ctx, query, saleID).
		Scan(&s.ID, &s.Name, &s.StartsAt, &s.EndsAt, &s.Status, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.FlashSale{}, domain.ErrSaleNotFound
		}
		return domain.FlashSale{}, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// SumHolderQuantity counts the holder's committed quantity plus unexpired
// held quantity for one item, used for the per-user limit.
func (r *ReservationRepository) SumHolderQuantity(ctx context.Context, itemID uuid.UUID, holderID string, now time.Time) (int, error) {
	const query = `
SELECT COALESCE(SUM(quantity), 0)
FROM reservations
WHERE item_id = $1 AND holder_id = $2
  AND (state = 'committed' OR (state = 'held' AND expires_at > $3))`

	var total int
	if err := r.q.queryRow(ctx, query, itemID, holderID, now).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum holder quantity: %w", err)
	}
	return total, nil
}

// AddReserved moves qty from available to reserved. The guard keeps
// reserved+sold within the total; zero rows means the stock is gone.
func (r *ReservationRepository) AddReserved(ctx context.Context, itemID uuid.UUID, qty int) error {
	const stmt = `
UPDATE flash_sale_items
SET reserved = reserved + $2
WHERE id = $1 AND total_quantity - reserved - sold >= $2`

	tag, err := r.q.exec(ctx, stmt, itemID, qty)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("add reserved: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, res domain.Reservation) error {
	const stmt = `
INSERT INTO reservations (id, item_id, holder_id, quantity, state, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.q.exec(ctx, stmt,
		res.ID, res.ItemID, res.HolderID, res.Quantity, res.State, res.CreatedAt, res.ExpiresAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrItemNotFound
		}
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetReservation(ctx context.Context, id uuid.UUID) (domain.Reservation, error) {
	const query = `
SELECT id, item_id, holder_id, quantity, state, created_at, expires_at
FROM reservations
WHERE id = $1`

	var res domain.Reservation
	err := r.q.queryRow(ctx, query, id).
		Scan(&res.ID, &res.ItemID, &res.HolderID, &res.Quantity, &res.State, &res.CreatedAt, &res.ExpiresAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Reservation{}, domain.ErrReservationNotFound
		}
		return domain.Reservation{}, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// ResolveReservation flips a held reservation to a terminal state. Reports
// false when the reservation was not held anymore, so callers can treat a
// lost race as already-resolved.
func (r *ReservationRepository) ResolveReservation(ctx context.Context, id uuid.UUID, to domain.ReservationState) (bool, error) {
	const stmt = `UPDATE reservations SET state = $2 WHERE id = $1 AND state = 'held'`

	tag, err := r.q.exec(ctx, stmt, id, to)
	if err != nil {
		return false, fmt.Errorf("resolve reservation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ReservationRepository) CommitStock(ctx context.Context, itemID uuid.UUID, qty int) error {
	const stmt = `
UPDATE flash_sale_items
SET reserved = reserved - $2, sold = sold + $2
WHERE id = $1 AND reserved >= $2`

	tag, err := r.q.exec(ctx, stmt, itemID, qty)
	if err != nil {
		return fmt.Errorf("commit stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("commit stock: reserved counter below %d for item %s", qty, itemID)
	}
	return nil
}

func (r *ReservationRepository) ReturnStock(ctx context.Context, itemID uuid.UUID, qty int) error {
	const stmt = `
UPDATE flash_sale_items
SET reserved = reserved - $2
WHERE id = $1 AND reserved >= $2`

	tag, err := r.q.exec(ctx, stmt, itemID, qty)
	if err != nil {
		return fmt.Errorf("return stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("return stock: reserved counter below %d for item %s", qty, itemID)
	}
	return nil
}

func (r *ReservationRepository) ListExpired(ctx context.Context, now time.Time) ([]domain.Reservation, error) {
	const query = `
SELECT id, item_id, holder_id, quantity, state, created_at, expires_at
FROM reservations
WHERE state = 'held' AND expires_at < $1
ORDER BY expires_at ASC`

	rows, err := r.q.query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list expired: %w", err)
	}
	return scanReservations(rows)
}

func (r *ReservationRepository) ListHeldBySale(ctx context.Context, saleID uuid.UUID) ([]domain.Reservation, error) {
	const query = `
SELECT res.id, res.item_id, res.holder_id, res.quantity, res.state, res.created_at, res.expires_at
FROM reservations res
JOIN flash_sale_items items ON items.id = res.item_id
WHERE items.flash_sale_id = $1 AND res.state = 'held'
ORDER BY res.created_at ASC`

	rows, err := r.q.query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list held by sale: %w", err)
	}
	return scanReservations(rows)
}

func scanReservations(rows pgx.Rows) ([]domain.Reservation, error) {
	defer rows.Close()

	var out []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.ItemID, &res.HolderID, &res.Quantity, &res.State, &res.CreatedAt, &res.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, res)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate reservations: %w", rows.Err())
	}
	return out, nil
}
