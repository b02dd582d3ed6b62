package postgres

import (
	"context"
	"fmt"

	"github.com/duongtapcode03/lmobile-flashsale/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	q querier
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{q: querier{pool: pool}}
}

func (r *AdminRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.q.pool, fn)
}

func (r *AdminRepository) CreateSale(ctx context.Context, sale domain.FlashSale) error {
	const stmt = `
INSERT INTO flash_sales (id, name, starts_at, ends_at, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.q.exec(ctx, stmt,
		sale.ID, sale.Name, sale.StartsAt, sale.EndsAt, sale.Status, sale.CreatedAt)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInvalidWindow
		}
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

func (r *AdminRepository) GetSale(ctx context.Context, id uuid.UUID) (domain.FlashSale, error) {
	return r.getSale(ctx, id, false)
}

func (r *AdminRepository) GetSaleForUpdate(ctx context.Context, id uuid.UUID) (domain.FlashSale, error) {
	return r.getSale(ctx, id, true)
}

func (r *AdminRepository) getSale(ctx context.Context, id uuid.UUID, forUpdate bool) (domain.FlashSale, error) {
	query := `
SELECT id, name, starts_at, ends_at, status, created_at
FROM flash_sales
WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var s domain.FlashSale
	err := r.q.queryRow(ctx, query, id).
		Scan(&s.ID, &s.Name, &s.StartsAt, &s.EndsAt, &s.Status, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.FlashSale{}, domain.ErrSaleNotFound
		}
		return domain.FlashSale{}, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// UpdateSale writes name and window, guarded on the status the caller read.
func (r *AdminRepository) UpdateSale(ctx context.Context, sale domain.FlashSale, expectStatus domain.SaleStatus) (bool, error) {
	const stmt = `
UPDATE flash_sales
SET name = $2, starts_at = $3, ends_at = $4
WHERE id = $1 AND status = $5`

	tag, err := r.q.exec(ctx, stmt, sale.ID, sale.Name, sale.StartsAt, sale.EndsAt, expectStatus)
	if err != nil {
		if isCheckViolation(err) {
			return false, domain.ErrInvalidWindow
		}
		return false, fmt.Errorf("update sale: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *AdminRepository) SetSaleStatus(ctx context.Context, id uuid.UUID, from, to domain.SaleStatus) (bool, error) {
	const stmt = `UPDATE flash_sales SET status = $3 WHERE id = $1 AND status = $2`

	tag, err := r.q.exec(ctx, stmt, id, from, to)
	if err != nil {
		return false, fmt.Errorf("set sale status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *AdminRepository) DeleteSale(ctx context.Context, id uuid.UUID) (bool, error) {
	const stmt = `DELETE FROM flash_sales WHERE id = $1`

	tag, err := r.q.exec(ctx, stmt, id)
	if err != nil {
		return false, fmt.Errorf("delete sale: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *AdminRepository) CreateItem(ctx context.Context, item domain.Item) error {
	const stmt = `
INSERT INTO flash_sale_items (id, flash_sale_id, product_id, sale_price, total_quantity, reserved, sold, per_user_limit)
VALUES ($1, $2, $3, $4, $5, 0, 0, $6)`

	_, err := r.q.exec(ctx, stmt,
		item.ID, item.SaleID, item.ProductID, item.SalePrice, item.TotalQuantity, item.PerUserLimit)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateItem
		}
		if isForeignKeyViolation(err) {
			return domain.ErrSaleNotFound
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

func (r *AdminRepository) GetItem(ctx context.Context, id uuid.UUID) (domain.Item, error) {
	const query = `
SELECT id, flash_sale_id, product_id, sale_price, total_quantity, reserved, sold, per_user_limit
FROM flash_sale_items
WHERE id = $1`

	var i domain.Item
	err := r.q.queryRow(ctx, query, id).
		Scan(&i.ID, &i.SaleID, &i.ProductID, &i.SalePrice, &i.TotalQuantity, &i.Reserved, &i.Sold, &i.PerUserLimit)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Item{}, domain.ErrItemNotFound
		}
		return domain.Item{}, fmt.Errorf("get item: %w", err)
	}
	return i, nil
}

// UpdateItem writes price, total and limit. The guard keeps the new total
// at or above what is already reserved plus sold.
func (r *AdminRepository) UpdateItem(ctx context.Context, item domain.Item) (bool, error) {
	const stmt = `
UPDATE flash_sale_items
SET sale_price = $2, total_quantity = $3, per_user_limit = $4
WHERE id = $1 AND reserved + sold <= $3`

	tag, err := r.q.exec(ctx, stmt, item.ID, item.SalePrice, item.TotalQuantity, item.PerUserLimit)
	if err != nil {
		if isCheckViolation(err) {
			return false, domain.ErrQuantityTooLow
		}
		return false, fmt.Errorf("update item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *AdminRepository) DeleteItem(ctx context.Context, id uuid.UUID) (bool, error) {
	const stmt = `DELETE FROM flash_sale_items WHERE id = $1`

	tag, err := r.q.exec(ctx, stmt, id)
	if err != nil {
		return false, fmt.Errorf("delete item: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *AdminRepository) ListItemsBySale(ctx context.Context, saleID uuid.UUID) ([]domain.Item, error) {
	return listItemsBySale(ctx, r.q, saleID)
}
