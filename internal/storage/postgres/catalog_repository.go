package postgres

import (
	"context"
	"fmt"

	"github.com/duongtapcode03/lmobile-flashsale/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CatalogRepository struct {
	q querier
}

func NewCatalogRepository(pool *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{q: querier{pool: pool}}
}

func (r *CatalogRepository) ListActiveSales(ctx context.Context) ([]domain.FlashSale, error) {
	const query = `
SELECT id, name, starts_at, ends_at, status, created_at
FROM flash_sales
WHERE status = 'active'
ORDER BY ends_at ASC`

	rows, err := r.q.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active sales: %w", err)
	}
	return scanSales(rows)
}

func (r *CatalogRepository) GetSale(ctx context.Context, id uuid.UUID) (domain.FlashSale, error) {
	const query = `
SELECT id, name, starts_at, ends_at, status, created_at
FROM flash_sales
WHERE id = $1`

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

func (r *CatalogRepository) ListItemsBySale(ctx context.Context, saleID uuid.UUID) ([]domain.Item, error) {
	return listItemsBySale(ctx, r.q, saleID)
}

func (r *CatalogRepository) GetItemByProduct(ctx context.Context, saleID, productID uuid.UUID) (domain.Item, error) {
	const query = `
SELECT id, flash_sale_id, product_id, sale_price, total_quantity, reserved, sold, per_user_limit
FROM flash_sale_items
WHERE flash_sale_id = $1 AND product_id = $2`

	var i domain.Item
	err := r.q.queryRow(ctx, query, saleID, productID).
		Scan(&i.ID, &i.SaleID, &i.ProductID, &i.SalePrice, &i.TotalQuantity, &i.Reserved, &i.Sold, &i.PerUserLimit)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Item{}, domain.ErrItemNotFound
		}
		return domain.Item{}, fmt.Errorf("get item by product: %w", err)
	}
	return i, nil
}

func listItemsBySale(ctx context.Context, q querier, saleID uuid.UUID) ([]domain.Item, error) {
	const query = `
SELECT id, flash_sale_id, product_id, sale_price, total_quantity, reserved, sold, per_user_limit
FROM flash_sale_items
WHERE flash_sale_id = $1
ORDER BY sale_price ASC`

	rows, err := q.query(ctx, query, saleID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var out []domain.Item
	for rows.Next() {
		var i domain.Item
		if err := rows.Scan(&i.ID, &i.SaleID, &i.ProductID, &i.SalePrice, &i.TotalQuantity, &i.Reserved, &i.Sold, &i.PerUserLimit); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, i)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate items: %w", rows.Err())
	}
	return out, nil
}
