package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/duongtapcode03/lmobile-flashsale/internal/domain"
	"github.com/duongtapcode03/lmobile-flashsale/internal/testutil"
	"github.com/google/uuid"
)

func TestListActiveSalesOrdering(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)
	repo := NewCatalogRepository(pool)

	now := time.Now().UTC()
	endsLater := testutil.InsertSale(t, ctx, pool, "ends later", now.Add(-time.Hour), now.Add(2*time.Hour), domain.SaleStatusActive)
	endsSoon := testutil.InsertSale(t, ctx, pool, "ends soon", now.Add(-time.Hour), now.Add(time.Hour), domain.SaleStatusActive)
	testutil.InsertSale(t, ctx, pool, "scheduled", now.Add(time.Hour), now.Add(2*time.Hour), domain.SaleStatusScheduled)
	testutil.InsertSale(t, ctx, pool, "ended", now.Add(-3*time.Hour), now.Add(-time.Hour), domain.SaleStatusEnded)

	sales, err := repo.ListActiveSales(ctx)
	if err != nil {
		t.Fatalf("list active sales: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("expected 2 active sales, got %d", len(sales))
	}
	if sales[0].ID != endsSoon || sales[1].ID != endsLater {
		t.Fatalf("expected soonest-ending first, got %+v", sales)
	}
}

func TestGetItemByProduct(t *testing.T) {
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)
	repo := NewCatalogRepository(pool)

	now := time.Now().UTC()
	saleID := testutil.InsertSale(t, ctx, pool, "lookup", now.Add(-time.Hour), now.Add(time.Hour), domain.SaleStatusActive)
	productID := uuid.New()
	testutil.InsertItem(t, ctx, pool, saleID, domain.Item{
		ProductID:     productID,
		TotalQuantity: 12,
		Reserved:      2,
		Sold:          3,
	})

	item, err := repo.GetItemByProduct(ctx, saleID, productID)
	if err != nil {
		t.Fatalf("get item by product: %v", err)
	}
	if item.Available() != 7 {
		t.Fatalf("expected available 7, got %d", item.Available())
	}

	_, err = repo.GetItemByProduct(ctx, saleID, uuid.New())
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}
