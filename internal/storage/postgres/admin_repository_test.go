package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/duongtapcode03/lmobile-flashsale/internal/domain"
	"github.com/duongtapcode03/lmobile-flashsale/internal/testutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

func setupAdminTest(t *testing.T) (context.Context, *pgxpool.Pool, *AdminRepository) {
	t.Helper()
	pool := testutil.NewTestPool(t)
	ctx := context.Background()
	testutil.ApplyMigrations(t, ctx, pool)
	testutil.TruncateAll(t, ctx, pool)
	return ctx, pool, NewAdminRepository(pool)
}

func TestCreateAndGetSale(t *testing.T) {
	ctx, _, repo := setupAdminTest(t)

	now := time.Now().UTC().Truncate(time.Microsecond)
	sale := domain.FlashSale{
		ID:        uuid.New(),
		Name:      "storewide blitz",
		StartsAt:  now.Add(time.Hour),
		EndsAt:    now.Add(2 * time.Hour),
		Status:    domain.SaleStatusScheduled,
		CreatedAt: now,
	}
	if err := repo.CreateSale(ctx, sale); err != nil {
		t.Fatalf("create sale: %v", err)
	}

	got, err := repo.GetSale(ctx, sale.ID)
	if err != nil {
		t.Fatalf("get sale: %v", err)
	}
	if got.Name != sale.Name || got.Status != domain.SaleStatusScheduled {
		t.Fatalf("unexpected sale %+v", got)
	}
	if !got.StartsAt.Equal(sale.StartsAt) || !got.EndsAt.Equal(sale.EndsAt) {
		t.Fatalf("window mismatch: %+v", got)
	}
}

func TestCreateSaleInvalidWindowRejected(t *testing.T) {
	ctx, _, repo := setupAdminTest(t)

	now := time.Now().UTC()
	err := repo.CreateSale(ctx, domain.FlashSale{
		ID:        uuid.New(),
		Name:      "backwards",
		StartsAt:  now.Add(time.Hour),
		EndsAt:    now,
		Status:    domain.SaleStatusScheduled,
		CreatedAt: now,
	})
	if !errors.Is(err, domain.ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestUpdateSaleStatusGuard(t *testing.T) {
	ctx, pool, repo := setupAdminTest(t)

	now := time.Now().UTC()
	saleID := testutil.InsertSale(t, ctx, pool, "guarded", now.Add(time.Hour), now.Add(2*time.Hour), domain.SaleStatusScheduled)

	sale, err := repo.GetSale(ctx, saleID)
	if err != nil {
		t.Fatalf("get sale: %v", err)
	}
	sale.Name = "renamed"

	updated, err := repo.UpdateSale(ctx, sale, domain.SaleStatusScheduled)
	if err != nil {
		t.Fatalf("update sale: %v", err)
	}
	if !updated {
		t.Fatal("expected update to apply")
	}

	// A stale expected status affects zero rows.
	updated, err = repo.UpdateSale(ctx, sale, domain.SaleStatusActive)
	if err != nil {
		t.Fatalf("update sale with stale status: %v", err)
	}
	if updated {
		t.Fatal("expected guarded update to be a no-op")
	}
}

func TestSetSaleStatus(t *testing.T) {
	ctx, pool, repo := setupAdminTest(t)

	now := time.Now().UTC()
	saleID := testutil.InsertSale(t, ctx, pool, "cancellable", now.Add(-time.Hour), now.Add(time.Hour), domain.SaleStatusActive)

	flipped, err := repo.SetSaleStatus(ctx, saleID, domain.SaleStatusActive, domain.SaleStatusCancelled)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if !flipped {
		t.Fatal("expected status flip")
	}

	flipped, err = repo.SetSaleStatus(ctx, saleID, domain.SaleStatusActive, domain.SaleStatusEnded)
	if err != nil {
		t.Fatalf("set status again: %v", err)
	}
	if flipped {
		t.Fatal("expected stale flip to be a no-op")
	}
}

func TestDeleteSaleCascades(t *testing.T) {
	ctx, pool, repo := setupAdminTest(t)

	now := time.Now().UTC()
	saleID := testutil.InsertSale(t, ctx, pool, "doomed", now.Add(-time.Hour), now.Add(time.Hour), domain.SaleStatusActive)
	itemID := testutil.InsertItem(t, ctx, pool, saleID, domain.Item{TotalQuantity: 10})
	testutil.InsertReservation(t, ctx, pool, itemID, domain.Reservation{
		HolderID: "u1", Quantity: 1, ExpiresAt: now.Add(time.Minute),
	})

	deleted, err := repo.DeleteSale(ctx, saleID)
	if err != nil {
		t.Fatalf("delete sale: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to remove the sale")
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM reservations`).Scan(&count); err != nil {
		t.Fatalf("count reservations: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected cascade to remove reservations, found %d", count)
	}
}

func TestCreateItemConstraints(t *testing.T) {
	ctx, pool, repo := setupAdminTest(t)

	now := time.Now().UTC()
	saleID := testutil.InsertSale(t, ctx, pool, "constrained", now.Add(-time.Hour), now.Add(time.Hour), domain.SaleStatusActive)

	item := domain.Item{
		ID:            uuid.New(),
		SaleID:        saleID,
		ProductID:     uuid.New(),
		SalePrice:     199.99,
		TotalQuantity: 25,
		PerUserLimit:  2,
	}
	if err := repo.CreateItem(ctx, item); err != nil {
		t.Fatalf("create item: %v", err)
	}

	dup := item
	dup.ID = uuid.New()
	if err := repo.CreateItem(ctx, dup); !errors.Is(err, domain.ErrDuplicateItem) {
		t.Fatalf("expected ErrDuplicateItem, got %v", err)
	}

	orphan := item
	orphan.ID = uuid.New()
	orphan.ProductID = uuid.New()
	orphan.SaleID = uuid.New()
	if err := repo.CreateItem(ctx, orphan); !errors.Is(err, domain.ErrSaleNotFound) {
		t.Fatalf("expected ErrSaleNotFound, got %v", err)
	}
}

func TestUpdateItemShrinkGuard(t *testing.T) {
	ctx, pool, repo := setupAdminTest(t)

	now := time.Now().UTC()
	saleID := testutil.InsertSale(t, ctx, pool, "shrink", now.Add(-time.Hour), now.Add(time.Hour), domain.SaleStatusActive)
	itemID := testutil.InsertItem(t, ctx, pool, saleID, domain.Item{TotalQuantity: 20, Reserved: 4, Sold: 6})

	item, err := repo.GetItem(ctx, itemID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}

	item.TotalQuantity = 9
	updated, err := repo.UpdateItem(ctx, item)
	if err != nil {
		t.Fatalf("update item: %v", err)
	}
	if updated {
		t.Fatal("expected shrink below reserved+sold to be a no-op")
	}

	item.TotalQuantity = 10
	updated, err = repo.UpdateItem(ctx, item)
	if err != nil {
		t.Fatalf("update item to exact floor: %v", err)
	}
	if !updated {
		t.Fatal("expected shrink to the floor to apply")
	}
}
