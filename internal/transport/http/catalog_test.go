package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/duongtapcode03/lmobile-flashsale/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	sales []domain.FlashSale
	items []domain.Item
	item  domain.Item
	err   error
}

func (s *stubCatalog) ListActiveSales(context.Context) ([]domain.FlashSale, error) {
	return s.sales, s.err
}

func (s *stubCatalog) ListItems(context.Context, uuid.UUID) ([]domain.Item, error) {
	return s.items, s.err
}

func (s *stubCatalog) Availability(context.Context, uuid.UUID, uuid.UUID) (domain.Item, error) {
	return s.item, s.err
}

func newCatalogRouter(catalog *stubCatalog) http.Handler {
	return NewRouter(RouterConfig{Catalog: catalog})
}

func TestListActiveSalesEndpoint(t *testing.T) {
	sale := domain.FlashSale{
		ID:       uuid.New(),
		Name:     "flagship friday",
		StartsAt: time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC),
		Status:   domain.SaleStatusActive,
	}
	router := newCatalogRouter(&stubCatalog{sales: []domain.FlashSale{sale}})

	req := httptest.NewRequest(http.MethodGet, "/flash-sales", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []saleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, sale.ID.String(), got[0].ID)
	require.Equal(t, "active", got[0].Status)
}

func TestListActiveSalesEmpty(t *testing.T) {
	router := newCatalogRouter(&stubCatalog{})

	req := httptest.NewRequest(http.MethodGet, "/flash-sales", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// An empty list, never null.
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestListSaleItemsEndpoint(t *testing.T) {
	saleID := uuid.New()
	item := domain.Item{
		ID:            uuid.New(),
		SaleID:        saleID,
		ProductID:     uuid.New(),
		SalePrice:     899.50,
		TotalQuantity: 30,
		Reserved:      4,
		Sold:          6,
		PerUserLimit:  2,
	}
	router := newCatalogRouter(&stubCatalog{items: []domain.Item{item}})

	req := httptest.NewRequest(http.MethodGet, "/flash-sales/"+saleID.String()+"/items", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []itemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, 20, got[0].Available)
}

func TestListSaleItemsUnknownSale(t *testing.T) {
	router := newCatalogRouter(&stubCatalog{err: domain.ErrSaleNotFound})

	req := httptest.NewRequest(http.MethodGet, "/flash-sales/"+uuid.New().String()+"/items", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, codeSaleNotFound, resp.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	saleID := uuid.New()
	productID := uuid.New()
	item := domain.Item{
		ID:            uuid.New(),
		SaleID:        saleID,
		ProductID:     productID,
		TotalQuantity: 10,
		Reserved:      3,
	}
	router := newCatalogRouter(&stubCatalog{item: item})

	path := "/flash-sales/" + saleID.String() + "/items/" + productID.String() + "/availability"
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got itemResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 7, got.Available)
}

func TestAvailabilityBadIDs(t *testing.T) {
	router := newCatalogRouter(&stubCatalog{})

	paths := []string{
		"/flash-sales/nope/items/" + uuid.New().String() + "/availability",
		"/flash-sales/" + uuid.New().String() + "/items/nope/availability",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, codeInvalidID, resp.Code)
	}
}
