package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/duongtapcode03/lmobile-flashsale/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CatalogReader is the minimal interface for the public read endpoints.
type CatalogReader interface {
	ListActiveSales(ctx context.Context) ([]domain.FlashSale, error)
	ListItems(ctx context.Context, saleID uuid.UUID) ([]domain.Item, error)
	Availability(ctx context.Context, saleID, productID uuid.UUID) (domain.Item, error)
}

// HandleListActiveSales returns an HTTP handler listing running campaigns.
func HandleListActiveSales(svc CatalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sales, err := svc.ListActiveSales(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := make([]saleResponse, 0, len(sales))
		for _, sale := range sales {
			resp = append(resp, newSaleResponse(sale))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleListSaleItems returns an HTTP handler listing a campaign's items
// with live availability.
func HandleListSaleItems(svc CatalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
			return
		}

		items, err := svc.ListItems(r.Context(), saleID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		resp := make([]itemResponse, 0, len(items))
		for _, item := range items {
			resp = append(resp, newItemResponse(item))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleAvailability returns an HTTP handler for a single product's
// availability within a campaign.
func HandleAvailability(svc CatalogReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
			return
		}
		productID, err := uuid.Parse(chi.URLParam(r, "productID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
			return
		}

		item, err := svc.Availability(r.Context(), saleID, productID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newItemResponse(item))
	}
}

type saleResponse struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Status   string    `json:"status"`
}

func newSaleResponse(sale domain.FlashSale) saleResponse {
	return saleResponse{
		ID:       sale.ID.String(),
		Name:     sale.Name,
		StartsAt: sale.StartsAt,
		EndsAt:   sale.EndsAt,
		Status:   string(sale.Status),
	}
}

type itemResponse struct {
	ID            string  `json:"id"`
	SaleID        string  `json:"flash_sale_id"`
	ProductID     string  `json:"product_id"`
	SalePrice     float64 `json:"sale_price"`
	TotalQuantity int     `json:"total_quantity"`
	Reserved      int     `json:"reserved"`
	Sold          int     `json:"sold"`
	PerUserLimit  int     `json:"per_user_limit"`
	Available     int     `json:"available"`
}

func newItemResponse(item domain.Item) itemResponse {
	return itemResponse{
		ID:            item.ID.String(),
		SaleID:        item.SaleID.String(),
		ProductID:     item.ProductID.String(),
		SalePrice:     item.SalePrice,
		TotalQuantity: item.TotalQuantity,
		Reserved:      item.Reserved,
		Sold:          item.Sold,
		PerUserLimit:  item.PerUserLimit,
		Available:     item.Available(),
	}
}
