package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/duongtapcode03/lmobile-flashsale/internal/app"
	"github.com/duongtapcode03/lmobile-flashsale/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// AdminSaleService covers the campaign-level admin endpoints.
type AdminSaleService interface {
	CreateSale(ctx context.Context, in app.CreateSaleInput) (domain.FlashSale, error)
	UpdateSale(ctx context.Context, in app.UpdateSaleInput) (domain.FlashSale, error)
	CancelSale(ctx context.Context, id uuid.UUID) (domain.FlashSale, error)
	DeleteSale(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context, saleID uuid.UUID) (app.SaleStats, error)
}

// AdminItemService covers the per-item admin endpoints.
type AdminItemService interface {
	AddItem(ctx context.Context, in app.AddItemInput) (domain.Item, error)
	UpdateItem(ctx context.Context, in app.UpdateItemInput) (domain.Item, error)
	RemoveItem(ctx context.Context, id uuid.UUID) error
}

// HandleCreateSale returns an HTTP handler for campaign creation.
func HandleCreateSale(svc AdminSaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSaleRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, codeNameRequired, domain.ErrNameRequired.Error())
			return
		}

		startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidTime, "invalid starts_at format")
			return
		}
		endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidTime, "invalid ends_at format")
			return
		}

		sale, err := svc.CreateSale(r.Context(), app.CreateSaleInput{
			Name:     req.Name,
			StartsAt: startsAt,
			EndsAt:   endsAt,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(newSaleResponse(sale))
	}
}

// HandleUpdateSale returns an HTTP handler for campaign edits.
func HandleUpdateSale(svc AdminSaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
			return
		}

		var req updateSaleRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		in := app.UpdateSaleInput{SaleID: saleID, Name: req.Name}
		if req.StartsAt != nil {
			parsed, err := time.Parse(time.RFC3339, *req.StartsAt)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidTime, "invalid starts_at format")
				return
			}
			in.StartsAt = &parsed
		}
		if req.EndsAt != nil {
			parsed, err := time.Parse(time.RFC3339, *req.EndsAt)
			if err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidTime, "invalid ends_at format")
				return
			}
			in.EndsAt = &parsed
		}

		sale, err := svc.UpdateSale(r.Context(), in)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newSaleResponse(sale))
	}
}

// HandleCancelSale returns an HTTP handler for force-cancelling a campaign.
func HandleCancelSale(svc AdminSaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
			return
		}

		sale, err := svc.CancelSale(r.Context(), saleID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newSaleResponse(sale))
	}
}

// HandleDeleteSale returns an HTTP handler for campaign deletion.
func HandleDeleteSale(svc AdminSaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
			return
		}

		if err := svc.DeleteSale(r.Context(), saleID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HandleSaleStats returns an HTTP handler for campaign stock statistics.
func HandleSaleStats(svc AdminSaleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
			return
		}

		stats, err := svc.Stats(r.Context(), saleID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		items := make([]itemResponse, 0, len(stats.Items))
		for _, item := range stats.Items {
			items = append(items, newItemResponse(item))
		}
		resp := saleStatsResponse{
			SaleID:         stats.SaleID.String(),
			Status:         string(stats.Status),
			Items:          items,
			TotalQuantity:  stats.TotalQuantity,
			Reserved:       stats.Reserved,
			Sold:           stats.Sold,
			ConversionRate: stats.ConversionRate,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// HandleAddItem returns an HTTP handler for adding a product to a campaign.
func HandleAddItem(svc AdminItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saleID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
			return
		}

		var req addItemRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
			return
		}

		item, err := svc.AddItem(r.Context(), app.AddItemInput{
			SaleID:        saleID,
			ProductID:     productID,
			SalePrice:     req.SalePrice,
			RegularPrice:  req.RegularPrice,
			TotalQuantity: req.TotalQuantity,
			PerUserLimit:  req.PerUserLimit,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(newItemResponse(item))
	}
}

// HandleUpdateItem returns an HTTP handler for allocation edits.
func HandleUpdateItem(svc AdminItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
			return
		}

		var req updateItemRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		item, err := svc.UpdateItem(r.Context(), app.UpdateItemInput{
			ItemID:        itemID,
			SalePrice:     req.SalePrice,
			RegularPrice:  req.RegularPrice,
			TotalQuantity: req.TotalQuantity,
			PerUserLimit:  req.PerUserLimit,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newItemResponse(item))
	}
}

// HandleRemoveItem returns an HTTP handler for removing a product from a
// campaign.
func HandleRemoveItem(svc AdminItemService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
			return
		}

		if err := svc.RemoveItem(r.Context(), itemID); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type createSaleRequest struct {
	Name     string `json:"name"`
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
}

type updateSaleRequest struct {
	Name     *string `json:"name,omitempty"`
	StartsAt *string `json:"starts_at,omitempty"`
	EndsAt   *string `json:"ends_at,omitempty"`
}

type addItemRequest struct {
	ProductID     string  `json:"product_id"`
	SalePrice     float64 `json:"sale_price"`
	RegularPrice  float64 `json:"regular_price"`
	TotalQuantity int     `json:"total_quantity"`
	PerUserLimit  int     `json:"per_user_limit"`
}

type updateItemRequest struct {
	SalePrice     *float64 `json:"sale_price,omitempty"`
	RegularPrice  float64  `json:"regular_price,omitempty"`
	TotalQuantity *int     `json:"total_quantity,omitempty"`
	PerUserLimit  *int     `json:"per_user_limit,omitempty"`
}

type saleStatsResponse struct {
	SaleID         string         `json:"flash_sale_id"`
	Status         string         `json:"status"`
	Items          []itemResponse `json:"items"`
	TotalQuantity  int            `json:"total_quantity"`
	Reserved       int            `json:"reserved"`
	Sold           int            `json:"sold"`
	ConversionRate float64        `json:"conversion_rate"`
}
