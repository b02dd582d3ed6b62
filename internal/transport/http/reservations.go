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

// StockReserver is the minimal interface needed to place a hold.
type StockReserver interface {
	Reserve(ctx context.Context, in app.ReserveInput) (domain.Reservation, error)
}

// ReservationResolver finalizes or abandons a hold.
type ReservationResolver interface {
	Commit(ctx context.Context, id uuid.UUID) (domain.Reservation, error)
	Release(ctx context.Context, id uuid.UUID) (domain.Reservation, error)
}

// HandleCreateReservation returns an HTTP handler for placing holds.
func HandleCreateReservation(svc StockReserver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createReservationRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		itemID, err := uuid.Parse(req.ItemID)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
			return
		}
		if req.HolderID == "" {
			writeError(w, http.StatusBadRequest, codeHolderRequired, domain.ErrHolderRequired.Error())
			return
		}
		if req.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, codeInvalidQuantity, domain.ErrInvalidQuantity.Error())
			return
		}

		res, err := svc.Reserve(r.Context(), app.ReserveInput{
			ItemID:   itemID,
			HolderID: req.HolderID,
			Quantity: req.Quantity,
			TTL:      time.Duration(req.TTLSeconds) * time.Second,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(newReservationResponse(res))
	}
}

// HandleCommitReservation returns an HTTP handler for finalizing holds.
func HandleCommitReservation(svc ReservationResolver) http.HandlerFunc {
	return resolveHandler(func(ctx context.Context, id uuid.UUID) (domain.Reservation, error) {
		return svc.Commit(ctx, id)
	})
}

// HandleReleaseReservation returns an HTTP handler for abandoning holds.
func HandleReleaseReservation(svc ReservationResolver) http.HandlerFunc {
	return resolveHandler(func(ctx context.Context, id uuid.UUID) (domain.Reservation, error) {
		return svc.Release(ctx, id)
	})
}

func resolveHandler(resolve func(ctx context.Context, id uuid.UUID) (domain.Reservation, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidID, domain.ErrInvalidID.Error())
			return
		}

		res, err := resolve(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(newReservationResponse(res))
	}
}

type createReservationRequest struct {
	ItemID     string `json:"item_id"`
	HolderID   string `json:"holder_id"`
	Quantity   int    `json:"quantity"`
	TTLSeconds int    `json:"ttl_seconds,omitempty"`
}

type reservationResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	HolderID  string    `json:"holder_id"`
	Quantity  int       `json:"quantity"`
	State     string    `json:"state"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newReservationResponse(res domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:        res.ID.String(),
		ItemID:    res.ItemID.String(),
		HolderID:  res.HolderID,
		Quantity:  res.Quantity,
		State:     string(res.State),
		ExpiresAt: res.ExpiresAt,
	}
}
