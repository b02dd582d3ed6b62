package domain

import (
	"time"

	"github.com/google/uuid"
)

type ReservationState string

const (
	ReservationHeld      ReservationState = "held"
	ReservationCommitted ReservationState = "committed"
	ReservationReleased  ReservationState = "released"
	ReservationExpired   ReservationState = "expired"
)

// Reservation is a temporary claim on item stock made during checkout.
// A held reservation always has its quantity counted in the item's
// reserved pool; exactly one terminal transition occurs per reservation.
type Reservation struct {
	ID        uuid.UUID
	ItemID    uuid.UUID
	HolderID  string
	Quantity  int
	State     ReservationState
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Terminal reports whether the reservation has been resolved.
func (r Reservation) Terminal() bool {
	return r.State != ReservationHeld
}
