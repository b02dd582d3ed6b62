package domain

import (
	"time"

	"github.com/google/uuid"
)

type SaleStatus string

const (
	SaleStatusScheduled SaleStatus = "scheduled"
	SaleStatusActive    SaleStatus = "active"
	SaleStatusEnded     SaleStatus = "ended"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// FlashSale is a time-boxed campaign offering discounted, quantity-limited
// stock. Status is reconciled against the clock by the activation service;
// consumers must tolerate it being up to one scheduler interval stale.
type FlashSale struct {
	ID        uuid.UUID
	Name      string
	StartsAt  time.Time
	EndsAt    time.Time
	Status    SaleStatus
	CreatedAt time.Time
}

// Finished reports whether the sale is in a terminal status.
func (s FlashSale) Finished() bool {
	return s.Status == SaleStatusEnded || s.Status == SaleStatusCancelled
}
