package domain

import "github.com/google/uuid"

// Item is a per-product stock allocation inside a flash sale.
// Reserved+Sold never exceeds TotalQuantity; only the reservation
// service mutates the counters.
type Item struct {
	ID            uuid.UUID
	SaleID        uuid.UUID
	ProductID     uuid.UUID
	SalePrice     float64
	TotalQuantity int
	Reserved      int
	Sold          int
	PerUserLimit  int
}

// Available returns the stock still open to new holds.
func (i Item) Available() int {
	return i.TotalQuantity - i.Reserved - i.Sold
}
