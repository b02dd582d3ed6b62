package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransitionEvent records a flash sale status change. Emitted after the
// transition is committed; delivery is fire-and-forget.
type TransitionEvent struct {
	SaleID uuid.UUID
	From   SaleStatus
	To     SaleStatus
	At     time.Time
}
