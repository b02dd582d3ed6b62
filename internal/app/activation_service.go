package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/duongtapcode03/lmobile-flashsale/internal/clock"
	"github.com/duongtapcode03/lmobile-flashsale/internal/domain"
	"github.com/google/uuid"
)

type ActivationRepository interface {
	ActivateDue(ctx context.Context, now time.Time) ([]domain.FlashSale, error)
	CloseDue(ctx context.Context, now time.Time) ([]domain.FlashSale, error)
}

// HeldReleaser returns a sale's outstanding held stock to the pool.
type HeldReleaser interface {
	ReleaseHeldForSale(ctx context.Context, saleID uuid.UUID) (int, error)
}

// ActivationService reconciles flash sale status with the clock. Both
// operations rely on status-guarded updates, so overlapping runs cannot
// double-transition a campaign.
type ActivationService struct {
	repo         ActivationRepository
	reservations HeldReleaser
	clock        clock.Clock
	notifier     Notifier
}

func NewActivationService(repo ActivationRepository, reservations HeldReleaser, clk clock.Clock, notifier Notifier) *ActivationService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ActivationService{
		repo:         repo,
		reservations: reservations,
		clock:        clk,
		notifier:     notifier,
	}
}

// ActivateDue moves every scheduled sale whose start time has arrived to
// active. Re-running with no due sales performs no writes.
func (s *ActivationService) ActivateDue(ctx context.Context) (int, error) {
	now := s.clock.Now()
	sales, err := s.repo.ActivateDue(ctx, now)
	if err != nil {
		return 0, err
	}

	for _, sale := range sales {
		s.notifier.Notify(domain.TransitionEvent{
			SaleID: sale.ID,
			From:   domain.SaleStatusScheduled,
			To:     domain.SaleStatusActive,
			At:     now,
		})
	}
	return len(sales), nil
}

// CloseDue moves every active sale past its end time to ended and releases
// the holds still outstanding on its items. A release failure for one sale
// is collected and does not block the others.
func (s *ActivationService) CloseDue(ctx context.Context) (int, error) {
	now := s.clock.Now()
	sales, err := s.repo.CloseDue(ctx, now)
	if err != nil {
		return 0, err
	}

	var errs []error
	for _, sale := range sales {
		if _, err := s.reservations.ReleaseHeldForSale(ctx, sale.ID); err != nil {
			errs = append(errs, fmt.Errorf("release holds for sale %s: %w", sale.ID, err))
		}
		s.notifier.Notify(domain.TransitionEvent{
			SaleID: sale.ID,
			From:   domain.SaleStatusActive,
			To:     domain.SaleStatusEnded,
			At:     now,
		})
	}
	return len(sales), errors.Join(errs...)
}
