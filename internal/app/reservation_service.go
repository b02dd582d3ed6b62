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

type ReservationRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetItemForUpdate(ctx context.Context, itemID uuid.UUID) (domain.Item, error)
	GetSale(ctx context.Context, saleID uuid.UUID) (domain.FlashSale, error)
	SumHolderQuantity(ctx context.Context, itemID uuid.UUID, holderID string, now time.Time) (int, error)
	AddReserved(ctx context.Context, itemID uuid.UUID, qty int) error
	CreateReservation(ctx context.Context, r domain.Reservation) error
	GetReservation(ctx context.Context, id uuid.UUID) (domain.Reservation, error)
	ResolveReservation(ctx context.Context, id uuid.UUID, to domain.ReservationState) (bool, error)
	CommitStock(ctx context.Context, itemID uuid.UUID, qty int) error
	ReturnStock(ctx context.Context, itemID uuid.UUID, qty int) error
	ListExpired(ctx context.Context, now time.Time) ([]domain.Reservation, error)
	ListHeldBySale(ctx context.Context, saleID uuid.UUID) ([]domain.Reservation, error)
}

type ReservationService struct {
	repo  ReservationRepository
	clock clock.Clock
	ttl   time.Duration
}

const defaultReservationTTL = 10 * time.Minute

func NewReservationService(repo ReservationRepository, clk clock.Clock, opts ...ReservationServiceOption) *ReservationService {
	svc := &ReservationService{
		repo:  repo,
		clock: clk,
		ttl:   defaultReservationTTL,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ReservationServiceOption func(*ReservationService)

// WithReservationTTL overrides the default TTL for new holds.
func WithReservationTTL(d time.Duration) ReservationServiceOption {
	return func(s *ReservationService) {
		if d > 0 {
			s.ttl = d
		}
	}
}

type ReserveInput struct {
	ItemID   uuid.UUID
	HolderID string
	Quantity int
	// TTL overrides the service default when positive.
	TTL time.Duration
}

// Reserve places a hold on item stock. The reserved counter is moved by a
// guarded update so concurrent holds for the last units cannot oversell.
func (s *ReservationService) Reserve(ctx context.Context, in ReserveInput) (domain.Reservation, error) {
	if in.Quantity <= 0 {
		return domain.Reservation{}, domain.ErrInvalidQuantity
	}
	if in.HolderID == "" {
		return domain.Reservation{}, domain.ErrHolderRequired
	}

	ttl := s.ttl
	if in.TTL > 0 {
		ttl = in.TTL
	}
	now := s.clock.Now()
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		item, err := s.repo.GetItemForUpdate(txCtx, in.ItemID)
		if err != nil {
			return err
		}

		sale, err := s.repo.GetSale(txCtx, item.SaleID)
		if err != nil {
			return err
		}
		if sale.Status != domain.SaleStatusActive {
			return domain.ErrSaleNotActive
		}

		if item.PerUserLimit > 0 {
			held, err := s.repo.SumHolderQuantity(txCtx, in.ItemID, in.HolderID, now)
			if err != nil {
				return err
			}
			if held+in.Quantity > item.PerUserLimit {
				return domain.ErrLimitExceeded
			}
		}

		if err := s.repo.AddReserved(txCtx, in.ItemID, in.Quantity); err != nil {
			return err
		}

		result = domain.Reservation{
			ID:        uuid.New(),
			ItemID:    in.ItemID,
			HolderID:  in.HolderID,
			Quantity:  in.Quantity,
			State:     domain.ReservationHeld,
			CreatedAt: now,
			ExpiresAt: now.Add(ttl),
		}
		return s.repo.CreateReservation(txCtx, result)
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return result, nil
}

// Commit finalizes a held reservation: reserved stock becomes sold.
// A reservation that has already been resolved fails with ErrReservationDone.
func (s *ReservationService) Commit(ctx context.Context, id uuid.UUID) (domain.Reservation, error) {
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetReservation(txCtx, id)
		if err != nil {
			return err
		}
		if res.Terminal() {
			return domain.ErrReservationDone
		}

		flipped, err := s.repo.ResolveReservation(txCtx, id, domain.ReservationCommitted)
		if err != nil {
			return err
		}
		if !flipped {
			return domain.ErrReservationDone
		}

		if err := s.repo.CommitStock(txCtx, res.ItemID, res.Quantity); err != nil {
			return err
		}
		res.State = domain.ReservationCommitted
		result = res
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return result, nil
}

// Release returns held stock to the available pool. Releasing an already
// resolved reservation is a no-op success so network retries stay safe.
func (s *ReservationService) Release(ctx context.Context, id uuid.UUID) (domain.Reservation, error) {
	var result domain.Reservation

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		res, err := s.repo.GetReservation(txCtx, id)
		if err != nil {
			return err
		}
		if res.Terminal() {
			result = res
			return nil
		}

		flipped, err := s.repo.ResolveReservation(txCtx, id, domain.ReservationReleased)
		if err != nil {
			return err
		}
		if !flipped {
			// Lost a race against commit or cleanup; re-read for the caller.
			res, err = s.repo.GetReservation(txCtx, id)
			if err != nil {
				return err
			}
			result = res
			return nil
		}

		if err := s.repo.ReturnStock(txCtx, res.ItemID, res.Quantity); err != nil {
			return err
		}
		res.State = domain.ReservationReleased
		result = res
		return nil
	})
	if err != nil {
		return domain.Reservation{}, err
	}
	return result, nil
}

// CleanupExpired expires stale holds and returns their stock. Each
// reservation is resolved independently so one failure does not block
// the rest of the sweep.
func (s *ReservationService) CleanupExpired(ctx context.Context) (int, error) {
	now := s.clock.Now()
	stale, err := s.repo.ListExpired(ctx, now)
	if err != nil {
		return 0, err
	}

	cleaned := 0
	var errs []error
	for _, res := range stale {
		n, err := s.resolveHeld(ctx, res, domain.ReservationExpired)
		if err != nil {
			errs = append(errs, fmt.Errorf("expire reservation %s: %w", res.ID, err))
			continue
		}
		cleaned += n
	}
	return cleaned, errors.Join(errs...)
}

// ReleaseHeldForSale releases every outstanding hold on the sale's items,
// used when a campaign ends or is cancelled.
func (s *ReservationService) ReleaseHeldForSale(ctx context.Context, saleID uuid.UUID) (int, error) {
	held, err := s.repo.ListHeldBySale(ctx, saleID)
	if err != nil {
		return 0, err
	}

	released := 0
	var errs []error
	for _, res := range held {
		n, err := s.resolveHeld(ctx, res, domain.ReservationReleased)
		if err != nil {
			errs = append(errs, fmt.Errorf("release reservation %s: %w", res.ID, err))
			continue
		}
		released += n
	}
	return released, errors.Join(errs...)
}

func (s *ReservationService) resolveHeld(ctx context.Context, res domain.Reservation, to domain.ReservationState) (int, error) {
	resolved := 0
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		flipped, err := s.repo.ResolveReservation(txCtx, res.ID, to)
		if err != nil {
			return err
		}
		if !flipped {
			// Already resolved by a concurrent caller.
			return nil
		}
		if err := s.repo.ReturnStock(txCtx, res.ItemID, res.Quantity); err != nil {
			return err
		}
		resolved = 1
		return nil
	})
	return resolved, err
}
