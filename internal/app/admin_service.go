package app

import (
	"context"
	"time"

	"github.com/duongtapcode03/lmobile-flashsale/internal/clock"
	"github.com/duongtapcode03/lmobile-flashsale/internal/domain"
	"github.com/google/uuid"
)

type AdminRepository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	CreateSale(ctx context.Context, sale domain.FlashSale) error
	GetSale(ctx context.Context, id uuid.UUID) (domain.FlashSale, error)
	GetSaleForUpdate(ctx context.Context, id uuid.UUID) (domain.FlashSale, error)
	UpdateSale(ctx context.Context, sale domain.FlashSale, expectStatus domain.SaleStatus) (bool, error)
	SetSaleStatus(ctx context.Context, id uuid.UUID, from, to domain.SaleStatus) (bool, error)
	DeleteSale(ctx context.Context, id uuid.UUID) (bool, error)
	CreateItem(ctx context.Context, item domain.Item) error
	GetItem(ctx context.Context, id uuid.UUID) (domain.Item, error)
	UpdateItem(ctx context.Context, item domain.Item) (bool, error)
	DeleteItem(ctx context.Context, id uuid.UUID) (bool, error)
	ListItemsBySale(ctx context.Context, saleID uuid.UUID) ([]domain.Item, error)
}

type AdminService struct {
	repo         AdminRepository
	reservations HeldReleaser
	clock        clock.Clock
	notifier     Notifier
}

func NewAdminService(repo AdminRepository, reservations HeldReleaser, clk clock.Clock, notifier Notifier) *AdminService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &AdminService{
		repo:         repo,
		reservations: reservations,
		clock:        clk,
		notifier:     notifier,
	}
}

type CreateSaleInput struct {
	Name     string
	StartsAt time.Time
	EndsAt   time.Time
}

// CreateSale registers a campaign. A window that has already opened starts
// the sale active immediately instead of waiting for the scheduler.
func (s *AdminService) CreateSale(ctx context.Context, in CreateSaleInput) (domain.FlashSale, error) {
	if in.Name == "" {
		return domain.FlashSale{}, domain.ErrNameRequired
	}
	if !in.StartsAt.Before(in.EndsAt) {
		return domain.FlashSale{}, domain.ErrInvalidWindow
	}

	now := s.clock.Now()
	status := domain.SaleStatusScheduled
	if !in.StartsAt.After(now) {
		status = domain.SaleStatusActive
	}

	sale := domain.FlashSale{
		ID:        uuid.New(),
		Name:      in.Name,
		StartsAt:  in.StartsAt,
		EndsAt:    in.EndsAt,
		Status:    status,
		CreatedAt: now,
	}
	if err := s.repo.CreateSale(ctx, sale); err != nil {
		return domain.FlashSale{}, err
	}
	return sale, nil
}

type UpdateSaleInput struct {
	SaleID   uuid.UUID
	Name     *string
	StartsAt *time.Time
	EndsAt   *time.Time
}

// UpdateSale edits a campaign. The time window may only change while the
// sale is still scheduled; the update is guarded on the status read here
// so a concurrent activation makes it a clean failure, not a lost write.
func (s *AdminService) UpdateSale(ctx context.Context, in UpdateSaleInput) (domain.FlashSale, error) {
	var result domain.FlashSale

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		sale, err := s.repo.GetSaleForUpdate(txCtx, in.SaleID)
		if err != nil {
			return err
		}
		if sale.Finished() {
			return domain.ErrSaleFinished
		}

		windowChange := in.StartsAt != nil || in.EndsAt != nil
		if windowChange && sale.Status != domain.SaleStatusScheduled {
			return domain.ErrSaleNotEditable
		}

		if in.Name != nil {
			if *in.Name == "" {
				return domain.ErrNameRequired
			}
			sale.Name = *in.Name
		}
		if in.StartsAt != nil {
			sale.StartsAt = *in.StartsAt
		}
		if in.EndsAt != nil {
			sale.EndsAt = *in.EndsAt
		}
		if !sale.StartsAt.Before(sale.EndsAt) {
			return domain.ErrInvalidWindow
		}

		updated, err := s.repo.UpdateSale(txCtx, sale, sale.Status)
		if err != nil {
			return err
		}
		if !updated {
			return domain.ErrSaleNotEditable
		}
		result = sale
		return nil
	})
	if err != nil {
		return domain.FlashSale{}, err
	}
	return result, nil
}

// CancelSale force-cancels a scheduled or active campaign. Cancelling an
// active sale releases its outstanding holds so stock is not locked forever.
func (s *AdminService) CancelSale(ctx context.Context, id uuid.UUID) (domain.FlashSale, error) {
	var (
		result domain.FlashSale
		from   domain.SaleStatus
	)

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		sale, err := s.repo.GetSaleForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if sale.Finished() {
			return domain.ErrSaleFinished
		}

		flipped, err := s.repo.SetSaleStatus(txCtx, id, sale.Status, domain.SaleStatusCancelled)
		if err != nil {
			return err
		}
		if !flipped {
			return domain.ErrSaleFinished
		}

		from = sale.Status
		sale.Status = domain.SaleStatusCancelled
		result = sale
		return nil
	})
	if err != nil {
		return domain.FlashSale{}, err
	}

	if from == domain.SaleStatusActive {
		if _, err := s.reservations.ReleaseHeldForSale(ctx, id); err != nil {
			return result, err
		}
	}

	s.notifier.Notify(domain.TransitionEvent{
		SaleID: id,
		From:   from,
		To:     domain.SaleStatusCancelled,
		At:     s.clock.Now(),
	})
	return result, nil
}

// DeleteSale removes a campaign, cascading to its items and reservations.
func (s *AdminService) DeleteSale(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeleteSale(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrSaleNotFound
	}
	return nil
}

type AddItemInput struct {
	SaleID        uuid.UUID
	ProductID     uuid.UUID
	SalePrice     float64
	RegularPrice  float64
	TotalQuantity int
	PerUserLimit  int
}

func (s *AdminService) AddItem(ctx context.Context, in AddItemInput) (domain.Item, error) {
	if in.SalePrice <= 0 || in.SalePrice >= in.RegularPrice {
		return domain.Item{}, domain.ErrInvalidPrice
	}
	if in.TotalQuantity <= 0 {
		return domain.Item{}, domain.ErrInvalidQuantity
	}
	if in.PerUserLimit <= 0 {
		return domain.Item{}, domain.ErrInvalidLimit
	}

	sale, err := s.repo.GetSale(ctx, in.SaleID)
	if err != nil {
		return domain.Item{}, err
	}
	if sale.Finished() {
		return domain.Item{}, domain.ErrSaleFinished
	}

	item := domain.Item{
		ID:            uuid.New(),
		SaleID:        in.SaleID,
		ProductID:     in.ProductID,
		SalePrice:     in.SalePrice,
		TotalQuantity: in.TotalQuantity,
		PerUserLimit:  in.PerUserLimit,
	}
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

type UpdateItemInput struct {
	ItemID        uuid.UUID
	SalePrice     *float64
	RegularPrice  float64
	TotalQuantity *int
	PerUserLimit  *int
}

// UpdateItem edits an allocation. Shrinking the total below what is already
// reserved plus sold is rejected by a guarded update.
func (s *AdminService) UpdateItem(ctx context.Context, in UpdateItemInput) (domain.Item, error) {
	var result domain.Item

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		item, err := s.repo.GetItem(txCtx, in.ItemID)
		if err != nil {
			return err
		}
		sale, err := s.repo.GetSale(txCtx, item.SaleID)
		if err != nil {
			return err
		}
		if sale.Finished() {
			return domain.ErrSaleFinished
		}

		if in.SalePrice != nil {
			if *in.SalePrice <= 0 || *in.SalePrice >= in.RegularPrice {
				return domain.ErrInvalidPrice
			}
			item.SalePrice = *in.SalePrice
		}
		if in.TotalQuantity != nil {
			if *in.TotalQuantity <= 0 {
				return domain.ErrInvalidQuantity
			}
			item.TotalQuantity = *in.TotalQuantity
		}
		if in.PerUserLimit != nil {
			if *in.PerUserLimit <= 0 {
				return domain.ErrInvalidLimit
			}
			item.PerUserLimit = *in.PerUserLimit
		}

		updated, err := s.repo.UpdateItem(txCtx, item)
		if err != nil {
			return err
		}
		if !updated {
			return domain.ErrQuantityTooLow
		}
		result = item
		return nil
	})
	if err != nil {
		return domain.Item{}, err
	}
	return result, nil
}

func (s *AdminService) RemoveItem(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeleteItem(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrItemNotFound
	}
	return nil
}

type SaleStats struct {
	SaleID         uuid.UUID
	Status         domain.SaleStatus
	Items          []domain.Item
	TotalQuantity  int
	Reserved       int
	Sold           int
	ConversionRate float64
}

// Stats aggregates stock counters for a campaign. Conversion rate is
// sold over total allocation, zero when nothing is allocated.
func (s *AdminService) Stats(ctx context.Context, saleID uuid.UUID) (SaleStats, error) {
	sale, err := s.repo.GetSale(ctx, saleID)
	if err != nil {
		return SaleStats{}, err
	}
	items, err := s.repo.ListItemsBySale(ctx, saleID)
	if err != nil {
		return SaleStats{}, err
	}

	stats := SaleStats{
		SaleID: sale.ID,
		Status: sale.Status,
		Items:  items,
	}
	for _, item := range items {
		stats.TotalQuantity += item.TotalQuantity
		stats.Reserved += item.Reserved
		stats.Sold += item.Sold
	}
	if stats.TotalQuantity > 0 {
		stats.ConversionRate = float64(stats.Sold) / float64(stats.TotalQuantity)
	}
	return stats, nil
}
