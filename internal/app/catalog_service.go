package app

import (
	"context"

	"github.com/duongtapcode03/lmobile-flashsale/internal/domain"
	"github.com/google/uuid"
)

type CatalogRepository interface {
	ListActiveSales(ctx context.Context) ([]domain.FlashSale, error)
	GetSale(ctx context.Context, id uuid.UUID) (domain.FlashSale, error)
	ListItemsBySale(ctx context.Context, saleID uuid.UUID) ([]domain.Item, error)
	GetItemByProduct(ctx context.Context, saleID, productID uuid.UUID) (domain.Item, error)
}

// CatalogService serves the public read paths. Availability is always
// computed from the live counters, so it reflects holds the moment they
// are placed.
type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) ListActiveSales(ctx context.Context) ([]domain.FlashSale, error) {
	return s.repo.ListActiveSales(ctx)
}

func (s *CatalogService) ListItems(ctx context.Context, saleID uuid.UUID) ([]domain.Item, error) {
	if _, err := s.repo.GetSale(ctx, saleID); err != nil {
		return nil, err
	}
	return s.repo.ListItemsBySale(ctx, saleID)
}

func (s *CatalogService) Availability(ctx context.Context, saleID, productID uuid.UUID) (domain.Item, error) {
	if _, err := s.repo.GetSale(ctx, saleID); err != nil {
		return domain.Item{}, err
	}
	return s.repo.GetItemByProduct(ctx, saleID, productID)
}
