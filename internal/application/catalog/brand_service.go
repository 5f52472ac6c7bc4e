package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vclothes/backend/internal/domain/catalog"
	"github.com/vclothes/backend/internal/domain/shared"
)

// BrandService implements brand use cases
type BrandService struct {
	brandRepo catalog.BrandRepository
	logger    *zap.Logger
}

// NewBrandService creates a new brand service
func NewBrandService(brandRepo catalog.BrandRepository, logger *zap.Logger) *BrandService {
	return &BrandService{brandRepo: brandRepo, logger: logger}
}

// Create creates a brand
func (s *BrandService) Create(ctx context.Context, req *BrandRequest) (*BrandResponse, error) {
	if existing, err := s.brandRepo.FindByName(ctx, req.Name); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A brand with this name already exists")
	}

	brand, err := catalog.NewBrand(req.Name, req.Abbreviation)
	if err != nil {
		return nil, err
	}
	brand.Description = req.Description
	brand.LogoURL = req.LogoURL

	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}
	s.logger.Info("brand created", zap.String("brand_id", brand.ID.String()), zap.String("name", brand.Name))
	return ToBrandResponse(brand), nil
}

// Update updates a brand
func (s *BrandService) Update(ctx context.Context, id uuid.UUID, req *BrandRequest) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := brand.Update(req.Name, req.Abbreviation, req.Description, req.LogoURL); err != nil {
		return nil, err
	}
	if err := s.brandRepo.Save(ctx, brand); err != nil {
		return nil, err
	}
	return ToBrandResponse(brand), nil
}

// Get returns a brand by ID
func (s *BrandService) Get(ctx context.Context, id uuid.UUID) (*BrandResponse, error) {
	brand, err := s.brandRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToBrandResponse(brand), nil
}

// List returns a page of brands
func (s *BrandService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[BrandResponse], error) {
	total, err := s.brandRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	brands, err := s.brandRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]BrandResponse, 0, len(brands))
	for i := range brands {
		items = append(items, *ToBrandResponse(&brands[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Delete removes a brand
func (s *BrandService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.brandRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.brandRepo.Delete(ctx, id)
}
