package engagement

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vclothes/backend/internal/domain/catalog"
	"github.com/vclothes/backend/internal/domain/engagement"
	"github.com/vclothes/backend/internal/domain/shared"
)

// WishlistService implements wishlist use cases. Each user has a single
// wishlist, created lazily on first access.
type WishlistService struct {
	wishlistRepo engagement.WishlistRepository
	productRepo  catalog.ProductRepository
	logger       *zap.Logger
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(
	wishlistRepo engagement.WishlistRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
		logger:       logger,
	}
}

// Get returns the user's wishlist, creating an empty one if none exists yet
func (s *WishlistService) Get(ctx context.Context, userID uuid.UUID) (*WishlistResponse, error) {
	wishlist, err := s.findOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToWishlistResponse(wishlist), nil
}

// AddProduct puts a product on the user's wishlist. Adding a product that is
// already on the list is a no-op.
func (s *WishlistService) AddProduct(ctx context.Context, userID, productID uuid.UUID) (*WishlistResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	wishlist, err := s.findOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := wishlist.AddProduct(productID); err != nil {
		return nil, err
	}
	if err := s.wishlistRepo.Save(ctx, wishlist); err != nil {
		return nil, err
	}
	return ToWishlistResponse(wishlist), nil
}

// RemoveProduct takes a product off the user's wishlist
func (s *WishlistService) RemoveProduct(ctx context.Context, userID, productID uuid.UUID) (*WishlistResponse, error) {
	wishlist, err := s.wishlistRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := wishlist.RemoveProduct(productID); err != nil {
		return nil, err
	}
	if err := s.wishlistRepo.Save(ctx, wishlist); err != nil {
		return nil, err
	}
	return ToWishlistResponse(wishlist), nil
}

func (s *WishlistService) findOrCreate(ctx context.Context, userID uuid.UUID) (*engagement.Wishlist, error) {
	wishlist, err := s.wishlistRepo.FindByUser(ctx, userID)
	if err == nil {
		return wishlist, nil
	}

	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		return nil, err
	}

	wishlist, err = engagement.NewWishlist(userID)
	if err != nil {
		return nil, err
	}
	if err := s.wishlistRepo.Save(ctx, wishlist); err != nil {
		return nil, err
	}
	return wishlist, nil
}
