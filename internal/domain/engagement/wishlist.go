package engagement

import (
	"time"

	"github.com/google/uuid"

	"github.com/vclothes/backend/internal/domain/shared"
)

// Wishlist is a user's saved-product list. One wishlist exists per user;
// items are unordered beyond insertion order and hold no price or stock data.
type Wishlist struct {
	shared.BaseAggregateRoot
	UserID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex"`
	Items  []WishlistItem `gorm:"foreignKey:WishlistID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Wishlist) TableName() string {
	return "wishlists"
}

// WishlistItem is one saved product on a wishlist
type WishlistItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	WishlistID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_item_product,priority:1"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_item_product,priority:2"`
	AddedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (WishlistItem) TableName() string {
	return "wishlist_items"
}

// NewWishlist creates an empty wishlist for a user
func NewWishlist(userID uuid.UUID) (*Wishlist, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "User is required")
	}
	return &Wishlist{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
	}, nil
}

// Contains returns true when the product is already on the list
func (w *Wishlist) Contains(productID uuid.UUID) bool {
	for i := range w.Items {
		if w.Items[i].ProductID == productID {
			return true
		}
	}
	return false
}

// AddProduct adds a product to the list. Adding a product twice is a no-op.
func (w *Wishlist) AddProduct(productID uuid.UUID) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_INPUT", "Product is required")
	}
	if w.Contains(productID) {
		return nil
	}
	w.Items = append(w.Items, WishlistItem{
		ID:         uuid.New(),
		WishlistID: w.ID,
		ProductID:  productID,
		AddedAt:    time.Now(),
	})
	w.UpdatedAt = time.Now()
	return nil
}

// RemoveProduct removes a product from the list
func (w *Wishlist) RemoveProduct(productID uuid.UUID) error {
	for i := range w.Items {
		if w.Items[i].ProductID == productID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			w.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Product is not on the wishlist")
}
