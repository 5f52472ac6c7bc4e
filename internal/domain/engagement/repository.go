package engagement

import (
	"context"

	"github.com/google/uuid"

	"github.com/vclothes/backend/internal/domain/shared"
)

// WishlistRepository defines persistence operations for wishlists
type WishlistRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Wishlist, error)
	FindByUser(ctx context.Context, userID uuid.UUID) (*Wishlist, error)
	Save(ctx context.Context, wishlist *Wishlist) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotificationRepository defines persistence operations for notifications
type NotificationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	Save(ctx context.Context, notification *Notification) error
	Delete(ctx context.Context, id uuid.UUID) error
}
