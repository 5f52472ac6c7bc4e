package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vclothes/backend/internal/domain/engagement"
	"github.com/vclothes/backend/internal/domain/shared"
)

// GormWishlistRepository implements engagement.WishlistRepository using GORM
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewGormWishlistRepository creates a new GormWishlistRepository
func NewGormWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// FindByID finds a wishlist with its items
func (r *GormWishlistRepository) FindByID(ctx context.Context, id uuid.UUID) (*engagement.Wishlist, error) {
	var wishlist engagement.Wishlist
	if err := r.preloadItems(r.db.WithContext(ctx)).First(&wishlist, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wishlist, nil
}

// FindByUser finds the wishlist owned by the given user
func (r *GormWishlistRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*engagement.Wishlist, error) {
	var wishlist engagement.Wishlist
	if err := r.preloadItems(r.db.WithContext(ctx)).First(&wishlist, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wishlist, nil
}

// Save creates or updates a wishlist and prunes removed items
func (r *GormWishlistRepository) Save(ctx context.Context, wishlist *engagement.Wishlist) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(wishlist).Error; err != nil {
			return translateError(err)
		}

		itemIDs := make([]uuid.UUID, 0, len(wishlist.Items))
		for i := range wishlist.Items {
			itemIDs = append(itemIDs, wishlist.Items[i].ID)
		}
		query := tx.Where("wishlist_id = ?", wishlist.ID)
		if len(itemIDs) > 0 {
			query = query.Where("id NOT IN ?", itemIDs)
		}
		return query.Delete(&engagement.WishlistItem{}).Error
	})
}

// Delete deletes a wishlist; items cascade
func (r *GormWishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&engagement.Wishlist{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// preloadItems attaches wishlist items oldest-first
func (r *GormWishlistRepository) preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("wishlist_items.added_at ASC")
	})
}

// GormNotificationRepository implements engagement.NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by its ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*engagement.Notification, error) {
	var notification engagement.Notification
	if err := r.db.WithContext(ctx).First(&notification, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// FindByRecipient finds notifications addressed to the given user, newest first
func (r *GormNotificationRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) ([]engagement.Notification, error) {
	query := r.db.WithContext(ctx).Model(&engagement.Notification{}).Where("recipient_id = ?", recipientID)

	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "read":
			query = query.Where("read = ?", value)
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var notifications []engagement.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnread counts unread notifications addressed to the given user
func (r *GormNotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&engagement.Notification{}).
		Where("recipient_id = ? AND read = false", recipientID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, notification *engagement.Notification) error {
	if err := r.db.WithContext(ctx).Save(notification).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Delete deletes a notification
func (r *GormNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&engagement.Notification{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure interfaces are implemented
var (
	_ engagement.WishlistRepository     = (*GormWishlistRepository)(nil)
	_ engagement.NotificationRepository = (*GormNotificationRepository)(nil)
)
