package engagement

import (
	"time"

	"github.com/google/uuid"

	"github.com/vclothes/backend/internal/domain/engagement"
)

// WishlistItemResponse is one saved product on a wishlist
type WishlistItemResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}

// WishlistResponse is the API representation of a wishlist
type WishlistResponse struct {
	ID     uuid.UUID              `json:"id"`
	UserID uuid.UUID              `json:"user_id"`
	Items  []WishlistItemResponse `json:"items"`
}

// ToWishlistResponse maps a wishlist aggregate to its API representation
func ToWishlistResponse(w *engagement.Wishlist) *WishlistResponse {
	items := make([]WishlistItemResponse, 0, len(w.Items))
	for i := range w.Items {
		items = append(items, WishlistItemResponse{
			ProductID: w.Items[i].ProductID,
			AddedAt:   w.Items[i].AddedAt,
		})
	}
	return &WishlistResponse{ID: w.ID, UserID: w.UserID, Items: items}
}

// NotifyRequest is the request to send a notification to a user
type NotifyRequest struct {
	RecipientID uuid.UUID      `json:"recipient_id" binding:"required"`
	Kind        string         `json:"kind"`
	Title       string         `json:"title" binding:"required"`
	Body        string         `json:"body"`
	Payload     map[string]any `json:"payload"`
}

// NotificationResponse is the API representation of a notification
type NotificationResponse struct {
	ID        uuid.UUID      `json:"id"`
	Kind      string         `json:"kind"`
	Title     string         `json:"title"`
	Body      string         `json:"body,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	Read      bool           `json:"read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ToNotificationResponse maps a notification to its API representation
func ToNotificationResponse(n *engagement.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		Kind:      string(n.Kind),
		Title:     n.Title,
		Body:      n.Body,
		Payload:   n.Payload,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}
