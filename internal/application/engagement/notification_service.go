package engagement

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vclothes/backend/internal/domain/engagement"
	"github.com/vclothes/backend/internal/domain/shared"
)

// NotificationService implements in-app notification use cases
type NotificationService struct {
	notificationRepo engagement.NotificationRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo engagement.NotificationRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, logger: logger}
}

// Notify delivers a notification to a user
func (s *NotificationService) Notify(ctx context.Context, req *NotifyRequest) (*NotificationResponse, error) {
	kind := engagement.NotificationKind(req.Kind)
	if req.Kind == "" {
		kind = engagement.NotificationKindGeneral
	}

	notification, err := engagement.NewNotification(req.RecipientID, kind, req.Title, req.Body, req.Payload)
	if err != nil {
		return nil, err
	}
	if err := s.notificationRepo.Save(ctx, notification); err != nil {
		return nil, err
	}

	s.logger.Debug("notification sent",
		zap.String("recipient_id", req.RecipientID.String()),
		zap.String("kind", string(kind)))
	return ToNotificationResponse(notification), nil
}

// List returns a page of the user's notifications, newest first
func (s *NotificationService) List(ctx context.Context, recipientID uuid.UUID, filter shared.Filter) (*shared.Paginated[NotificationResponse], error) {
	notifications, err := s.notificationRepo.FindByRecipient(ctx, recipientID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, *ToNotificationResponse(&notifications[i]))
	}
	page := shared.NewPaginated(items, int64(len(items)), filter.Page, filter.PageSize)
	return &page, nil
}

// CountUnread returns the user's unread notification count
func (s *NotificationService) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, recipientID)
}

// MarkRead marks one of the caller's notifications read. Marking an already
// read notification again is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, id, requesterID uuid.UUID) (*NotificationResponse, error) {
	notification, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification.RecipientID != requesterID {
		return nil, shared.ErrForbidden
	}

	notification.MarkRead()
	if err := s.notificationRepo.Save(ctx, notification); err != nil {
		return nil, err
	}
	return ToNotificationResponse(notification), nil
}
