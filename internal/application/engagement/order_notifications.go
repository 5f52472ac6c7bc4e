package engagement

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vclothes/backend/internal/domain/engagement"
	"github.com/vclothes/backend/internal/domain/order"
	"github.com/vclothes/backend/internal/domain/shared"
)

// OrderNotificationHandler turns order lifecycle events into in-app
// notifications for the purchaser. It runs on the in-process event bus, after
// the order transaction has committed.
type OrderNotificationHandler struct {
	notifications *NotificationService
	logger        *zap.Logger
}

// NewOrderNotificationHandler creates a handler for order lifecycle events
func NewOrderNotificationHandler(notifications *NotificationService, logger *zap.Logger) *OrderNotificationHandler {
	return &OrderNotificationHandler{notifications: notifications, logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *OrderNotificationHandler) EventTypes() []string {
	return []string{order.EventOrderCreated, order.EventOrderPaid, order.EventOrderCancelled}
}

// Handle delivers the notification for one order event
func (h *OrderNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var req *NotifyRequest

	switch e := event.(type) {
	case *order.OrderCreatedEvent:
		req = &NotifyRequest{
			RecipientID: e.PurchaserID,
			Kind:        string(engagement.NotificationKindOrderPlaced),
			Title:       fmt.Sprintf("Order %s placed", e.OrderNumber),
			Body:        fmt.Sprintf("We received your order %s for %s.", e.OrderNumber, e.TotalAmount.StringFixed(2)),
			Payload:     map[string]any{"order_number": e.OrderNumber, "total_amount": e.TotalAmount.String()},
		}
	case *order.OrderPaidEvent:
		req = &NotifyRequest{
			RecipientID: e.PurchaserID,
			Kind:        string(engagement.NotificationKindOrderPaid),
			Title:       fmt.Sprintf("Payment received for order %s", e.OrderNumber),
			Body:        fmt.Sprintf("Your payment for order %s was confirmed.", e.OrderNumber),
			Payload:     map[string]any{"order_number": e.OrderNumber, "reference": e.Reference},
		}
	case *order.OrderCancelledEvent:
		req = &NotifyRequest{
			RecipientID: e.PurchaserID,
			Kind:        string(engagement.NotificationKindOrderCancelled),
			Title:       fmt.Sprintf("Order %s cancelled", e.OrderNumber),
			Body:        fmt.Sprintf("Order %s was cancelled and its items were returned to stock.", e.OrderNumber),
			Payload:     map[string]any{"order_number": e.OrderNumber},
		}
	default:
		return nil
	}

	if _, err := h.notifications.Notify(ctx, req); err != nil {
		h.logger.Warn("failed to create order notification",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
		return err
	}
	return nil
}
