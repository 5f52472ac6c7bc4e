// Package payment coordinates checkout sessions and provider webhooks with
// the order lifecycle.
package payment

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	orderapp "github.com/vclothes/backend/internal/application/order"
	"github.com/vclothes/backend/internal/domain/order"
	"github.com/vclothes/backend/internal/domain/shared"
	"github.com/vclothes/backend/internal/infrastructure/payment"
)

// PaymentService opens checkout sessions for card orders and applies
// verified webhook outcomes to them
type PaymentService struct {
	gateway   payment.Gateway
	orderRepo order.Repository
	orders    *orderapp.OrderService
	logger    *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	gateway payment.Gateway,
	orderRepo order.Repository,
	orders *orderapp.OrderService,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		gateway:   gateway,
		orderRepo: orderRepo,
		orders:    orders,
		logger:    logger,
	}
}

// CheckoutResponse is the provider session opened for an order
type CheckoutResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// WebhookResult contains the result of processing a webhook
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}

// StartCheckout opens a checkout session for a pending card order. A
// non-staff caller only starts checkout for their own orders.
func (s *PaymentService) StartCheckout(ctx context.Context, orderID, requesterID uuid.UUID, staff bool, customerEmail string) (*CheckoutResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !staff && o.PurchaserID != requesterID {
		return nil, shared.ErrForbidden
	}
	if o.PaymentMethod != order.PaymentMethodCard {
		return nil, shared.NewDomainError("INVALID_STATE", "Order is not paid by card")
	}
	if o.PaymentStatus == order.PaymentStatusPaid {
		return nil, shared.NewDomainError("INVALID_STATE", "Order is already paid")
	}
	if o.FulfillmentStatus == order.FulfillmentStatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Order is cancelled")
	}

	checkout, err := s.gateway.CreateCheckout(ctx, payment.CheckoutInput{
		OrderNumber:   o.OrderNumber,
		Amount:        o.TotalAmount,
		CustomerEmail: customerEmail,
		Description:   "Order " + o.OrderNumber,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("checkout session opened",
		zap.String("order_number", o.OrderNumber),
		zap.String("session_id", checkout.SessionID))
	return &CheckoutResponse{
		SessionID:   checkout.SessionID,
		CheckoutURL: checkout.CheckoutURL,
	}, nil
}

// ProcessWebhook verifies and applies a provider webhook event. Events for
// orders we do not know are acknowledged without error so the provider stops
// retrying them.
func (s *PaymentService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.gateway.VerifyWebhook(payload, signature)
	if err != nil {
		return nil, err
	}

	result := &WebhookResult{
		EventID:   event.EventID,
		EventType: event.EventType,
		Processed: true,
	}

	switch event.Outcome {
	case payment.WebhookPaid:
		_, err = s.orders.MarkPaid(ctx, event.OrderNumber, event.Reference)
	case payment.WebhookFailed:
		err = s.orders.MarkPaymentFailed(ctx, event.OrderNumber)
	default:
		result.Message = "Event type not handled"
		return result, nil
	}

	if err != nil {
		if err == shared.ErrNotFound {
			s.logger.Warn("webhook references unknown order",
				zap.String("event_id", event.EventID),
				zap.String("order_number", event.OrderNumber))
			result.Processed = false
			result.Message = "Order not found"
			return result, nil
		}
		s.logger.Error("failed to apply webhook event",
			zap.String("event_id", event.EventID),
			zap.String("event_type", event.EventType),
			zap.Error(err))
		result.Processed = false
		result.Message = err.Error()
		return result, err
	}
	return result, nil
}
