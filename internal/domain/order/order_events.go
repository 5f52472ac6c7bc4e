package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vclothes/backend/internal/domain/shared"
)

// Order event types
const (
	EventOrderCreated   = "order.created"
	EventOrderPaid      = "order.paid"
	EventOrderCancelled = "order.cancelled"

	orderAggregateType = "Order"
)

// OrderCreatedEvent is published when an order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	PurchaserID uuid.UUID       `json:"purchaser_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderCreatedEvent creates an OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderCreated, orderAggregateType, o.ID),
		OrderNumber:     o.OrderNumber,
		PurchaserID:     o.PurchaserID,
		TotalAmount:     o.TotalAmount,
	}
}

// OrderPaidEvent is published when a payment is verified
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	PurchaserID uuid.UUID `json:"purchaser_id"`
	Reference   string    `json:"reference"`
}

// NewOrderPaidEvent creates an OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderPaid, orderAggregateType, o.ID),
		OrderNumber:     o.OrderNumber,
		PurchaserID:     o.PurchaserID,
		Reference:       o.PaymentReference,
	}
}

// OrderCancelledEvent is published when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	PurchaserID uuid.UUID `json:"purchaser_id"`
}

// NewOrderCancelledEvent creates an OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventOrderCancelled, orderAggregateType, o.ID),
		OrderNumber:     o.OrderNumber,
		PurchaserID:     o.PurchaserID,
	}
}
