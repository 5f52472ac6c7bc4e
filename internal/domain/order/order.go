package order

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vclothes/backend/internal/domain/shared"
	"github.com/vclothes/backend/internal/domain/shared/valueobject"
)

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// FulfillmentStatus represents the fulfillment state of an order
type FulfillmentStatus string

const (
	FulfillmentStatusPending   FulfillmentStatus = "pending"
	FulfillmentStatusShipped   FulfillmentStatus = "shipped"
	FulfillmentStatusDelivered FulfillmentStatus = "delivered"
	FulfillmentStatusCancelled FulfillmentStatus = "cancelled"
)

// PaymentMethod represents how an order is paid
type PaymentMethod string

const (
	PaymentMethodCard           PaymentMethod = "card"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// Order is an outbound stock event tied to a sale. Line prices and names are
// snapshots taken at creation time; later catalog changes do not reflow into
// existing orders. The stock decrements for the line items and the order
// record itself commit in one transaction.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber       string              `gorm:"type:varchar(30);not null;uniqueIndex"`
	PurchaserID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	ShippingAddress   valueobject.Address `gorm:"type:jsonb"`
	Items             []LineItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount       decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentMethod     PaymentMethod       `gorm:"type:varchar(30);not null"`
	PaymentStatus     PaymentStatus       `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentReference  string              `gorm:"type:varchar(200)"`
	FulfillmentStatus FulfillmentStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	PaidAt            *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// LineItem is one ordered product quantity with price and name snapshots
type LineItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	VariantSKU  *string         `gorm:"type:varchar(64)"`
	Quantity    int64           `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "order_line_items"
}

// NewLineItem creates an order line item, computing the line total
func NewLineItem(productID uuid.UUID, productName string, variantSKU *string, quantity int64, unitPrice decimal.Decimal) LineItem {
	if variantSKU != nil && *variantSKU == "" {
		variantSKU = nil
	}
	return LineItem{
		ID:          uuid.New(),
		ProductID:   productID,
		ProductName: productName,
		VariantSKU:  variantSKU,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		LineTotal:   unitPrice.Mul(decimal.NewFromInt(quantity)),
		CreatedAt:   time.Now(),
	}
}

// GenerateOrderNumber produces a human-readable order number. The unique
// index on the column guards against the unlikely collision.
func GenerateOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%06d", now.Format("20060102"), rand.IntN(1000000))
}

// NewOrder creates an order from priced line items. Stock deduction happens
// in the application service, inside the same transaction that persists
// this record.
func NewOrder(purchaserID uuid.UUID, address valueobject.Address, method PaymentMethod, items []LineItem) (*Order, error) {
	if purchaserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Purchaser is required")
	}
	if address.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Shipping address is required")
	}
	if method != PaymentMethodCard && method != PaymentMethodCashOnDelivery {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unsupported payment method")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "An order requires at least one line item")
	}

	total := decimal.Zero
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Line item product is required")
		}
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_STOCK", "Line item quantity must be positive")
		}
		total = total.Add(item.LineTotal)
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       GenerateOrderNumber(time.Now()),
		PurchaserID:       purchaserID,
		ShippingAddress:   address,
		Items:             items,
		TotalAmount:       total,
		PaymentMethod:     method,
		PaymentStatus:     PaymentStatusPending,
		FulfillmentStatus: FulfillmentStatusPending,
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}

	o.AddDomainEvent(NewOrderCreatedEvent(o))
	return o, nil
}

// MarkPaid records a verified payment. Idempotent for an already-paid order
// with the same reference.
func (o *Order) MarkPaid(reference string) error {
	if o.PaymentStatus == PaymentStatusPaid {
		if o.PaymentReference == reference {
			return nil
		}
		return shared.NewDomainError("INVALID_STATE", "Order is already paid")
	}
	if o.FulfillmentStatus == FulfillmentStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot pay a cancelled order")
	}

	now := time.Now()
	o.PaymentStatus = PaymentStatusPaid
	o.PaymentReference = reference
	o.PaidAt = &now
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderPaidEvent(o))
	return nil
}

// MarkPaymentFailed records a failed payment attempt
func (o *Order) MarkPaymentFailed() error {
	if o.PaymentStatus == PaymentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Order is already paid")
	}
	o.PaymentStatus = PaymentStatusFailed
	o.UpdatedAt = time.Now()
	return nil
}

// Ship marks the order shipped
func (o *Order) Ship() error {
	if o.FulfillmentStatus != FulfillmentStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot ship an order in %s state", o.FulfillmentStatus))
	}
	o.FulfillmentStatus = FulfillmentStatusShipped
	o.UpdatedAt = time.Now()
	return nil
}

// Deliver marks the order delivered
func (o *Order) Deliver() error {
	if o.FulfillmentStatus != FulfillmentStatusShipped {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver an order in %s state", o.FulfillmentStatus))
	}
	o.FulfillmentStatus = FulfillmentStatusDelivered
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel cancels an unshipped order. Stock restitution is the caller's
// responsibility, applied through the same reconciliation pipeline as any
// other stock mutation.
func (o *Order) Cancel() error {
	if o.FulfillmentStatus == FulfillmentStatusShipped || o.FulfillmentStatus == FulfillmentStatusDelivered {
		return shared.NewDomainError("INVALID_STATE", "Cannot cancel a shipped order")
	}
	if o.FulfillmentStatus == FulfillmentStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Order is already cancelled")
	}
	o.FulfillmentStatus = FulfillmentStatusCancelled
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderCancelledEvent(o))
	return nil
}
