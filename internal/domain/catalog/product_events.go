package catalog

import (
	"github.com/google/uuid"

	"github.com/vclothes/backend/internal/domain/shared"
)

// Product event types
const (
	EventProductCreated        = "catalog.product.created"
	EventProductUpdated        = "catalog.product.updated"
	EventProductStockReceived  = "catalog.product.stock_received"
	EventProductStockDeducted  = "catalog.product.stock_deducted"
	productAggregateType       = "Product"
)

// ProductCreatedEvent is published when a product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	SKU  string `json:"sku"`
	Name string `json:"name"`
}

// NewProductCreatedEvent creates a ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProductCreated, productAggregateType, p.ID),
		SKU:             p.SKU,
		Name:            p.Name,
	}
}

// ProductUpdatedEvent is published when a product's details change
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	SKU string `json:"sku"`
}

// NewProductUpdatedEvent creates a ProductUpdatedEvent
func NewProductUpdatedEvent(p *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProductUpdated, productAggregateType, p.ID),
		SKU:             p.SKU,
	}
}

// ProductStockReceivedEvent is published on a supply intake stock increment
type ProductStockReceivedEvent struct {
	shared.BaseDomainEvent
	SKU        string    `json:"sku"`
	VariantSKU string    `json:"variant_sku,omitempty"`
	StoreID    uuid.UUID `json:"store_id"`
	Quantity   int64     `json:"quantity"`
}

// NewProductStockReceivedEvent creates a ProductStockReceivedEvent
func NewProductStockReceivedEvent(p *Product, variantSKU string, storeID uuid.UUID, quantity int64) *ProductStockReceivedEvent {
	return &ProductStockReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProductStockReceived, productAggregateType, p.ID),
		SKU:             p.SKU,
		VariantSKU:      variantSKU,
		StoreID:         storeID,
		Quantity:        quantity,
	}
}

// ProductStockDeductedEvent is published on an order fulfillment stock decrement
type ProductStockDeductedEvent struct {
	shared.BaseDomainEvent
	SKU        string `json:"sku"`
	VariantSKU string `json:"variant_sku,omitempty"`
	Quantity   int64  `json:"quantity"`
}

// NewProductStockDeductedEvent creates a ProductStockDeductedEvent
func NewProductStockDeductedEvent(p *Product, variantSKU string, quantity int64) *ProductStockDeductedEvent {
	return &ProductStockDeductedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventProductStockDeducted, productAggregateType, p.ID),
		SKU:             p.SKU,
		VariantSKU:      variantSKU,
		Quantity:        quantity,
	}
}
