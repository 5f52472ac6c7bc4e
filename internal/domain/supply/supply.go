package supply

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vclothes/backend/internal/domain/shared"
)

// Supply is a goods-receipt event: a batch of line items received from a
// supplier into one destination store. Each line item causes exactly one
// stock increment on the referenced product; the increments and the supply
// record commit or roll back together.
type Supply struct {
	shared.BaseAggregateRoot
	SupplierName string     `gorm:"type:varchar(200);not null"`
	Reference    string     `gorm:"type:varchar(100)"`
	StoreID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	RecordedBy   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ReceivedAt   time.Time  `gorm:"not null"`
	Items        []LineItem `gorm:"foreignKey:SupplyID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Supply) TableName() string {
	return "supplies"
}

// LineItem is one received product quantity within a supply
type LineItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	SupplyID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	VariantSKU *string   `gorm:"type:varchar(64)"`
	Quantity   int64     `gorm:"not null"`
	CreatedAt  time.Time
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "supply_line_items"
}

// NewLineItem creates a supply line item
func NewLineItem(productID uuid.UUID, variantSKU *string, quantity int64) LineItem {
	if variantSKU != nil && *variantSKU == "" {
		variantSKU = nil
	}
	return LineItem{
		ID:         uuid.New(),
		ProductID:  productID,
		VariantSKU: variantSKU,
		Quantity:   quantity,
		CreatedAt:  time.Now(),
	}
}

// NewSupply creates a supply record. Stock application happens in the
// application service, inside the same transaction that persists this record.
func NewSupply(supplierName, reference string, storeID, recordedBy uuid.UUID, items []LineItem) (*Supply, error) {
	if strings.TrimSpace(supplierName) == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot be empty")
	}
	if len(supplierName) > 200 {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier name cannot exceed 200 characters")
	}
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("STORE_NOT_FOUND", "Destination store is required")
	}
	if recordedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Recording user is required")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "A supply requires at least one line item")
	}
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Line item product is required")
		}
		if item.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_STOCK", "Line item quantity must be positive")
		}
	}

	s := &Supply{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierName:      strings.TrimSpace(supplierName),
		Reference:         strings.TrimSpace(reference),
		StoreID:           storeID,
		RecordedBy:        recordedBy,
		ReceivedAt:        time.Now(),
		Items:             items,
	}
	for i := range s.Items {
		s.Items[i].SupplyID = s.ID
	}

	s.AddDomainEvent(NewSupplyRecordedEvent(s))
	return s, nil
}

// TotalQuantity returns the summed quantity across all line items
func (s *Supply) TotalQuantity() int64 {
	var total int64
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}
