package supply

import (
	"github.com/google/uuid"

	"github.com/vclothes/backend/internal/domain/shared"
)

// Supply event types
const (
	EventSupplyRecorded = "supply.recorded"
)

// SupplyRecordedEvent is published when a supply intake is committed
type SupplyRecordedEvent struct {
	shared.BaseDomainEvent
	SupplierName  string    `json:"supplier_name"`
	StoreID       uuid.UUID `json:"store_id"`
	TotalQuantity int64     `json:"total_quantity"`
}

// NewSupplyRecordedEvent creates a SupplyRecordedEvent
func NewSupplyRecordedEvent(s *Supply) *SupplyRecordedEvent {
	return &SupplyRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventSupplyRecorded, "Supply", s.ID),
		SupplierName:    s.SupplierName,
		StoreID:         s.StoreID,
		TotalQuantity:   s.TotalQuantity(),
	}
}
