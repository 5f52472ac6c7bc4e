package supply

import (
	"time"

	"github.com/google/uuid"

	"github.com/vclothes/backend/internal/domain/supply"
)

// LineItemRequest is one received product quantity in a supply request
type LineItemRequest struct {
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	VariantSKU *string   `json:"variant_sku"`
	Quantity   int64     `json:"quantity" binding:"required,gt=0"`
}

// CreateSupplyRequest is the request to record a goods receipt
type CreateSupplyRequest struct {
	SupplierName string            `json:"supplier_name" binding:"required"`
	Reference    string            `json:"reference"`
	StoreID      uuid.UUID         `json:"store_id" binding:"required"`
	Items        []LineItemRequest `json:"items" binding:"required,min=1,dive"`
}

// LineItemResponse is one line item in a supply response
type LineItemResponse struct {
	ProductID  uuid.UUID `json:"product_id"`
	VariantSKU *string   `json:"variant_sku,omitempty"`
	Quantity   int64     `json:"quantity"`
}

// SupplyResponse is the API representation of a supply
type SupplyResponse struct {
	ID            uuid.UUID          `json:"id"`
	SupplierName  string             `json:"supplier_name"`
	Reference     string             `json:"reference"`
	StoreID       uuid.UUID          `json:"store_id"`
	RecordedBy    uuid.UUID          `json:"recorded_by"`
	ReceivedAt    time.Time          `json:"received_at"`
	TotalQuantity int64              `json:"total_quantity"`
	Items         []LineItemResponse `json:"items"`
}

// ToSupplyResponse maps a supply aggregate to its API representation
func ToSupplyResponse(s *supply.Supply) *SupplyResponse {
	items := make([]LineItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, LineItemResponse{
			ProductID:  item.ProductID,
			VariantSKU: item.VariantSKU,
			Quantity:   item.Quantity,
		})
	}
	return &SupplyResponse{
		ID:            s.ID,
		SupplierName:  s.SupplierName,
		Reference:     s.Reference,
		StoreID:       s.StoreID,
		RecordedBy:    s.RecordedBy,
		ReceivedAt:    s.ReceivedAt,
		TotalQuantity: s.TotalQuantity(),
		Items:         items,
	}
}
