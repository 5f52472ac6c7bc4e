package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vclothes/backend/internal/domain/order"
	"github.com/vclothes/backend/internal/domain/shared"
	"github.com/vclothes/backend/internal/domain/shared/valueobject"
)

// AddressRequest is the shipping address of an order request
type AddressRequest struct {
	Recipient  string `json:"recipient" binding:"required"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

// toAddress builds the address value object, mapping construction failures to
// an input error.
func (r *AddressRequest) toAddress() (valueobject.Address, error) {
	addr, err := valueobject.NewAddress(r.Recipient, r.Line1, r.City, r.PostalCode, r.Country,
		valueobject.WithLine2(r.Line2), valueobject.WithState(r.State), valueobject.WithPhone(r.Phone))
	if err != nil {
		return valueobject.EmptyAddress(), shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	return addr, nil
}

// OrderItemRequest is one ordered product quantity in a create request
type OrderItemRequest struct {
	ProductID  uuid.UUID `json:"product_id" binding:"required"`
	VariantSKU *string   `json:"variant_sku"`
	Quantity   int64     `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest is the request to place an order
type CreateOrderRequest struct {
	ShippingAddress AddressRequest     `json:"shipping_address" binding:"required"`
	PaymentMethod   string             `json:"payment_method" binding:"required"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// AddressResponse is the shipping address in a response
type AddressResponse struct {
	Recipient  string `json:"recipient"`
	Phone      string `json:"phone,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// LineItemResponse is one order line in a response
type LineItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	VariantSKU  *string         `json:"variant_sku,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderResponse is the API representation of an order
type OrderResponse struct {
	ID                uuid.UUID          `json:"id"`
	OrderNumber       string             `json:"order_number"`
	PurchaserID       uuid.UUID          `json:"purchaser_id"`
	ShippingAddress   AddressResponse    `json:"shipping_address"`
	Items             []LineItemResponse `json:"items"`
	TotalAmount       decimal.Decimal    `json:"total_amount"`
	PaymentMethod     string             `json:"payment_method"`
	PaymentStatus     string             `json:"payment_status"`
	PaymentReference  string             `json:"payment_reference,omitempty"`
	FulfillmentStatus string             `json:"fulfillment_status"`
	PaidAt            *time.Time         `json:"paid_at,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

// ToOrderResponse maps an order aggregate to its API representation
func ToOrderResponse(o *order.Order) *OrderResponse {
	items := make([]LineItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, LineItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			VariantSKU:  item.VariantSKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}

	addr := o.ShippingAddress
	return &OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		PurchaserID: o.PurchaserID,
		ShippingAddress: AddressResponse{
			Recipient:  addr.Recipient(),
			Phone:      addr.Phone(),
			Line1:      addr.Line1(),
			Line2:      addr.Line2(),
			City:       addr.City(),
			State:      addr.State(),
			PostalCode: addr.PostalCode(),
			Country:    addr.Country(),
		},
		Items:             items,
		TotalAmount:       o.TotalAmount,
		PaymentMethod:     string(o.PaymentMethod),
		PaymentStatus:     string(o.PaymentStatus),
		PaymentReference:  o.PaymentReference,
		FulfillmentStatus: string(o.FulfillmentStatus),
		PaidAt:            o.PaidAt,
		CreatedAt:         o.CreatedAt,
	}
}
