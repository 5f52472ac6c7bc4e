package store

import (
	"github.com/google/uuid"

	"github.com/vclothes/backend/internal/domain/shared"
	"github.com/vclothes/backend/internal/domain/shared/valueobject"
	"github.com/vclothes/backend/internal/domain/store"
)

// AddressRequest is an optional store address
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

func (r *AddressRequest) toAddress() (valueobject.Address, error) {
	if r == nil {
		return valueobject.EmptyAddress(), nil
	}
	addr, err := valueobject.NewAddress(r.Recipient, r.Line1, r.City, r.PostalCode, r.Country,
		valueobject.WithLine2(r.Line2),
		valueobject.WithState(r.State),
		valueobject.WithPhone(r.Phone))
	if err != nil {
		return valueobject.Address{}, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	return addr, nil
}

// CreateStoreRequest is the request to create a store
type CreateStoreRequest struct {
	Code    string          `json:"code" binding:"required"`
	Name    string          `json:"name" binding:"required"`
	Phone   string          `json:"phone"`
	Address *AddressRequest `json:"address"`
}

// UpdateStoreRequest is the request to update a store's details
type UpdateStoreRequest struct {
	Name    string          `json:"name" binding:"required"`
	Phone   string          `json:"phone"`
	Address *AddressRequest `json:"address"`
}

// AddressResponse is the API representation of an address
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

// StoreResponse is the API representation of a store
type StoreResponse struct {
	ID      uuid.UUID        `json:"id"`
	Code    string           `json:"code"`
	Name    string           `json:"name"`
	Phone   string           `json:"phone,omitempty"`
	Address *AddressResponse `json:"address,omitempty"`
	Status  string           `json:"status"`
}

// ToStoreResponse maps a store aggregate to its API representation
func ToStoreResponse(s *store.Store) *StoreResponse {
	resp := &StoreResponse{
		ID:     s.ID,
		Code:   s.Code,
		Name:   s.Name,
		Phone:  s.Phone,
		Status: string(s.Status),
	}
	if !s.Address.IsEmpty() {
		resp.Address = &AddressResponse{
			Recipient:  s.Address.Recipient(),
			Phone:      s.Address.Phone(),
			Line1:      s.Address.Line1(),
			Line2:      s.Address.Line2(),
			City:       s.Address.City(),
			State:      s.Address.State(),
			PostalCode: s.Address.PostalCode(),
			Country:    s.Address.Country(),
		}
	}
	return resp
}
