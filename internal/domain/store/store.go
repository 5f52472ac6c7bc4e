package store

import (
	"strings"
	"time"

	"github.com/vclothes/backend/internal/domain/shared"
	"github.com/vclothes/backend/internal/domain/shared/valueobject"
)

// StoreStatus represents the status of a store
type StoreStatus string

const (
	StoreStatusActive   StoreStatus = "active"
	StoreStatusInactive StoreStatus = "inactive"
)

// Store is a physical or logical location holding variant stock. Stock
// quantities themselves live on the product aggregates' store ledgers; the
// store record only carries identity and contact details.
type Store struct {
	shared.BaseAggregateRoot
	Code    string              `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name    string              `gorm:"type:varchar(100);not null"`
	Phone   string              `gorm:"type:varchar(50)"`
	Address valueobject.Address `gorm:"type:jsonb"`
	Status  StoreStatus         `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Store) TableName() string {
	return "stores"
}

// NewStore creates a new store
func NewStore(code, name string) (*Store, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Store code cannot be empty")
	}
	if len(code) > 20 {
		return nil, shared.NewDomainError("INVALID_CODE", "Store code cannot exceed 20 characters")
	}
	if err := validateStoreName(name); err != nil {
		return nil, err
	}

	return &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Status:            StoreStatusActive,
	}, nil
}

// Update updates the store's details
func (s *Store) Update(name, phone string, address valueobject.Address) error {
	if err := validateStoreName(name); err != nil {
		return err
	}

	s.Name = name
	s.Phone = phone
	s.Address = address
	s.UpdatedAt = time.Now()
	return nil
}

// Activate activates the store
func (s *Store) Activate() {
	s.Status = StoreStatusActive
	s.UpdatedAt = time.Now()
}

// Deactivate deactivates the store
func (s *Store) Deactivate() {
	s.Status = StoreStatusInactive
	s.UpdatedAt = time.Now()
}

// IsActive returns true if the store is active
func (s *Store) IsActive() bool {
	return s.Status == StoreStatusActive
}

func validateStoreName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Store name cannot exceed 100 characters")
	}
	return nil
}
