package catalog

import (
	"strings"
	"time"

	"github.com/vclothes/backend/internal/domain/shared"
)

// BrandStatus represents the status of a brand
type BrandStatus string

const (
	BrandStatusActive   BrandStatus = "active"
	BrandStatusInactive BrandStatus = "inactive"
)

// Brand is a product brand. Its abbreviation feeds the optional brand
// segment of generated SKUs.
type Brand struct {
	shared.BaseAggregateRoot
	Name         string      `gorm:"type:varchar(100);not null;uniqueIndex"`
	Abbreviation string      `gorm:"type:varchar(5);not null"`
	Description  string      `gorm:"type:text"`
	LogoURL      string      `gorm:"type:varchar(500)"`
	Status       BrandStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Brand) TableName() string {
	return "brands"
}

// NewBrand creates a new brand
func NewBrand(name, abbreviation string) (*Brand, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Brand name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Brand name cannot exceed 100 characters")
	}
	abbreviation, err := validateAbbreviation(abbreviation)
	if err != nil {
		return nil, err
	}

	return &Brand{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Abbreviation:      abbreviation,
		Status:            BrandStatusActive,
	}, nil
}

// Update updates the brand's details
func (b *Brand) Update(name, abbreviation, description, logoURL string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Brand name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Brand name cannot exceed 100 characters")
	}
	abbreviation, err := validateAbbreviation(abbreviation)
	if err != nil {
		return err
	}

	b.Name = name
	b.Abbreviation = abbreviation
	b.Description = description
	b.LogoURL = logoURL
	b.UpdatedAt = time.Now()
	return nil
}

// Activate activates the brand
func (b *Brand) Activate() {
	b.Status = BrandStatusActive
	b.UpdatedAt = time.Now()
}

// Deactivate deactivates the brand
func (b *Brand) Deactivate() {
	b.Status = BrandStatusInactive
	b.UpdatedAt = time.Now()
}

// IsActive returns true if the brand is active
func (b *Brand) IsActive() bool {
	return b.Status == BrandStatusActive
}
