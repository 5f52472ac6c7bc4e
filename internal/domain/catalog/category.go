package catalog

import (
	"strings"
	"time"

	"github.com/vclothes/backend/internal/domain/shared"
)

// CategoryStatus represents the status of a category
type CategoryStatus string

const (
	CategoryStatusActive   CategoryStatus = "active"
	CategoryStatusInactive CategoryStatus = "inactive"
)

// Category is a product category. Its abbreviation feeds the category
// segment of generated SKUs.
type Category struct {
	shared.BaseAggregateRoot
	Name         string         `gorm:"type:varchar(100);not null;uniqueIndex"`
	Abbreviation string         `gorm:"type:varchar(5);not null"`
	Description  string         `gorm:"type:text"`
	Status       CategoryStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name, abbreviation string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}
	abbreviation, err := validateAbbreviation(abbreviation)
	if err != nil {
		return nil, err
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Abbreviation:      abbreviation,
		Status:            CategoryStatusActive,
	}, nil
}

// Update updates the category's details
func (c *Category) Update(name, abbreviation, description string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}
	abbreviation, err := validateAbbreviation(abbreviation)
	if err != nil {
		return err
	}

	c.Name = name
	c.Abbreviation = abbreviation
	c.Description = description
	c.UpdatedAt = time.Now()
	return nil
}

// Activate activates the category
func (c *Category) Activate() {
	c.Status = CategoryStatusActive
	c.UpdatedAt = time.Now()
}

// Deactivate deactivates the category
func (c *Category) Deactivate() {
	c.Status = CategoryStatusInactive
	c.UpdatedAt = time.Now()
}

// IsActive returns true if the category is active
func (c *Category) IsActive() bool {
	return c.Status == CategoryStatusActive
}

// validateCategoryName validates the category name
func validateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}

// validateAbbreviation validates and normalizes a SKU abbreviation
func validateAbbreviation(abbr string) (string, error) {
	abbr = strings.ToUpper(strings.TrimSpace(abbr))
	if abbr == "" {
		return "", shared.NewDomainError("INVALID_ABBREVIATION", "Abbreviation cannot be empty")
	}
	if len(abbr) > 5 {
		return "", shared.NewDomainError("INVALID_ABBREVIATION", "Abbreviation cannot exceed 5 characters")
	}
	for _, r := range abbr {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return "", shared.NewDomainError("INVALID_ABBREVIATION", "Abbreviation can only contain letters and numbers")
		}
	}
	return abbr, nil
}
