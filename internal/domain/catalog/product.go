package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vclothes/backend/internal/domain/shared"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// ProductImage is one catalog image of a product
type ProductImage struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
}

// ProductImages is the image list of a product, stored as JSONB
type ProductImages []ProductImage

// Value implements driver.Valuer for JSONB storage
func (im ProductImages) Value() (driver.Value, error) {
	if im == nil {
		return json.Marshal(ProductImages{})
	}
	return json.Marshal(im)
}

// Scan implements sql.Scanner
func (im *ProductImages) Scan(value any) error {
	return scanJSON(value, im)
}

// VariationOption is one derived (option name, distinct values) pair
type VariationOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// VariationOptions is the derived variation index of a product, stored as
// JSONB. It is recomputed from the variants on every reconciliation and is
// never independently written.
type VariationOptions []VariationOption

// Value implements driver.Valuer for JSONB storage
func (vo VariationOptions) Value() (driver.Value, error) {
	if vo == nil {
		return json.Marshal(VariationOptions{})
	}
	return json.Marshal(vo)
}

// Scan implements sql.Scanner
func (vo *VariationOptions) Scan(value any) error {
	return scanJSON(value, vo)
}

// Equal compares two option lists including order, since recomputation is
// deterministic and order-preserving.
func (vo VariationOptions) Equal(other VariationOptions) bool {
	if len(vo) != len(other) {
		return false
	}
	for i := range vo {
		if vo[i].Name != other[i].Name || len(vo[i].Values) != len(other[i].Values) {
			return false
		}
		for j := range vo[i].Values {
			if vo[i].Values[j] != other[i].Values[j] {
				return false
			}
		}
	}
	return true
}

// Product is the aggregate root for the variant hierarchy. A product is
// either simple (flat price and stock are authoritative) or variant-bearing
// (price and stock live on the variants' store ledgers, and TotalStock,
// MinPrice, MaxPrice and VariationOptions are derived). All stock mutation
// flows through ReceiveStock / DeductStock followed by Reconcile before the
// aggregate is persisted.
type Product struct {
	shared.BaseAggregateRoot
	Name        string        `gorm:"type:varchar(200);not null"`
	SKU         string        `gorm:"type:varchar(64);not null;uniqueIndex"`
	Description string        `gorm:"type:text"`
	Unit        string        `gorm:"type:varchar(20);not null;default:'pcs'"`
	Status      ProductStatus `gorm:"type:varchar(20);not null;default:'active'"`
	CategoryID  *uuid.UUID    `gorm:"type:uuid;index"`
	BrandID     *uuid.UUID    `gorm:"type:uuid;index"`
	Images      ProductImages `gorm:"type:jsonb"`
	HasVariants bool          `gorm:"not null;default:false"`

	// Authoritative only when HasVariants is false
	SellingPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CostPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityInStock int64           `gorm:"not null;default:0"`

	// Derived, recomputed by Reconcile
	TotalStock       int64            `gorm:"not null;default:0"`
	MinPrice         decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	MaxPrice         decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	VariationOptions VariationOptions `gorm:"type:jsonb"`

	Variants []Variant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new simple product. Callers switch it to
// variant-bearing with SetVariants.
func NewProduct(name, sku, unit string) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if unit == "" {
		unit = "pcs"
	}
	if len(unit) > 20 {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               strings.ToUpper(strings.TrimSpace(sku)),
		Unit:              unit,
		Status:            ProductStatusActive,
		SellingPrice:      decimal.Zero,
		CostPrice:         decimal.Zero,
		MinPrice:          decimal.Zero,
		MaxPrice:          decimal.Zero,
		Images:            ProductImages{},
		VariationOptions:  VariationOptions{},
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))
	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description, unit string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}

	p.Name = name
	p.Description = description
	if unit != "" {
		p.Unit = unit
	}
	p.UpdatedAt = time.Now()

	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// SetCategory sets the product category reference
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
}

// SetBrand sets the product brand reference
func (p *Product) SetBrand(brandID *uuid.UUID) {
	p.BrandID = brandID
	p.UpdatedAt = time.Now()
}

// SetImages replaces the product images
func (p *Product) SetImages(images ProductImages) {
	if images == nil {
		images = ProductImages{}
	}
	p.Images = images
	p.UpdatedAt = time.Now()
}

// PrimaryImage returns the primary image URL, falling back to the first
// image, or empty when there are none.
func (p *Product) PrimaryImage() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}

// SetFlatPricing sets the flat selling and cost prices of a simple product
func (p *Product) SetFlatPricing(sellingPrice, costPrice decimal.Decimal) error {
	if sellingPrice.IsNegative() || costPrice.IsNegative() {
		return invalidPrice(p.SKU)
	}
	p.SellingPrice = sellingPrice
	p.CostPrice = costPrice
	p.UpdatedAt = time.Now()
	return nil
}

// SetFlatQuantity sets the flat stock quantity of a simple product
func (p *Product) SetFlatQuantity(quantity int64) error {
	if quantity < 0 {
		return invalidStock(p.SKU)
	}
	p.QuantityInStock = quantity
	p.UpdatedAt = time.Now()
	return nil
}

// SetVariants replaces the variant list and marks the product
// variant-bearing. An empty list switches the product back to simple.
// The caller must Reconcile before persisting.
func (p *Product) SetVariants(variants []Variant) {
	p.Variants = variants
	p.HasVariants = len(variants) > 0
	for i := range p.Variants {
		p.Variants[i].ProductID = p.ID
	}
	p.UpdatedAt = time.Now()
}

// FindVariant returns the variant with the given SKU, or nil
func (p *Product) FindVariant(sku string) *Variant {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	for i := range p.Variants {
		if p.Variants[i].SKU == sku {
			return &p.Variants[i]
		}
	}
	return nil
}

// Activate activates the product
func (p *Product) Activate() {
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
}

// Deactivate deactivates the product. Products are never physically deleted
// by catalog flows; this is the soft delete.
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// ReceiveStock applies a positive stock delta from a supply intake.
// For a simple product the variant SKU must be nil and the flat quantity is
// incremented; for a variant-bearing product the named variant's entry for
// the store is incremented, appending a new ledger entry for an unseen store.
func (p *Product) ReceiveStock(variantSKU *string, storeID uuid.UUID, quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_STOCK", "Received quantity must be positive")
	}

	if variantSKU == nil || *variantSKU == "" {
		if p.HasVariants {
			return shared.NewDomainError("VARIANT_REQUIRED", fmt.Sprintf("Product %s has variants; a variant SKU is required", p.SKU))
		}
		p.QuantityInStock += quantity
		p.AddDomainEvent(NewProductStockReceivedEvent(p, "", storeID, quantity))
		return nil
	}

	if !p.HasVariants {
		return shared.NewDomainError("UNEXPECTED_VARIANT", fmt.Sprintf("Product %s has no variants; variant SKU %s is not applicable", p.SKU, *variantSKU))
	}

	variant := p.FindVariant(*variantSKU)
	if variant == nil {
		return shared.NewDomainError("VARIANT_NOT_FOUND", fmt.Sprintf("Variant %s not found on product %s", *variantSKU, p.SKU))
	}

	variant.receive(storeID, quantity)
	p.AddDomainEvent(NewProductStockReceivedEvent(p, variant.SKU, storeID, quantity))
	return nil
}

// DeductStock applies a negative stock delta from order fulfillment.
// Variant stock is drained across the variant's store ledger entries in
// their existing list order; a simple product's flat quantity is
// decremented. Insufficient stock aborts without mutating anything.
func (p *Product) DeductStock(variantSKU *string, quantity int64) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_STOCK", "Deducted quantity must be positive")
	}

	if variantSKU == nil || *variantSKU == "" {
		if p.HasVariants {
			return shared.NewDomainError("VARIANT_REQUIRED", fmt.Sprintf("Product %s has variants; a variant SKU is required", p.SKU))
		}
		if p.QuantityInStock < quantity {
			return shared.NewDomainError("INSUFFICIENT_STOCK", fmt.Sprintf("Product %s has %d in stock, %d requested", p.SKU, p.QuantityInStock, quantity))
		}
		p.QuantityInStock -= quantity
		p.AddDomainEvent(NewProductStockDeductedEvent(p, "", quantity))
		return nil
	}

	if !p.HasVariants {
		return shared.NewDomainError("UNEXPECTED_VARIANT", fmt.Sprintf("Product %s has no variants; variant SKU %s is not applicable", p.SKU, *variantSKU))
	}

	variant := p.FindVariant(*variantSKU)
	if variant == nil {
		return shared.NewDomainError("VARIANT_NOT_FOUND", fmt.Sprintf("Variant %s not found on product %s", *variantSKU, p.SKU))
	}

	if available := variant.TotalStock(); available < quantity {
		return shared.NewDomainError("INSUFFICIENT_STOCK", fmt.Sprintf("Variant %s has %d in stock, %d requested", variant.SKU, available, quantity))
	}

	variant.deduct(quantity)
	p.AddDomainEvent(NewProductStockDeductedEvent(p, variant.SKU, quantity))
	return nil
}

// UnitPrice returns the price an order line pays for the given variant SKU,
// or the flat selling price for a simple product.
func (p *Product) UnitPrice(variantSKU *string) (decimal.Decimal, error) {
	if variantSKU == nil || *variantSKU == "" {
		if p.HasVariants {
			return decimal.Zero, shared.NewDomainError("VARIANT_REQUIRED", fmt.Sprintf("Product %s has variants; a variant SKU is required", p.SKU))
		}
		return p.SellingPrice, nil
	}
	if !p.HasVariants {
		return decimal.Zero, shared.NewDomainError("UNEXPECTED_VARIANT", fmt.Sprintf("Product %s has no variants; variant SKU %s is not applicable", p.SKU, *variantSKU))
	}
	variant := p.FindVariant(*variantSKU)
	if variant == nil {
		return decimal.Zero, shared.NewDomainError("VARIANT_NOT_FOUND", fmt.Sprintf("Variant %s not found on product %s", *variantSKU, p.SKU))
	}
	return variant.Price, nil
}

// reconcileConfig carries optional Reconcile inputs
type reconcileConfig struct {
	suppliedOptions VariationOptions
	optionsSupplied bool
	now             func() time.Time
}

// ReconcileOption configures a Reconcile run
type ReconcileOption func(*reconcileConfig)

// WithSuppliedVariationOptions passes caller-supplied variation options for
// the immutability check: supplying options that differ from the derived
// state is rejected.
func WithSuppliedVariationOptions(options VariationOptions) ReconcileOption {
	return func(c *reconcileConfig) {
		c.suppliedOptions = options
		c.optionsSupplied = true
	}
}

// WithClock overrides the timestamp source used for price history entries
func WithClock(now func() time.Time) ReconcileOption {
	return func(c *reconcileConfig) {
		c.now = now
	}
}

// Reconcile runs the ordered validate-then-recompute pipeline. Services call
// it explicitly before every persist that touches variants; the persistence
// layer then writes the whole aggregate in one transaction.
func (p *Product) Reconcile(opts ...ReconcileOption) error {
	cfg := reconcileConfig{now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := p.validate(&cfg); err != nil {
		return err
	}
	p.recompute(cfg.now())
	return nil
}

// validate enforces the hierarchy invariants before any recompute or persist
func (p *Product) validate(cfg *reconcileConfig) error {
	if !p.HasVariants {
		// Flat fields are authoritative; derived options are cleared
		p.VariationOptions = VariationOptions{}
		if p.SellingPrice.IsNegative() || p.CostPrice.IsNegative() {
			return invalidPrice(p.SKU)
		}
		if p.QuantityInStock < 0 {
			return invalidStock(p.SKU)
		}
		return nil
	}

	p.assignVariantSKUs()

	seen := make(map[string]bool, len(p.Variants))
	for i := range p.Variants {
		v := &p.Variants[i]
		sig := v.Signature()
		if seen[sig] {
			return shared.NewDomainError("DUPLICATE_VARIANT", fmt.Sprintf("Duplicate variant combination for size %s", v.Size))
		}
		seen[sig] = true

		if v.Price.IsNegative() {
			return invalidPrice(v.SKU)
		}
		if v.TotalStock() < 0 {
			return invalidStock(v.SKU)
		}
	}

	if cfg.optionsSupplied {
		if derived := p.deriveVariationOptions(); !derived.Equal(cfg.suppliedOptions) {
			return shared.NewDomainError("IMMUTABLE_DERIVED_FIELD", "Variation options are derived from variants and cannot be set directly")
		}
	}
	return nil
}

// assignVariantSKUs fills in blank variant SKUs, retrying on an in-memory
// collision with a sibling. Cross-product uniqueness is the database's job.
func (p *Product) assignVariantSKUs() {
	taken := make(map[string]bool, len(p.Variants))
	for i := range p.Variants {
		if p.Variants[i].SKU != "" {
			taken[p.Variants[i].SKU] = true
		}
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		if v.SKU != "" {
			continue
		}
		sku := GenerateVariantSKU(p.SKU, v.Size)
		for taken[sku] {
			sku = GenerateVariantSKU(p.SKU, v.Size)
		}
		v.SKU = sku
		taken[sku] = true
	}
}

// recompute rebuilds every derived field from the variant list. Pure with
// respect to the variants; running it twice in a row changes nothing.
func (p *Product) recompute(now time.Time) {
	if !p.HasVariants {
		p.TotalStock = p.QuantityInStock
		p.MinPrice = p.SellingPrice
		p.MaxPrice = p.SellingPrice
		p.VariationOptions = VariationOptions{}
		return
	}

	var total int64
	minPrice, maxPrice := decimal.Zero, decimal.Zero
	for i := range p.Variants {
		v := &p.Variants[i]
		total += v.TotalStock()
		if i == 0 {
			minPrice, maxPrice = v.Price, v.Price
		} else {
			if v.Price.LessThan(minPrice) {
				minPrice = v.Price
			}
			if v.Price.GreaterThan(maxPrice) {
				maxPrice = v.Price
			}
		}
		v.recordPrice(now)
	}

	p.TotalStock = total
	p.MinPrice = minPrice
	p.MaxPrice = maxPrice
	p.VariationOptions = p.deriveVariationOptions()
}

// deriveVariationOptions flattens the variants into (option name, distinct
// values) pairs: the implicit size key first, then attribute keys in first
// appearance order, values de-duplicated in first-appearance order.
func (p *Product) deriveVariationOptions() VariationOptions {
	options := VariationOptions{}
	index := make(map[string]int)
	seen := make(map[string]map[string]bool)

	add := func(name, value string) {
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			return
		}
		pos, ok := index[name]
		if !ok {
			pos = len(options)
			index[name] = pos
			options = append(options, VariationOption{Name: name})
			seen[name] = make(map[string]bool)
		}
		if !seen[name][value] {
			seen[name][value] = true
			options[pos].Values = append(options[pos].Values, value)
		}
	}

	for i := range p.Variants {
		add("size", p.Variants[i].Size)
	}
	for i := range p.Variants {
		for _, attr := range p.Variants[i].Attributes {
			add(attr.Key, attr.Value)
		}
	}
	return options
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// validateSKU validates a product SKU
func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 64 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 64 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_SKU", "SKU can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}
