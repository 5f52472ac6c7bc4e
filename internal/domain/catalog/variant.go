package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vclothes/backend/internal/domain/shared"
)

// VariantStatus represents the status of a variant
type VariantStatus string

const (
	VariantStatusActive   VariantStatus = "active"
	VariantStatusInactive VariantStatus = "inactive"
)

// AttributePair is one free-form attribute of a variant (material, color, ...).
// Order matters: variation options preserve first-appearance order.
type AttributePair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Attributes is the ordered attribute list of a variant, stored as JSONB
type Attributes []AttributePair

// Value implements driver.Valuer for JSONB storage
func (a Attributes) Value() (driver.Value, error) {
	if a == nil {
		return json.Marshal(Attributes{})
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner
func (a *Attributes) Scan(value any) error {
	return scanJSON(value, a)
}

// Variant is one concrete purchasable configuration of a product: a specific
// size plus attribute values, with its own price, per-store stock ledger and
// price history. Variants are owned by the Product aggregate and are only
// mutated through it.
type Variant struct {
	ID           uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ProductID    uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_variant_product_sku,priority:1"`
	SKU          string              `gorm:"type:varchar(64);not null;uniqueIndex:idx_variant_product_sku,priority:2"`
	Size         string              `gorm:"type:varchar(20)"`
	Attributes   Attributes          `gorm:"type:jsonb"`
	Price        decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Status       VariantStatus       `gorm:"type:varchar(20);not null;default:'active'"`
	StoreStocks  []StoreStock        `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	PriceHistory []PriceHistoryEntry `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "product_variants"
}

// NewVariant creates a variant. A blank SKU is allowed here; the product
// assigns one during reconciliation.
func NewVariant(sku, size string, attributes Attributes, price decimal.Decimal) *Variant {
	return &Variant{
		ID:         uuid.New(),
		SKU:        strings.ToUpper(strings.TrimSpace(sku)),
		Size:       strings.TrimSpace(size),
		Attributes: attributes,
		Price:      price,
		Status:     VariantStatusActive,
	}
}

// Signature identifies the (size, attributes-as-set) combination of the
// variant. Two variants of one product must never share a signature.
func (v *Variant) Signature() string {
	pairs := make([]string, 0, len(v.Attributes))
	for _, attr := range v.Attributes {
		pairs = append(pairs, strings.ToLower(strings.TrimSpace(attr.Key))+"="+strings.ToLower(strings.TrimSpace(attr.Value)))
	}
	sort.Strings(pairs)
	return strings.ToLower(v.Size) + "|" + strings.Join(pairs, ";")
}

// TotalStock returns the summed quantity across all store stock entries
func (v *Variant) TotalStock() int64 {
	var total int64
	for i := range v.StoreStocks {
		total += v.StoreStocks[i].Quantity
	}
	return total
}

// stockFor returns the store stock entry for a store, or nil
func (v *Variant) stockFor(storeID uuid.UUID) *StoreStock {
	for i := range v.StoreStocks {
		if v.StoreStocks[i].StoreID == storeID {
			return &v.StoreStocks[i]
		}
	}
	return nil
}

// receive adds quantity to the store's stock entry, appending a new entry
// when the store has none yet.
func (v *Variant) receive(storeID uuid.UUID, quantity int64) {
	if entry := v.stockFor(storeID); entry != nil {
		entry.Quantity += quantity
		entry.UpdatedAt = time.Now()
		return
	}
	v.StoreStocks = append(v.StoreStocks, NewStoreStock(v.ID, storeID, quantity, len(v.StoreStocks)))
}

// deduct drains quantity from the store stock entries in their existing list
// order until satisfied. The caller has already checked the total, so the
// drain cannot come up short.
func (v *Variant) deduct(quantity int64) {
	remaining := quantity
	for i := range v.StoreStocks {
		if remaining == 0 {
			break
		}
		entry := &v.StoreStocks[i]
		take := min(entry.Quantity, remaining)
		if take <= 0 {
			continue
		}
		entry.Quantity -= take
		entry.UpdatedAt = time.Now()
		remaining -= take
	}
}

// latestPrice returns the most recent price history entry, or nil
func (v *Variant) latestPrice() *PriceHistoryEntry {
	if len(v.PriceHistory) == 0 {
		return nil
	}
	latest := &v.PriceHistory[0]
	for i := range v.PriceHistory {
		if v.PriceHistory[i].ChangedAt.After(latest.ChangedAt) {
			latest = &v.PriceHistory[i]
		}
	}
	return latest
}

// recordPrice appends a price history entry when the current price differs
// from the most recent recorded one. Idempotent for an unchanged price.
func (v *Variant) recordPrice(now time.Time) {
	if latest := v.latestPrice(); latest != nil && latest.Price.Equal(v.Price) {
		return
	}
	v.PriceHistory = append(v.PriceHistory, PriceHistoryEntry{
		ID:        uuid.New(),
		VariantID: v.ID,
		Price:     v.Price,
		ChangedAt: now,
	})
}

// IsActive returns true if the variant is active
func (v *Variant) IsActive() bool {
	return v.Status == VariantStatusActive
}

// StoreStock is the quantity of one variant held at one store. At most one
// entry exists per (variant, store) pair; Position preserves the list order
// the first-available deduction strategy drains in.
type StoreStock struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	VariantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_store_stock_variant_store,priority:1"`
	StoreID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_store_stock_variant_store,priority:2"`
	Quantity  int64     `gorm:"not null;default:0"`
	Position  int       `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (StoreStock) TableName() string {
	return "variant_store_stocks"
}

// NewStoreStock creates a store stock entry
func NewStoreStock(variantID, storeID uuid.UUID, quantity int64, position int) StoreStock {
	now := time.Now()
	return StoreStock{
		ID:        uuid.New(),
		VariantID: variantID,
		StoreID:   storeID,
		Quantity:  quantity,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// PriceHistoryEntry is an append-only record of a variant price change
type PriceHistoryEntry struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	VariantID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ChangedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PriceHistoryEntry) TableName() string {
	return "variant_price_history"
}

// scanJSON unmarshals a JSONB column value into dest
func scanJSON(value any, dest any) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into %T", value, dest)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}

// invalidPrice builds the INVALID_PRICE error naming the offending SKU,
// which is the product's own for simple products and the variant's
// otherwise.
func invalidPrice(sku string) *shared.DomainError {
	return shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("SKU %s has a negative price", sku))
}

// invalidStock builds the INVALID_STOCK error naming the offending SKU
func invalidStock(sku string) *shared.DomainError {
	return shared.NewDomainError("INVALID_STOCK", fmt.Sprintf("SKU %s has negative total stock", sku))
}
