package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vclothes/backend/internal/domain/catalog"
	"github.com/vclothes/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM.
// Products load and persist as whole aggregates: the variant tree with its
// store ledgers and price history always travels with the root.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product with its full variant tree
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.preloadVariants(r.db.WithContext(ctx)).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySKU finds a product by its product-level SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.preloadVariants(r.db.WithContext(ctx)).First(&product, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds products matching the filter, variant trees included
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(r.preloadVariants(r.db.WithContext(ctx)).Model(&catalog.Product{}), filter)
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a product and its whole variant tree
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(product).Error; err != nil {
			return translateError(err)
		}
		return r.pruneRemovedChildren(tx, product)
	})
}

// SaveWithLock updates a product guarded by a version check on the root row.
// The aggregate's in-memory Version is bumped only after the update commits,
// mirroring what the guarded UPDATE did to the stored row.
func (r *GormProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&catalog.Product{}).
			Where("id = ? AND version = ?", product.ID, product.Version).
			Updates(map[string]any{
				"name":              product.Name,
				"sku":               product.SKU,
				"description":       product.Description,
				"unit":              product.Unit,
				"status":            product.Status,
				"category_id":       product.CategoryID,
				"brand_id":          product.BrandID,
				"images":            product.Images,
				"has_variants":      product.HasVariants,
				"selling_price":     product.SellingPrice,
				"cost_price":        product.CostPrice,
				"quantity_in_stock": product.QuantityInStock,
				"total_stock":       product.TotalStock,
				"min_price":         product.MinPrice,
				"max_price":         product.MaxPrice,
				"variation_options": product.VariationOptions,
				"version":           product.Version + 1,
				"updated_at":        time.Now(),
			})
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		for i := range product.Variants {
			variant := &product.Variants[i]
			variant.ProductID = product.ID
			if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(variant).Error; err != nil {
				return translateError(err)
			}
		}
		return r.pruneRemovedChildren(tx, product)
	})
	if err != nil {
		return err
	}
	product.Version++
	return nil
}

// Delete deletes a product; variants and their children cascade
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// preloadVariants attaches the full variant tree in deterministic order.
// Store stocks load by position, the order the deduction strategy drains.
func (r *GormProductRepository) preloadVariants(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_variants.created_at ASC")
		}).
		Preload("Variants.StoreStocks", func(db *gorm.DB) *gorm.DB {
			return db.Order("variant_store_stocks.position ASC")
		}).
		Preload("Variants.PriceHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("variant_price_history.changed_at ASC")
		})
}

// pruneRemovedChildren deletes variant rows and store stock rows the
// aggregate no longer holds. Price history is append-only and never pruned.
func (r *GormProductRepository) pruneRemovedChildren(tx *gorm.DB, product *catalog.Product) error {
	variantIDs := make([]uuid.UUID, 0, len(product.Variants))
	for i := range product.Variants {
		variantIDs = append(variantIDs, product.Variants[i].ID)
	}

	query := tx.Where("product_id = ?", product.ID)
	if len(variantIDs) > 0 {
		query = query.Where("id NOT IN ?", variantIDs)
	}
	if err := query.Delete(&catalog.Variant{}).Error; err != nil {
		return err
	}

	for i := range product.Variants {
		variant := &product.Variants[i]
		stockIDs := make([]uuid.UUID, 0, len(variant.StoreStocks))
		for j := range variant.StoreStocks {
			stockIDs = append(stockIDs, variant.StoreStocks[j].ID)
		}
		stockQuery := tx.Where("variant_id = ?", variant.ID)
		if len(stockIDs) > 0 {
			stockQuery = stockQuery.Where("id NOT IN ?", stockIDs)
		}
		if err := stockQuery.Delete(&catalog.StoreStock{}).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "category_id":
			query = query.Where("category_id = ?", value)
		case "brand_id":
			query = query.Where("brand_id = ?", value)
		case "has_variants":
			query = query.Where("has_variants = ?", value)
		case "in_stock":
			if value == true {
				query = query.Where("total_stock > 0")
			} else {
				query = query.Where("total_stock = 0")
			}
		}
	}
	return query
}

// translateError maps driver errors to domain errors
func translateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
