package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vclothes/backend/internal/domain/shared"
	"github.com/vclothes/backend/internal/domain/supply"
)

// GormSupplyRepository implements supply.Repository using GORM. Supplies are
// immutable once recorded, so there is no guarded save path here.
type GormSupplyRepository struct {
	db *gorm.DB
}

// NewGormSupplyRepository creates a new GormSupplyRepository
func NewGormSupplyRepository(db *gorm.DB) *GormSupplyRepository {
	return &GormSupplyRepository{db: db}
}

// FindByID finds a supply receipt with its line items
func (r *GormSupplyRepository) FindByID(ctx context.Context, id uuid.UUID) (*supply.Supply, error) {
	var s supply.Supply
	if err := r.db.WithContext(ctx).Preload("Items").First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll finds supply receipts matching the filter, line items included
func (r *GormSupplyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]supply.Supply, error) {
	var supplies []supply.Supply
	query := r.applyFilter(r.db.WithContext(ctx).Preload("Items").Model(&supply.Supply{}), filter)
	if err := query.Find(&supplies).Error; err != nil {
		return nil, err
	}
	return supplies, nil
}

// Count counts supply receipts matching the filter
func (r *GormSupplyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&supply.Supply{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a supply receipt and its line items
func (r *GormSupplyRepository) Save(ctx context.Context, s *supply.Supply) error {
	if err := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(s).Error; err != nil {
		return translateError(err)
	}
	return nil
}

// Delete deletes a supply receipt; line items cascade
func (r *GormSupplyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&supply.Supply{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormSupplyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SupplySortFields, "received_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSupplyRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("supplier_name ILIKE ? OR reference ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "store_id":
			query = query.Where("store_id = ?", value)
		case "recorded_by":
			query = query.Where("recorded_by = ?", value)
		}
	}
	return query
}

// Ensure GormSupplyRepository implements supply.Repository
var _ supply.Repository = (*GormSupplyRepository)(nil)
