package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/vclothes/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products. Save and
// SaveWithLock write the whole aggregate (product row plus variant,
// store stock and price history children) in one transaction; SaveWithLock
// additionally guards the root row with a version check and returns
// CONCURRENCY_CONFLICT when another writer got there first.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, product *Product) error
	SaveWithLock(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}
