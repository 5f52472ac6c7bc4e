package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/vclothes/backend/internal/domain/shared"
)

// Repository defines persistence operations for orders. SaveWithLock guards
// the root row with a version check for the payment webhook's
// read-modify-write path.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindByPurchaser(ctx context.Context, purchaserID uuid.UUID, filter shared.Filter) ([]Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *Order) error
	SaveWithLock(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}
