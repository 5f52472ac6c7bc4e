package supply

import (
	"context"

	"github.com/google/uuid"

	"github.com/vclothes/backend/internal/domain/shared"
)

// Repository defines persistence operations for supplies
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supply, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Supply, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, supply *Supply) error
	Delete(ctx context.Context, id uuid.UUID) error
}
