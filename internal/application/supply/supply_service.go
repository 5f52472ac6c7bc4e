package supply

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vclothes/backend/internal/application/inventory"
	"github.com/vclothes/backend/internal/domain/catalog"
	"github.com/vclothes/backend/internal/domain/shared"
	"github.com/vclothes/backend/internal/domain/store"
	"github.com/vclothes/backend/internal/domain/supply"
	"github.com/vclothes/backend/internal/infrastructure/telemetry"
)

// SupplyService records goods receipts. Each line item increments stock on
// its product; all increments and the supply record are written in one
// transaction scope, so a failing line leaves nothing behind.
type SupplyService struct {
	scope         inventory.TransactionScope
	supplyRepo    supply.Repository
	storeRepo     store.Repository
	retryAttempts int
	logger        *zap.Logger
}

// NewSupplyService creates a new supply service
func NewSupplyService(
	scope inventory.TransactionScope,
	supplyRepo supply.Repository,
	storeRepo store.Repository,
	retryAttempts int,
	logger *zap.Logger,
) *SupplyService {
	if retryAttempts < 1 {
		retryAttempts = inventory.DefaultSaveRetryAttempts
	}
	return &SupplyService{
		scope:         scope,
		supplyRepo:    supplyRepo,
		storeRepo:     storeRepo,
		retryAttempts: retryAttempts,
		logger:        logger,
	}
}

// Create records a supply and applies its stock increments. On a version
// conflict with a concurrent writer the whole transaction is retried against
// fresh product state.
func (s *SupplyService) Create(ctx context.Context, req *CreateSupplyRequest, recordedBy uuid.UUID) (*SupplyResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "supply.create",
		attribute.String("store.id", req.StoreID.String()),
		attribute.Int("supply.lines", len(req.Items)))
	defer span.End()

	destination, err := s.storeRepo.FindByID(ctx, req.StoreID)
	if err != nil {
		return nil, shared.NewDomainError("STORE_NOT_FOUND", "Destination store does not exist")
	}
	if !destination.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Destination store is not active")
	}

	items := make([]supply.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, supply.NewLineItem(item.ProductID, item.VariantSKU, item.Quantity))
	}

	var record *supply.Supply
	err = inventory.RetryOnConflict(s.retryAttempts, func() error {
		return s.scope.Execute(ctx, func(repos inventory.TransactionalRepositories) error {
			created, err := supply.NewSupply(req.SupplierName, req.Reference, req.StoreID, recordedBy, items)
			if err != nil {
				return err
			}

			if err := s.applyIncrements(ctx, repos.ProductRepo(), created); err != nil {
				return err
			}

			if err := repos.SupplyRepo().Save(ctx, created); err != nil {
				return err
			}
			record = created
			return nil
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("supply recorded",
		zap.String("supply_id", record.ID.String()),
		zap.String("store_id", record.StoreID.String()),
		zap.Int64("total_quantity", record.TotalQuantity()),
		zap.Int("lines", len(record.Items)))
	return ToSupplyResponse(record), nil
}

// applyIncrements loads each referenced product once, applies every line item
// that targets it, reconciles and saves it under optimistic locking.
func (s *SupplyService) applyIncrements(ctx context.Context, products catalog.ProductRepository, record *supply.Supply) error {
	loaded := make(map[uuid.UUID]*catalog.Product)
	order := make([]uuid.UUID, 0, len(record.Items))

	for _, item := range record.Items {
		product, ok := loaded[item.ProductID]
		if !ok {
			var err error
			product, err = products.FindByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			loaded[item.ProductID] = product
			order = append(order, item.ProductID)
		}
		if err := product.ReceiveStock(item.VariantSKU, record.StoreID, item.Quantity); err != nil {
			return err
		}
	}

	for _, id := range order {
		product := loaded[id]
		if err := product.Reconcile(); err != nil {
			return err
		}
		if err := products.SaveWithLock(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// Get returns a supply by ID
func (s *SupplyService) Get(ctx context.Context, id uuid.UUID) (*SupplyResponse, error) {
	record, err := s.supplyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToSupplyResponse(record), nil
}

// List returns a page of supplies
func (s *SupplyService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[SupplyResponse], error) {
	total, err := s.supplyRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	supplies, err := s.supplyRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]SupplyResponse, 0, len(supplies))
	for i := range supplies {
		items = append(items, *ToSupplyResponse(&supplies[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}
