package store

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vclothes/backend/internal/domain/shared"
	"github.com/vclothes/backend/internal/domain/store"
)

// StoreService implements store management use cases
type StoreService struct {
	storeRepo store.Repository
	logger    *zap.Logger
}

// NewStoreService creates a new store service
func NewStoreService(storeRepo store.Repository, logger *zap.Logger) *StoreService {
	return &StoreService{storeRepo: storeRepo, logger: logger}
}

// Create registers a new store
func (s *StoreService) Create(ctx context.Context, req *CreateStoreRequest) (*StoreResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if existing, err := s.storeRepo.FindByCode(ctx, code); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A store with this code already exists")
	}

	newStore, err := store.NewStore(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	address, err := req.Address.toAddress()
	if err != nil {
		return nil, err
	}
	if err := newStore.Update(req.Name, req.Phone, address); err != nil {
		return nil, err
	}

	if err := s.storeRepo.Save(ctx, newStore); err != nil {
		return nil, err
	}

	s.logger.Info("store created",
		zap.String("store_id", newStore.ID.String()),
		zap.String("code", newStore.Code))
	return ToStoreResponse(newStore), nil
}

// Update changes a store's details. The code is fixed at creation.
func (s *StoreService) Update(ctx context.Context, id uuid.UUID, req *UpdateStoreRequest) (*StoreResponse, error) {
	existing, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	address, err := req.Address.toAddress()
	if err != nil {
		return nil, err
	}
	if err := existing.Update(req.Name, req.Phone, address); err != nil {
		return nil, err
	}

	if err := s.storeRepo.Save(ctx, existing); err != nil {
		return nil, err
	}
	return ToStoreResponse(existing), nil
}

// Get returns a store by ID
func (s *StoreService) Get(ctx context.Context, id uuid.UUID) (*StoreResponse, error) {
	existing, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToStoreResponse(existing), nil
}

// List returns a page of stores
func (s *StoreService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[StoreResponse], error) {
	total, err := s.storeRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	stores, err := s.storeRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]StoreResponse, 0, len(stores))
	for i := range stores {
		items = append(items, *ToStoreResponse(&stores[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Deactivate takes a store out of service. Deactivated stores stop accepting
// supply receipts; existing stock ledger entries are untouched.
func (s *StoreService) Deactivate(ctx context.Context, id uuid.UUID) error {
	existing, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	existing.Deactivate()
	if err := s.storeRepo.Save(ctx, existing); err != nil {
		return err
	}
	s.logger.Info("store deactivated", zap.String("store_id", id.String()))
	return nil
}

// Activate returns a store to service
func (s *StoreService) Activate(ctx context.Context, id uuid.UUID) error {
	existing, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	existing.Activate()
	return s.storeRepo.Save(ctx, existing)
}
