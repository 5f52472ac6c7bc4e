package supply

import (
	"context"

	"github.com/google/uuid"

	"github.com/vclothes/backend/internal/application/inventory"
	"github.com/vclothes/backend/internal/domain/catalog"
	"github.com/vclothes/backend/internal/domain/order"
	"github.com/vclothes/backend/internal/domain/shared"
	"github.com/vclothes/backend/internal/domain/store"
	"github.com/vclothes/backend/internal/domain/supply"
)

// fakeProductRepo is an in-memory ProductRepository with the optimistic
// version check of the real one.
type fakeProductRepo struct {
	products  map[uuid.UUID]catalog.Product
	conflicts int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]catalog.Product)}
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProductRepo) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) SaveWithLock(_ context.Context, product *catalog.Product) error {
	if r.conflicts > 0 {
		r.conflicts--
		return shared.ErrConcurrencyConflict
	}
	stored, ok := r.products[product.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != product.Version {
		return shared.ErrConcurrencyConflict
	}
	product.Version++
	r.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

// snapshot captures the current product map for transaction rollback
func (r *fakeProductRepo) snapshot() map[uuid.UUID]catalog.Product {
	out := make(map[uuid.UUID]catalog.Product, len(r.products))
	for id, p := range r.products {
		out[id] = p
	}
	return out
}

// fakeSupplyRepo is an in-memory supply.Repository
type fakeSupplyRepo struct {
	supplies map[uuid.UUID]supply.Supply
}

func newFakeSupplyRepo() *fakeSupplyRepo {
	return &fakeSupplyRepo{supplies: make(map[uuid.UUID]supply.Supply)}
}

func (r *fakeSupplyRepo) FindByID(_ context.Context, id uuid.UUID) (*supply.Supply, error) {
	s, ok := r.supplies[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSupplyRepo) FindAll(_ context.Context, _ shared.Filter) ([]supply.Supply, error) {
	out := make([]supply.Supply, 0, len(r.supplies))
	for _, s := range r.supplies {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSupplyRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.supplies)), nil
}

func (r *fakeSupplyRepo) Save(_ context.Context, s *supply.Supply) error {
	r.supplies[s.ID] = *s
	return nil
}

func (r *fakeSupplyRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.supplies, id)
	return nil
}

// fakeStoreRepo is an in-memory store.Repository
type fakeStoreRepo struct {
	stores map[uuid.UUID]store.Store
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{stores: make(map[uuid.UUID]store.Store)}
}

func (r *fakeStoreRepo) FindByID(_ context.Context, id uuid.UUID) (*store.Store, error) {
	s, ok := r.stores[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &s, nil
}

func (r *fakeStoreRepo) FindByCode(_ context.Context, code string) (*store.Store, error) {
	for _, s := range r.stores {
		if s.Code == code {
			return &s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeStoreRepo) FindAll(_ context.Context, _ shared.Filter) ([]store.Store, error) {
	out := make([]store.Store, 0, len(r.stores))
	for _, s := range r.stores {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeStoreRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.stores)), nil
}

func (r *fakeStoreRepo) Save(_ context.Context, s *store.Store) error {
	r.stores[s.ID] = *s
	return nil
}

func (r *fakeStoreRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.stores, id)
	return nil
}

// fakeScope mimics a database transaction over the fake repositories:
// product state is snapshotted before the function runs and restored when it
// fails, so all-or-nothing behavior is observable in tests.
type fakeScope struct {
	productRepo *fakeProductRepo
	supplyRepo  *fakeSupplyRepo
	orderRepo   order.Repository
}

func (s *fakeScope) Execute(_ context.Context, fn func(repos inventory.TransactionalRepositories) error) error {
	before := s.productRepo.snapshot()
	suppliesBefore := make(map[uuid.UUID]supply.Supply, len(s.supplyRepo.supplies))
	for id, sup := range s.supplyRepo.supplies {
		suppliesBefore[id] = sup
	}

	if err := fn(s); err != nil {
		s.productRepo.products = before
		s.supplyRepo.supplies = suppliesBefore
		return err
	}
	return nil
}

func (s *fakeScope) ProductRepo() catalog.ProductRepository { return s.productRepo }
func (s *fakeScope) SupplyRepo() supply.Repository          { return s.supplyRepo }
func (s *fakeScope) OrderRepo() order.Repository            { return s.orderRepo }
