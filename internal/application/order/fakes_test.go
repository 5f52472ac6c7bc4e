package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/vclothes/backend/internal/application/inventory"
	"github.com/vclothes/backend/internal/domain/catalog"
	"github.com/vclothes/backend/internal/domain/order"
	"github.com/vclothes/backend/internal/domain/shared"
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

// fakeOrderRepo is an in-memory order.Repository
type fakeOrderRepo struct {
	orders    map[uuid.UUID]order.Order
	conflicts int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]order.Order)}
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &o, nil
}

func (r *fakeOrderRepo) FindByOrderNumber(_ context.Context, orderNumber string) (*order.Order, error) {
	for _, o := range r.orders {
		if o.OrderNumber == orderNumber {
			return &o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindByPurchaser(_ context.Context, purchaserID uuid.UUID, _ shared.Filter) ([]order.Order, error) {
	out := make([]order.Order, 0)
	for _, o := range r.orders {
		if o.PurchaserID == purchaserID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]order.Order, error) {
	out := make([]order.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.orders)), nil
}

func (r *fakeOrderRepo) Save(_ context.Context, o *order.Order) error {
	r.orders[o.ID] = *o
	return nil
}

func (r *fakeOrderRepo) SaveWithLock(_ context.Context, o *order.Order) error {
	if r.conflicts > 0 {
		r.conflicts--
		return shared.ErrConcurrencyConflict
	}
	stored, ok := r.orders[o.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != o.Version {
		return shared.ErrConcurrencyConflict
	}
	o.Version++
	r.orders[o.ID] = *o
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.orders, id)
	return nil
}

// fakeScope mimics a database transaction over the fake repositories:
// product and order state is snapshotted before the function runs and
// restored when it fails.
type fakeScope struct {
	productRepo *fakeProductRepo
	orderRepo   *fakeOrderRepo
	supplyRepo  supply.Repository
}

func (s *fakeScope) Execute(_ context.Context, fn func(repos inventory.TransactionalRepositories) error) error {
	productsBefore := make(map[uuid.UUID]catalog.Product, len(s.productRepo.products))
	for id, p := range s.productRepo.products {
		productsBefore[id] = p
	}
	ordersBefore := make(map[uuid.UUID]order.Order, len(s.orderRepo.orders))
	for id, o := range s.orderRepo.orders {
		ordersBefore[id] = o
	}

	if err := fn(s); err != nil {
		s.productRepo.products = productsBefore
		s.orderRepo.orders = ordersBefore
		return err
	}
	return nil
}

func (s *fakeScope) ProductRepo() catalog.ProductRepository { return s.productRepo }
func (s *fakeScope) SupplyRepo() supply.Repository          { return s.supplyRepo }
func (s *fakeScope) OrderRepo() order.Repository            { return s.orderRepo }
