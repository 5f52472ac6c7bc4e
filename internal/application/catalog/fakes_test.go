package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vclothes/backend/internal/domain/catalog"
	"github.com/vclothes/backend/internal/domain/shared"
)

// fakeProductRepo is an in-memory ProductRepository. SaveWithLock mimics the
// optimistic version check of the real repository, and Save enforces SKU
// uniqueness the way the database unique index would.
type fakeProductRepo struct {
	mu        sync.Mutex
	products  map[uuid.UUID]catalog.Product
	conflicts int // SaveWithLock fails this many times before succeeding
	saveFails int // Save fails with ALREADY_EXISTS this many times
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]catalog.Product)}
}

func (r *fakeProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProductRepo) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sku = strings.ToUpper(sku)
	for _, p := range r.products {
		if p.SKU == sku {
			return &p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveFails > 0 {
		r.saveFails--
		return shared.ErrAlreadyExists
	}
	for id, existing := range r.products {
		if id != product.ID && existing.SKU == product.SKU {
			return shared.ErrAlreadyExists
		}
	}
	r.products[product.ID] = *product
	return nil
}

func (r *fakeProductRepo) SaveWithLock(_ context.Context, product *catalog.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
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
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

// fakeCategoryRepo is an in-memory CategoryRepository
type fakeCategoryRepo struct {
	categories map[uuid.UUID]catalog.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[uuid.UUID]catalog.Category)}
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (r *fakeCategoryRepo) FindByName(_ context.Context, name string) (*catalog.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeCategoryRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Category, error) {
	out := make([]catalog.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCategoryRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.categories)), nil
}

func (r *fakeCategoryRepo) Save(_ context.Context, category *catalog.Category) error {
	r.categories[category.ID] = *category
	return nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

// fakeBrandRepo is an in-memory BrandRepository
type fakeBrandRepo struct {
	brands map[uuid.UUID]catalog.Brand
}

func newFakeBrandRepo() *fakeBrandRepo {
	return &fakeBrandRepo{brands: make(map[uuid.UUID]catalog.Brand)}
}

func (r *fakeBrandRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Brand, error) {
	b, ok := r.brands[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &b, nil
}

func (r *fakeBrandRepo) FindByName(_ context.Context, name string) (*catalog.Brand, error) {
	for _, b := range r.brands {
		if b.Name == name {
			return &b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBrandRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Brand, error) {
	out := make([]catalog.Brand, 0, len(r.brands))
	for _, b := range r.brands {
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBrandRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.brands)), nil
}

func (r *fakeBrandRepo) Save(_ context.Context, brand *catalog.Brand) error {
	r.brands[brand.ID] = *brand
	return nil
}

func (r *fakeBrandRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.brands, id)
	return nil
}
