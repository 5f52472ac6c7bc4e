package engagement

import (
	"context"

	"github.com/google/uuid"

	"github.com/vclothes/backend/internal/domain/catalog"
	"github.com/vclothes/backend/internal/domain/engagement"
	"github.com/vclothes/backend/internal/domain/shared"
)

type fakeProductRepo struct {
	products map[uuid.UUID]catalog.Product
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

func (r *fakeProductRepo) Save(_ context.Context, p *catalog.Product) error {
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) SaveWithLock(_ context.Context, p *catalog.Product) error {
	stored, ok := r.products[p.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != p.Version {
		return shared.ErrConcurrencyConflict
	}
	p.Version++
	r.products[p.ID] = *p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

type fakeWishlistRepo struct {
	wishlists map[uuid.UUID]engagement.Wishlist
}

func newFakeWishlistRepo() *fakeWishlistRepo {
	return &fakeWishlistRepo{wishlists: make(map[uuid.UUID]engagement.Wishlist)}
}

func (r *fakeWishlistRepo) FindByID(_ context.Context, id uuid.UUID) (*engagement.Wishlist, error) {
	w, ok := r.wishlists[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &w, nil
}

func (r *fakeWishlistRepo) FindByUser(_ context.Context, userID uuid.UUID) (*engagement.Wishlist, error) {
	for _, w := range r.wishlists {
		if w.UserID == userID {
			return &w, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeWishlistRepo) Save(_ context.Context, w *engagement.Wishlist) error {
	r.wishlists[w.ID] = *w
	return nil
}

func (r *fakeWishlistRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.wishlists, id)
	return nil
}

type fakeNotificationRepo struct {
	notifications map[uuid.UUID]engagement.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[uuid.UUID]engagement.Notification)}
}

func (r *fakeNotificationRepo) FindByID(_ context.Context, id uuid.UUID) (*engagement.Notification, error) {
	n, ok := r.notifications[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &n, nil
}

func (r *fakeNotificationRepo) FindByRecipient(_ context.Context, recipientID uuid.UUID, _ shared.Filter) ([]engagement.Notification, error) {
	out := make([]engagement.Notification, 0)
	for _, n := range r.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) Save(_ context.Context, n *engagement.Notification) error {
	r.notifications[n.ID] = *n
	return nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.notifications, id)
	return nil
}
