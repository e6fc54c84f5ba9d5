package repository

import (
	"context"
	"sync"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// ProductMemoryRepository keeps the catalog in insertion order.
type ProductMemoryRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]model.Product
}

// DI
func NewProductMemoryRepository(seed []model.Product) *ProductMemoryRepository {
	r := &ProductMemoryRepository{byID: make(map[string]model.Product, len(seed))}
	for _, p := range seed {
		if _, dup := r.byID[p.ID]; dup {
			continue
		}
		r.order = append(r.order, p.ID)
		r.byID[p.ID] = p
	}
	return r
}

func (r *ProductMemoryRepository) List(ctx context.Context) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out, nil
}

// IDで商品を取得
func (r *ProductMemoryRepository) FindByID(ctx context.Context, id string) (model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (r *ProductMemoryRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; ok {
		return model.Product{}, repo.ErrConflict
	}
	r.order = append(r.order, p.ID)
	r.byID[p.ID] = p
	return p, nil
}

func (r *ProductMemoryRepository) Update(ctx context.Context, p model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; !ok {
		return repo.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *ProductMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
