package repository

import (
	"context"
	"sync"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type OrderMemoryRepository struct {
	mu     sync.RWMutex
	orders []model.Order // 作成順
	index  map[string]int
}

func NewOrderMemoryRepository() *OrderMemoryRepository {
	return &OrderMemoryRepository{index: make(map[string]int)}
}

func (r *OrderMemoryRepository) FindByID(ctx context.Context, id string) (model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return cloneOrder(r.orders[i]), nil
}

func (r *OrderMemoryRepository) Create(ctx context.Context, order model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[order.ID]; ok {
		return repo.ErrConflict
	}
	r.index[order.ID] = len(r.orders)
	r.orders = append(r.orders, cloneOrder(order))
	return nil
}

func (r *OrderMemoryRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return repo.ErrNotFound
	}
	r.orders[i].Status = status
	return nil
}

func (r *OrderMemoryRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	items := []model.Order{}
	skipped := 0
	//新しい順
	for i := len(r.orders) - 1; i >= 0; i-- {
		o := r.orders[i]
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		if f.Mobile != "" && o.Mobile != f.Mobile {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		items = append(items, cloneOrder(o))
		if f.Limit > 0 && len(items) >= f.Limit {
			break
		}
	}
	return items, nil
}

func cloneOrder(o model.Order) model.Order {
	o.Items = append([]model.CartItem(nil), o.Items...)
	return o
}
