package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderListFilter struct {
	Status *model.OrderStatus
	Mobile string
	//0なら全件
	Limit  int
	Offset int
}

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (model.Order, error)
	//同じIDがあればErrConflict
	Create(ctx context.Context, order model.Order) error
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error

	//新しい順
	List(ctx context.Context, f OrderListFilter) ([]model.Order, error)
}
