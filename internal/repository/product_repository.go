package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// 商品カタログの保存・取得だけを約束。
type ProductRepository interface {
	//登録順で返す
	List(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id string) (model.Product, error)

	//同じIDがあればErrConflict
	Create(ctx context.Context, p model.Product) (model.Product, error)
	//無ければErrNotFound
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id string) error
}
