package repository

import (
	"context"
	"ecoshop/internal/domain/model"
)

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	ListAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	// name/description/category/brand の部分一致（大文字小文字は無視）
	Search(ctx context.Context, q string) ([]model.Product, error)
	ListByCategory(ctx context.Context, category string) ([]model.Product, error)

	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, products []model.Product) error
}
