package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ecoshop/internal/domain/model"
	repo "ecoshop/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Order("id asc").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

// 4カラムのどれかに部分一致
func (r *ProductGormRepository) Search(ctx context.Context, q string) ([]model.Product, error) {
	like := "%" + escapeLike(strings.TrimSpace(q)) + "%"

	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR description ILIKE ? OR category ILIKE ? OR brand ILIKE ?", like, like, like, like).
		Order("id asc").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

func (r *ProductGormRepository) ListByCategory(ctx context.Context, category string) ([]model.Product, error) {
	like := "%" + escapeLike(strings.TrimSpace(category)) + "%"

	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("category ILIKE ?", like).
		Order("id asc").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	return products, nil
}

func (r *ProductGormRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

// 商品をまとめて作成
func (r *ProductGormRepository) CreateBatch(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).CreateInBatches(&products, 100).Error; err != nil {
		return fmt.Errorf("create products: %w", err)
	}
	return nil
}

// ILIKEのワイルドカードを文字として扱う
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
