package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"ecoshop/internal/domain/model"
	"ecoshop/internal/repository"

	"github.com/labstack/gommon/log"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const maxQueryLen = 100

type ProductDTO struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	Description   *string         `json:"description"`
	Image         *string         `json:"image"`
	Rating        *float64        `json:"rating"`
	InStock       bool            `json:"inStock"`
	StockQuantity int64           `json:"stock_quantity"`
	Brand         *string         `json:"brand"`
}

type ProductUsecase struct {
	products repository.ProductRepository
	log      Logger
}

func NewProductUsecase(products repository.ProductRepository, logger Logger) *ProductUsecase {
	return &ProductUsecase{products: products, log: logger}
}

func (u *ProductUsecase) List(ctx context.Context) ([]ProductDTO, error) {
	list, err := u.products.ListAll(ctx)
	if err != nil {
		return nil, u.internal("list products failed", err)
	}
	return toProductDTOs(list), nil
}

func (u *ProductUsecase) Get(ctx context.Context, id int64) (ProductDTO, error) {
	if id <= 0 {
		return ProductDTO{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	p, err := u.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ProductDTO{}, NewHTTPError(http.StatusNotFound, "Product not found")
		}
		return ProductDTO{}, u.internal("get product failed", err)
	}
	return toProductDTO(p), nil
}

// 空のqは全件
func (u *ProductUsecase) Search(ctx context.Context, q string) ([]ProductDTO, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) > maxQueryLen {
		return nil, NewHTTPError(http.StatusBadRequest, "query is too long")
	}
	if q == "" {
		return u.List(ctx)
	}
	list, err := u.products.Search(ctx, q)
	if err != nil {
		return nil, u.internal("search products failed", err)
	}
	return toProductDTOs(list), nil
}

func (u *ProductUsecase) ByCategory(ctx context.Context, category string) ([]ProductDTO, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "category is required")
	}
	if utf8.RuneCountInString(category) > maxQueryLen {
		return nil, NewHTTPError(http.StatusBadRequest, "category is too long")
	}
	list, err := u.products.ListByCategory(ctx, category)
	if err != nil {
		return nil, u.internal("list products by category failed", err)
	}
	return toProductDTOs(list), nil
}

func toProductDTOs(list []model.Product) []ProductDTO {
	return lo.Map(list, func(p model.Product, _ int) ProductDTO {
		return toProductDTO(p)
	})
}

func toProductDTO(p model.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Price:         p.Price,
		Description:   p.Description,
		Image:         p.ImageURL,
		Rating:        p.Rating,
		InStock:       p.InStock(),
		StockQuantity: p.StockQuantity,
		Brand:         p.Brand,
	}
}

func (u *ProductUsecase) internal(msg string, err error) error {
	u.log.Errorj(log.JSON{"msg": msg, "error": err.Error()})
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}
