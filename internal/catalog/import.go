package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"ecoshop/internal/domain/model"
	"ecoshop/internal/repository"

	"github.com/shopspring/decimal"
)

// インポートファイルの1件（/products のJSONと同じ形）
type importProduct struct {
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Price         *decimal.Decimal `json:"price"`
	Description   *string          `json:"description"`
	Image         *string          `json:"image"`
	Rating        *float64         `json:"rating"`
	StockQuantity *int64           `json:"stock_quantity"`
	InStock       *bool            `json:"inStock"`
	Brand         *string          `json:"brand"`
}

// JSON配列を読んで一括登録する。1件でも不正なら何も入れない。
func Import(ctx context.Context, r io.Reader, products repository.ProductRepository) (int, error) {
	var raw []importProduct
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return 0, fmt.Errorf("decode products: %w", err)
	}

	out := make([]model.Product, 0, len(raw))
	for i, p := range raw {
		m, err := p.toModel()
		if err != nil {
			return 0, fmt.Errorf("product[%d]: %w", i, err)
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return 0, nil
	}

	if err := products.CreateBatch(ctx, out); err != nil {
		return 0, fmt.Errorf("import products: %w", err)
	}
	return len(out), nil
}

func (p importProduct) toModel() (model.Product, error) {
	name := strings.TrimSpace(p.Name)
	category := strings.TrimSpace(p.Category)
	switch {
	case name == "":
		return model.Product{}, fmt.Errorf("name is required")
	case len([]rune(name)) > 120:
		return model.Product{}, fmt.Errorf("name is too long")
	case category == "":
		return model.Product{}, fmt.Errorf("category is required")
	case p.Price == nil || p.Price.IsNegative():
		return model.Product{}, fmt.Errorf("invalid price")
	case p.Rating != nil && (*p.Rating < 0 || *p.Rating > 5):
		return model.Product{}, fmt.Errorf("rating must be between 0 and 5")
	}

	//stock_quantityが無ければinStockから決める
	var stock int64
	switch {
	case p.StockQuantity != nil:
		stock = *p.StockQuantity
	case p.InStock != nil && *p.InStock:
		stock = 1
	}
	if stock < 0 {
		return model.Product{}, fmt.Errorf("stock_quantity must be >= 0")
	}

	return model.Product{
		Name:          name,
		Category:      truncate(foldCategory(category), 50),
		Price:         p.Price.Round(2),
		Description:   p.Description,
		ImageURL:      p.Image,
		Rating:        p.Rating,
		StockQuantity: stock,
		Brand:         p.Brand,
	}, nil
}
