package catalog

import (
	"context"
	"fmt"
	"math"

	"ecoshop/internal/domain/model"
	"ecoshop/internal/repository"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

var (
	Categories = []string{"shirts", "laptop", "mobile", "books", "fashion", "electronics", "home", "sports", "accessories"}
	Brands     = []string{"Levi's", "Nike", "Samsung", "Apple", "HP", "Puma", "Sony", "Adidas", "Realme"}
)

// デモ用のランダムな商品を入れる
type Seeder struct {
	products repository.ProductRepository
	faker    *gofakeit.Faker
	log      *log.Logger
}

// seedが0なら毎回違う商品になる
func NewSeeder(products repository.ProductRepository, seed uint64, logger *log.Logger) *Seeder {
	return &Seeder{products: products, faker: gofakeit.New(seed), log: logger}
}

func (s *Seeder) Generate(n int) []model.Product {
	out := make([]model.Product, 0, n)
	for i := 0; i < n; i++ {
		desc := s.faker.ProductDescription()
		img := fmt.Sprintf("https://picsum.photos/seed/%s/400/400", s.faker.UUID())
		brand := s.faker.RandomString(Brands)
		rating := math.Round(s.faker.Float64Range(1, 5)*10) / 10

		out = append(out, model.Product{
			Name:          truncate(s.faker.ProductName(), 120),
			Category:      s.faker.RandomString(Categories),
			Price:         decimal.NewFromFloat(s.faker.Price(5, 2000)).Round(2),
			Description:   &desc,
			ImageURL:      &img,
			Rating:        &rating,
			StockQuantity: int64(s.faker.IntRange(0, 100)),
			Brand:         &brand,
		})
	}
	return out
}

func (s *Seeder) Seed(ctx context.Context, n int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	products := s.Generate(n)
	if err := s.products.CreateBatch(ctx, products); err != nil {
		return 0, fmt.Errorf("seed products: %w", err)
	}
	s.log.Infoj(log.JSON{"msg": "catalog seeded", "count": len(products)})
	return len(products), nil
}

// 商品テーブルが空のときだけ入れる
func (s *Seeder) SeedIfEmpty(ctx context.Context, n int) (int, error) {
	count, err := s.products.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	return s.Seed(ctx, n)
}

// categoryは大文字小文字を畳んで保存する
func foldCategory(c string) string {
	return cases.Fold().String(c)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
