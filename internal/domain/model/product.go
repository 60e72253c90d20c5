package model

import "github.com/shopspring/decimal"

type Product struct {
	ID            int64           `gorm:"primaryKey;autoIncrement"`
	Name          string          `gorm:"type:varchar(120);not null"`
	Category      string          `gorm:"type:varchar(50);not null;index"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Description   *string         `gorm:"type:text"`
	ImageURL      *string         `gorm:"type:varchar(255)"`
	Rating        *float64
	StockQuantity int64   `gorm:"not null;default:0"`
	Brand         *string `gorm:"type:varchar(100)"`
}

// 在庫ありか
func (p Product) InStock() bool {
	return p.StockQuantity > 0
}
