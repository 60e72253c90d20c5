package model

import "github.com/shopspring/decimal"

// 注文明細。注文が消えたら一緒に消える（ON DELETE CASCADE）
type OrderItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	OrderID   int64           `gorm:"not null;index"`
	Order     *Order          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ProductID string          `gorm:"type:varchar(36);not null"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}
