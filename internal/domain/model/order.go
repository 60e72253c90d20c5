package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文ヘッダ（1回のチェックアウト）
type Order struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	UserID         int64           `gorm:"not null;index:idx_orders_user_date,priority:1"`
	User           *User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	TotalAmount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PaymentMethod  string          `gorm:"type:varchar(10);not null"`
	PaymentDetails *string         `gorm:"type:text"`
	Status         string          `gorm:"type:varchar(20);not null"`
	OrderDate      time.Time       `gorm:"not null;index:idx_orders_user_date,priority:2"`
	AddressID      int64           `gorm:"not null;index"`
	Address        *Address        `gorm:"foreignKey:AddressID;constraint:OnDelete:RESTRICT"`
}
