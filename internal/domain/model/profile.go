package model

import "time"

// ユーザーのプロフィール（1ユーザー1件）
type Profile struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	FirstName *string   `gorm:"type:varchar(255)" json:"first_name"`
	LastName  *string   `gorm:"type:varchar(255)" json:"last_name"`
	Gender    *string   `gorm:"type:varchar(10)" json:"gender"`
	Mail      *string   `gorm:"type:varchar(255)" json:"mail"`
	Phone     *string   `gorm:"type:varchar(20)" json:"phone"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
