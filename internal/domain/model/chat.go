package model

import "time"

// チャットのセッション（会話単位）
type ChatSession struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"not null;index"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Title     *string   `gorm:"type:varchar(255)"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index"`
}

// チャットの1メッセージ
type ChatLog struct {
	ID        int64        `gorm:"primaryKey;autoIncrement"`
	SessionID int64        `gorm:"not null;index"`
	Session   *ChatSession `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
	UserID    int64        `gorm:"not null;index"`
	User      *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Message   string       `gorm:"type:text;not null"`
	Sender    string       `gorm:"type:varchar(20);not null"`
	Timestamp time.Time    `gorm:"not null;index"`
}
