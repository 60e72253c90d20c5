package model

import "time"

type OutboxStatus string

const (
	OutboxStatusNew       OutboxStatus = "new"
	OutboxStatusProcessed OutboxStatus = "processed"
)

const EventOrderCreated = "order.created"

// 注文と同じトランザクションで書き込むイベント
type OutboxEvent struct {
	ID          int64        `gorm:"primaryKey;autoIncrement"`
	AggregateID int64        `gorm:"not null;index"`
	EventType   string       `gorm:"type:varchar(50);not null"`
	Payload     []byte       `gorm:"type:jsonb;not null"`
	Status      OutboxStatus `gorm:"type:varchar(20);not null;default:'new';index"`
	CreatedAt   time.Time    `gorm:"not null;autoCreateTime"`
	ProcessedAt *time.Time
}
