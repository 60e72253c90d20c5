package repository

import (
	"context"
	"fmt"
	"time"

	"ecoshop/internal/domain/model"
	repo "ecoshop/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OutboxGormRepository struct {
	db *gorm.DB
}

func NewOutboxGormRepository(db *gorm.DB) *OutboxGormRepository {
	return &OutboxGormRepository{db: db}
}

func (r *OutboxGormRepository) Create(ctx context.Context, e model.OutboxEvent) error {
	if e.Status == "" {
		e.Status = model.OutboxStatusNew
	}
	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		return fmt.Errorf("create outbox event: %w", err)
	}
	return nil
}

// 複数relayが動いても同じ行を取らないよう SKIP LOCKED
func (r *OutboxGormRepository) FetchPending(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	var events []model.OutboxEvent
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", model.OutboxStatusNew).
		Order("id asc").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("fetch outbox events: %w", err)
	}
	return events, nil
}

func (r *OutboxGormRepository) MarkProcessed(ctx context.Context, id int64, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.OutboxEvent{}).
		Where("id = ? AND status = ?", id, model.OutboxStatusNew).
		Updates(map[string]interface{}{
			"status":       model.OutboxStatusProcessed,
			"processed_at": at,
		})
	if res.Error != nil {
		return fmt.Errorf("mark outbox event: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
