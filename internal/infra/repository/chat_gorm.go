package repository

import (
	"context"
	"errors"
	"fmt"

	"ecoshop/internal/domain/model"
	repo "ecoshop/internal/repository"

	"gorm.io/gorm"
)

type chatGormRepository struct {
	db *gorm.DB
}

func NewChatGormRepository(db *gorm.DB) repo.ChatRepository {
	return &chatGormRepository{db: db}
}

func (r *chatGormRepository) CreateSession(ctx context.Context, s model.ChatSession) (model.ChatSession, error) {
	if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
		return model.ChatSession{}, fmt.Errorf("create chat session: %w", err)
	}
	return s, nil
}

func (r *chatGormRepository) ListSessionsByUserID(ctx context.Context, userID int64) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Order("id desc").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	return sessions, nil
}

func (r *chatGormRepository) FindSessionForUser(ctx context.Context, sessionID, userID int64) (model.ChatSession, error) {
	var s model.ChatSession
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ChatSession{}, repo.ErrNotFound
	}
	if err != nil {
		return model.ChatSession{}, fmt.Errorf("find chat session: %w", err)
	}
	return s, nil
}

// 複数行INSERTなので全件入るか全件入らないか
func (r *chatGormRepository) CreateLogs(ctx context.Context, logs []model.ChatLog) error {
	if len(logs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&logs).Error; err != nil {
		return fmt.Errorf("create chat logs: %w", err)
	}
	return nil
}

func (r *chatGormRepository) ListLogs(ctx context.Context, sessionID, userID int64) ([]model.ChatLog, error) {
	var logs []model.ChatLog
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Order("timestamp asc").
		Order("id asc").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("list chat logs: %w", err)
	}
	return logs, nil
}
