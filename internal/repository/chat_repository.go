package repository

import (
	"context"

	"ecoshop/internal/domain/model"
)

type ChatRepository interface {
	CreateSession(ctx context.Context, s model.ChatSession) (model.ChatSession, error)
	// 新しい順
	ListSessionsByUserID(ctx context.Context, userID int64) ([]model.ChatSession, error)
	FindSessionForUser(ctx context.Context, sessionID, userID int64) (model.ChatSession, error)

	// 1回のINSERTでまとめて保存
	CreateLogs(ctx context.Context, logs []model.ChatLog) error
	// 古い順
	ListLogs(ctx context.Context, sessionID, userID int64) ([]model.ChatLog, error)
}
