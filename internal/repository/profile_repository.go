package repository

import (
	"context"

	"ecoshop/internal/domain/model"
)

type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID int64) (model.Profile, error)
	// 無ければ作る
	GetOrCreate(ctx context.Context, userID int64, newID string) (model.Profile, error)
	// user_idで作成 or 更新
	Upsert(ctx context.Context, p model.Profile) error
}
