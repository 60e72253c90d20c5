package repository

import (
	"context"

	"ecoshop/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（username/email重複は gorm.ErrDuplicatedKey）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//usernameかemailのどちらかが使われているか
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID int64) error
	//全ユーザー（開発用）
	List(ctx context.Context) ([]model.User, error)
}
