package repository

import (
	"context"

	"ecoshop/internal/domain/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (int64, error)
	// 注文日時の新しい順
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	FindByIDForUser(ctx context.Context, orderID, userID int64) (model.Order, error)
}
