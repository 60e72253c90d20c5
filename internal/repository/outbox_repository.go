package repository

import (
	"context"
	"time"

	"ecoshop/internal/domain/model"
)

type OutboxRepository interface {
	Create(ctx context.Context, e model.OutboxEvent) error
	// status=newを古い順にlimit件
	FetchPending(ctx context.Context, limit int) ([]model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id int64, at time.Time) error
}
