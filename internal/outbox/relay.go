package outbox

import (
	"context"
	"time"

	repo "ecoshop/internal/repository"

	"github.com/labstack/gommon/log"
)

type Publisher interface {
	Publish(ctx context.Context, eventType string, body []byte) error
}

type Logger interface {
	Infoj(j log.JSON)
	Warnj(j log.JSON)
	Errorj(j log.JSON)
}

// status=newのイベントを定期的にブローカーへ送る
type Relay struct {
	tx       repo.TransactionManager
	pub      Publisher
	interval time.Duration
	batch    int
	now      func() time.Time
	log      Logger
}

func NewRelay(tx repo.TransactionManager, pub Publisher, interval time.Duration, batch int, logger Logger) *Relay {
	return &Relay{
		tx:       tx,
		pub:      pub,
		interval: interval,
		batch:    batch,
		now:      func() time.Time { return time.Now().UTC() },
		log:      logger,
	}
}

// ctxがキャンセルされるまで回る
func (r *Relay) Run(ctx context.Context) error {
	r.log.Infoj(log.JSON{"msg": "outbox relay started", "interval": r.interval.String(), "batch": r.batch})

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Infoj(log.JSON{"msg": "outbox relay stopped"})
			return nil
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
				r.log.Errorj(log.JSON{"msg": "outbox relay tick failed", "error": err.Error()})
			}
		}
	}
}

// 1バッチ分を送る。FOR UPDATE SKIP LOCKEDなので複数プロセスでも二重に取らない。
// 送信済みでmarkに失敗した場合は次回もう一度送る（at-least-once）。
func (r *Relay) RunOnce(ctx context.Context) (int, error) {
	published := 0
	err := r.tx.WithinTx(ctx, func(tx repo.TxRepos) error {
		events, err := tx.Outbox().FetchPending(ctx, r.batch)
		if err != nil {
			return err
		}
		for _, ev := range events {
			if err := r.pub.Publish(ctx, ev.EventType, ev.Payload); err != nil {
				//newのまま残して次のtickで再送
				r.log.Warnj(log.JSON{"msg": "publish failed", "event_id": ev.ID, "error": err.Error()})
				continue
			}
			if err := tx.Outbox().MarkProcessed(ctx, ev.ID, r.now()); err != nil {
				return err
			}
			published++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if published > 0 {
		r.log.Infoj(log.JSON{"msg": "outbox events published", "count": published})
	}
	return published, nil
}
