package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

const OrdersQueue = "orders_queue"

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type session struct {
	conn interface{ Close() error }
	ch   channel
}

func (s *session) close() error {
	if err := s.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		s.conn.Close()
		return err
	}
	if err := s.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return err
	}
	return nil
}

// outboxのイベントをRabbitMQのキューに流す
type Publisher struct {
	mu      sync.Mutex
	sess    *session
	connect func(ctx context.Context) (*session, error)
	queue   string
	log     *log.Logger
}

// 起動直後はブローカーが上がっていないことがあるので数回リトライする
func Dial(ctx context.Context, url, queue string, attempts int, logger *log.Logger) (*Publisher, error) {
	if attempts <= 0 {
		attempts = 1
	}

	p := &Publisher{
		queue: queue,
		log:   logger,
		connect: func(ctx context.Context) (*session, error) {
			return openSession(url, queue)
		},
	}

	var (
		sess *session
		err  error
	)
	for i := 0; i < attempts; i++ {
		sess, err = p.connect(ctx)
		if err == nil {
			break
		}
		logger.Warnj(log.JSON{"msg": "amqp dial failed", "attempt": i + 1, "of": attempts, "error": err.Error()})
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		return nil, err
	}

	p.sess = sess
	return p, nil
}

func openSession(url, queue string) (*session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	//durableなキュー
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	return &session{conn: conn, ch: ch}, nil
}

// Publishは接続が切れていれば1回だけ張り直してから送る。
// 張り直しに失敗したらエラーを返し、イベントは次のtickで再送される。
func (p *Publisher) Publish(ctx context.Context, eventType string, body []byte) error {
	//Channelはgoroutine safeではない
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess == nil || p.sess.ch.IsClosed() {
		if p.sess != nil {
			p.sess.close()
			p.sess = nil
		}
		sess, err := p.connect(ctx)
		if err != nil {
			return fmt.Errorf("reconnect amqp: %w", err)
		}
		p.log.Infoj(log.JSON{"msg": "amqp reconnected", "queue": p.queue})
		p.sess = sess
	}

	err := p.sess.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Type:         eventType,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if errors.Is(err, amqp.ErrClosed) {
		//次回のPublishで張り直す
		p.sess.close()
		p.sess = nil
	}
	return err
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess == nil {
		return nil
	}
	err := p.sess.close()
	p.sess = nil
	return err
}
