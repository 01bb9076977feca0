package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"scorelog/internal/logger"
	"scorelog/internal/score"
)

// ScoreEvent is published after a recorded score commits.
type ScoreEvent struct {
	UserID     uint64             `json:"user_id"`
	TaskKind   score.EntrySource  `json:"task_kind"`
	TaskID     uint64             `json:"task_id"`
	Result     score.RecordResult `json:"result"`
	RecordedAt time.Time          `json:"recorded_at"`
}

type Publisher interface {
	PublishScore(ctx context.Context, ev ScoreEvent) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) PublishScore(context.Context, ScoreEvent) error { return nil }
func (Nop) Close() error { return nil }

type redisPublisher struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewRedisPublisher connects to addr and publishes events on channel.
func NewRedisPublisher(ctx context.Context, addr, channel string, log *logger.Logger) (Publisher, error) {
	if addr == "" {
		return nil, fmt.Errorf("missing redis addr")
	}
	if channel == "" {
		channel = "score_events"
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisPublisher{
		log:     log.With("service", "RedisScorePublisher"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (p *redisPublisher) PublishScore(ctx context.Context, ev ScoreEvent) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := p.rdb.Publish(ctx, p.channel, raw).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	p.log.Debug("score event published", "user_id", ev.UserID, "task_id", ev.TaskID)
	return nil
}

func (p *redisPublisher) Close() error {
	return p.rdb.Close()
}
