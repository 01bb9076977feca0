package notify

import (
	"context"
	"os"
	"testing"
	"time"

	"scorelog/internal/logger"
	"scorelog/internal/score"
)

func TestNopPublisher(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.PublishScore(context.Background(), ScoreEvent{UserID: 1}); err != nil {
		t.Fatalf("PublishScore: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewRedisPublisherRequiresAddr(t *testing.T) {
	if _, err := NewRedisPublisher(context.Background(), "", "x", logger.Nop()); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestRedisPublisherIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p, err := NewRedisPublisher(ctx, addr, "score_events_test", logger.Nop())
	if err != nil {
		t.Fatalf("NewRedisPublisher: %v", err)
	}
	defer p.Close()

	ev := ScoreEvent{
		UserID:     7,
		TaskKind:   score.EntrySourceInboxTask,
		TaskID:     3,
		Result:     score.RecordResult{LatestTaskScore: 2},
		RecordedAt: time.Now().UTC(),
	}
	if err := p.PublishScore(ctx, ev); err != nil {
		t.Fatalf("PublishScore: %v", err)
	}
}
