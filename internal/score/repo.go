package score

import (
	"context"
	"time"
)

// UnitOfWork exposes the score repositories bound to one transaction.
type UnitOfWork interface {
	ScoreLogs() ScoreLogRepository
	Entries() EntryRepository
	Stats() StatsRepository
	Bests() PeriodBestRepository
}

type ScoreLogRepository interface {
	Create(ctx context.Context, log *ScoreLog) error
	// LoadByParent returns ErrNotFound when the user has no score log.
	LoadByParent(ctx context.Context, userID uint64) (*ScoreLog, error)
}

type EntryRepository interface {
	// Create returns ErrAlreadyExists when the uniqueness key collides.
	Create(ctx context.Context, entry *Entry) error
	ListByScoreLog(ctx context.Context, scoreLogID uint64, since time.Time) ([]Entry, error)
}

type StatsRepository interface {
	// LoadByKeyOptional returns nil, nil when the row does not exist.
	LoadByKeyOptional(ctx context.Context, key StatsKey) (*Stats, error)
	Create(ctx context.Context, stats *Stats) error
	Save(ctx context.Context, stats *Stats) error
	// FindRange returns rows of one period with fromTimeline <= timeline <=
	// toTimeline, oldest first.
	FindRange(ctx context.Context, scoreLogID uint64, period Period, fromTimeline, toTimeline string) ([]Stats, error)
}

type PeriodBestRepository interface {
	LoadByKeyOptional(ctx context.Context, key PeriodBestKey) (*PeriodBest, error)
	Create(ctx context.Context, best *PeriodBest) error
	Save(ctx context.Context, best *PeriodBest) error
}
