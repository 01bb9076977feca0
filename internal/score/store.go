package score

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store opens units of work over a gorm database.
type Store struct {
	DB *gorm.DB
}

// Transaction runs fn inside one database transaction. Any error from fn
// rolls back everything fn wrote.
func (s *Store) Transaction(ctx context.Context, fn func(uow UnitOfWork) error) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewUnitOfWork(tx))
	})
}

// NewUnitOfWork binds the score repositories to tx. Statements issued from
// concurrent goroutines are serialised, since a transaction owns a single
// connection.
func NewUnitOfWork(tx *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{tx: tx, mu: &sync.Mutex{}}
}

type gormUnitOfWork struct {
	tx *gorm.DB
	mu *sync.Mutex
}

func (u *gormUnitOfWork) ScoreLogs() ScoreLogRepository { return scoreLogRepo{u} }
func (u *gormUnitOfWork) Entries() EntryRepository { return entryRepo{u} }
func (u *gormUnitOfWork) Stats() StatsRepository { return statsRepo{u} }
func (u *gormUnitOfWork) Bests() PeriodBestRepository { return bestRepo{u} }

func (u *gormUnitOfWork) do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return fn(u.tx.WithContext(ctx))
}

type scoreLogRepo struct{ u *gormUnitOfWork }

func (r scoreLogRepo) Create(ctx context.Context, log *ScoreLog) error {
	return r.u.do(ctx, func(tx *gorm.DB) error {
		return tx.Create(log).Error
	})
}

func (r scoreLogRepo) LoadByParent(ctx context.Context, userID uint64) (*ScoreLog, error) {
	var log ScoreLog
	err := r.u.do(ctx, func(tx *gorm.DB) error {
		return tx.Where("user_id = ?", userID).First(&log).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}

type entryRepo struct{ u *gormUnitOfWork }

// Create inserts with ON CONFLICT DO NOTHING so a duplicate leaves the
// surrounding postgres transaction usable.
func (r entryRepo) Create(ctx context.Context, entry *Entry) error {
	var affected int64
	err := r.u.do(ctx, func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "score_log_id"},
				{Name: "source"},
				{Name: "source_id"},
				{Name: "success"},
			},
			DoNothing: true,
		}).Create(entry)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlreadyExists
	}
	return nil
}

func (r entryRepo) ListByScoreLog(ctx context.Context, scoreLogID uint64, since time.Time) ([]Entry, error) {
	var out []Entry
	err := r.u.do(ctx, func(tx *gorm.DB) error {
		return tx.Where("score_log_id = ? AND created_time >= ?", scoreLogID, since).
			Order("created_time asc, id asc").
			Find(&out).Error
	})
	return out, err
}

type statsRepo struct{ u *gormUnitOfWork }

func (r statsRepo) LoadByKeyOptional(ctx context.Context, key StatsKey) (*Stats, error) {
	var rows []Stats
	err := r.u.do(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("score_log_id = ? AND period = ? AND timeline = ?", key.ScoreLogID, key.Period, key.Timeline).
			Limit(1).
			Find(&rows).Error
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (r statsRepo) Create(ctx context.Context, stats *Stats) error {
	return r.u.do(ctx, func(tx *gorm.DB) error {
		return tx.Create(stats).Error
	})
}

func (r statsRepo) Save(ctx context.Context, stats *Stats) error {
	return r.u.do(ctx, func(tx *gorm.DB) error {
		return tx.Save(stats).Error
	})
}

func (r statsRepo) FindRange(ctx context.Context, scoreLogID uint64, period Period, fromTimeline, toTimeline string) ([]Stats, error) {
	var out []Stats
	err := r.u.do(ctx, func(tx *gorm.DB) error {
		return tx.Where("score_log_id = ? AND period = ? AND timeline >= ? AND timeline <= ?",
			scoreLogID, period, fromTimeline, toTimeline).
			Order("timeline asc").
			Find(&out).Error
	})
	return out, err
}

type bestRepo struct{ u *gormUnitOfWork }

func (r bestRepo) LoadByKeyOptional(ctx context.Context, key PeriodBestKey) (*PeriodBest, error) {
	var rows []PeriodBest
	err := r.u.do(ctx, func(tx *gorm.DB) error {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("score_log_id = ? AND period = ? AND timeline = ? AND sub_period = ?",
				key.ScoreLogID, key.Period, key.Timeline, key.SubPeriod).
			Limit(1).
			Find(&rows).Error
	})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func (r bestRepo) Create(ctx context.Context, best *PeriodBest) error {
	return r.u.do(ctx, func(tx *gorm.DB) error {
		return tx.Create(best).Error
	})
}

func (r bestRepo) Save(ctx context.Context, best *PeriodBest) error {
	return r.u.do(ctx, func(tx *gorm.DB) error {
		return tx.Save(best).Error
	})
}
