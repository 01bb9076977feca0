package score

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"scorelog/internal/logger"
)

type Service struct {
	clock Clock
	luck  Luck
	log   *logger.Logger
}

func NewService(clock Clock, luck Luck, baseLog *logger.Logger) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &Service{clock: clock, luck: luck, log: baseLog.With("service", "ScoreService")}
}

// CreateScoreLog creates the score log of a newly registered user.
func (s *Service) CreateScoreLog(ctx context.Context, uow UnitOfWork, userID uint64) (*ScoreLog, error) {
	now := s.clock.Now()
	log := &ScoreLog{UserID: userID, CreatedTime: now, LastModifiedTime: now}
	if err := uow.ScoreLogs().Create(ctx, log); err != nil {
		return nil, fmt.Errorf("create score log: %w", err)
	}
	return log, nil
}

// RecordTask scores a completed task and rolls it into every stats bucket
// and period best of the moment it completed. It returns nil, nil when the
// task is not completed or its outcome was already recorded.
func (s *Service) RecordTask(ctx context.Context, uow UnitOfWork, userID uint64, task Task) (*RecordResult, error) {
	if task == nil || !task.TaskStatus().IsCompleted() {
		return nil, nil
	}

	scoreLog, err := uow.ScoreLogs().LoadByParent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load score log for user %d: %w", userID, err)
	}

	now := s.clock.Now()

	var entry Entry
	switch t := task.(type) {
	case InboxTask:
		entry, err = NewEntryFromInboxTask(scoreLog.ID, t, s.luck, now)
	case BigPlan:
		entry, err = NewEntryFromBigPlan(scoreLog.ID, t, s.luck, now)
	default:
		err = fmt.Errorf("%w: unsupported task type %T", ErrInvalidTask, task)
	}
	if err != nil {
		return nil, err
	}

	if err := uow.Entries().Create(ctx, &entry); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			s.log.Debug("score already recorded",
				"user_id", userID, "source", entry.Source, "source_id", entry.SourceID, "success", entry.Success)
			return nil, nil
		}
		return nil, fmt.Errorf("create score log entry: %w", err)
	}

	stats, err := s.updateStats(ctx, uow, entry, now)
	if err != nil {
		return nil, err
	}
	bests, err := s.updateBests(ctx, uow, scoreLog.ID, stats, now)
	if err != nil {
		return nil, err
	}

	s.log.Info("score recorded",
		"user_id", userID,
		"source", entry.Source,
		"source_id", entry.SourceID,
		"score", entry.Score,
		"lucky_puppy", entry.HasLuckyPuppyBonus != nil && *entry.HasLuckyPuppyBonus,
	)

	return &RecordResult{
		LatestTaskScore:    entry.Score,
		HasLuckyPuppyBonus: entry.HasLuckyPuppyBonus,
		ScoreOverview:      newOverview(stats, bests),
	}, nil
}

// updateStats merges entry into the current bucket of every period and
// returns the post-state in Periods order.
func (s *Service) updateStats(ctx context.Context, uow UnitOfWork, entry Entry, now time.Time) ([]Stats, error) {
	out := make([]Stats, len(Periods))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range Periods {
		g.Go(func() error {
			key := StatsKey{ScoreLogID: entry.ScoreLogID, Period: p, Timeline: Timeline(p, now)}
			existing, err := uow.Stats().LoadByKeyOptional(gctx, key)
			if err != nil {
				return fmt.Errorf("load %s stats %s: %w", p, key.Timeline, err)
			}
			if existing == nil {
				merged := NewStats(key.ScoreLogID, p, key.Timeline, now).Merge(entry, now)
				if err := uow.Stats().Create(gctx, &merged); err != nil {
					return fmt.Errorf("create %s stats %s: %w", p, key.Timeline, err)
				}
				out[i] = merged
				return nil
			}
			merged := existing.Merge(entry, now)
			if err := uow.Stats().Save(gctx, &merged); err != nil {
				return fmt.Errorf("save %s stats %s: %w", p, key.Timeline, err)
			}
			out[i] = merged
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

type bestSlot struct {
	period    Period
	subPeriod Period
}

func bestSlots() []bestSlot {
	var slots []bestSlot
	for _, p := range BestPeriods {
		for _, sub := range p.SubPeriods() {
			slots = append(slots, bestSlot{period: p, subPeriod: sub})
		}
	}
	return slots
}

// updateBests raises every current period best to the fresh sub-period
// stats. stats must be in Periods order.
func (s *Service) updateBests(ctx context.Context, uow UnitOfWork, scoreLogID uint64, stats []Stats, now time.Time) ([]PeriodBest, error) {
	slots := bestSlots()
	out := make([]PeriodBest, len(slots))
	g, gctx := errgroup.WithContext(ctx)
	for i, slot := range slots {
		g.Go(func() error {
			snapshot := stats[slot.subPeriod.rank()]
			key := PeriodBestKey{
				ScoreLogID: scoreLogID,
				Period:     slot.period,
				Timeline:   Timeline(slot.period, now),
				SubPeriod:  slot.subPeriod,
			}
			existing, err := uow.Bests().LoadByKeyOptional(gctx, key)
			if err != nil {
				return fmt.Errorf("load best %s/%s %s: %w", slot.period, slot.subPeriod, key.Timeline, err)
			}
			if existing == nil {
				best, _ := NewPeriodBest(scoreLogID, slot.period, key.Timeline, slot.subPeriod, now).UpdateToMax(snapshot, now)
				if err := uow.Bests().Create(gctx, &best); err != nil {
					return fmt.Errorf("create best %s/%s %s: %w", slot.period, slot.subPeriod, key.Timeline, err)
				}
				out[i] = best
				return nil
			}
			best, changed := existing.UpdateToMax(snapshot, now)
			if changed {
				if err := uow.Bests().Save(gctx, &best); err != nil {
					return fmt.Errorf("save best %s/%s %s: %w", slot.period, slot.subPeriod, key.Timeline, err)
				}
			}
			out[i] = best
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadOverview projects the current stats and bests of a user without
// writing anything. Missing rows read as zeros.
func (s *Service) LoadOverview(ctx context.Context, uow UnitOfWork, userID uint64) (UserScoreOverview, error) {
	scoreLog, err := uow.ScoreLogs().LoadByParent(ctx, userID)
	if err != nil {
		return UserScoreOverview{}, fmt.Errorf("load score log for user %d: %w", userID, err)
	}
	now := s.clock.Now()

	stats := make([]Stats, 0, len(Periods))
	for _, p := range Periods {
		key := StatsKey{ScoreLogID: scoreLog.ID, Period: p, Timeline: Timeline(p, now)}
		row, err := uow.Stats().LoadByKeyOptional(ctx, key)
		if err != nil {
			return UserScoreOverview{}, fmt.Errorf("load %s stats: %w", p, err)
		}
		if row == nil {
			stats = append(stats, NewStats(key.ScoreLogID, p, key.Timeline, now))
			continue
		}
		stats = append(stats, *row)
	}

	var bests []PeriodBest
	for _, slot := range bestSlots() {
		key := PeriodBestKey{
			ScoreLogID: scoreLog.ID,
			Period:     slot.period,
			Timeline:   Timeline(slot.period, now),
			SubPeriod:  slot.subPeriod,
		}
		row, err := uow.Bests().LoadByKeyOptional(ctx, key)
		if err != nil {
			return UserScoreOverview{}, fmt.Errorf("load best %s/%s: %w", slot.period, slot.subPeriod, err)
		}
		if row == nil {
			bests = append(bests, NewPeriodBest(key.ScoreLogID, key.Period, key.Timeline, key.SubPeriod, now))
			continue
		}
		bests = append(bests, *row)
	}

	return newOverview(stats, bests), nil
}

// LoadHistory returns the recorded buckets of period whose timeline lies
// between the buckets of from and to, oldest first. Buckets with no
// completions are absent.
func (s *Service) LoadHistory(ctx context.Context, uow UnitOfWork, userID uint64, period Period, from, to time.Time) ([]UserScore, error) {
	if !period.valid() {
		return nil, fmt.Errorf("invalid period %q", string(period))
	}
	if to.Before(from) {
		from, to = to, from
	}
	scoreLog, err := uow.ScoreLogs().LoadByParent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load score log for user %d: %w", userID, err)
	}
	rows, err := uow.Stats().FindRange(ctx, scoreLog.ID, period, Timeline(period, from), Timeline(period, to))
	if err != nil {
		return nil, fmt.Errorf("find %s stats: %w", period, err)
	}
	out := make([]UserScore, 0, len(rows))
	for _, r := range rows {
		out = append(out, userScoreFromStats(r))
	}
	return out, nil
}
