package score

import (
	"fmt"
	"time"
)

// ScoreLog is the per-user parent of entries, stats and bests.
type ScoreLog struct {
	ID               uint64    `gorm:"primaryKey"`
	UserID           uint64    `gorm:"uniqueIndex;not null"`
	CreatedTime      time.Time `gorm:"not null"`
	LastModifiedTime time.Time `gorm:"not null"`
}

func (ScoreLog) TableName() string { return "score_logs" }

type EntrySource string

const (
	EntrySourceInboxTask EntrySource = "inbox-task"
	EntrySourceBigPlan   EntrySource = "big-plan"
)

// Entry is an append-only record of one scored completion. At most one
// entry exists per (score log, source, source id, success).
type Entry struct {
	ID                 uint64      `gorm:"primaryKey"`
	ScoreLogID         uint64      `gorm:"not null;uniqueIndex:uq_score_log_entries_source,priority:1"`
	Source             EntrySource `gorm:"type:text;not null;uniqueIndex:uq_score_log_entries_source,priority:2"`
	SourceID           uint64      `gorm:"not null;uniqueIndex:uq_score_log_entries_source,priority:3"`
	Success            bool        `gorm:"not null;uniqueIndex:uq_score_log_entries_source,priority:4"`
	Difficulty         Difficulty  `gorm:"type:text;not null"`
	Score              int         `gorm:"not null"`
	HasLuckyPuppyBonus *bool
	CreatedTime        time.Time `gorm:"index;not null"`
}

func (Entry) TableName() string { return "score_log_entries" }

func NewEntryFromInboxTask(scoreLogID uint64, task InboxTask, luck Luck, now time.Time) (Entry, error) {
	if !task.Status.IsCompleted() {
		return Entry{}, fmt.Errorf("%w: inbox task %d is %s", ErrInvalidTask, task.ID, task.Status)
	}
	success := task.Status == StatusDone
	score, err := InboxTaskScore(task.Difficulty, task.Eisen, success)
	if err != nil {
		return Entry{}, err
	}
	score, lucky := applyLuckyPuppy(score, success, task.Source, luck)
	return Entry{
		ScoreLogID:         scoreLogID,
		Source:             EntrySourceInboxTask,
		SourceID:           task.ID,
		Success:            success,
		Difficulty:         task.Difficulty,
		Score:              score,
		HasLuckyPuppyBonus: lucky,
		CreatedTime:        now,
	}, nil
}

func NewEntryFromBigPlan(scoreLogID uint64, plan BigPlan, luck Luck, now time.Time) (Entry, error) {
	if !plan.Status.IsCompleted() {
		return Entry{}, fmt.Errorf("%w: big plan %d is %s", ErrInvalidTask, plan.ID, plan.Status)
	}
	success := plan.Status == StatusDone
	score, err := BigPlanScore(plan.Difficulty, success)
	if err != nil {
		return Entry{}, err
	}
	score, lucky := applyLuckyPuppy(score, success, plan.Source, luck)
	return Entry{
		ScoreLogID:         scoreLogID,
		Source:             EntrySourceBigPlan,
		SourceID:           plan.ID,
		Success:            success,
		Difficulty:         plan.Difficulty,
		Score:              score,
		HasLuckyPuppyBonus: lucky,
		CreatedTime:        now,
	}, nil
}

// Stats holds running totals for one (score log, period, timeline) bucket.
type Stats struct {
	ID               uint64    `gorm:"primaryKey"`
	ScoreLogID       uint64    `gorm:"not null;uniqueIndex:uq_score_stats_key,priority:1"`
	Period           Period    `gorm:"type:text;not null;uniqueIndex:uq_score_stats_key,priority:2"`
	Timeline         string    `gorm:"type:text;not null;uniqueIndex:uq_score_stats_key,priority:3"`
	TotalScore       int       `gorm:"not null"`
	InboxTaskCount   int       `gorm:"not null"`
	BigPlanCount     int       `gorm:"not null"`
	CreatedTime      time.Time `gorm:"not null"`
	LastModifiedTime time.Time `gorm:"not null"`
}

func (Stats) TableName() string { return "score_stats" }

type StatsKey struct {
	ScoreLogID uint64
	Period     Period
	Timeline   string
}

func NewStats(scoreLogID uint64, period Period, timeline string, now time.Time) Stats {
	return Stats{
		ScoreLogID:       scoreLogID,
		Period:           period,
		Timeline:         timeline,
		CreatedTime:      now,
		LastModifiedTime: now,
	}
}

func (s Stats) Key() StatsKey {
	return StatsKey{ScoreLogID: s.ScoreLogID, Period: s.Period, Timeline: s.Timeline}
}

// Merge returns s with e folded in.
func (s Stats) Merge(e Entry, now time.Time) Stats {
	s.TotalScore += e.Score
	switch e.Source {
	case EntrySourceInboxTask:
		s.InboxTaskCount++
	case EntrySourceBigPlan:
		s.BigPlanCount++
	}
	s.LastModifiedTime = now
	return s
}

// PeriodBest is the component-wise maximum of every SubPeriod stats snapshot
// seen inside one (Period, Timeline) bucket. The three maxima are tracked
// independently and may come from different snapshots.
type PeriodBest struct {
	ID               uint64    `gorm:"primaryKey"`
	ScoreLogID       uint64    `gorm:"not null;uniqueIndex:uq_score_period_bests_key,priority:1"`
	Period           Period    `gorm:"type:text;not null;uniqueIndex:uq_score_period_bests_key,priority:2"`
	Timeline         string    `gorm:"type:text;not null;uniqueIndex:uq_score_period_bests_key,priority:3"`
	SubPeriod        Period    `gorm:"type:text;not null;uniqueIndex:uq_score_period_bests_key,priority:4"`
	TotalScore       int       `gorm:"not null"`
	InboxTaskCount   int       `gorm:"not null"`
	BigPlanCount     int       `gorm:"not null"`
	CreatedTime      time.Time `gorm:"not null"`
	LastModifiedTime time.Time `gorm:"not null"`
}

func (PeriodBest) TableName() string { return "score_period_bests" }

type PeriodBestKey struct {
	ScoreLogID uint64
	Period     Period
	Timeline   string
	SubPeriod  Period
}

func NewPeriodBest(scoreLogID uint64, period Period, timeline string, subPeriod Period, now time.Time) PeriodBest {
	return PeriodBest{
		ScoreLogID:       scoreLogID,
		Period:           period,
		Timeline:         timeline,
		SubPeriod:        subPeriod,
		CreatedTime:      now,
		LastModifiedTime: now,
	}
}

func (b PeriodBest) Key() PeriodBestKey {
	return PeriodBestKey{ScoreLogID: b.ScoreLogID, Period: b.Period, Timeline: b.Timeline, SubPeriod: b.SubPeriod}
}

// UpdateToMax raises each field of b to the matching field of s. The bool
// reports whether anything changed; LastModifiedTime moves only then.
func (b PeriodBest) UpdateToMax(s Stats, now time.Time) (PeriodBest, bool) {
	changed := false
	if s.TotalScore > b.TotalScore {
		b.TotalScore = s.TotalScore
		changed = true
	}
	if s.InboxTaskCount > b.InboxTaskCount {
		b.InboxTaskCount = s.InboxTaskCount
		changed = true
	}
	if s.BigPlanCount > b.BigPlanCount {
		b.BigPlanCount = s.BigPlanCount
		changed = true
	}
	if changed {
		b.LastModifiedTime = now
	}
	return b, changed
}

// Models lists the tables owned by this package, for migration.
func Models() []any {
	return []any{&ScoreLog{}, &Entry{}, &Stats{}, &PeriodBest{}}
}
