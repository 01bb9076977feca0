package jobs

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"scorelog/internal/score"
)

const defaultMaxAttempts = 8

type Repo struct {
	DB *gorm.DB
}

// EnqueueScoreRecord queues a completed task for scoring. Pass a transaction
// as tx to enqueue atomically with other writes, or nil to use r.DB.
func (r *Repo) EnqueueScoreRecord(ctx context.Context, tx *gorm.DB, userID uint64, spec score.TaskSpec, runAt time.Time) (*Job, error) {
	if tx == nil {
		tx = r.DB
	}
	payload, err := json.Marshal(spec)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	j := Job{
		UserID:      userID,
		Type:        TypeScoreRecord,
		Payload:     payload,
		RunAt:       runAt,
		Status:      StatusPending,
		MaxAttempts: defaultMaxAttempts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.WithContext(ctx).Create(&j).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

// Claim one due job atomically using SKIP LOCKED.
// Works on Postgres.
func (r *Repo) Claim(ctx context.Context, workerID string) (*Job, error) {
	var job Job
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// requeue jobs whose worker died mid-run
		if err := tx.Exec(`
update jobs
set status='PENDING', locked_by=null, locked_at=null, updated_at=now()
where status='RUNNING' and locked_at is not null and locked_at < now() - interval '5 minutes'
`).Error; err != nil {
			return err
		}

		// FOR UPDATE SKIP LOCKED ensures no double-claim
		q := tx.Raw(`
with cte as (
  select id
  from jobs
  where status='PENDING' and run_at <= now()
  order by run_at asc
  for update skip locked
  limit 1
)
update jobs
set status='RUNNING', locked_by=?, locked_at=now(), updated_at=now()
where id in (select id from cte)
returning *;
`, workerID)

		return q.Scan(&job).Error
	})
	if err != nil {
		return nil, err
	}
	if job.ID == 0 {
		return nil, nil
	}
	return &job, nil
}

func (r *Repo) MarkDone(ctx context.Context, id uint64) error {
	return r.update(ctx, id, map[string]any{"status": StatusDone})
}

func (r *Repo) MarkFailed(ctx context.Context, id uint64, errMsg string) error {
	return r.update(ctx, id, map[string]any{"status": StatusFailed, "last_error": errMsg})
}

func (r *Repo) RetryLater(ctx context.Context, id uint64, attempts int, runAt time.Time, errMsg string) error {
	return r.update(ctx, id, map[string]any{
		"status":     StatusPending,
		"attempts":   attempts,
		"run_at":     runAt,
		"locked_by":  nil,
		"locked_at":  nil,
		"last_error": errMsg,
	})
}

func (r *Repo) Get(ctx context.Context, id uint64) (*Job, error) {
	var j Job
	if err := r.DB.WithContext(ctx).First(&j, id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *Repo) update(ctx context.Context, id uint64, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	return r.DB.WithContext(ctx).Model(&Job{}).Where("id = ?", id).Updates(fields).Error
}
