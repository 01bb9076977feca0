package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"scorelog/internal/logger"
	"scorelog/internal/notify"
	"scorelog/internal/score"
)

type Worker struct {
	ID       string
	Repo     *Repo
	Store    *score.Store
	Scores   *score.Service
	Notifier notify.Publisher
	Log      *logger.Logger
	Interval time.Duration
}

func NewWorker(repo *Repo, store *score.Store, scores *score.Service, notifier notify.Publisher, log *logger.Logger, interval time.Duration) *Worker {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	if interval <= 0 {
		interval = 800 * time.Millisecond
	}
	id := "worker-" + uuid.NewString()
	return &Worker{
		ID:       id,
		Repo:     repo,
		Store:    store,
		Scores:   scores,
		Notifier: notifier,
		Log:      log.With("service", "JobWorker", "worker_id", id),
		Interval: interval,
	}
}

func (w *Worker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, err := w.Repo.Claim(ctx, w.ID)
			if err != nil {
				if ctx.Err() == nil {
					w.Log.Warn("claim failed", "error", err)
				}
				continue
			}
			if job == nil {
				continue
			}
			w.Handle(ctx, job)
		}
	}
}

// Handle runs one claimed job and records its outcome on the job row.
func (w *Worker) Handle(ctx context.Context, job *Job) {
	switch job.Type {
	case TypeScoreRecord:
		w.handleScoreRecord(ctx, job)
	default:
		w.fail(ctx, job, "unknown job type")
	}
}

func (w *Worker) handleScoreRecord(ctx context.Context, job *Job) {
	var spec score.TaskSpec
	if err := json.Unmarshal(job.Payload, &spec); err != nil {
		w.fail(ctx, job, "bad payload")
		return
	}
	task, err := spec.Task()
	if err != nil {
		w.fail(ctx, job, err.Error())
		return
	}

	var res *score.RecordResult
	err = w.Store.Transaction(ctx, func(uow score.UnitOfWork) error {
		var err error
		res, err = w.Scores.RecordTask(ctx, uow, job.UserID, task)
		return err
	})
	switch {
	case errors.Is(err, score.ErrNotFound), errors.Is(err, score.ErrInvalidTask):
		w.fail(ctx, job, err.Error())
		return
	case err != nil:
		w.retry(ctx, job, err.Error())
		return
	}

	if res != nil {
		ev := notify.ScoreEvent{
			UserID:     job.UserID,
			TaskKind:   spec.Kind,
			TaskID:     spec.ID,
			Result:     *res,
			RecordedAt: time.Now().UTC(),
		}
		if err := w.Notifier.PublishScore(ctx, ev); err != nil {
			w.Log.Warn("publish score event failed", "job_id", job.ID, "error", err)
		}
	}
	if err := w.Repo.MarkDone(ctx, job.ID); err != nil {
		w.Log.Error("mark job done failed", "job_id", job.ID, "error", err)
	}
}

func (w *Worker) fail(ctx context.Context, job *Job, errMsg string) {
	w.Log.Warn("job failed", "job_id", job.ID, "type", job.Type, "error", errMsg)
	if err := w.Repo.MarkFailed(ctx, job.ID, errMsg); err != nil {
		w.Log.Error("mark job failed failed", "job_id", job.ID, "error", err)
	}
}

func (w *Worker) retry(ctx context.Context, job *Job, errMsg string) {
	attempts := job.Attempts + 1
	if attempts >= job.MaxAttempts {
		w.fail(ctx, job, errMsg)
		return
	}

	sec := math.Min(math.Pow(2, float64(attempts)), 600)
	next := time.Now().UTC().Add(time.Duration(sec) * time.Second)

	w.Log.Info("job retry scheduled", "job_id", job.ID, "attempts", attempts, "run_at", next)
	if err := w.Repo.RetryLater(ctx, job.ID, attempts, next, errMsg); err != nil {
		w.Log.Error("schedule retry failed", "job_id", job.ID, "error", err)
	}
}
