package jobs

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"scorelog/internal/logger"
	"scorelog/internal/notify"
	"scorelog/internal/score"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.ScoreEvent
}

func (p *recordingPublisher) PublishScore(_ context.Context, ev notify.ScoreEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newTestWorker(t *testing.T) (*Worker, *recordingPublisher) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "jobs.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(append(score.Models(), &Job{})...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := &score.Store{DB: db}
	clock := score.ClockFunc(func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) })
	svc := score.NewService(clock, score.FixedLuck(false), logger.Nop())
	err = store.Transaction(context.Background(), func(uow score.UnitOfWork) error {
		_, err := svc.CreateScoreLog(context.Background(), uow, 1)
		return err
	})
	if err != nil {
		t.Fatalf("create score log: %v", err)
	}

	pub := &recordingPublisher{}
	w := NewWorker(&Repo{DB: db}, store, svc, pub, logger.Nop(), time.Second)
	return w, pub
}

func enqueue(t *testing.T, w *Worker, userID uint64, spec score.TaskSpec) *Job {
	t.Helper()
	j, err := w.Repo.EnqueueScoreRecord(context.Background(), nil, userID, spec, time.Now())
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	return j
}

func jobStatus(t *testing.T, w *Worker, id uint64) *Job {
	t.Helper()
	j, err := w.Repo.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get job %d: %v", id, err)
	}
	return j
}

func TestWorkerRecordsScore(t *testing.T) {
	w, pub := newTestWorker(t)
	spec := score.TaskSpec{Kind: score.EntrySourceBigPlan, ID: 4, Status: score.StatusDone, Difficulty: score.DifficultyMedium}
	job := enqueue(t, w, 1, spec)

	w.Handle(context.Background(), job)

	if got := jobStatus(t, w, job.ID); got.Status != StatusDone {
		t.Fatalf("status: want=%s got=%s (err=%v)", StatusDone, got.Status, got.LastError)
	}
	if len(pub.events) != 1 {
		t.Fatalf("events: want=1 got=%d", len(pub.events))
	}
	ev := pub.events[0]
	if ev.UserID != 1 || ev.TaskID != 4 || ev.Result.LatestTaskScore != 10 {
		t.Fatalf("event: %+v", ev)
	}
	if life := ev.Result.ScoreOverview.Score(score.PeriodLifetime); life.TotalScore != 10 || life.BigPlanCount != 1 {
		t.Fatalf("lifetime: %+v", life)
	}
}

func TestWorkerDuplicateIsDoneWithoutEvent(t *testing.T) {
	w, pub := newTestWorker(t)
	spec := score.TaskSpec{Kind: score.EntrySourceInboxTask, ID: 9, Status: score.StatusDone, Difficulty: score.DifficultyEasy}
	first := enqueue(t, w, 1, spec)
	second := enqueue(t, w, 1, spec)

	w.Handle(context.Background(), first)
	w.Handle(context.Background(), second)

	if got := jobStatus(t, w, second.ID); got.Status != StatusDone {
		t.Fatalf("duplicate status: got=%s", got.Status)
	}
	if len(pub.events) != 1 {
		t.Fatalf("events: want=1 got=%d", len(pub.events))
	}
}

func TestWorkerFailsBadJobs(t *testing.T) {
	w, pub := newTestWorker(t)

	unknownUser := enqueue(t, w, 77, score.TaskSpec{Kind: score.EntrySourceInboxTask, ID: 1, Status: score.StatusDone, Difficulty: score.DifficultyEasy})
	badSpec := enqueue(t, w, 1, score.TaskSpec{Kind: "chore", ID: 1, Status: score.StatusDone, Difficulty: score.DifficultyEasy})

	badPayload := &Job{UserID: 1, Type: TypeScoreRecord, Payload: []byte(`{"id":`), RunAt: time.Now(), Status: StatusRunning, MaxAttempts: 3, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := w.Repo.DB.Create(badPayload).Error; err != nil {
		t.Fatalf("create job: %v", err)
	}
	unknownType := &Job{UserID: 1, Type: "REMINDER_DISPATCH", Payload: []byte(`{}`), RunAt: time.Now(), Status: StatusRunning, MaxAttempts: 3, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := w.Repo.DB.Create(unknownType).Error; err != nil {
		t.Fatalf("create job: %v", err)
	}

	for _, j := range []*Job{unknownUser, badSpec, badPayload, unknownType} {
		w.Handle(context.Background(), j)
		got := jobStatus(t, w, j.ID)
		if got.Status != StatusFailed || got.LastError == nil {
			t.Fatalf("job %d: status=%s last_error=%v", j.ID, got.Status, got.LastError)
		}
	}
	if len(pub.events) != 0 {
		t.Fatalf("events: want=0 got=%d", len(pub.events))
	}
}

func TestWorkerRetriesStorageErrors(t *testing.T) {
	w, _ := newTestWorker(t)
	job := enqueue(t, w, 1, score.TaskSpec{Kind: score.EntrySourceInboxTask, ID: 2, Status: score.StatusDone, Difficulty: score.DifficultyHard})

	if err := w.Repo.DB.Migrator().DropTable(&score.Stats{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}
	w.Handle(context.Background(), job)

	got := jobStatus(t, w, job.ID)
	if got.Status != StatusPending || got.Attempts != 1 || !got.RunAt.After(job.RunAt) {
		t.Fatalf("job after retry: status=%s attempts=%d run_at=%s", got.Status, got.Attempts, got.RunAt)
	}
}
