package db

import (
	"fmt"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"scorelog/internal/auth"
	"scorelog/internal/jobs"
	"scorelog/internal/score"
)

// Connect opens postgres through pgx, or through lib/pq when driver is
// "postgres".
func Connect(dsn, driver string) (*gorm.DB, error) {
	cfg := postgres.Config{DSN: dsn}
	if driver == "postgres" {
		cfg.DriverName = "postgres"
	}
	gdb, err := gorm.Open(postgres.New(cfg), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return gdb, nil
}

// Models lists every table the service owns.
func Models() []any {
	models := []any{&auth.User{}, &jobs.Job{}}
	return append(models, score.Models()...)
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	stmts := []string{
		`create index if not exists idx_jobs_due on jobs(status, run_at);`,
		`create index if not exists idx_jobs_lock on jobs(status, locked_at);`,
		`create index if not exists idx_score_log_entries_log_created on score_log_entries(score_log_id, created_time);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
