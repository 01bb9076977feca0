package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/scorelog")
	t.Setenv("JWT_SECRET", "s3cret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr: want=%q got=%q", ":8080", cfg.HTTPAddr)
	}
	if cfg.DatabaseDriver != "pgx" {
		t.Fatalf("DatabaseDriver: want=%q got=%q", "pgx", cfg.DatabaseDriver)
	}
	if cfg.LuckyPuppyOdds != 10000 {
		t.Fatalf("LuckyPuppyOdds: want=%d got=%d", 10000, cfg.LuckyPuppyOdds)
	}
	if cfg.JWTTTL != 7*24*time.Hour {
		t.Fatalf("JWTTTL: got=%s", cfg.JWTTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Fatalf("CORSAllowedOrigins: got=%v", cfg.CORSAllowedOrigins)
	}
	if cfg.RedisChannel != "score_events" {
		t.Fatalf("RedisChannel: got=%q", cfg.RedisChannel)
	}
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "s3cret")
	if _, err := Load(); err == nil {
		t.Fatalf("Load: expected error, got nil")
	}
}

func TestLoadRejectsBadOdds(t *testing.T) {
	setRequired(t)
	t.Setenv("LUCKY_PUPPY_ODDS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("Load: expected error for zero odds")
	}
}

func TestLoadRejectsBadDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_DRIVER", "mysql")
	if _, err := Load(); err == nil {
		t.Fatalf("Load: expected error for unknown driver")
	}
}

func TestLoadDurations(t *testing.T) {
	setRequired(t)
	t.Setenv("WORKER_POLL_INTERVAL", "2s")
	t.Setenv("JWT_TTL", "1h")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.WorkerPollInterval != 2*time.Second || cfg.JWTTTL != time.Hour {
		t.Fatalf("durations: poll=%s ttl=%s", cfg.WorkerPollInterval, cfg.JWTTTL)
	}
}
