package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	DatabaseDriver       string // pgx (default) or postgres (lib/pq)
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string
	JWTTTL    time.Duration

	LogMode string

	// LuckyPuppyOdds is N in the 1/N chance of the lucky puppy bonus.
	LuckyPuppyOdds int

	WorkerEnabled      bool
	WorkerPollInterval time.Duration

	RedisAddr    string
	RedisChannel string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseDriver:       strings.ToLower(getenv("DATABASE_DRIVER", "pgx")),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		LogMode:              getenv("LOG_MODE", "dev"),
		WorkerEnabled:        getenv("WORKER_ENABLED", "true") == "true",
		RedisAddr:            getenv("REDIS_ADDR", ""),
		RedisChannel:         getenv("REDIS_CHANNEL", "score_events"),
	}

	var err error
	if cfg.DatabaseURL, err = requireEnv("DATABASE_URL"); err != nil {
		return Config{}, err
	}
	if cfg.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return Config{}, err
	}
	switch cfg.DatabaseDriver {
	case "pgx", "postgres":
	default:
		return Config{}, fmt.Errorf("invalid DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	if cfg.JWTTTL, err = durationEnv("JWT_TTL", 7*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.WorkerPollInterval, err = durationEnv("WORKER_POLL_INTERVAL", 800*time.Millisecond); err != nil {
		return Config{}, err
	}

	odds, err := strconv.Atoi(getenv("LUCKY_PUPPY_ODDS", "10000"))
	if err != nil || odds < 1 {
		return Config{}, fmt.Errorf("invalid LUCKY_PUPPY_ODDS %q", os.Getenv("LUCKY_PUPPY_ODDS"))
	}
	cfg.LuckyPuppyOdds = odds

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func requireEnv(key string) (string, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return "", fmt.Errorf("missing env: %s", key)
	}
	return v, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := getenv(key, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return d, nil
}
