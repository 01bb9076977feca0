package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"scorelog/internal/config"
	"scorelog/internal/db"
	"scorelog/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "scorelog",
	Short: "Gamified task scoring service",
	Long: `scorelog records completed inbox tasks and big plans as score entries
and keeps per-period totals and period bests for every user.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads config, builds the logger and opens the database.
func bootstrap() (config.Config, *logger.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	gdb, err := db.Connect(cfg.DatabaseURL, cfg.DatabaseDriver)
	if err != nil {
		log.Sync()
		return config.Config{}, nil, nil, fmt.Errorf("connect db: %w", err)
	}
	return cfg, log, gdb, nil
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
