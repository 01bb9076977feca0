package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"scorelog/internal/auth"
	"scorelog/internal/db"
	httpx "scorelog/internal/http"
	"scorelog/internal/jobs"
	"scorelog/internal/notify"
	"scorelog/internal/score"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the score job worker",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, gdb, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()
		defer closeDB(gdb)

		if err := db.AutoMigrateAndIndexes(gdb); err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		var notifier notify.Publisher = notify.Nop{}
		if cfg.RedisAddr != "" {
			p, err := notify.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisChannel, log)
			if err != nil {
				return err
			}
			defer p.Close()
			notifier = p
		}

		scores := score.NewService(score.SystemClock{}, score.NewRandomLuckFromClock(cfg.LuckyPuppyOdds), log)
		r := httpx.NewRouter(cfg, httpx.Deps{
			DB:       gdb,
			JWT:      auth.NewJWT(cfg.JWTSecret, cfg.JWTTTL),
			Scores:   scores,
			Notifier: notifier,
			Log:      log,
		})

		if cfg.WorkerEnabled {
			worker := jobs.NewWorker(&jobs.Repo{DB: gdb}, &score.Store{DB: gdb}, scores, notifier, log, cfg.WorkerPollInterval)
			go worker.Run(ctx)
		}

		srv := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("listening", "addr", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sig:
		case err := <-errCh:
			return err
		}

		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown", "error", err)
		}
		log.Info("stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
