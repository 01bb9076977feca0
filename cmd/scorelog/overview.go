package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"scorelog/internal/score"
)

var overviewUserID uint64

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Print the current score overview of a user as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		if overviewUserID == 0 {
			return errors.New("--user is required")
		}
		_, log, gdb, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()
		defer closeDB(gdb)

		svc := score.NewService(score.SystemClock{}, nil, log)
		store := &score.Store{DB: gdb}

		var o score.UserScoreOverview
		err = store.Transaction(cmd.Context(), func(uow score.UnitOfWork) error {
			var err error
			o, err = svc.LoadOverview(cmd.Context(), uow, overviewUserID)
			return err
		})
		if err != nil {
			return fmt.Errorf("load overview: %w", err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(o)
	},
}

func init() {
	overviewCmd.Flags().Uint64Var(&overviewUserID, "user", 0, "user id")
	rootCmd.AddCommand(overviewCmd)
}
