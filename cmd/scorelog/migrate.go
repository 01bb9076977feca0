package main

import (
	"github.com/spf13/cobra"

	"scorelog/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, log, gdb, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()
		defer closeDB(gdb)

		if err := db.AutoMigrateAndIndexes(gdb); err != nil {
			log.Error("migration failed", "error", err)
			return err
		}
		log.Info("migration completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
