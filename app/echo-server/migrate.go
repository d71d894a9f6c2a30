package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"swipeNews/pkg/config"
	"swipeNews/pkg/database"
	"swipeNews/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the feed_users and swipe_events tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Init(cfg.App.Environment)

		db, err := database.InitPostgres(cfg)
		if err != nil {
			return err
		}
		defer database.ClosePostgres(db)

		if err := database.AutoMigrate(db); err != nil {
			return err
		}
		logger.Info("Migration complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
