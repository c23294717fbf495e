package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	sqliteRepo "github.com/sakif/songbook/internal/repository/sqlite"
)

func newMigrateCmd(load loadFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long:  "Opens the database, applies the schema (idempotent) and exits. serve does the same on start.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := load()
			if err != nil {
				return err
			}
			if err := ensureDBDir(cfg.Database.Path); err != nil {
				return err
			}

			// New migrates on open.
			db, err := sqliteRepo.New(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("migrating %s: %w", cfg.Database.Path, err)
			}
			defer db.Close()

			logger.Info("database migrated", slog.String("path", cfg.Database.Path))
			return nil
		},
	}
}
