package main

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back database migrations",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		direction := "up"
		if len(args) == 1 {
			direction = args[0]
		}

		if err := cfg.ValidateDatabase(); err != nil {
			return err
		}

		db, err := connectDatabase(cmd.Context(), cfg.DSN(), logger)
		if err != nil {
			return err
		}
		defer db.Close()

		if direction == "up" {
			if err := runMigrations(db, cfg.MigrationsPath, logger); err != nil {
				return err
			}
			printSuccess("Database is up to date")
			return nil
		}

		steps, _ := cmd.Flags().GetInt("steps")
		m, err := newMigrator(db, cfg.MigrationsPath)
		if err != nil {
			return err
		}

		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back migrations: %w", err)
		}

		logger.Info("Migrations rolled back", zap.Int("steps", steps))
		printSuccess("Migrations rolled back")
		return nil
	},
}

func init() {
	migrateCmd.Flags().Int("steps", 0, "number of migrations to roll back (0 = all)")
}
