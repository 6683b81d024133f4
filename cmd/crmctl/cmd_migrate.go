package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/janhq/jan-crm/internal/bootstrap"
	"github.com/janhq/jan-crm/internal/config"
	"github.com/janhq/jan-crm/internal/infrastructure/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database schema migrations",
	Long:  `Apply or roll back the crm schema on the postgres backend.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE:  runMigrate(database.Up),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back every migration",
	Long:  `Roll back every migration. This drops all CRM data and requires --yes.`,
	RunE:  runMigrate(database.Down),
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied schema version",
	RunE:  runMigrateStatus,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateDownCmd.Flags().Bool("yes", false, "Confirm dropping all data")
}

func runMigrate(direction database.Direction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if direction == database.Down {
			if yes, _ := cmd.Flags().GetBool("yes"); !yes {
				return errors.New("refusing to roll back without --yes")
			}
		}
		db, closeDB, err := openDatabase(cmd)
		if err != nil {
			return err
		}
		defer closeDB()

		if err := database.Run(cmd.Context(), db, direction); err != nil {
			return err
		}
		if direction == database.Up {
			fmt.Fprintln(cmd.OutOrStdout(), "✓ schema is up to date")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "✓ schema rolled back")
		}
		return nil
	}
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	db, closeDB, err := openDatabase(cmd)
	if err != nil {
		return err
	}
	defer closeDB()

	version, dirty, err := database.Version(cmd.Context(), db)
	if err != nil {
		return err
	}
	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (%s)\n", version, state)
	return nil
}

func openDatabase(cmd *cobra.Command) (*gorm.DB, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if cfg.BackendMode != config.BackendPostgres {
		return nil, nil, fmt.Errorf("migrations need BACKEND_MODE=%s, got %s", config.BackendPostgres, cfg.BackendMode)
	}
	if _, err := newLogger(cmd, cfg); err != nil {
		return nil, nil, err
	}
	db, err := bootstrap.OpenDatabase(cmd.Context(), cfg, false)
	if err != nil {
		return nil, nil, err
	}
	return db, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}, nil
}
