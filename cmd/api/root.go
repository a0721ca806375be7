package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/petshop-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/petshop-scheduler/internal/db"
	"github.com/BruksfildServices01/petshop-scheduler/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "petshop",
	Short:         "Pet shop scheduling API",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// bootstrap loads configuration, installs the logger and opens the
// database. Migrations run unless skipMigrate is set.
func bootstrap(skipMigrate bool) (*config.Config, *slog.Logger, *gorm.DB, error) {
	cfg := config.Load()
	logger := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	db, err := dbpkg.Open(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	if !skipMigrate {
		if err := dbpkg.Migrate(db); err != nil {
			closeDB(db)
			return nil, nil, nil, err
		}
	}

	return cfg, logger, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, logger, db, err := bootstrap(false)
		if err != nil {
			return fmt.Errorf("migrate failed: %w", err)
		}
		defer closeDB(db)

		logger.InfoContext(context.Background(), "database migrated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
