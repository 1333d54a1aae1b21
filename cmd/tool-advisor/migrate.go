package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joestump/tool-advisor/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the session table in the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if !cfg.UsesDatabase() {
				return fmt.Errorf("db.driver is %q; nothing to migrate", cfg.DB.Driver)
			}

			database, err := db.New(cmd.Context(), cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			logger.Info("migrations complete", zap.String("driver", cfg.DB.Driver))
			return nil
		},
	}
}
