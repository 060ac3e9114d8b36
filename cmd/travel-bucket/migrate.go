package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/deppfellow/travel-bucket/internal/config"
	"github.com/deppfellow/travel-bucket/internal/database"
	"github.com/deppfellow/travel-bucket/internal/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.IsMemory() {
				return errors.New("migrate requires database.driver=postgres")
			}

			log := logger.NewLogger(cfg.Observability)

			ctx, cancel := context.WithTimeout(cmd.Context(), DefaultContextTimeout*time.Second)
			defer cancel()

			return database.Migrate(ctx, &log, cfg.Database.DSN())
		},
	}
}
