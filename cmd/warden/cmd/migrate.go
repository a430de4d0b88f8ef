package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amirhosseinghanipour/warden/internal/infrastructure/persistence/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the security schema to DATABASE_URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		pool, err := postgres.Open(ctx, cfg.Database.URL, cfg.Database.MaxConns)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			return err
		}
		for _, name := range applied {
			log.Info().Str("file", name).Msg("migration applied")
		}
		return nil
	},
}
