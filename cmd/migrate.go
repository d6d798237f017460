package cmd

import (
	"context"

	"campusfood/infrastructure/persistence/relational"
	"campusfood/pkg/logger"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			skip := func(b *Builder) { b.SkipMigrations() }
			return opts.withComponents(cmd.Context(), skip, func(ctx context.Context, c *Components) error {
				if c.DB == nil {
					logger.Info("Memory store has no schema to migrate")
					return nil
				}
				if err := relational.Migrate(ctx, c.DB); err != nil {
					return err
				}
				logger.Info("Schema is up to date")
				return nil
			})
		},
	}
}
