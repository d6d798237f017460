package cmd

import (
	"context"

	"campusfood/pkg/logger"

	"github.com/spf13/cobra"
)

func newWorkerCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Relay outbox events to the configured publisher",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			skip := func(b *Builder) { b.SkipMigrations() }
			return opts.withComponents(ctx, skip, func(ctx context.Context, c *Components) error {
				if !c.Config.Outbox.Enabled {
					logger.Info("Outbox worker is disabled by config; exiting")
					return nil
				}
				w, release, err := c.OutboxWorker()
				if err != nil {
					return err
				}
				defer release()
				return w.Run(ctx)
			})
		},
	}
}
