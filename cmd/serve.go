package cmd

import (
	"context"

	"campusfood/infrastructure/outbox"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Run the HTTP API. With outbox.enabled the relay runs in the same process.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			return opts.withComponents(ctx, nil, func(ctx context.Context, c *Components) error {
				var worker *outbox.Worker
				if c.Config.Outbox.Enabled {
					w, release, err := c.OutboxWorker()
					if err != nil {
						return err
					}
					defer release()
					worker = w
				}
				return NewApp(c.HTTPServer(), worker, c.Config.Server.ShutdownTimeout).Run(ctx)
			})
		},
	}
}
