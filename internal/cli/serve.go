package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/meldgrid/internal/server"
	"github.com/matzehuels/meldgrid/pkg/store"
)

// serveCommand runs the HTTP API until the process is interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the grid and mind map HTTP API on top of the configured store.

The server shuts down gracefully on SIGINT or SIGTERM, giving in-flight
requests up to server.shutdown_timeout to finish.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Server
			if addr != "" {
				cfg.Addr = addr
			}

			return c.withStore(ctx, func(st store.Store, keys store.Keyer) error {
				srv := server.New(st, server.Config{
					Grid:         c.Config.Grid,
					Tree:         c.Config.Tree,
					MaxBodyBytes: cfg.MaxBodyBytes,
				}, server.WithLogger(c.Logger), server.WithKeyer(keys))

				printInfo("Serving %s store on %s", store.Backend(st), cfg.Addr)
				return srv.Run(ctx, cfg.Addr, server.Timeouts{
					Read:     cfg.ReadTimeout,
					Write:    cfg.WriteTimeout,
					Shutdown: cfg.ShutdownTimeout,
				})
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")

	return cmd
}
