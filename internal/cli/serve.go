package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aanbieding/folder/pkg/artifacts"
	"github.com/aanbieding/folder/pkg/jobs"
	"github.com/aanbieding/folder/pkg/observability"
	"github.com/aanbieding/folder/pkg/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		port    int
		addr    string
		backend string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the folder HTTP API",
		Long: `Serve starts the HTTP API used by the desktop app. With --port 0 (the
default) a free port is chosen and announced on stdout as SERVER_PORT=<n>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			observability.NewLogHooks(c.Logger).Install()

			runner, err := c.newRunner(ctx, backend, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			reg, err := c.openJobs(ctx)
			if err != nil {
				return err
			}
			defer reg.Close(ctx)

			store, err := artifacts.NewStore(cfg.Artifacts.Dir, c.Logger)
			if err != nil {
				return err
			}

			srv := server.New(server.Options{
				Addr:           cfg.Server.Addr,
				Port:           cfg.Server.Port,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				Keep:           cfg.Jobs.Keep,
				MaxAge:         cfg.Artifacts.MaxAge.Duration,
			}, runner, jobs.WithHooks(reg), store, c.Logger)

			return srv.ListenAndServe(ctx, os.Stdout)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (0 picks a free port)")
	cmd.Flags().StringVar(&addr, "addr", "", "address to bind (default from config, 127.0.0.1)")
	cmd.Flags().StringVarP(&backend, "backend", "b", "", "writer backend (default from config)")
	return cmd
}
