package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/nagdatt/ai-podcast-saas/internal/server"
	"github.com/nagdatt/ai-podcast-saas/internal/server/endpoints"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the podsaas server",
	Long: `Start the podsaas HTTP server.

Jobs posted to the server run in-process, or as Temporal workflows when
temporal.enabled is set (run "podsaas worker" alongside). Job status is
stored in SQLite under the home directory and, when redis.enabled is set,
published to redis as it changes. Provider settings in the config file
are reloaded on change.

The server provides:
  - /health               - Basic server health check
  - /ready                - Readiness check (database, redis, temporal)
  - /api/jobs             - Create and inspect generation jobs
  - /api/generate/{kind}  - Generate a single asset synchronously
  - /swagger              - API documentation

Examples:
  podsaas serve                    # Start on the configured port (default 8080)
  podsaas serve --port 3000        # Start on custom port
  podsaas serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger, err := newLogger(os.Stdout)
		if err != nil {
			return err
		}
		h, mgr, err := loadEnv(logger)
		if err != nil {
			return err
		}
		mgr.WatchConfig()

		cfg := mgr.Get()
		host, port := cfg.Server.Host, cfg.Server.Port
		if cmd.Flags().Changed("host") || host == "" {
			host = serveHost
		}
		if cmd.Flags().Changed("port") || port == "" {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host:            host,
			Port:            port,
			ConfigManager:   mgr,
			Home:            h,
			Logger:          logger,
			SwaggerSpecPath: endpoints.GetSwaggerSpecPath(),
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
