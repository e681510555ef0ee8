package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/nagdatt/ai-podcast-saas/internal/config"
	"github.com/nagdatt/ai-podcast-saas/internal/core"
	"github.com/nagdatt/ai-podcast-saas/internal/workflow"
	"github.com/nagdatt/ai-podcast-saas/internal/workflow/temporal"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the Temporal worker",
	Long: `Run the Temporal worker that executes GenerateAssets workflows.

The worker shares the database with the server: activities read the job's
transcript and record step status and results there. Temporal owns
retries, so each activity calls the LLM once per attempt.

Examples:
  podsaas worker
  PODSAAS_TEMPORAL_ADDRESS=temporal:7233 podsaas worker`,
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
		cfg := mgr.Get()

		c, err := core.New(ctx, core.Options{Config: cfg, Home: h, Logger: logger})
		if err != nil {
			return err
		}
		defer c.Close()

		mgr.OnChange(func(cfg *config.Config) {
			c.Reload(context.Background(), cfg)
		})
		mgr.WatchConfig()

		gen, err := c.Generator(workflow.DirectStepper{})
		if err != nil {
			return err
		}

		tcfg := cfg.TemporalConfig()
		tc, err := temporal.Dial(ctx, tcfg, logger)
		if err != nil {
			return err
		}
		defer tc.Close()

		w, err := temporal.NewWorker(tc, tcfg, &temporal.Activities{Tracker: c.Tracker, Generator: gen}, logger)
		if err != nil {
			return err
		}
		return w.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
