package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nagdatt/ai-podcast-saas/internal/api"
	"github.com/nagdatt/ai-podcast-saas/internal/assets"
	"github.com/nagdatt/ai-podcast-saas/internal/core"
	"github.com/nagdatt/ai-podcast-saas/internal/transcript"
)

var (
	generateKind     string
	generateProvider string
	generateProject  string
	generateOut      string
)

var generateCmd = &cobra.Command{
	Use:   "generate <transcript.json>",
	Short: "Generate marketing assets for a transcript without a server",
	Long: `Generate marketing assets for a transcript in-process.

The full run records a job in the local database (so "podsaas api jobs get"
works against a server sharing the same home) and writes the asset bundle
to --out, or to exports/<job-id>.json under the home directory.

With --kind only that asset is generated and nothing is stored.

Examples:
  podsaas generate episode.json
  podsaas generate episode.json --kind titles
  podsaas generate episode.json --provider openrouter --out assets.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger, err := newLogger(os.Stderr)
		if err != nil {
			return err
		}
		h, mgr, err := loadEnv(logger)
		if err != nil {
			return err
		}

		t, err := transcript.LoadFile(args[0])
		if err != nil {
			return err
		}
		if err := t.Validate(); err != nil {
			return err
		}

		cfg := *mgr.Get()
		if generateProvider != "" {
			cfg.Defaults.LLMProvider = generateProvider
		}

		c, err := core.New(ctx, core.Options{Config: &cfg, Home: h, Logger: logger})
		if err != nil {
			return err
		}
		defer c.Close()

		if _, err := c.Registry.GetLLM(cfg.Defaults.LLMProvider); err != nil {
			return fmt.Errorf("provider %q is not available: %w", cfg.Defaults.LLMProvider, err)
		}

		gen, err := c.Generator(c.LocalStepper())
		if err != nil {
			return err
		}

		if generateKind != "" {
			kind, err := assets.ParseKind(generateKind)
			if err != nil {
				return err
			}
			value, usedFallback, err := gen.Generate(ctx, kind, t)
			if err != nil {
				return err
			}
			if usedFallback {
				logger.Warn("generation failed, placeholder returned", "kind", kind)
			}
			return api.Output(value)
		}

		runner, err := c.Runner(gen)
		if err != nil {
			return err
		}
		job, err := c.Tracker.Create(ctx, generateProject, t)
		if err != nil {
			return err
		}
		if err := runner.Run(ctx, job.ID); err != nil {
			return err
		}
		job, err = c.Tracker.Store().Get(ctx, job.ID)
		if err != nil {
			return err
		}

		out := generateOut
		if out == "" {
			out = h.ExportPath(job.ID)
		}
		if err := writeBundle(out, job.Result); err != nil {
			return err
		}
		logger.Info("assets written", "job_id", job.ID, "path", out, "fallbacks", job.Result.Fallbacks)

		return api.Output(job.Result)
	},
}

func writeBundle(path string, b *assets.Bundle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode bundle: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func init() {
	generateCmd.Flags().StringVar(&generateKind, "kind", "", "generate a single asset (summary, titles, hashtags, social, keyMoments, youtubeTimestamps or a step name)")
	generateCmd.Flags().StringVar(&generateProvider, "provider", "", "LLM provider to use (default: defaults.llm_provider)")
	generateCmd.Flags().StringVarP(&generateProject, "project", "p", "local", "project ID recorded on the job")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "path for the asset bundle (default: <home>/exports/<job-id>.json)")

	rootCmd.AddCommand(generateCmd)
}
