package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nagdatt/ai-podcast-saas/internal/api"
	"github.com/nagdatt/ai-podcast-saas/internal/config"
	"github.com/nagdatt/ai-podcast-saas/internal/home"
	"github.com/nagdatt/ai-podcast-saas/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "podsaas",
	Short: "Podcast marketing asset generation",
	Long: `podsaas turns a finished podcast transcript into marketing assets.

Every transcript yields six assets, each generated by an LLM and validated
against a schema, with a placeholder used when generation fails:
  - Summary (overview, bullets, insights, tl;dr)
  - Titles and SEO keywords
  - Hashtags per platform
  - Social posts per platform
  - Key moments with HH:MM:SS times
  - YouTube chapter timestamps`,
	Version:       version.GitRelease,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.podsaas/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "podsaas home directory (default: ~/.podsaas)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info", "log level: debug, info, warn, error",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the process logger. Commands that print results log to
// stderr so stdout stays parseable.
func newLogger(w *os.File) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(logLevel))); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// loadEnv resolves the home directory and loads configuration from
// --config, ./config.yaml or the home directory.
func loadEnv(logger *slog.Logger) (*home.Dir, *config.Manager, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, nil, err
	}

	mgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, nil, err
	}
	mgr.SetLogger(logger)
	if f := mgr.ConfigFile(); f != "" {
		logger.Debug("loaded config", "file", f)
	}
	return h, mgr, nil
}
