package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nagdatt/ai-podcast-saas/internal/api"
	"github.com/nagdatt/ai-podcast-saas/internal/config"
	"github.com/nagdatt/ai-podcast-saas/internal/home"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		path := cfgFile
		if path == "" {
			path = h.ConfigPath()
		}
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration in effect",
	Long: `Print the configuration in effect after defaults, the config file and
PODSAAS_* environment overrides. API keys are shown as written, so
${ENV_VAR} references are not expanded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(os.Stderr)
		if err != nil {
			return err
		}
		_, mgr, err := loadEnv(logger)
		if err != nil {
			return err
		}
		return api.Output(mgr.Get())
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
