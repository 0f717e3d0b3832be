package main

import (
	"github.com/spf13/cobra"

	"github.com/bjaus/route/internal/config"
)

var (
	globalConfigFile string
	globalLogLevel   string
	globalLogFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Declarative REST API with generated OpenAPI documentation",
	Long: `server hosts a small REST API whose routes, request validation and
OpenAPI document are all derived from the same per-handler declarations.

Configuration is read from ./config.yaml (or --config), .env, and ROUTE_*
environment variables, in increasing order of precedence.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalConfigFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&globalLogFormat, "log-format", "", "log format (text, json)")

	rootCmd.AddCommand(serveCmd, specCmd)
}

// loadConfig reads configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(globalConfigFile)
	if err != nil {
		return nil, err
	}
	if globalLogLevel != "" {
		cfg.Log.Level = globalLogLevel
	}
	if globalLogFormat != "" {
		cfg.Log.Format = globalLogFormat
	}
	return cfg, cfg.Validate()
}
