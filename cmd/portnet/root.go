package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/portnet/internal/cli"
	"github.com/aretw0/portnet/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portnet",
	Short: "portnet builds port-to-port maritime networks from vessel port visits",
	Long: `portnet fetches port visit events, derives each vessel's port-call sequence and
aggregates the transitions into a weighted directed network of ports and routes.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default $PORTNET_CONFIG or ./portnet.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("dataset", "", "Dataset name")
}

// loadConfig reads the config file and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("dataset") {
		cfg.Dataset, _ = cmd.Flags().GetString("dataset")
	}
	return cfg, cli.NewLogger(cfg.LogLevel), nil
}
