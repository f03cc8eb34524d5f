// Package main is the entry point for the F1 betting API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Tomas5220/f1-api/internal/config"
	"github.com/Tomas5220/f1-api/internal/logger"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configPath string
	cfg        *config.Config
	appLogger  *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "f1-api",
	Short: "F1 fantasy betting API",
	Long: `f1-api serves the REST interface for bettors, drivers and wagers
on Formula 1 race outcomes, and manages the PostgreSQL schema it runs on.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd.Context())
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "f1-api %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config/config.yaml", "Path to configuration file")
}

func main() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// loadConfig reads the YAML file, overlays AWS secrets when enabled and
// builds the logger every subcommand uses.
func loadConfig(ctx context.Context) error {
	loaded, err := config.LoadWithDefaults(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if loaded.Secrets.AWSEnabled {
		if err := config.LoadSecretsFromAWS(ctx, loaded); err != nil {
			return fmt.Errorf("failed to load secrets from AWS: %w", err)
		}
	}

	if err := config.Validate(loaded); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := config.ValidateEnvironment(loaded); err != nil {
		return fmt.Errorf("invalid configuration for %s: %w", loaded.App.Environment, err)
	}

	if loaded.App.Version == "" || loaded.App.Version == "dev" {
		loaded.App.Version = Version
	}

	cfg = loaded
	appLogger = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	return nil
}
