package main

import (
	"fmt"
	"os"

	"github.com/SscSPs/invoicing_app/internal/platform/config"
	"github.com/SscSPs/invoicing_app/internal/platform/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "invoicing",
	Short: "Invoicing backend",
	Long: `Invoicing backend serves the HTTP API for clients, products, invoices and payments.

Configuration is read from the environment and an optional .env file
(PGSQL_URL, PORT, JWT_SECRET, REDIS_URL, ...).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		l := logger.WithComponent("cmd")
		l.Error().Err(err).Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration and installs the base logger.
func bootstrap() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(logger.Config{Production: cfg.IsProduction, Level: cfg.LogLevel})
	return cfg, log, nil
}
