package main

import (
	"fmt"

	"github.com/SscSPs/invoicing_app/pkg/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the database schema",
	Example:   "  invoicing migrate up\n  invoicing migrate down",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(database.Up), string(database.Down)},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}

	direction := database.Direction(args[0])
	log.Info().Str("direction", string(direction)).Msg("Running database migrations...")
	if err := database.Migrate(cfg.DatabaseURL, direction); err != nil {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}
	return nil
}
