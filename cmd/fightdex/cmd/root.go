// Package cmd implements the fightdex CLI commands.
package cmd

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fightdex/fightdex"
	"github.com/fightdex/fightdex/pkg/logging"
)

var (
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "fightdex",
	Short: "Aggregate combat-sports athlete data into one canonical set",
	Long: `fightdex fetches rosters, fight records, rankings, and scheduled
matchups from multiple public sources, reconciles them into one canonical
athlete set, and loads the result into a local database.

Failures are persisted per stage and retried on the next incremental run;
identifier conflicts are surfaced for review, never auto-resolved.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Optional; local development keeps settings in a .env file.
		_ = godotenv.Load()

		if logLevel != "" {
			logging.SetLevel(logLevel)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(clearCmd)
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// newClient builds a Client from the shared flags.
func newClient() (*fightdex.Client, error) {
	return fightdex.New(fightdex.WithConfigFile(configFile))
}
