package cmd

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/logging"
)

// cfg is the active configuration, loaded once before any command runs
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "askdb",
	Short: "Ask questions about your data warehouse in plain language",
	Long: `askdb is a text-to-SQL assistant for DuckDB warehouses. It introspects the
warehouse catalog, asks a language model to turn your question into SQL,
executes the query, and repairs it automatically when execution fails.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// API keys commonly live in a local .env during development
		_ = godotenv.Load()

		loaded, err := config.LoadConfig()
		if err != nil {
			return err
		}

		cfg = loaded

		return logging.InitializeLogger(cfg.Logging)
	},
}

func Execute() error {
	ctx := context.Background()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(configCmd)
}
