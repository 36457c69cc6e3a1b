package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display the active configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Active Configuration:")

	fmt.Fprintln(out, "\nDatabase:")
	fmt.Fprintf(out, "  Path: %s\n", cfg.Database.Path)

	schemas := "all non-system schemas"
	if len(cfg.Database.Schemas) > 0 {
		schemas = strings.Join(cfg.Database.Schemas, ", ")
	}

	fmt.Fprintf(out, "  Schemas: %s\n", schemas)

	fmt.Fprintln(out, "\nLLM:")
	fmt.Fprintf(out, "  Provider: %s\n", cfg.LLM.Provider)

	model := cfg.LLM.Model
	if model == "" {
		model = "(provider default)"
	}

	fmt.Fprintf(out, "  Model: %s\n", model)

	if cfg.LLM.BaseURL != "" {
		fmt.Fprintf(out, "  Base URL: %s\n", cfg.LLM.BaseURL)
	}

	fmt.Fprintln(out, "\nAgent:")
	fmt.Fprintf(out, "  Max Retries: %d\n", cfg.Agent.MaxRetries)
	fmt.Fprintf(out, "  Summarize Row Cap: %d\n", cfg.Agent.SummarizeRowCap)
	fmt.Fprintf(out, "  Max Tokens: %d\n", cfg.Agent.MaxTokens)
	fmt.Fprintf(out, "  Sample Limit: %d\n", cfg.Agent.SampleLimit)

	fmt.Fprintln(out, "\nLogging:")
	fmt.Fprintf(out, "  Level: %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  Format: %s\n", cfg.Logging.Format)
	fmt.Fprintf(out, "  Output: %s\n", cfg.Logging.Output)

	if cfg.Logging.Output == "file" {
		fmt.Fprintf(out, "  File: %s\n", cfg.Logging.File)
	}

	return nil
}
