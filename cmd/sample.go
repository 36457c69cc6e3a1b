package cmd

import (
	"github.com/spf13/cobra"
)

var (
	sampleLimit  int
	sampleFormat string
)

var sampleCmd = &cobra.Command{
	Use:   "sample <schema.table>",
	Short: "Show sample rows from a table",
	Long: `Fetch a few rows from a table to see what the data looks like.

Examples:
  askdb sample marts.fct_orders
  askdb sample --limit 10 --format json marts.dim_customers`,
	Args: cobra.ExactArgs(1),
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().IntVar(&sampleLimit, "limit", 0, "Number of rows to fetch (default from config)")
	sampleCmd.Flags().StringVar(&sampleFormat, "format", "table", "Output format: table or json")
}

func runSample(cmd *cobra.Command, args []string) error {
	w, err := openWarehouse(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	limit := sampleLimit
	if limit <= 0 {
		limit = cfg.Agent.SampleLimit
	}

	rows, err := w.SampleRows(cmd.Context(), args[0], limit)
	if err != nil {
		return wrapDatabase(err)
	}

	return renderRows(cmd.OutOrStdout(), rows, sampleFormat)
}
