package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the warehouse schema summary",
	Long: `Print the schema summary used as model context: every non-system schema
(or the configured allow-list), each table's qualified name, row count, and
columns.`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func runSchema(cmd *cobra.Command, _ []string) error {
	w, err := openWarehouse(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	summary, err := w.SchemaSummary(cmd.Context(), cfg.Database.Schemas)
	if err != nil {
		return wrapDatabase(err)
	}

	fmt.Fprint(cmd.OutOrStdout(), summary)

	return nil
}
