package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/askdb/askdb/internal/errors"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <question>",
	Short: "Generate SQL for a question without executing it",
	Long: `Convert a question into SQL and print it. Nothing is executed against the
warehouse.

Examples:
  askdb sql "Show me monthly revenue trends"`,
	Args: cobra.ExactArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(args[0])
	if question == "" {
		return errors.New(errors.ErrTypeValidation, "question cannot be empty")
	}

	a, w, err := newAgent(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	sqlText, err := a.GenerateSQL(cmd.Context(), question)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), sqlText)

	return nil
}
