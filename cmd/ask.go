package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"github.com/askdb/askdb/internal/errors"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question and get a prose answer",
	Long: `Ask a question about the data. The generated SQL is executed against the
warehouse and the results are summarized in plain language.

Examples:
  askdb ask "How much revenue did we do last quarter?"
  askdb ask "What are the top 5 products by sales?"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(args[0])
	if question == "" {
		return errors.New(errors.ErrTypeValidation, "question cannot be empty")
	}

	a, w, err := newAgent(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
		spinner.WithWriter(cmd.ErrOrStderr()))
	spin.Suffix = " Thinking..."
	spin.Start()

	answer := a.Chat(cmd.Context(), question)

	spin.Stop()

	fmt.Fprintln(cmd.OutOrStdout(), answer)

	return nil
}
