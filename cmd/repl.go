package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/askdb/askdb/internal/config"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive session",
	Long: `Start an interactive question-and-answer session against the warehouse.
Type 'schema' to see the tables, 'exit' to quit.`,
	Args: cobra.NoArgs,
	RunE: runREPL,
}

func runREPL(cmd *cobra.Command, _ []string) error {
	a, w, err := newAgent(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	historyFile := filepath.Join(filepath.Dir(config.ExpandPath(cfg.Database.Path)), ".askdb_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "you> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "askdb REPL (type 'exit' to quit, 'schema' to see tables)")
	_, _ = fmt.Fprintln(out, strings.Repeat("-", 50))

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}

		if errors.Is(err, io.EOF) {
			_, _ = fmt.Fprintln(out, "Goodbye!")
			break
		}

		question := strings.TrimSpace(line)
		if question == "" {
			continue
		}

		switch strings.ToLower(question) {
		case "exit", "quit", "q":
			_, _ = fmt.Fprintln(out, "Goodbye!")
			return nil
		case "schema":
			summary, err := a.SchemaSummary(cmd.Context())
			if err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}

			_, _ = fmt.Fprint(out, summary)

			continue
		}

		_, _ = fmt.Fprintln(out, "\nThinking...")
		_, _ = fmt.Fprintln(out)
		_, _ = fmt.Fprintln(out, a.Chat(cmd.Context(), question))
	}

	return nil
}
