package cmd

import (
	"github.com/askdb/askdb/internal/agent"
	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/errors"
	"github.com/askdb/askdb/internal/llm"
	"github.com/askdb/askdb/internal/logging"
	"github.com/askdb/askdb/internal/warehouse"
)

// openWarehouse creates the warehouse handle from the active configuration
func openWarehouse(cfg *config.Config) (*warehouse.Warehouse, error) {
	return warehouse.New(config.ExpandPath(cfg.Database.Path))
}

// newAgent wires a warehouse, a completion backend, and the loop's tuning
// knobs into one conversation session. Missing credentials surface here,
// before any question is processed.
func newAgent(cfg *config.Config) (*agent.Agent, *warehouse.Warehouse, error) {
	w, err := openWarehouse(cfg)
	if err != nil {
		return nil, nil, err
	}

	completer, err := llm.NewClient(llm.Config{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		BaseURL:   cfg.LLM.BaseURL,
		MaxTokens: cfg.Agent.MaxTokens,
	})
	if err != nil {
		return nil, nil, err
	}

	logger := logging.GetLogger()
	logger.Debugf("using completion backend %s", completer)

	a := agent.New(w, completer,
		agent.WithMaxRetries(cfg.Agent.MaxRetries),
		agent.WithSummarizeRowCap(cfg.Agent.SummarizeRowCap),
		agent.WithSchemas(cfg.Database.Schemas),
		agent.WithLogger(logger),
	)

	return a, w, nil
}

// wrapDatabase tags non-structured errors for consistent reporting
func wrapDatabase(err error) error {
	if err == nil {
		return nil
	}

	if _, ok := err.(*errors.Error); ok {
		return err
	}

	return errors.Wrap(err, errors.ErrTypeDatabase, "warehouse operation failed")
}
