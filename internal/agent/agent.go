// Package agent owns the question -> SQL -> execution -> repair protocol.
// It binds a completion backend and a warehouse together: schema context in,
// executed results out, with a bounded repair loop between the two.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/askdb/askdb/internal/logging"
)

// Completer is the abstract completion capability: one synchronous
// system+user prompt pair in, text out.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Store is the warehouse surface the agent needs: SQL execution and the
// schema-summary rendering used as model context.
type Store interface {
	Execute(ctx context.Context, sql string) ([]map[string]any, error)
	SchemaSummary(ctx context.Context, schemas []string) (string, error)
}

// Outcome is the terminal result of one question. Rows and Err are mutually
// exclusive: exactly one is set. Retries counts repair round-trips, so the
// first attempt succeeding means Retries == 0.
type Outcome struct {
	Question string           `json:"question"`
	SQL      string           `json:"sql"`
	Rows     []map[string]any `json:"rows,omitempty"`
	Err      string           `json:"error,omitempty"`
	Retries  int              `json:"retries"`
}

// Failed reports whether the question exhausted its attempts
func (o Outcome) Failed() bool {
	return o.Err != ""
}

// Defaults for the loop's tuning knobs
const (
	DefaultMaxRetries      = 2
	DefaultSummarizeRowCap = 20
)

// Agent runs the query generation loop for one conversation. It holds the
// session-scoped schema summary cache: populated on first access, never
// refreshed, discarded with the Agent. Staleness against the live catalog
// is an accepted tradeoff. Not safe for concurrent use.
type Agent struct {
	store     Store
	completer Completer
	logger    *logging.Logger

	maxRetries      int
	summarizeRowCap int
	schemas         []string
	hintRules       []HintRule

	sessionID   string
	schemaCache string
}

// Option configures an Agent
type Option func(*Agent)

// WithMaxRetries bounds repair round-trips per question
func WithMaxRetries(n int) Option {
	return func(a *Agent) {
		if n >= 0 {
			a.maxRetries = n
		}
	}
}

// WithSummarizeRowCap bounds how many result rows reach the summarizer
func WithSummarizeRowCap(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.summarizeRowCap = n
		}
	}
}

// WithSchemas restricts generation context to an explicit schema allow-list
func WithSchemas(schemas []string) Option {
	return func(a *Agent) {
		a.schemas = schemas
	}
}

// WithHintRules replaces the error-classification keyword table
func WithHintRules(rules []HintRule) Option {
	return func(a *Agent) {
		a.hintRules = rules
	}
}

// WithLogger sets the logger
func WithLogger(logger *logging.Logger) Option {
	return func(a *Agent) {
		a.logger = logger
	}
}

// New creates an agent for one conversation session
func New(store Store, completer Completer, opts ...Option) *Agent {
	a := &Agent{
		store:           store,
		completer:       completer,
		logger:          logging.GetLogger(),
		maxRetries:      DefaultMaxRetries,
		summarizeRowCap: DefaultSummarizeRowCap,
		hintRules:       DefaultHintRules,
		sessionID:       uuid.NewString(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.logger = a.logger.WithField("session", a.sessionID)

	return a
}

// SchemaSummary returns the session's schema summary, introspecting the
// catalog on first call and serving the cached text afterwards.
func (a *Agent) SchemaSummary(ctx context.Context) (string, error) {
	if a.schemaCache == "" {
		summary, err := a.store.SchemaSummary(ctx, a.schemas)
		if err != nil {
			return "", err
		}

		a.schemaCache = summary
		a.logger.Debugf("cached schema summary (%d bytes)", len(summary))
	}

	return a.schemaCache, nil
}

// GenerateSQL converts a question into normalized SQL without executing it.
// Single-shot: no retries, no database access beyond the cached summary.
func (a *Agent) GenerateSQL(ctx context.Context, question string) (string, error) {
	summary, err := a.SchemaSummary(ctx)
	if err != nil {
		return "", err
	}

	raw, err := a.completer.Complete(ctx, fmt.Sprintf(systemPromptTemplate, summary), question)
	if err != nil {
		return "", err
	}

	return normalizeSQL(raw), nil
}

// Query runs the full state machine: generate, execute, and on failure
// classify the error and ask the backend to repair the SQL, up to the retry
// bound. Every execution and completion error inside the loop lands in
// Outcome.Err; nothing is raised past this method.
func (a *Agent) Query(ctx context.Context, question string) Outcome {
	outcome := Outcome{Question: question}

	sqlText, err := a.GenerateSQL(ctx, question)
	if err != nil {
		outcome.Err = err.Error()
		return outcome
	}

	// Already cached by GenerateSQL; the repair prompts reuse the exact
	// same context the generation saw.
	summary, err := a.SchemaSummary(ctx)
	if err != nil {
		outcome.Err = err.Error()
		return outcome
	}

	for attempt := 0; ; attempt++ {
		outcome.SQL = sqlText
		outcome.Retries = attempt

		rows, execErr := a.store.Execute(ctx, sqlText)
		if execErr == nil {
			if rows == nil {
				rows = []map[string]any{}
			}

			outcome.Rows = rows
			a.logger.Debugf("query succeeded after %d retries (%d rows)", attempt, len(rows))

			return outcome
		}

		message := execErr.Error()

		if attempt >= a.maxRetries {
			outcome.Err = message
			a.logger.WithField("attempts", attempt+1).Debug("query exhausted its retry budget")

			return outcome
		}

		category, hint := classify(a.hintRules, message)
		a.logger.WithFields(map[string]interface{}{
			"attempt":  attempt,
			"category": category,
		}).Debugf("execution failed, requesting repair: %s", message)

		repair := fmt.Sprintf(repairPromptTemplate, message, hint, question, sqlText)

		raw, compErr := a.completer.Complete(ctx, fmt.Sprintf(systemPromptTemplate, summary), repair)
		if compErr != nil {
			outcome.Err = compErr.Error()
			return outcome
		}

		sqlText = normalizeSQL(raw)
	}
}

// Chat answers a question conversationally. Failures and empty results get
// fixed templates; successful results are summarized by the backend, with
// the final SQL appended for transparency. Chat always produces displayable
// text and never raises on query failure.
func (a *Agent) Chat(ctx context.Context, question string) string {
	result := a.Query(ctx, question)

	if result.Failed() {
		msg := fmt.Sprintf("I tried this SQL:\n```sql\n%s\n```\n\nBut got an error: %s",
			result.SQL, result.Err)
		if result.Retries > 0 {
			msg += fmt.Sprintf("\n\nI attempted the query %d times before giving up.", result.Retries+1)
		}

		return msg
	}

	if len(result.Rows) == 0 {
		return fmt.Sprintf("Query executed but returned no results.\n\nSQL:\n```sql\n%s\n```", result.SQL)
	}

	rows := result.Rows
	if len(rows) > a.summarizeRowCap {
		rows = rows[:a.summarizeRowCap]
	}

	serialized, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		serialized = []byte(fmt.Sprintf("%v", rows))
	}

	prompt := fmt.Sprintf(summarizePromptTemplate, question, result.SQL, a.summarizeRowCap, serialized)

	answer, err := a.completer.Complete(ctx, summarizeSystemPrompt, prompt)
	if err != nil {
		a.logger.WithError(err).Warn("summarization failed, returning raw results")

		return fmt.Sprintf("The query succeeded but I couldn't summarize the results.\n\nResults:\n%s\n\n---\n*SQL used:*\n```sql\n%s\n```",
			serialized, result.SQL)
	}

	return fmt.Sprintf("%s\n\n---\n*SQL used:*\n```sql\n%s\n```", answer, result.SQL)
}

// SessionID identifies this conversation in logs
func (a *Agent) SessionID() string {
	return a.sessionID
}
