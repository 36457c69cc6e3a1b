package warehouse

import (
	"context"
	"database/sql"
	"os"
	"time"

	_ "github.com/marcboeker/go-duckdb" // DuckDB driver

	"github.com/askdb/askdb/internal/errors"
)

// Warehouse is a DuckDB connection with catalog introspection. The
// connection is opened lazily on first use and held for the lifetime of the
// Warehouse; one Warehouse belongs to one logical conversation and is not
// safe for concurrent use without external synchronization.
type Warehouse struct {
	path     string
	readOnly bool
	db       *sql.DB
}

// New creates a warehouse handle for an existing DuckDB file. The file must
// already exist: this tool queries warehouses, it does not create them.
func New(path string) (*Warehouse, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrTypeDatabase, "warehouse database not found at %s", path).
			WithSuggestion("Check the ASKDB_DB_PATH setting").
			WithSuggestion("Build or restore the warehouse file before querying it")
	}

	return &Warehouse{path: path, readOnly: true}, nil
}

// NewInMemory creates a writable in-memory warehouse, used by tests and
// fixtures to seed catalog state.
func NewInMemory() *Warehouse {
	return &Warehouse{path: ":memory:"}
}

// conn returns the underlying connection, opening it on first use. An open
// or ping failure is a fatal startup condition surfaced to the caller.
func (w *Warehouse) conn(ctx context.Context) (*sql.DB, error) {
	if w.db != nil {
		return w.db, nil
	}

	dsn := w.path
	if w.readOnly {
		dsn += "?access_mode=read_only"
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to open warehouse database")
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to connect to warehouse database")
	}

	w.db = db

	return w.db, nil
}

// Close closes the connection if it was opened
func (w *Warehouse) Close() error {
	if w.db != nil {
		err := w.db.Close()
		w.db = nil

		return err
	}

	return nil
}

// Result holds an executed query's column order and row mappings
type Result struct {
	Columns []string
	Rows    []map[string]any
}

// Execute runs SQL and returns the rows as column-name to value mappings.
// Driver errors are returned untouched: the repair loop depends on the
// engine's verbatim message text.
func (w *Warehouse) Execute(ctx context.Context, sqlText string) ([]map[string]any, error) {
	result, err := w.ExecuteResult(ctx, sqlText)
	if err != nil {
		return nil, err
	}

	return result.Rows, nil
}

// ExecuteResult runs SQL and returns rows together with column order, for
// callers that render tabular output.
func (w *Warehouse) ExecuteResult(ctx context.Context, sqlText string) (*Result, error) {
	db, err := w.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	return scanRows(rows)
}

// scanRows collects all rows into ordered column names plus row mappings
func scanRows(rows *sql.Rows) (*Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{Columns: cols}

	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			val := values[i]
			// []byte values render poorly downstream
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			row[col] = val
		}

		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
