package warehouse

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/askdb/askdb/internal/errors"
)

// Column is a table column as declared in the catalog
type Column struct {
	Name string
	Type string
}

// Table is an immutable snapshot of one catalog table
type Table struct {
	Schema   string
	Name     string
	Columns  []Column
	RowCount int64
}

// FullName returns the schema-qualified table name
func (t Table) FullName() string {
	return t.Schema + "." + t.Name
}

// System schemas excluded from introspection
var systemSchemas = []string{"information_schema", "pg_catalog"}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Schemas returns the non-system schema names, ordered for session-stable
// output.
func (w *Warehouse) Schemas(ctx context.Context) ([]string, error) {
	db, err := w.conn(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT table_schema
		FROM information_schema.tables
		WHERE table_schema NOT IN (%s)
		ORDER BY table_schema`, systemSchemaList())

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to list schemas")
	}
	defer func() { _ = rows.Close() }()

	var schemas []string

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to scan schema name")
		}

		schemas = append(schemas, name)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to list schemas")
	}

	return schemas, nil
}

// Tables returns catalog tables with their columns. An empty schema returns
// tables across all non-system schemas. Tables are ordered by
// (schema, table); columns keep their catalog-declared ordinal order, which
// carries positional meaning for generated SQL.
func (w *Warehouse) Tables(ctx context.Context, schema string) ([]Table, error) {
	db, err := w.conn(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT table_schema, table_name
		FROM information_schema.tables
		WHERE table_schema NOT IN (%s)`, systemSchemaList())

	args := []any{}
	if schema != "" {
		query += " AND table_schema = ?"
		args = append(args, schema)
	}

	query += " ORDER BY table_schema, table_name"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to list tables")
	}
	defer func() { _ = rows.Close() }()

	var tables []Table

	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.Schema, &t.Name); err != nil {
			return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to scan table name")
		}

		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to list tables")
	}

	for i := range tables {
		columns, err := w.tableColumns(ctx, tables[i].Schema, tables[i].Name)
		if err != nil {
			return nil, err
		}

		tables[i].Columns = columns
	}

	return tables, nil
}

// tableColumns fetches a table's columns in ordinal order
func (w *Warehouse) tableColumns(ctx context.Context, schema, table string) ([]Column, error) {
	db, err := w.conn(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position`, schema, table)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTypeDatabase, "failed to list columns for %s.%s", schema, table)
	}
	defer func() { _ = rows.Close() }()

	var columns []Column

	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.Name, &c.Type); err != nil {
			return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to scan column")
		}

		columns = append(columns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeDatabase, "failed to list columns")
	}

	return columns, nil
}

// SampleRows returns up to limit rows from a table, for optional context.
// Row order is whatever the engine returns.
func (w *Warehouse) SampleRows(ctx context.Context, fullName string, limit int) ([]map[string]any, error) {
	if !identPattern.MatchString(fullName) {
		return nil, errors.Newf(errors.ErrTypeValidation, "invalid table name: %s", fullName)
	}

	if limit <= 0 {
		limit = 3
	}

	return w.Execute(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", fullName, limit))
}

// rowCount re-queries the live row count for one table
func (w *Warehouse) rowCount(ctx context.Context, fullName string) (int64, error) {
	db, err := w.conn(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+fullName).Scan(&count); err != nil {
		return 0, errors.Wrapf(err, errors.ErrTypeDatabase, "failed to count rows in %s", fullName)
	}

	return count, nil
}

// SchemaSummary renders the catalog subset as text for model context: a
// header per schema, then each table's qualified name, live row count, and
// columns as "name: type" lines. Deterministic for a fixed catalog snapshot
// and schema selection. This text is the entire view of the catalog the
// completion backend gets.
func (w *Warehouse) SchemaSummary(ctx context.Context, schemas []string) (string, error) {
	if schemas == nil {
		detected, err := w.Schemas(ctx)
		if err != nil {
			return "", err
		}

		schemas = detected
	}

	var sb strings.Builder

	sb.WriteString("DATABASE SCHEMA:\n\n")

	for _, schema := range schemas {
		tables, err := w.Tables(ctx, schema)
		if err != nil {
			return "", err
		}

		if len(tables) == 0 {
			continue
		}

		sb.WriteString("Schema: " + schema + "\n")
		sb.WriteString(strings.Repeat("-", 40) + "\n")

		for _, table := range tables {
			count, err := w.rowCount(ctx, table.FullName())
			if err != nil {
				return "", err
			}

			sb.WriteString(fmt.Sprintf("\n%s (%s rows)\n", table.FullName(), groupDigits(count)))

			for _, col := range table.Columns {
				sb.WriteString(fmt.Sprintf("  - %s: %s\n", col.Name, col.Type))
			}
		}

		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// systemSchemaList renders the excluded schemas as a SQL IN-list
func systemSchemaList() string {
	quoted := make([]string, len(systemSchemas))
	for i, s := range systemSchemas {
		quoted[i] = "'" + s + "'"
	}

	return strings.Join(quoted, ", ")
}

// groupDigits formats a count with thousands separators (1234567 -> 1,234,567)
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}

	parts = append([]string{s}, parts...)

	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}

	return out
}
