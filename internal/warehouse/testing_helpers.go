package warehouse

import (
	"context"
	"testing"
)

// NewTestWarehouse creates an in-memory warehouse seeded with a small marts
// schema, closed automatically when the test finishes.
func NewTestWarehouse(t *testing.T) *Warehouse {
	t.Helper()

	w := NewInMemory()
	ctx := context.Background()

	db, err := w.conn(ctx)
	if err != nil {
		t.Fatalf("failed to open in-memory warehouse: %v", err)
	}

	stmts := []string{
		`CREATE SCHEMA marts`,
		`CREATE TABLE marts.fct_orders (
			order_id INTEGER,
			customer_id INTEGER,
			total DOUBLE,
			transaction_date DATE
		)`,
		`INSERT INTO marts.fct_orders
		 SELECT range::INTEGER,
		        (range % 50)::INTEGER,
		        (range % 100) * 1.5,
		        DATE '2024-01-01' + (range % 365)::INTEGER
		 FROM range(500)`,
		`CREATE TABLE marts.dim_customers (
			customer_id INTEGER,
			customer_name VARCHAR,
			segment VARCHAR
		)`,
		`INSERT INTO marts.dim_customers
		 SELECT range::INTEGER,
		        'customer_' || range,
		        CASE WHEN range % 2 = 0 THEN 'consumer' ELSE 'corporate' END
		 FROM range(50)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("failed to seed test warehouse: %v", err)
		}
	}

	t.Cleanup(func() {
		if err := w.Close(); err != nil {
			t.Errorf("failed to close test warehouse: %v", err)
		}
	})

	return w
}
