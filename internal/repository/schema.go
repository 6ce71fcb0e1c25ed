package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// The orders table layout is a compatibility contract: an existing
// database file from earlier releases must be adopted verbatim, so the
// DDL is spelled out rather than generated from the model.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS orders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    order_number TEXT NOT NULL,
    amount REAL NOT NULL CHECK (amount > 0),
    image_uri TEXT,
    comment_with_picture BOOLEAN DEFAULT FALSE,
    commented BOOLEAN DEFAULT FALSE,
    revealed BOOLEAN DEFAULT FALSE,
    reimbursed BOOLEAN DEFAULT FALSE,
    reimbursed_amount REAL DEFAULT 0.0,
    note TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS orders (
    id BIGSERIAL PRIMARY KEY,
    order_number TEXT NOT NULL,
    amount DOUBLE PRECISION NOT NULL CHECK (amount > 0),
    image_uri TEXT,
    comment_with_picture BOOLEAN DEFAULT FALSE,
    commented BOOLEAN DEFAULT FALSE,
    revealed BOOLEAN DEFAULT FALSE,
    reimbursed BOOLEAN DEFAULT FALSE,
    reimbursed_amount DOUBLE PRECISION DEFAULT 0.0,
    note TEXT,
    created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
)`

const orderNumberIndex = `CREATE INDEX IF NOT EXISTS idx_order_number ON orders (order_number)`

// expectedColumns is the column set VerifyStructure checks for.
var expectedColumns = []string{
	"id", "order_number", "amount", "image_uri", "comment_with_picture",
	"commented", "revealed", "reimbursed", "reimbursed_amount", "note",
	"created_at",
}

// EnsureSchema creates the orders table and its order-number index if
// absent. Create-if-absent semantics make repeated calls safe.
func EnsureSchema(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	ddl := sqliteSchema
	if db.Dialect().Name() == dialect.PG {
		ddl = postgresSchema
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		logger.Error("failed to create orders table", "error", err)
		return fmt.Errorf("create orders table: %w", err)
	}
	if _, err := db.ExecContext(ctx, orderNumberIndex); err != nil {
		logger.Error("failed to create order number index", "error", err)
		return fmt.Errorf("create order number index: %w", err)
	}
	return nil
}

// VerifyStructure checks that the orders table exists with the expected
// columns. Meant for a deferred background pass after startup; it reads
// only and reports rather than repairs.
func VerifyStructure(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	present := make(map[string]bool)

	if db.Dialect().Name() == dialect.PG {
		rows, err := db.QueryContext(ctx,
			`SELECT column_name FROM information_schema.columns WHERE table_name = 'orders'`)
		if err != nil {
			return fmt.Errorf("query table structure: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			present[name] = true
		}
		if err := rows.Err(); err != nil {
			return err
		}
	} else {
		var table string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'orders'`).Scan(&table)
		if err != nil {
			return fmt.Errorf("orders table not found: %w", err)
		}
		rows, err := db.QueryContext(ctx, `PRAGMA table_info(orders)`)
		if err != nil {
			return fmt.Errorf("query table structure: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var (
				cid     int
				name    string
				ctype   string
				notnull int
				dflt    any
				pk      int
			)
			if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
				return err
			}
			present[name] = true
		}
		if err := rows.Err(); err != nil {
			return err
		}
	}

	var missing []string
	for _, col := range expectedColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		logger.Error("orders table is missing columns", "missing", missing)
		return fmt.Errorf("orders table missing columns: %v", missing)
	}
	logger.Info("database structure verified")
	return nil
}
