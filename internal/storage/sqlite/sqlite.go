// Package sqlite implements the storage.Repository contract on SQLite via
// the CGO-free modernc driver. Useful for local runs and integration tests
// that want a real SQL backend without a server.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"propfacts/internal/storage"
)

const defaultBatchSize = 200

func init() {
	storage.Register("sqlite", New)
}

// Repo implements storage.Repository for SQLite.
type Repo struct {
	db        *sql.DB
	batchSize int
}

// New opens the database file named by the DSN (":memory:" works too).
func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	// A single writer; concurrent connections just contend on the file lock.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	return &Repo{db: db, batchSize: batch}, nil
}

func (r *Repo) Close() {
	if r == nil || r.db == nil {
		return
	}
	_ = r.db.Close()
}

func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, t := range append(storage.FactTables(), storage.DimensionTables()...) {
		stmt := storage.CreateTableSQL(t, ident, typeFor)
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: create table %s: %w", t.Name, err)
		}
	}
	return nil
}

func (r *Repo) ExecStatements(ctx context.Context, stmts []string) error {
	for i, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: statement %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *Repo) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if table == "" || len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: InsertRows: table and columns are required")
	}

	// SQLite caps bound parameters per statement; keep each chunk well
	// under the limit regardless of the configured batch size.
	chunk := r.batchSize
	if maxRows := 900 / len(columns); chunk > maxRows {
		chunk = maxRows
	}
	if chunk < 1 {
		chunk = 1
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var inserted int64
	for start := 0; start < len(rows); start += chunk {
		end := start + chunk
		if end > len(rows) {
			end = len(rows)
		}
		part := rows[start:end]

		q, args := buildInsertSQL(table, columns, part)
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return 0, fmt.Errorf("sqlite: insert %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("sqlite: insert %s: rows affected: %w", table, err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit %s: %w", table, err)
	}
	return inserted, nil
}

func (r *Repo) EnsureDimensionValues(ctx context.Context, table, column string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	if table == "" || column == "" {
		return fmt.Errorf("sqlite: EnsureDimensionValues: table and column are required")
	}

	q := fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (?)", ident(table), ident(column))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, v := range values {
		if _, err := tx.ExecContext(ctx, q, v); err != nil {
			return fmt.Errorf("sqlite: ensure dimension %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit %s: %w", table, err)
	}
	return nil
}

func buildInsertSQL(table string, columns []string, rows [][]any) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(ident(table))
	b.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(ident(c))
	}
	b.WriteString(") VALUES ")

	rowPlaceholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(rowPlaceholder)
		args = append(args, row...)
	}
	return b.String(), args
}

func ident(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, "") + `"`
}

func typeFor(c storage.ColumnSpec) string {
	switch c.Type {
	case storage.TypeBigInt:
		return "INTEGER"
	case storage.TypeDouble:
		return "REAL"
	default:
		return "TEXT"
	}
}
