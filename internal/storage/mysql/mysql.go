// Package mysql implements the storage.Repository contract on MySQL using
// database/sql and go-sql-driver. Fact rows load through chunked multi-row
// INSERTs inside one transaction; dimension values use INSERT IGNORE against
// the unique value column.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"propfacts/internal/storage"
)

const defaultBatchSize = 500

func init() {
	storage.Register("mysql", New)
}

// Repo implements storage.Repository for MySQL.
type Repo struct {
	db        *sql.DB
	batchSize int
}

// New opens a connection pool and validates connectivity.
func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}

	// Bursty single-run loads; a small pool is plenty.
	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(8)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
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
			return fmt.Errorf("mysql: create table %s: %w", t.Name, err)
		}
	}
	return nil
}

func (r *Repo) ExecStatements(ctx context.Context, stmts []string) error {
	for i, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("mysql: statement %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *Repo) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if table == "" || len(columns) == 0 {
		return 0, fmt.Errorf("mysql: InsertRows: table and columns are required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mysql: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var inserted int64
	for start := 0; start < len(rows); start += r.batchSize {
		end := start + r.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		part := rows[start:end]

		q, args := buildInsertSQL(table, columns, part)
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return 0, fmt.Errorf("mysql: insert %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("mysql: insert %s: rows affected: %w", table, err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mysql: commit %s: %w", table, err)
	}
	return inserted, nil
}

func (r *Repo) EnsureDimensionValues(ctx context.Context, table, column string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	if table == "" || column == "" {
		return fmt.Errorf("mysql: EnsureDimensionValues: table and column are required")
	}

	for start := 0; start < len(values); start += r.batchSize {
		end := start + r.batchSize
		if end > len(values) {
			end = len(values)
		}
		part := values[start:end]

		var b strings.Builder
		fmt.Fprintf(&b, "INSERT IGNORE INTO %s (%s) VALUES ", ident(table), ident(column))
		args := make([]any, 0, len(part))
		for i, v := range part {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("(?)")
			args = append(args, v)
		}

		if _, err := r.db.ExecContext(ctx, b.String(), args...); err != nil {
			return fmt.Errorf("mysql: ensure dimension %s: %w", table, err)
		}
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
	return "`" + strings.ReplaceAll(id, "`", "") + "`"
}

// typeFor maps neutral column types to MySQL types. Unique text columns use
// a bounded VARCHAR since MySQL cannot put a unique index on TEXT without a
// prefix length.
func typeFor(c storage.ColumnSpec) string {
	switch c.Type {
	case storage.TypeBigInt:
		return "BIGINT"
	case storage.TypeDouble:
		return "DOUBLE"
	default:
		if c.Unique {
			return "VARCHAR(255)"
		}
		return "TEXT"
	}
}
