// Package postgres implements the storage.Repository contract on PostgreSQL
// using pgx. Fact rows load via COPY inside one transaction; dimension
// values use ON CONFLICT DO NOTHING batched through a pgx.Batch.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"propfacts/internal/storage"
)

func init() {
	storage.Register("postgres", New)
}

// Repo implements storage.Repository for PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New opens a pgx pool and validates connectivity.
func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Repo{pool: pool}, nil
}

func (r *Repo) Close() {
	if r == nil || r.pool == nil {
		return
	}
	r.pool.Close()
}

func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, t := range append(storage.FactTables(), storage.DimensionTables()...) {
		stmt := storage.CreateTableSQL(t, ident, typeFor)
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: create table %s: %w", t.Name, err)
		}
	}
	return nil
}

func (r *Repo) ExecStatements(ctx context.Context, stmts []string) error {
	for i, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: statement %d: %w", i+1, err)
		}
	}
	return nil
}

// InsertRows uses COPY, which is a single atomic command: a mid-stream
// failure inserts nothing.
func (r *Repo) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if table == "" || len(columns) == 0 {
		return 0, fmt.Errorf("postgres: InsertRows: table and columns are required")
	}

	n, err := r.pool.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("postgres: copy into %s: %w", table, err)
	}
	return n, nil
}

func (r *Repo) EnsureDimensionValues(ctx context.Context, table, column string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	if table == "" || column == "" {
		return fmt.Errorf("postgres: EnsureDimensionValues: table and column are required")
	}

	q := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES ($1) ON CONFLICT (%s) DO NOTHING",
		ident(table), ident(column), ident(column),
	)

	var batch pgx.Batch
	for _, v := range values {
		batch.Queue(q, v)
	}

	res := r.pool.SendBatch(ctx, &batch)
	defer func() { _ = res.Close() }()

	for range values {
		if _, err := res.Exec(); err != nil {
			return fmt.Errorf("postgres: ensure dimension %s: %w", table, err)
		}
	}
	return nil
}

func ident(id string) string {
	return pgx.Identifier{id}.Sanitize()
}

func typeFor(c storage.ColumnSpec) string {
	switch c.Type {
	case storage.TypeBigInt:
		return "BIGINT"
	case storage.TypeDouble:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}
