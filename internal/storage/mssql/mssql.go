// Package mssql implements the storage.Repository contract on Microsoft SQL
// Server. Inserts chunk to stay under the server's 2100 parameter limit;
// dimension upkeep uses a VALUES anti-join instead of MERGE.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"propfacts/internal/storage"
)

// SQL Server rejects statements with more than 2100 parameters; stay below.
const maxParams = 2000

const defaultBatchSize = 500

func init() {
	storage.Register("mssql", New)
}

// Repo implements storage.Repository for SQL Server.
type Repo struct {
	db        *sql.DB
	batchSize int
}

// New opens a connection pool using the "sqlserver" driver and validates
// connectivity.
func New(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mssql: open: %w", err)
	}

	db.SetMaxOpenConns(8)
	db.SetMaxIdleConns(8)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mssql: ping: %w", err)
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
		if _, err := r.db.ExecContext(ctx, createTableSQL(t)); err != nil {
			return fmt.Errorf("mssql: create table %s: %w", t.Name, err)
		}
	}
	return nil
}

func (r *Repo) ExecStatements(ctx context.Context, stmts []string) error {
	for i, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("mssql: statement %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *Repo) InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if table == "" || len(columns) == 0 {
		return 0, fmt.Errorf("mssql: InsertRows: table and columns are required")
	}

	chunk := r.batchSize
	if maxRows := maxParams / len(columns); chunk > maxRows {
		chunk = maxRows
	}
	if chunk < 1 {
		chunk = 1
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mssql: begin tx: %w", err)
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
			return 0, fmt.Errorf("mssql: insert %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("mssql: insert %s: rows affected: %w", table, err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mssql: commit %s: %w", table, err)
	}
	return inserted, nil
}

func (r *Repo) EnsureDimensionValues(ctx context.Context, table, column string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	if table == "" || column == "" {
		return fmt.Errorf("mssql: EnsureDimensionValues: table and column are required")
	}

	chunk := r.batchSize
	if chunk > maxParams {
		chunk = maxParams
	}

	for start := 0; start < len(values); start += chunk {
		end := start + chunk
		if end > len(values) {
			end = len(values)
		}
		part := values[start:end]

		q, args := buildEnsureDimensionSQL(table, column, part)
		if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("mssql: ensure dimension %s: %w", table, err)
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

	args := make([]any, 0, len(rows)*len(columns))
	p := 1
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j := range columns {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "@p%d", p)
			p++
		}
		b.WriteString(")")
		args = append(args, row...)
	}
	return b.String(), args
}

// buildEnsureDimensionSQL inserts the missing subset of values through a
// VALUES table anti-joined against the dimension.
func buildEnsureDimensionSQL(table, column string, values []string) (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) SELECT v.value FROM (VALUES ", ident(table), ident(column))
	args := make([]any, 0, len(values))
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "(@p%d)", i+1)
		args = append(args, v)
	}
	fmt.Fprintf(&b,
		") AS v(value) LEFT JOIN %s t ON t.%s = v.value WHERE t.%s IS NULL",
		ident(table), ident(column), ident(column),
	)
	return b.String(), args
}

func createTableSQL(t storage.TableSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (", t.Name, ident(t.Name))
	for i, c := range t.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(ident(c.Name))
		b.WriteByte(' ')
		b.WriteString(typeFor(c))
		if c.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		}
		if c.Unique {
			b.WriteString(" UNIQUE")
		}
	}
	b.WriteString(")")
	return b.String()
}

func ident(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "") + "]"
}

// typeFor maps neutral column types to SQL Server types. Unique text
// columns are bounded so they fit under the 900-byte index key limit.
func typeFor(c storage.ColumnSpec) string {
	switch c.Type {
	case storage.TypeBigInt:
		return "BIGINT"
	case storage.TypeDouble:
		return "FLOAT"
	default:
		if c.Unique {
			return "NVARCHAR(400)"
		}
		return "NVARCHAR(MAX)"
	}
}
