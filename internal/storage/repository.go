// Package storage defines the backend-agnostic boundary the pipeline hands
// its row sets to, plus the table/column definitions shared by all backends.
// Concrete backends live in subpackages and register themselves by kind.
package storage

import (
	"context"
	"fmt"
	"sync"
)

// Config selects and parameterizes a backend.
type Config struct {
	Kind string
	DSN  string

	// BatchSize bounds rows per INSERT statement; <=0 uses a backend
	// default. Chunking happens inside one transaction, so atomicity per
	// entity type is unaffected.
	BatchSize int
}

// Repository is the storage collaborator contract: per-entity-type
// all-or-nothing bulk inserts plus idempotent schema and dimension upkeep.
type Repository interface {
	// Close releases connections. Call once at process shutdown.
	Close()

	// EnsureSchema creates the fact and dimension tables if missing.
	EnsureSchema(ctx context.Context) error

	// ExecStatements runs externally supplied DDL/DML statements in order
	// (the SQL schema file path). Each statement commits independently.
	ExecStatements(ctx context.Context, stmts []string) error

	// InsertRows bulk-inserts one entity type's rows atomically: either
	// every row lands or none do.
	InsertRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	// EnsureDimensionValues inserts dimension values that do not yet
	// exist. Idempotent; existing values are left alone.
	EnsureDimensionValues(ctx context.Context, table, column string, values []string) error
}

type factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]factory{}
)

// Register registers a backend under a kind (e.g. "mysql", "sqlite").
// Called from init() in backend packages; duplicate registration panics to
// fail fast on ambiguous backend selection.
func Register(kind string, f factory) {
	mu.Lock()
	defer mu.Unlock()

	if kind == "" {
		panic("storage: Register called with empty kind")
	}
	if f == nil {
		panic("storage: Register called with nil factory")
	}
	if _, exists := factories[kind]; exists {
		panic(fmt.Sprintf("storage: factory already registered for kind=%q", kind))
	}
	factories[kind] = f
}

// New constructs a Repository for the configured backend kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	if cfg.Kind == "" {
		return nil, fmt.Errorf("storage: missing kind")
	}

	mu.RLock()
	f := factories[cfg.Kind]
	mu.RUnlock()

	if f == nil {
		return nil, fmt.Errorf("storage: unsupported kind=%q", cfg.Kind)
	}
	return f(ctx, cfg)
}
