// Package pipeline runs the full ingest: read the raw dataset, repair its
// text defects, parse it, validate and coerce every record, flatten the
// survivors into fact rows and load them through a storage backend.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"propfacts/internal/metrics"
	"propfacts/internal/parser"
	"propfacts/internal/repair"
	"propfacts/internal/schema"
	"propfacts/internal/storage"
	"propfacts/internal/transform"
)

// ErrNoValidRecords is returned when every parsed record fails validation;
// nothing is written to storage in that case.
var ErrNoValidRecords = errors.New("pipeline: no valid records")

// Options configures one run.
type Options struct {
	// InputPath is the raw dataset file.
	InputPath string

	// SchemaPath optionally names a SQL DDL file executed before loading.
	// When empty, tables come from the built-in definitions.
	SchemaPath string

	// MaxRecords caps how many parsed records enter validation; 0 means
	// no cap.
	MaxRecords int

	// StopOnFirstFailure turns the first invalid record into a run error.
	StopOnFirstFailure bool

	// Workers sets validation parallelism; 0 uses GOMAXPROCS.
	Workers int
}

// Result summarizes one completed run.
type Result struct {
	RepairsApplied int
	RecordsParsed  int
	RecordsValid   int
	RecordsInvalid int

	Failures []schema.ValidationFailure

	RowsInserted    map[string]int64
	DimensionCounts map[string]int

	Elapsed time.Duration
}

// Run executes the pipeline against repo. The returned Result is non-nil
// whenever validation completed, including the ErrNoValidRecords case and
// the StopOnFirstFailure abort, so callers can still report counts.
func Run(ctx context.Context, opts Options, repo storage.Repository, log zerolog.Logger) (*Result, error) {
	started := time.Now()

	raw, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read input: %w", err)
	}

	repairStart := time.Now()
	text, fixes := repair.Repair(string(raw))
	observeStep("repair", repairStart)

	for _, fix := range fixes {
		metrics.IncCounter(metrics.MetricRepairsTotal, 1, metrics.Labels{"rule": fix.Rule})
		log.Debug().
			Str("rule", fix.Rule).
			Str("original", fix.Original).
			Str("replacement", fix.Replacement).
			Msg("repair applied")
	}
	log.Info().Int("repairs", len(fixes)).Msg("repair pass done")

	parseStart := time.Now()
	records, err := parser.Records(text)
	observeStep("parse", parseStart)
	if err != nil {
		var synErr *parser.SyntaxError
		if errors.As(err, &synErr) {
			log.Error().
				Int("line", synErr.Line).
				Int("column", synErr.Column).
				Str("context", synErr.Context).
				Msg("input is not parseable after repair")
		}
		return nil, fmt.Errorf("pipeline: parse input: %w", err)
	}
	log.Info().Int("records", len(records)).Msg("parsed input")

	validateStart := time.Now()
	valid, failures := schema.ValidateBatch(records, schema.BatchOptions{
		MaxRecords:         opts.MaxRecords,
		StopOnFirstFailure: opts.StopOnFirstFailure,
		Workers:            opts.Workers,
	})
	observeStep("validate", validateStart)

	parsed := len(records)
	if opts.MaxRecords > 0 && parsed > opts.MaxRecords {
		parsed = opts.MaxRecords
	}

	res := &Result{
		RepairsApplied: len(fixes),
		RecordsParsed:  parsed,
		RecordsValid:   len(valid),
		RecordsInvalid: len(failures),
		Failures:       failures,

		RowsInserted:    map[string]int64{},
		DimensionCounts: map[string]int{},
	}

	metrics.IncCounter(metrics.MetricRecordsTotal, float64(len(valid)), metrics.Labels{"kind": "valid"})
	metrics.IncCounter(metrics.MetricRecordsTotal, float64(len(failures)), metrics.Labels{"kind": "invalid"})

	for _, f := range failures {
		ev := log.Warn().Int("record", f.RecordIndex)
		for _, fe := range f.Errors {
			ev = ev.Str(fe.Field, fe.Message)
		}
		ev.Msg("record rejected")
	}

	if opts.StopOnFirstFailure && len(failures) > 0 {
		res.Elapsed = time.Since(started)
		return res, fmt.Errorf("pipeline: record %d invalid: %s",
			failures[0].RecordIndex, failures[0].Errors[0].String())
	}
	if len(valid) == 0 {
		res.Elapsed = time.Since(started)
		return res, ErrNoValidRecords
	}

	transformStart := time.Now()
	facts := transform.Denormalize(valid)
	dims := transform.ExtractDimensions(facts.Properties)
	observeStep("transform", transformStart)

	loadStart := time.Now()
	err = load(ctx, opts, repo, facts, dims, res, log)
	observeStep("load", loadStart)
	if err != nil {
		return res, err
	}

	res.Elapsed = time.Since(started)
	log.Info().
		Int("valid", res.RecordsValid).
		Int("invalid", res.RecordsInvalid).
		Dur("elapsed", res.Elapsed).
		Msg("run complete")
	return res, nil
}

func load(
	ctx context.Context,
	opts Options,
	repo storage.Repository,
	facts transform.FactRowSet,
	dims transform.DimensionSet,
	res *Result,
	log zerolog.Logger,
) error {
	if opts.SchemaPath != "" {
		ddl, err := os.ReadFile(opts.SchemaPath)
		if err != nil {
			return fmt.Errorf("pipeline: read schema file: %w", err)
		}
		stmts := storage.SplitSQLStatements(string(ddl))
		if err := repo.ExecStatements(ctx, stmts); err != nil {
			return fmt.Errorf("pipeline: apply schema file: %w", err)
		}
		log.Info().Int("statements", len(stmts)).Str("file", opts.SchemaPath).Msg("schema file applied")
	} else if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("pipeline: ensure schema: %w", err)
	}

	// Parents load before children so foreign keys resolve on backends
	// that enforce them.
	inserts := []struct {
		table   string
		columns []string
		rows    [][]any
	}{
		{storage.TableProperties, factColumns(storage.TableProperties), storage.PropertyValues(facts.Properties)},
		{storage.TableValuations, factColumns(storage.TableValuations), storage.ValuationValues(facts.Valuations)},
		{storage.TableHOAFees, factColumns(storage.TableHOAFees), storage.HOAFeeValues(facts.HOAFees)},
		{storage.TableRehab, factColumns(storage.TableRehab), storage.RehabValues(facts.RehabAssessments)},
	}

	for _, ins := range inserts {
		n, err := repo.InsertRows(ctx, ins.table, ins.columns, ins.rows)
		if err != nil {
			return fmt.Errorf("pipeline: load %s: %w", ins.table, err)
		}
		res.RowsInserted[ins.table] = n
		metrics.IncCounter(metrics.MetricRowsInsertedTotal, float64(n), metrics.Labels{"table": ins.table})
		log.Info().Str("table", ins.table).Int64("rows", n).Msg("rows inserted")
	}

	for table, values := range storage.DimensionValues(dims) {
		if err := repo.EnsureDimensionValues(ctx, table, dimensionColumn(table), values); err != nil {
			return fmt.Errorf("pipeline: load %s: %w", table, err)
		}
		res.DimensionCounts[table] = len(values)
		log.Info().Str("table", table).Int("values", len(values)).Msg("dimension values ensured")
	}

	return nil
}

func factColumns(table string) []string {
	for _, t := range storage.FactTables() {
		if t.Name == table {
			return t.ColumnNames()
		}
	}
	return nil
}

func dimensionColumn(table string) string {
	for _, t := range storage.DimensionTables() {
		if t.Name == table {
			return t.Columns[0].Name
		}
	}
	return ""
}

func observeStep(step string, start time.Time) {
	metrics.ObserveHistogram(metrics.MetricStepDurationSeconds, time.Since(start).Seconds(), metrics.Labels{"step": step})
}
