// Command etl ingests a malformed property JSON export: repairs its text
// defects, validates every record, flattens survivors into fact rows and
// loads them into the configured storage backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"propfacts/internal/config"
	"propfacts/internal/metrics"
	"propfacts/internal/metrics/datadog"
	"propfacts/internal/observability"
	"propfacts/internal/pipeline"
	"propfacts/internal/storage"

	// register all storage backends with the factory; config picks one
	// at runtime.
	_ "propfacts/internal/storage/all"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "etl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Flags override the environment.
	flag.StringVar(&cfg.InputFile, "input", cfg.InputFile, "malformed JSON dataset to ingest")
	flag.StringVar(&cfg.SchemaFile, "schema", cfg.SchemaFile, "optional SQL DDL file applied before loading")
	flag.StringVar(&cfg.StorageKind, "storage", cfg.StorageKind, "storage backend (mysql, postgres, sqlite, mssql)")
	flag.StringVar(&cfg.StorageDSN, "dsn", cfg.StorageDSN, "storage DSN")
	flag.IntVar(&cfg.MaxRecords, "max-records", cfg.MaxRecords, "cap on records entering validation (0 = no cap)")
	flag.BoolVar(&cfg.StopOnFirstFailure, "stop-on-first-failure", cfg.StopOnFirstFailure, "abort at the first invalid record")
	flag.IntVar(&cfg.BatchSize, "batch-size", cfg.BatchSize, "rows per INSERT statement")
	flag.IntVar(&cfg.ValidateWorkers, "workers", cfg.ValidateWorkers, "validation parallelism (0 = GOMAXPROCS)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flag.StringVar(&cfg.MetricsBackend, "metrics-backend", cfg.MetricsBackend, "metrics backend (datadog, none)")
	flag.Parse()

	log := observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	switch cfg.MetricsBackend {
	case "datadog":
		b, err := datadog.NewBackend(context.Background(), datadog.Options{
			JobName: "propfacts",
			Tags:    datadog.ParseTagsCSV(cfg.MetricsTags),
		})
		if err != nil {
			log.Warn().Err(err).Msg("datadog metrics init failed; metrics disabled")
		} else {
			metrics.SetBackend(b)
			// Close stops the flush loop and submits one last time.
			defer func() {
				if err := b.Close(); err != nil {
					log.Warn().Err(err).Msg("metrics flush failed")
				}
			}()
		}
	case "", "none":
		// nop backend remains installed
	default:
		log.Warn().Str("backend", cfg.MetricsBackend).Msg("unknown metrics backend; metrics disabled")
	}

	ctx := context.Background()

	repo, err := storage.New(ctx, storage.Config{
		Kind:      cfg.StorageKind,
		DSN:       cfg.StorageDSN,
		BatchSize: cfg.BatchSize,
	})
	if err != nil {
		return err
	}
	defer repo.Close()

	res, err := pipeline.Run(ctx, pipeline.Options{
		InputPath:          cfg.InputFile,
		SchemaPath:         cfg.SchemaFile,
		MaxRecords:         cfg.MaxRecords,
		StopOnFirstFailure: cfg.StopOnFirstFailure,
		Workers:            cfg.ValidateWorkers,
	}, repo, log)
	if err != nil {
		if res != nil {
			log.Error().
				Int("valid", res.RecordsValid).
				Int("invalid", res.RecordsInvalid).
				Msg("run aborted")
		}
		return err
	}

	log.Info().
		Int("repairs", res.RepairsApplied).
		Int("parsed", res.RecordsParsed).
		Int("valid", res.RecordsValid).
		Int("invalid", res.RecordsInvalid).
		Dur("elapsed", res.Elapsed.Truncate(time.Millisecond)).
		Msg("ingest finished")
	return nil
}
