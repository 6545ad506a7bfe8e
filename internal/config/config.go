// Package config loads runtime configuration from the environment, with an
// optional .env file for local runs. Command-line flags layer on top of
// these values in main.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every knob the loader reads from the environment.
type Config struct {
	// InputFile is the malformed JSON dataset to ingest.
	InputFile string `env:"PF_INPUT_FILE" envDefault:"fake_property_data.json"`

	// SchemaFile optionally points at a SQL DDL file executed before
	// loading. When empty, tables are created from built-in definitions.
	SchemaFile string `env:"PF_SCHEMA_FILE"`

	// StorageKind selects the registered backend; StorageDSN is passed to
	// it verbatim.
	StorageKind string `env:"PF_STORAGE_KIND" envDefault:"sqlite"`
	StorageDSN  string `env:"PF_STORAGE_DSN" envDefault:"propfacts.db"`

	// MaxRecords caps how many parsed records enter validation; 0 means
	// no cap.
	MaxRecords int `env:"PF_MAX_RECORDS" envDefault:"0"`

	// StopOnFirstFailure aborts the run at the first invalid record
	// instead of collecting all failures.
	StopOnFirstFailure bool `env:"PF_STOP_ON_FIRST_FAILURE" envDefault:"false"`

	// BatchSize bounds rows per INSERT statement.
	BatchSize int `env:"PF_BATCH_SIZE" envDefault:"500"`

	// ValidateWorkers sets validation parallelism; 0 uses GOMAXPROCS.
	ValidateWorkers int `env:"PF_VALIDATE_WORKERS" envDefault:"0"`

	LogLevel string `env:"PF_LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`

	// MetricsBackend is "datadog" or "none".
	MetricsBackend string `env:"PF_METRICS_BACKEND" envDefault:"none"`
	MetricsTags    string `env:"PF_METRICS_TAGS"`
}

// Load parses the environment into a Config. A missing .env file is not an
// error; explicit environment variables always win over .env entries.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}
