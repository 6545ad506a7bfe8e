// Package metrics is a minimal metrics facade. Pipeline code records
// counters and histograms against a process-wide backend; the default
// backend drops everything, so instrumentation costs nothing unless a real
// backend is configured at startup.
package metrics

import "sync"

// Labels attach dimensions to a single observation.
type Labels map[string]string

// Backend receives observations. Implementations must be safe for
// concurrent use.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	Flush() error
}

// Metric names recorded by the pipeline.
const (
	MetricRecordsTotal        = "records_total"         // labels: kind=valid|invalid
	MetricRepairsTotal        = "repairs_total"         // labels: rule
	MetricRowsInsertedTotal   = "rows_inserted_total"   // labels: table
	MetricStepDurationSeconds = "step_duration_seconds" // labels: step
)

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs the process-wide backend. Call once at startup before
// pipeline work begins; passing nil restores the no-op backend.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	if b == nil {
		backend = nopBackend{}
		return
	}
	backend = b
}

// IncCounter adds delta to a named counter.
func IncCounter(name string, delta float64, labels Labels) {
	mu.RLock()
	b := backend
	mu.RUnlock()
	b.IncCounter(name, delta, labels)
}

// ObserveHistogram records one sample of a named distribution.
func ObserveHistogram(name string, value float64, labels Labels) {
	mu.RLock()
	b := backend
	mu.RUnlock()
	b.ObserveHistogram(name, value, labels)
}

// Flush pushes buffered observations to the backend's sink.
func Flush() error {
	mu.RLock()
	b := backend
	mu.RUnlock()
	return b.Flush()
}
