// Package datadog implements a Datadog backend for the internal/metrics
// facade.
//
// Observations buffer in memory under a mutex; a background loop flushes
// them on a ticker, and Close performs one final flush. Buffers reset even
// when submission fails, so a flaky intake never blocks pipeline writes.
package datadog

import (
	"context"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	dd "github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"

	"propfacts/internal/metrics"
)

// Options controls backend configuration.
type Options struct {
	// JobName becomes tag "job:<name>" on every metric. Defaults to
	// "propfacts".
	JobName string

	// Tags are extra Datadog tags (e.g. []string{"env:prod"}).
	Tags []string

	// FlushEvery controls the submission interval. Defaults to 60s.
	FlushEvery time.Duration

	// Unexported test seams. Production code never sets these.
	now       func() time.Time
	newTicker func(d time.Duration) *time.Ticker
	submitter metricsSubmitter
}

// metricsSubmitter is the slice of the Datadog SDK the backend needs; tests
// substitute a fake to avoid real HTTP.
type metricsSubmitter interface {
	SubmitMetrics(ctx context.Context, body datadogV2.MetricPayload, params ...datadogV2.SubmitMetricsOptionalParameters) (datadogV2.IntakePayloadAccepted, *http.Response, error)
}

// Backend implements metrics.Backend for Datadog.
type Backend struct {
	api metricsSubmitter
	ctx context.Context

	flushEvery time.Duration
	stopCh     chan struct{}
	doneCh     chan struct{}

	baseTags []string

	now       func() time.Time
	newTicker func(d time.Duration) *time.Ticker

	mu sync.Mutex

	recordCounts    map[string]float64 // kind -> count
	repairCounts    map[string]float64 // rule -> count
	rowCounts       map[string]float64 // table -> count
	durationSamples map[string][]float64
}

var _ metrics.Backend = (*Backend)(nil)

// NewBackend constructs a Datadog backend using the official client and
// starts its flush loop. API credentials come from the usual DD_* variables
// via the SDK's default context.
func NewBackend(parent context.Context, opts Options) (*Backend, error) {
	job := opts.JobName
	if job == "" {
		job = "propfacts"
	}

	flushEvery := opts.FlushEvery
	if flushEvery <= 0 {
		flushEvery = 60 * time.Second
	}

	baseTags := make([]string, 0, 2+len(opts.Tags))
	baseTags = append(baseTags, resolveEnvTag(), "job:"+job)
	baseTags = append(baseTags, opts.Tags...)

	nowFn := opts.now
	if nowFn == nil {
		nowFn = time.Now
	}
	newTicker := opts.newTicker
	if newTicker == nil {
		newTicker = time.NewTicker
	}

	submitter := opts.submitter
	if submitter == nil {
		client := dd.NewAPIClient(dd.NewConfiguration())
		submitter = datadogV2.NewMetricsApi(client)
	}

	b := &Backend{
		api:        submitter,
		ctx:        dd.NewDefaultContext(parent),
		flushEvery: flushEvery,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),

		baseTags: baseTags,

		now:       nowFn,
		newTicker: newTicker,

		recordCounts:    make(map[string]float64),
		repairCounts:    make(map[string]float64),
		rowCounts:       make(map[string]float64),
		durationSamples: make(map[string][]float64),
	}

	go b.loop()
	return b, nil
}

func resolveEnvTag() string {
	if v := strings.TrimSpace(os.Getenv("ENV")); v != "" {
		return "env:" + v
	}
	if v := strings.TrimSpace(os.Getenv("DD_ENV")); v != "" {
		return "env:" + v
	}
	return "env:unknown"
}

func (b *Backend) loop() {
	defer close(b.doneCh)

	t := b.newTicker(b.flushEvery)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			_ = b.Flush()
		case <-b.stopCh:
			return
		}
	}
}

// Close stops the flush loop and performs one final Flush. Close once;
// calling it twice panics on the closed channel.
func (b *Backend) Close() error {
	close(b.stopCh)
	<-b.doneCh
	return b.Flush()
}

// IncCounter implements metrics.Backend. Unknown metric names are ignored.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	if delta <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch name {
	case metrics.MetricRecordsTotal:
		if kind := labels["kind"]; kind != "" {
			b.recordCounts[kind] += delta
		}
	case metrics.MetricRepairsTotal:
		if rule := labels["rule"]; rule != "" {
			b.repairCounts[rule] += delta
		}
	case metrics.MetricRowsInsertedTotal:
		if table := labels["table"]; table != "" {
			b.rowCounts[table] += delta
		}
	}
}

// ObserveHistogram implements metrics.Backend. Unknown metric names are
// ignored.
func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if value < 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if name == metrics.MetricStepDurationSeconds {
		if step := labels["step"]; step != "" {
			b.durationSamples[step] = append(b.durationSamples[step], value)
		}
	}
}

type snapshot struct {
	recordCounts    map[string]float64
	repairCounts    map[string]float64
	rowCounts       map[string]float64
	durationSamples map[string][]float64
}

func (s snapshot) isEmpty() bool {
	return len(s.recordCounts) == 0 &&
		len(s.repairCounts) == 0 &&
		len(s.rowCounts) == 0 &&
		len(s.durationSamples) == 0
}

// snapshotAndReset detaches the current buffers under the lock so payload
// building and submission run outside it.
func (b *Backend) snapshotAndReset() snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := snapshot{
		recordCounts:    b.recordCounts,
		repairCounts:    b.repairCounts,
		rowCounts:       b.rowCounts,
		durationSamples: b.durationSamples,
	}

	b.recordCounts = make(map[string]float64)
	b.repairCounts = make(map[string]float64)
	b.rowCounts = make(map[string]float64)
	b.durationSamples = make(map[string][]float64)

	return s
}

// Flush submits buffered metrics and resets local buffers. Returns nil when
// there is nothing to submit.
func (b *Backend) Flush() error {
	snap := b.snapshotAndReset()
	if snap.isEmpty() {
		return nil
	}

	series := b.buildSeries(snap, b.now().Unix())
	payload := datadogV2.MetricPayload{Series: series}

	_, _, err := b.api.SubmitMetrics(b.ctx, payload, *datadogV2.NewSubmitMetricsOptionalParameters())
	return err
}

// buildSeries is pure: no locks, no network, no clocks. Naming and tagging
// here are an operational contract; renaming a metric breaks dashboards.
func (b *Backend) buildSeries(s snapshot, nowUnix int64) []datadogV2.MetricSeries {
	series := make([]datadogV2.MetricSeries, 0, len(s.recordCounts)+len(s.repairCounts)+len(s.rowCounts)+16)

	for kind, v := range s.recordCounts {
		if v == 0 {
			continue
		}
		series = append(series, countSeries("propfacts.records.total", v, withTags(b.baseTags, "kind:"+kind), nowUnix))
	}
	for rule, v := range s.repairCounts {
		if v == 0 {
			continue
		}
		series = append(series, countSeries("propfacts.repairs.total", v, withTags(b.baseTags, "rule:"+rule), nowUnix))
	}
	for table, v := range s.rowCounts {
		if v == 0 {
			continue
		}
		series = append(series, countSeries("propfacts.rows_inserted.total", v, withTags(b.baseTags, "table:"+table), nowUnix))
	}

	for step, samples := range s.durationSamples {
		if len(samples) == 0 {
			continue
		}
		cp := append([]float64(nil), samples...)
		sort.Float64s(cp)

		tags := withTags(b.baseTags, "step:"+step)
		const prefix = "propfacts.step.duration_seconds"
		series = append(series, gaugeSeries(prefix+".p50", percentileNearestRank(cp, 0.50), tags, nowUnix))
		series = append(series, gaugeSeries(prefix+".p95", percentileNearestRank(cp, 0.95), tags, nowUnix))
		series = append(series, gaugeSeries(prefix+".p99", percentileNearestRank(cp, 0.99), tags, nowUnix))
		series = append(series, gaugeSeries(prefix+".max", cp[len(cp)-1], tags, nowUnix))
		series = append(series, gaugeSeries(prefix+".samples", float64(len(cp)), tags, nowUnix))
	}

	return series
}

func countSeries(metric string, value float64, tags []string, nowUnix int64) datadogV2.MetricSeries {
	return datadogV2.MetricSeries{
		Metric: metric,
		Type:   datadogV2.METRICINTAKETYPE_COUNT.Ptr(),
		Points: []datadogV2.MetricPoint{
			{Timestamp: dd.PtrInt64(nowUnix), Value: dd.PtrFloat64(value)},
		},
		Tags: tags,
	}
}

func gaugeSeries(metric string, value float64, tags []string, nowUnix int64) datadogV2.MetricSeries {
	return datadogV2.MetricSeries{
		Metric: metric,
		Type:   datadogV2.METRICINTAKETYPE_GAUGE.Ptr(),
		Points: []datadogV2.MetricPoint{
			{Timestamp: dd.PtrInt64(nowUnix), Value: dd.PtrFloat64(value)},
		},
		Tags: tags,
	}
}

func withTags(base []string, extras ...string) []string {
	out := make([]string, 0, len(base)+len(extras))
	out = append(out, base...)
	out = append(out, extras...)
	return out
}

func percentileNearestRank(s []float64, p float64) float64 {
	n := len(s)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return s[0]
	}
	if p >= 1 {
		return s[n-1]
	}
	idx := int(p*float64(n-1) + 0.5)
	if idx >= n {
		idx = n - 1
	}
	return s[idx]
}

// ParseTagsCSV parses comma-separated tags like "env:prod,service:etl".
func ParseTagsCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
