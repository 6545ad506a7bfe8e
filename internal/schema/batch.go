package schema

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"propfacts/internal/parser"
)

// ValidationFailure aggregates every field-level problem found in one record.
// RecordIndex is 1-based and refers to the record's position in the original
// input, before any truncation by later stages.
type ValidationFailure struct {
	RecordIndex int
	Raw         parser.Record
	Errors      []FieldError
}

// BatchOptions controls ValidateBatch.
type BatchOptions struct {
	// MaxRecords truncates the input to its first N records; 0 means
	// unlimited.
	MaxRecords int

	// StopOnFirstFailure stops the batch at the first failing record. The
	// default mode accumulates failures and keeps going.
	StopOnFirstFailure bool

	// Workers bounds validation concurrency; <=0 uses GOMAXPROCS.
	// Records are independent, so validation parallelizes freely; output
	// order is re-imposed afterwards regardless.
	Workers int
}

// ValidateBatch validates records independently and splits them into valid
// properties and per-record failures. Both output lists preserve the input
// record order.
func ValidateBatch(records []parser.Record, opts BatchOptions) ([]Property, []ValidationFailure) {
	if opts.MaxRecords > 0 && len(records) > opts.MaxRecords {
		records = records[:opts.MaxRecords]
	}

	if opts.StopOnFirstFailure {
		return validateSequential(records)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	type outcome struct {
		prop Property
		errs []FieldError
	}
	slots := make([]outcome, len(records))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range records {
		g.Go(func() error {
			p, errs := Validate(records[i])
			slots[i] = outcome{prop: p, errs: errs}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are values in slots

	valid := make([]Property, 0, len(records))
	var failures []ValidationFailure
	for i, out := range slots {
		if len(out.errs) > 0 {
			failures = append(failures, ValidationFailure{
				RecordIndex: i + 1,
				Raw:         records[i],
				Errors:      out.errs,
			})
			continue
		}
		valid = append(valid, out.prop)
	}
	return valid, failures
}

func validateSequential(records []parser.Record) ([]Property, []ValidationFailure) {
	valid := make([]Property, 0, len(records))
	for i, rec := range records {
		p, errs := Validate(rec)
		if len(errs) > 0 {
			return valid, []ValidationFailure{{
				RecordIndex: i + 1,
				Raw:         rec,
				Errors:      errs,
			}}
		}
		valid = append(valid, p)
	}
	return valid, nil
}
