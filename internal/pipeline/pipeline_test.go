package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"propfacts/internal/storage"
)

type fakeRepo struct {
	ensured bool
	stmts   []string
	inserts map[string][][]any
	columns map[string][]string
	dims    map[string][]string

	insertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		inserts: map[string][][]any{},
		columns: map[string][]string{},
		dims:    map[string][]string{},
	}
}

func (f *fakeRepo) Close() {}

func (f *fakeRepo) EnsureSchema(context.Context) error {
	f.ensured = true
	return nil
}

func (f *fakeRepo) ExecStatements(_ context.Context, stmts []string) error {
	f.stmts = append(f.stmts, stmts...)
	return nil
}

func (f *fakeRepo) InsertRows(_ context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserts[table] = rows
	f.columns[table] = columns
	return int64(len(rows)), nil
}

func (f *fakeRepo) EnsureDimensionValues(_ context.Context, table, column string, values []string) error {
	f.dims[table] = values
	return nil
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

// malformedDataset carries one defect of every repairable kind in its first
// record, a clean second record with nested valuations, and a third record
// missing a required field.
const malformedDataset = `[
  {property_title: "Bright Bungalow",
   "address": "12 Oak Ln Austin TX",
   "street_address": "12 Oak Ln",
   "city": Austin,
   "state": "TX",
   "zip_code": "73301",
   "latitude": 30.27,
   "longitude": -97.74,
   "property_type": "Single Family",
   "market": "Austin",
   "sqft_total": 1850 sqft,
   "bed": 3, 4,
   "bath": 2,
  },
  {
   "property_title": "Lakeside Condo",
   "address": "77 Shore Dr Austin TX",
   "street_address": "77 Shore Dr",
   "city": "Austin",
   "state": "TX",
   "zip_code": "73302",
   "latitude": 30.31,
   "longitude": -97.71,
   "property_type": "Condo",
   "market": "Austin",
   "layout": "2/2",
   "valuation": [{"List_Price": "$250,000"}, {"ARV": 275000}],
   "hoa": []
  },
  {
   "property_title": "No Location",
   "address": "9 Nowhere Rd",
   "street_address": "9 Nowhere Rd",
   "city": "Waco",
   "state": "TX",
   "zip_code": "76701",
   "longitude": -97.14,
   "property_type": "Land"
  }
]`

func TestRunEndToEnd(t *testing.T) {
	repo := newFakeRepo()
	input := writeInput(t, malformedDataset)

	res, err := Run(context.Background(), Options{InputPath: input}, repo, zerolog.Nop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.RepairsApplied != 5 {
		t.Errorf("RepairsApplied = %d, want 5", res.RepairsApplied)
	}
	if res.RecordsParsed != 3 || res.RecordsValid != 2 || res.RecordsInvalid != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1",
			res.RecordsParsed, res.RecordsValid, res.RecordsInvalid)
	}
	if len(res.Failures) != 1 || res.Failures[0].RecordIndex != 3 {
		t.Fatalf("Failures = %+v, want single failure for record 3", res.Failures)
	}

	if !repo.ensured {
		t.Error("EnsureSchema was not called")
	}

	props := repo.inserts[storage.TableProperties]
	if len(props) != 2 {
		t.Fatalf("properties rows = %d, want 2", len(props))
	}
	if props[0][0] != int64(1) || props[1][0] != int64(2) {
		t.Errorf("property ids = %v, %v, want 1, 2", props[0][0], props[1][0])
	}

	// Defects in record 1 were repaired, then coerced.
	byName := rowByColumn(t, repo.columns[storage.TableProperties], props[0])
	if byName["city"] != "Austin" {
		t.Errorf("city = %v, want Austin", byName["city"])
	}
	if byName["sqft_total"] != 1850.0 {
		t.Errorf("sqft_total = %v, want 1850", byName["sqft_total"])
	}
	if byName["bed"] != int64(3) {
		t.Errorf("bed = %v, want 3", byName["bed"])
	}

	vals := repo.inserts[storage.TableValuations]
	if len(vals) != 2 {
		t.Fatalf("valuations rows = %d, want 2", len(vals))
	}
	for i, row := range vals {
		if row[0] != int64(2) {
			t.Errorf("valuation %d property_id = %v, want 2", i, row[0])
		}
	}
	valRow := rowByColumn(t, repo.columns[storage.TableValuations], vals[0])
	if valRow["list_price"] != 250000.0 {
		t.Errorf("list_price = %v, want 250000", valRow["list_price"])
	}

	if len(repo.inserts[storage.TableHOAFees]) != 0 {
		t.Errorf("hoa rows = %d, want 0", len(repo.inserts[storage.TableHOAFees]))
	}

	if got, want := repo.dims[storage.TableDimMarkets], []string{"Austin"}; !reflect.DeepEqual(got, want) {
		t.Errorf("markets = %v, want %v", got, want)
	}
	if got, want := repo.dims[storage.TableDimPropertyTypes], []string{"Condo", "Single Family"}; !reflect.DeepEqual(got, want) {
		t.Errorf("property types = %v, want %v", got, want)
	}
	if got, want := repo.dims[storage.TableDimLayouts], []string{"2/2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("layouts = %v, want %v", got, want)
	}

	if res.RowsInserted[storage.TableProperties] != 2 {
		t.Errorf("RowsInserted[properties] = %d, want 2", res.RowsInserted[storage.TableProperties])
	}
}

func rowByColumn(t *testing.T, columns []string, row []any) map[string]any {
	t.Helper()
	if len(columns) != len(row) {
		t.Fatalf("row width %d does not match %d columns", len(row), len(columns))
	}
	out := make(map[string]any, len(columns))
	for i, c := range columns {
		out[c] = row[i]
	}
	return out
}

func TestRunMaxRecords(t *testing.T) {
	repo := newFakeRepo()
	input := writeInput(t, malformedDataset)

	res, err := Run(context.Background(), Options{InputPath: input, MaxRecords: 1}, repo, zerolog.Nop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.RecordsParsed != 1 || res.RecordsValid != 1 {
		t.Errorf("counts = %d/%d, want 1/1", res.RecordsParsed, res.RecordsValid)
	}
	if len(repo.inserts[storage.TableProperties]) != 1 {
		t.Errorf("properties rows = %d, want 1", len(repo.inserts[storage.TableProperties]))
	}
}

func TestRunStopOnFirstFailure(t *testing.T) {
	repo := newFakeRepo()
	input := writeInput(t, malformedDataset)

	res, err := Run(context.Background(), Options{InputPath: input, StopOnFirstFailure: true}, repo, zerolog.Nop())
	if err == nil {
		t.Fatal("expected error")
	}
	if res == nil || res.RecordsInvalid != 1 {
		t.Fatalf("res = %+v, want one invalid record", res)
	}
	if len(repo.inserts) != 0 {
		t.Error("no rows should load after an aborted run")
	}
}

func TestRunNoValidRecords(t *testing.T) {
	repo := newFakeRepo()
	input := writeInput(t, `[{"property_title": "Only Title"}]`)

	res, err := Run(context.Background(), Options{InputPath: input}, repo, zerolog.Nop())
	if !errors.Is(err, ErrNoValidRecords) {
		t.Fatalf("err = %v, want ErrNoValidRecords", err)
	}
	if res == nil || res.RecordsInvalid != 1 {
		t.Fatalf("res = %+v, want one invalid record", res)
	}
	if repo.ensured || len(repo.inserts) != 0 {
		t.Error("storage must stay untouched when nothing validates")
	}
}

func TestRunParseError(t *testing.T) {
	repo := newFakeRepo()
	input := writeInput(t, `[{"address": }]`)

	if _, err := Run(context.Background(), Options{InputPath: input}, repo, zerolog.Nop()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRunMissingInput(t *testing.T) {
	repo := newFakeRepo()
	if _, err := Run(context.Background(), Options{InputPath: "does-not-exist.json"}, repo, zerolog.Nop()); err == nil {
		t.Fatal("expected error for missing input file")
	}
}

func TestRunSchemaFile(t *testing.T) {
	repo := newFakeRepo()
	input := writeInput(t, malformedDataset)

	schemaPath := filepath.Join(t.TempDir(), "schema.sql")
	ddl := "-- fact tables\nCREATE TABLE properties (property_id BIGINT);\nCREATE TABLE valuations (property_id BIGINT);\n"
	if err := os.WriteFile(schemaPath, []byte(ddl), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	if _, err := Run(context.Background(), Options{InputPath: input, SchemaPath: schemaPath}, repo, zerolog.Nop()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if repo.ensured {
		t.Error("EnsureSchema should not run when a schema file is given")
	}
	if len(repo.stmts) != 2 {
		t.Fatalf("statements = %d, want 2", len(repo.stmts))
	}
}

func TestRunInsertErrorPropagates(t *testing.T) {
	repo := newFakeRepo()
	repo.insertErr = errors.New("disk full")
	input := writeInput(t, malformedDataset)

	if _, err := Run(context.Background(), Options{InputPath: input}, repo, zerolog.Nop()); err == nil {
		t.Fatal("expected insert error to propagate")
	}
}
