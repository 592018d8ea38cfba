// Package dataset profiles an uploaded CSV file for bias review.
//
// The file is parsed, loaded into a private in-memory SQLite database and
// summarised column by column. Profiling never touches audit state.
package dataset

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// ErrUnknownColumn is returned when a column name does not exist.
var ErrUnknownColumn = errors.New("unknown column")

// ParseError reports a file that could not be read as a dataset.
type ParseError struct {
	Line int // 0 when the error is not tied to a line
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse dataset: line %d: %s", e.Line, e.Msg)
	}
	return "parse dataset: " + e.Msg
}

// Limits bound what Load accepts. Zero fields mean no limit.
type Limits struct {
	MaxBytes int64
	MaxRows  int
}

type column struct {
	name  string
	kind  Kind
	ident string // SQL column name, c0..cN
}

// Dataset is a parsed CSV held in an in-memory SQLite table.
type Dataset struct {
	db      *sql.DB
	columns []column
	rows    int
	size    int64
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Load parses CSV from r and loads it into memory. The first record is
// the header. Empty cells are missing values.
func Load(ctx context.Context, r io.Reader, lim Limits) (*Dataset, error) {
	if lim.MaxBytes <= 0 {
		lim.MaxBytes = math.MaxInt64 - 1
	}
	if lim.MaxRows <= 0 {
		lim.MaxRows = math.MaxInt
	}
	cr := &countingReader{r: io.LimitReader(r, lim.MaxBytes+1)}
	tooLarge := func() error {
		return &ParseError{Msg: fmt.Sprintf("file exceeds the %s size limit", humanize.Bytes(uint64(lim.MaxBytes)))}
	}

	reader := csv.NewReader(cr)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Msg: "file is empty: expected a header row"}
	}
	if cr.n > lim.MaxBytes {
		return nil, tooLarge()
	}
	if err != nil {
		return nil, csvError(err)
	}
	names, err := headerNames(header)
	if err != nil {
		return nil, err
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if cr.n > lim.MaxBytes {
			return nil, tooLarge()
		}
		if err != nil {
			return nil, csvError(err)
		}
		if len(records) == lim.MaxRows {
			return nil, &ParseError{Msg: fmt.Sprintf("file has more than %s data rows", humanize.Comma(int64(lim.MaxRows)))}
		}
		records = append(records, rec)
	}
	if cr.n > lim.MaxBytes {
		return nil, tooLarge()
	}
	if len(records) == 0 {
		return nil, &ParseError{Msg: "file has a header but no data rows"}
	}

	cols := make([]column, len(names))
	for i, name := range names {
		cols[i] = column{name: name, kind: inferKind(records, i), ident: fmt.Sprintf("c%d", i)}
	}

	d := &Dataset{columns: cols, rows: len(records), size: cr.n}
	if err := d.open(ctx, records); err != nil {
		return nil, err
	}
	return d, nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Msg: pe.Err.Error()}
	}
	return fmt.Errorf("read dataset: %w", err)
}

func headerNames(header []string) ([]string, error) {
	seen := make(map[string]bool, len(header))
	names := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if seen[name] {
			return nil, &ParseError{Line: 1, Msg: fmt.Sprintf("duplicate column name %q", name)}
		}
		seen[name] = true
		names[i] = name
	}
	return names, nil
}

// inferKind treats a column as numeric when every non-empty cell parses
// as a finite number and at least one cell is non-empty.
func inferKind(records [][]string, i int) Kind {
	seen := false
	for _, rec := range records {
		v := strings.TrimSpace(rec[i])
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return KindCategorical
		}
		seen = true
	}
	if !seen {
		return KindCategorical
	}
	return KindNumeric
}

func (d *Dataset) open(ctx context.Context, records [][]string) error {
	db, err := openDB("sqlite", ":memory:")
	if err != nil {
		return fmt.Errorf("dataset: open database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	d.db = db

	defs := make([]string, len(d.columns))
	for i, c := range d.columns {
		typ := "TEXT"
		if c.kind == KindNumeric {
			typ = "REAL"
		}
		defs[i] = c.ident + " " + typ
	}
	if _, err := db.ExecContext(ctx, "CREATE TABLE data ("+strings.Join(defs, ", ")+")"); err != nil {
		_ = db.Close()
		return fmt.Errorf("dataset: create table: %w", err)
	}

	if err := d.insert(ctx, records); err != nil {
		_ = db.Close()
		return err
	}
	return nil
}

func (d *Dataset) insert(ctx context.Context, records [][]string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("dataset: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(d.columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO data VALUES ("+marks+")")
	if err != nil {
		return fmt.Errorf("dataset: prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	args := make([]any, len(d.columns))
	for _, rec := range records {
		for i, c := range d.columns {
			v := strings.TrimSpace(rec[i])
			switch {
			case v == "":
				args[i] = nil
			case c.kind == KindNumeric:
				f, _ := strconv.ParseFloat(v, 64)
				args[i] = f
			default:
				args[i] = v
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("dataset: insert row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("dataset: commit: %w", err)
	}
	return nil
}

// Close releases the in-memory database.
func (d *Dataset) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Rows returns the number of data rows.
func (d *Dataset) Rows() int { return d.rows }

// Size returns the number of bytes read from the source.
func (d *Dataset) Size() int64 { return d.size }

// Columns returns the column names in file order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	for i, c := range d.columns {
		out[i] = c.name
	}
	return out
}

func (d *Dataset) lookup(name string) (column, error) {
	for _, c := range d.columns {
		if c.name == name {
			return c, nil
		}
	}
	return column{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownColumn, name, strings.Join(d.Columns(), ", "))
}
