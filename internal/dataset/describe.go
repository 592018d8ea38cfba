package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/HendryAvila/nexus-audit/internal/format"
)

// HistogramBins is the number of equal-width bins for numeric columns.
const HistogramBins = 10

// NumericStats summarises a numeric column. Std is the sample standard
// deviation and is NaN for a single value.
type NumericStats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Q25  float64 `json:"q25"`
	Q50  float64 `json:"q50"`
	Q75  float64 `json:"q75"`
	Max  float64 `json:"max"`
}

// CategoricalStats summarises a text column. Ties for Top go to the
// value seen first in the file.
type CategoricalStats struct {
	Unique int    `json:"unique"`
	Top    string `json:"top,omitempty"`
	Freq   int    `json:"freq"`
}

// ColumnProfile is the summary of one column. Count excludes missing
// cells. Exactly one of Numeric and Categorical is set.
type ColumnProfile struct {
	Name        string            `json:"name"`
	Kind        Kind              `json:"kind"`
	Count       int               `json:"count"`
	Numeric     *NumericStats     `json:"numeric,omitempty"`
	Categorical *CategoricalStats `json:"categorical,omitempty"`
}

// Bucket is one bar of a distribution. Lower and Upper are set for
// numeric bins only.
type Bucket struct {
	Label string  `json:"label"`
	Lower float64 `json:"lower,omitempty"`
	Upper float64 `json:"upper,omitempty"`
	Count int     `json:"count"`
}

// Distribution is the value breakdown of one column.
type Distribution struct {
	Column  string   `json:"column"`
	Kind    Kind     `json:"kind"`
	Buckets []Bucket `json:"buckets"`
}

// Describe summarises every column in file order.
func (d *Dataset) Describe(ctx context.Context) ([]ColumnProfile, error) {
	out := make([]ColumnProfile, 0, len(d.columns))
	for _, c := range d.columns {
		var (
			p   ColumnProfile
			err error
		)
		if c.kind == KindNumeric {
			p, err = d.describeNumeric(ctx, c)
		} else {
			p, err = d.describeCategorical(ctx, c)
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: describe %q: %w", c.name, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (d *Dataset) describeNumeric(ctx context.Context, c column) (ColumnProfile, error) {
	p := ColumnProfile{Name: c.name, Kind: KindNumeric}
	var s NumericStats

	q := fmt.Sprintf("SELECT COUNT(%[1]s), AVG(%[1]s), MIN(%[1]s), MAX(%[1]s) FROM data", c.ident)
	if err := d.db.QueryRowContext(ctx, q).Scan(&p.Count, &s.Mean, &s.Min, &s.Max); err != nil {
		return p, err
	}

	s.Std = math.NaN()
	if p.Count > 1 {
		var ss float64
		q = fmt.Sprintf("SELECT SUM((%[1]s - ?) * (%[1]s - ?)) FROM data WHERE %[1]s IS NOT NULL", c.ident)
		if err := d.db.QueryRowContext(ctx, q, s.Mean, s.Mean).Scan(&ss); err != nil {
			return p, err
		}
		s.Std = math.Sqrt(ss / float64(p.Count-1))
	}

	for _, pair := range []struct {
		q   float64
		dst *float64
	}{{0.25, &s.Q25}, {0.5, &s.Q50}, {0.75, &s.Q75}} {
		v, err := d.quantile(ctx, c, p.Count, pair.q)
		if err != nil {
			return p, err
		}
		*pair.dst = v
	}

	p.Numeric = &s
	return p, nil
}

// quantile uses linear interpolation between the two closest ranks.
func (d *Dataset) quantile(ctx context.Context, c column, n int, q float64) (float64, error) {
	pos := q * float64(n-1)
	lo := math.Floor(pos)
	query := fmt.Sprintf("SELECT %[1]s FROM data WHERE %[1]s IS NOT NULL ORDER BY %[1]s LIMIT 2 OFFSET ?", c.ident)
	rows, err := d.db.QueryContext(ctx, query, int(lo))
	if err != nil {
		return 0, err
	}
	defer func() { _ = rows.Close() }()

	var vals []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return 0, err
		}
		vals = append(vals, v)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	switch len(vals) {
	case 0:
		return math.NaN(), nil
	case 1:
		return vals[0], nil
	}
	return vals[0] + (vals[1]-vals[0])*(pos-lo), nil
}

func (d *Dataset) describeCategorical(ctx context.Context, c column) (ColumnProfile, error) {
	p := ColumnProfile{Name: c.name, Kind: KindCategorical}
	var s CategoricalStats

	q := fmt.Sprintf("SELECT COUNT(%[1]s), COUNT(DISTINCT %[1]s) FROM data", c.ident)
	if err := d.db.QueryRowContext(ctx, q).Scan(&p.Count, &s.Unique); err != nil {
		return p, err
	}
	if p.Count > 0 {
		q = fmt.Sprintf(`SELECT %[1]s, COUNT(*) AS n FROM data WHERE %[1]s IS NOT NULL
			GROUP BY %[1]s ORDER BY n DESC, MIN(rowid) LIMIT 1`, c.ident)
		if err := d.db.QueryRowContext(ctx, q).Scan(&s.Top, &s.Freq); err != nil {
			return p, err
		}
	}
	p.Categorical = &s
	return p, nil
}

// Distribution returns value counts for a categorical column, or a
// HistogramBins equal-width histogram for a numeric one. A constant
// numeric column yields a single bin.
func (d *Dataset) Distribution(ctx context.Context, name string) (*Distribution, error) {
	c, err := d.lookup(name)
	if err != nil {
		return nil, err
	}
	dist := &Distribution{Column: c.name, Kind: c.kind}
	if c.kind == KindNumeric {
		dist.Buckets, err = d.histogram(ctx, c)
	} else {
		dist.Buckets, err = d.valueCounts(ctx, c)
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: distribution of %q: %w", c.name, err)
	}
	return dist, nil
}

func (d *Dataset) valueCounts(ctx context.Context, c column) ([]Bucket, error) {
	q := fmt.Sprintf(`SELECT %[1]s, COUNT(*) AS n FROM data WHERE %[1]s IS NOT NULL
		GROUP BY %[1]s ORDER BY n DESC, MIN(rowid)`, c.ident)
	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Bucket
	for rows.Next() {
		var b Bucket
		if err := rows.Scan(&b.Label, &b.Count); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (d *Dataset) histogram(ctx context.Context, c column) ([]Bucket, error) {
	var (
		lo, hi sql.NullFloat64
		n      int
	)
	q := fmt.Sprintf("SELECT MIN(%[1]s), MAX(%[1]s), COUNT(%[1]s) FROM data", c.ident)
	if err := d.db.QueryRowContext(ctx, q).Scan(&lo, &hi, &n); err != nil {
		return nil, err
	}
	if !lo.Valid || n == 0 {
		return nil, nil
	}
	if lo.Float64 == hi.Float64 {
		return []Bucket{{Label: binLabel(lo.Float64, hi.Float64, true), Lower: lo.Float64, Upper: hi.Float64, Count: n}}, nil
	}

	width := (hi.Float64 - lo.Float64) / HistogramBins
	out := make([]Bucket, HistogramBins)
	for i := range out {
		lower := lo.Float64 + float64(i)*width
		upper := lower + width
		if i == HistogramBins-1 {
			upper = hi.Float64
		}
		out[i] = Bucket{Label: binLabel(lower, upper, i == HistogramBins-1), Lower: lower, Upper: upper}
	}

	// The maximum falls into the last, closed bin.
	q = fmt.Sprintf(`SELECT MIN(CAST((%[1]s - ?) / ? AS INTEGER), %[2]d) AS b, COUNT(*)
		FROM data WHERE %[1]s IS NOT NULL GROUP BY b`, c.ident, HistogramBins-1)
	rows, err := d.db.QueryContext(ctx, q, lo.Float64, width)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var b, count int
		if err := rows.Scan(&b, &count); err != nil {
			return nil, err
		}
		if b >= 0 && b < HistogramBins {
			out[b].Count += count
		}
	}
	return out, rows.Err()
}

func binLabel(lower, upper float64, closed bool) string {
	if closed {
		return fmt.Sprintf("[%s, %s]", format.Float(lower), format.Float(upper))
	}
	return fmt.Sprintf("[%s, %s)", format.Float(lower), format.Float(upper))
}
