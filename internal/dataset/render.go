package dataset

import (
	"fmt"
	"strings"

	"github.com/HendryAvila/nexus-audit/internal/format"
)

// Summary is the one-line load confirmation.
func (d *Dataset) Summary() string {
	return fmt.Sprintf("Dataset loaded: %s rows, %d columns (%s)",
		format.Count(d.rows), len(d.columns), format.Bytes(d.size))
}

// RenderProfile renders numeric and categorical summaries as two tables.
func RenderProfile(cols []ColumnProfile, m format.Mode) string {
	num := format.NewTable(m)
	num.Header("column", "count", "mean", "std", "min", "25%", "50%", "75%", "max")
	cat := format.NewTable(m)
	cat.Header("column", "count", "unique", "top", "freq")

	var nNum, nCat int
	for _, c := range cols {
		switch {
		case c.Numeric != nil:
			s := c.Numeric
			num.Row(c.Name, c.Count, format.Float(s.Mean), format.Float(s.Std), format.Float(s.Min),
				format.Float(s.Q25), format.Float(s.Q50), format.Float(s.Q75), format.Float(s.Max))
			nNum++
		case c.Categorical != nil:
			s := c.Categorical
			cat.Row(c.Name, c.Count, s.Unique, format.Truncate(s.Top, 40), s.Freq)
			nCat++
		}
	}

	var b strings.Builder
	if nNum > 0 {
		b.WriteString("Numeric columns\n\n")
		b.WriteString(num.String())
		b.WriteString("\n\n")
	}
	if nCat > 0 {
		b.WriteString("Categorical columns\n\n")
		b.WriteString(cat.String())
		b.WriteString("\n")
	}
	return b.String()
}

// RenderDistribution renders the buckets of one column with their share.
func RenderDistribution(dist *Distribution, m format.Mode) string {
	tb := format.NewTable(m)
	label := "value"
	if dist.Kind == KindNumeric {
		label = "bin"
	}
	tb.Header(label, "count", "share")

	total := 0
	for _, b := range dist.Buckets {
		total += b.Count
	}
	for _, b := range dist.Buckets {
		share := "0%"
		if total > 0 {
			share = fmt.Sprintf("%.1f%%", 100*float64(b.Count)/float64(total))
		}
		tb.Row(format.Truncate(b.Label, 40), b.Count, share)
	}
	tb.Footer("total", total, "")
	tb.Columns(format.ColumnConfig{Number: 2, Align: format.AlignRight}, format.ColumnConfig{Number: 3, Align: format.AlignRight})

	return fmt.Sprintf("Distribution of %s (%s)\n\n%s\n", dist.Column, dist.Kind, tb.String())
}
