package dataset

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/HendryAvila/nexus-audit/internal/format"
)

const applicants = `age,region,score,approved
25,north,3.5,yes
35,south,4.0,no
45,north,2.5,yes
55,east,,yes
`

func mustLoad(t *testing.T, csv string, lim Limits) *Dataset {
	t.Helper()
	d, err := Load(context.Background(), strings.NewReader(csv), lim)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// --- Load ---

func TestLoad_ShapeAndKinds(t *testing.T) {
	d := mustLoad(t, applicants, Limits{})

	if d.Rows() != 4 {
		t.Errorf("Rows = %d, want 4", d.Rows())
	}
	if d.Size() != int64(len(applicants)) {
		t.Errorf("Size = %d, want %d", d.Size(), len(applicants))
	}
	if diff := cmp.Diff([]string{"age", "region", "score", "approved"}, d.Columns()); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}
	kinds := []Kind{KindNumeric, KindCategorical, KindNumeric, KindCategorical}
	for i, c := range d.columns {
		if c.kind != kinds[i] {
			t.Errorf("column %s kind = %s, want %s", c.name, c.kind, kinds[i])
		}
	}
	if !strings.Contains(d.Summary(), "4 rows, 4 columns") {
		t.Errorf("Summary = %q", d.Summary())
	}
}

func TestLoad_ParseErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		lim  Limits
		frag string
		line int
	}{
		{"empty file", "", Limits{}, "empty", 0},
		{"header only", "a,b\n", Limits{}, "no data rows", 0},
		{"ragged row", "a,b\n1,2\n3\n", Limits{}, "wrong number of fields", 3},
		{"bad quote", "a,b\n1,\"x\n", Limits{}, "", 0},
		{"duplicate header", "a,a\n1,2\n", Limits{}, "duplicate column", 1},
		{"too many rows", "a\n1\n2\n3\n", Limits{MaxRows: 2}, "more than 2 data rows", 0},
		{"too large", applicants, Limits{MaxBytes: 20}, "size limit", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), strings.NewReader(tt.csv), tt.lim)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error = %v (%T), want *ParseError", err, err)
			}
			if !strings.Contains(pe.Error(), tt.frag) {
				t.Errorf("error %q should contain %q", pe.Error(), tt.frag)
			}
			if tt.line > 0 && pe.Line != tt.line {
				t.Errorf("Line = %d, want %d", pe.Line, tt.line)
			}
		})
	}
}

func TestLoad_BlankHeaderGetsName(t *testing.T) {
	d := mustLoad(t, "id,\n1,x\n", Limits{})
	if diff := cmp.Diff([]string{"id", "column_2"}, d.Columns()); diff != "" {
		t.Errorf("Columns mismatch (-want +got):\n%s", diff)
	}
}

// --- Describe ---

func TestDescribe(t *testing.T) {
	d := mustLoad(t, applicants, Limits{})
	got, err := d.Describe(context.Background())
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}

	want := []ColumnProfile{
		{Name: "age", Kind: KindNumeric, Count: 4, Numeric: &NumericStats{
			Mean: 40, Std: math.Sqrt(500.0 / 3), Min: 25, Q25: 32.5, Q50: 40, Q75: 47.5, Max: 55,
		}},
		{Name: "region", Kind: KindCategorical, Count: 4, Categorical: &CategoricalStats{Unique: 3, Top: "north", Freq: 2}},
		{Name: "score", Kind: KindNumeric, Count: 3, Numeric: &NumericStats{
			Mean: 10.0 / 3, Std: math.Sqrt(7.0 / 12), Min: 2.5, Q25: 3, Q50: 3.5, Q75: 3.75, Max: 4,
		}},
		{Name: "approved", Kind: KindCategorical, Count: 4, Categorical: &CategoricalStats{Unique: 2, Top: "yes", Freq: 3}},
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("Describe mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribe_SingleValueStdIsNaN(t *testing.T) {
	d := mustLoad(t, "x\n7\n", Limits{})
	got, err := d.Describe(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	s := got[0].Numeric
	if !math.IsNaN(s.Std) {
		t.Errorf("Std = %v, want NaN", s.Std)
	}
	if s.Q25 != 7 || s.Q75 != 7 {
		t.Errorf("quantiles of a single value should equal it: %+v", s)
	}
}

func TestDescribe_TopTieGoesToFirstSeen(t *testing.T) {
	d := mustLoad(t, "g\nb\na\na\nb\n", Limits{})
	got, err := d.Describe(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if top := got[0].Categorical.Top; top != "b" {
		t.Errorf("Top = %q, want b (first seen)", top)
	}
}

// --- Distribution ---

func TestDistribution_Categorical(t *testing.T) {
	d := mustLoad(t, applicants, Limits{})
	dist, err := d.Distribution(context.Background(), "region")
	if err != nil {
		t.Fatal(err)
	}
	want := []Bucket{{Label: "north", Count: 2}, {Label: "south", Count: 1}, {Label: "east", Count: 1}}
	if diff := cmp.Diff(want, dist.Buckets); diff != "" {
		t.Errorf("Buckets mismatch (-want +got):\n%s", diff)
	}
}

func TestDistribution_NumericHistogram(t *testing.T) {
	var b strings.Builder
	b.WriteString("v\n")
	for i := 0; i <= 100; i++ {
		b.WriteString(strconv.Itoa(i) + "\n")
	}
	d := mustLoad(t, b.String(), Limits{})

	dist, err := d.Distribution(context.Background(), "v")
	if err != nil {
		t.Fatal(err)
	}
	if len(dist.Buckets) != HistogramBins {
		t.Fatalf("bins = %d, want %d", len(dist.Buckets), HistogramBins)
	}
	total := 0
	for i, bk := range dist.Buckets {
		total += bk.Count
		want := 10
		if i == HistogramBins-1 {
			want = 11 // 90..100 inclusive
		}
		if bk.Count != want {
			t.Errorf("bin %d (%s) count = %d, want %d", i, bk.Label, bk.Count, want)
		}
	}
	if total != 101 {
		t.Errorf("total = %d, want 101", total)
	}
	if dist.Buckets[0].Label != "[0, 10)" || dist.Buckets[9].Label != "[90, 100]" {
		t.Errorf("labels = %q .. %q", dist.Buckets[0].Label, dist.Buckets[9].Label)
	}
}

func TestDistribution_ConstantColumn(t *testing.T) {
	d := mustLoad(t, "v\n3\n3\n3\n", Limits{})
	dist, err := d.Distribution(context.Background(), "v")
	if err != nil {
		t.Fatal(err)
	}
	want := []Bucket{{Label: "[3, 3]", Lower: 3, Upper: 3, Count: 3}}
	if diff := cmp.Diff(want, dist.Buckets); diff != "" {
		t.Errorf("Buckets mismatch (-want +got):\n%s", diff)
	}
}

func TestDistribution_UnknownColumn(t *testing.T) {
	d := mustLoad(t, applicants, Limits{})
	_, err := d.Distribution(context.Background(), "salary")
	if !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("error = %v, want ErrUnknownColumn", err)
	}
	if !strings.Contains(err.Error(), "age, region") {
		t.Errorf("error should list available columns: %v", err)
	}
}

// --- Render ---

func TestRenderProfile(t *testing.T) {
	d := mustLoad(t, applicants, Limits{})
	cols, err := d.Describe(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	out := RenderProfile(cols, format.Markdown)
	for _, want := range []string{"Numeric columns", "Categorical columns", "| age", "north", "47.5"} {
		if !strings.Contains(out, want) {
			t.Errorf("profile missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDistribution(t *testing.T) {
	d := mustLoad(t, applicants, Limits{})
	dist, err := d.Distribution(context.Background(), "approved")
	if err != nil {
		t.Fatal(err)
	}
	out := strings.ToLower(RenderDistribution(dist, format.Markdown))
	for _, want := range []string{"distribution of approved (categorical)", "yes", "75.0%", "total"} {
		if !strings.Contains(out, want) {
			t.Errorf("distribution missing %q:\n%s", want, out)
		}
	}
}
