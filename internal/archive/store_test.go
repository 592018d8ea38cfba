package archive

import (
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/HendryAvila/nexus-audit/internal/assessment"
	"github.com/HendryAvila/nexus-audit/internal/format"
)

var baseTime = time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)

// newTestStore creates a Store backed by a temp directory with a
// controllable clock and sequential ids.
func newTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	now := baseTime
	origNow, origID := timeNow, newID
	timeNow = func() time.Time { return now }
	n := 0
	newID = func() string {
		n++
		return "audit-" + string(rune('a'+n-1)) + "-0000"
	}
	t.Cleanup(func() { timeNow, newID = origNow, origID })

	s, err := New(Config{Path: filepath.Join(t.TempDir(), "nested", "audits.db")})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, &now
}

func stateWith(t *testing.T, level, rubric int, name string, biases ...assessment.BiasCategory) *assessment.State {
	t.Helper()
	st := assessment.New()
	in := assessment.AutonomyInput{
		SystemName: name, Level: level,
		Comprehension: rubric, Capability: rubric, Context: rubric, Accountability: rubric,
	}
	if _, err := assessment.EvaluateAutonomy(st, in); err != nil {
		t.Fatalf("setup: %v", err)
	}
	flags := map[assessment.BiasCategory]bool{}
	for _, b := range biases {
		flags[b] = true
	}
	if _, err := assessment.DetectBias(st, flags); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return st
}

func save(t *testing.T, s *Store, st *assessment.State) Record {
	t.Helper()
	rec, err := NewRecord("sess-1", st, "# report")
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	saved, err := s.Save(rec)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	return saved
}

// ─── New ────────────────────────────────────────────────────────────────────

func TestNew_IdempotentReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audits.db")
	s1, err := New(Config{Path: path})
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := s1.Save(Record{SessionID: "s", SystemName: "x", Tier: assessment.TierModerate, Report: "r"}); err != nil {
		t.Fatal(err)
	}
	_ = s1.Close()

	s2, err := New(Config{Path: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	recs, err := s2.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Errorf("records after reopen = %d, want 1", len(recs))
	}
}

func TestNew_OpenFailure(t *testing.T) {
	orig := openDB
	openDB = func(string, string) (*sql.DB, error) { return nil, errors.New("disk on fire") }
	t.Cleanup(func() { openDB = orig })

	_, err := New(Config{Path: filepath.Join(t.TempDir(), "audits.db")})
	if err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("New error = %v, want wrapped open failure", err)
	}
}

func TestCloseNil(t *testing.T) {
	var s *Store
	if err := s.Close(); err != nil {
		t.Errorf("Close on nil store = %v", err)
	}
}

// ─── Save / Get / Recent ────────────────────────────────────────────────────

func TestSaveAndGet(t *testing.T) {
	s, _ := newTestStore(t)
	saved := save(t, s, stateWith(t, 3, 1, "Loan scorer", assessment.BiasSampling))

	got, err := s.Get(saved.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want := Record{
		ID:              "audit-a-0000",
		SessionID:       "sess-1",
		SystemName:      "Loan scorer",
		Tier:            assessment.TierCritical,
		AutonomyLevel:   3,
		ControlScore:    1,
		RiskScore:       5,
		BiasCount:       1,
		Recommendations: 3,
		Report:          "# report",
		CreatedAt:       baseTime,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}
}

func TestGet_NotFound(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestGet_ByPrefix(t *testing.T) {
	s, _ := newTestStore(t)
	save(t, s, stateWith(t, 1, 5, "first"))
	save(t, s, stateWith(t, 2, 3, "second"))

	got, err := s.Get("audit-b")
	if err != nil {
		t.Fatalf("Get by unique prefix: %v", err)
	}
	if got.SystemName != "second" {
		t.Errorf("prefix resolved to %q, want second", got.SystemName)
	}

	if _, err := s.Get("audit-"); !errors.Is(err, ErrAmbiguousID) {
		t.Errorf("Get(ambiguous) error = %v, want ErrAmbiguousID", err)
	}
	if _, err := s.Get("  "); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(blank) error = %v, want ErrNotFound", err)
	}
}

func TestRecent_NewestFirstWithoutBodies(t *testing.T) {
	s, now := newTestStore(t)
	save(t, s, stateWith(t, 1, 5, "first"))
	*now = now.Add(time.Hour)
	save(t, s, stateWith(t, 2, 3, "second"))
	*now = now.Add(time.Hour)
	save(t, s, stateWith(t, 3, 1, "third"))

	recs, err := s.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("Recent(2) = %d records", len(recs))
	}
	if recs[0].SystemName != "third" || recs[1].SystemName != "second" {
		t.Errorf("order = %s, %s; want third, second", recs[0].SystemName, recs[1].SystemName)
	}
	if recs[0].Report != "" {
		t.Error("Recent should not load report bodies")
	}
}

func TestNewRecord_RequiresAutonomy(t *testing.T) {
	_, err := NewRecord("s", assessment.New(), "")
	if !errors.Is(err, assessment.ErrIncomplete) {
		t.Errorf("NewRecord error = %v, want ErrIncomplete", err)
	}
}

func TestNewRecord_DefaultSystemName(t *testing.T) {
	rec, err := NewRecord("s", stateWith(t, 1, 5, ""), "r")
	if err != nil {
		t.Fatal(err)
	}
	if rec.SystemName != assessment.DefaultSystemName {
		t.Errorf("SystemName = %q", rec.SystemName)
	}
}

// ─── Stats ──────────────────────────────────────────────────────────────────

func TestStats(t *testing.T) {
	s, now := newTestStore(t)

	empty, err := s.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if empty.Total != 0 || empty.AverageRisk != 0 {
		t.Errorf("empty stats = %+v", empty)
	}

	save(t, s, stateWith(t, 3, 1, "a")) // risk 5, critical, 3 recs
	*now = now.Add(10 * 24 * time.Hour)
	save(t, s, stateWith(t, 2, 1, "b")) // risk 3, moderate, 3 recs
	save(t, s, stateWith(t, 1, 5, "c")) // risk -3, acceptable, 3 recs

	got, err := s.Stats()
	if err != nil {
		t.Fatal(err)
	}
	want := &Stats{
		Total:    3,
		LastWeek: 2,
		ByTier: map[assessment.Tier]int{
			assessment.TierCritical:   1,
			assessment.TierModerate:   1,
			assessment.TierAcceptable: 1,
		},
		AverageRisk:             5.0 / 3,
		Recommendations:         9,
		CriticalRecommendations: 3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Stats mismatch (-want +got):\n%s", diff)
	}

	out := RenderStats(got, format.Markdown)
	if !strings.Contains(out, "Systems audited: 3 (2 in the last 7 days)") {
		t.Errorf("RenderStats output:\n%s", out)
	}
}

func TestRenderRecent(t *testing.T) {
	if got := RenderRecent(nil, baseTime, format.Markdown); !strings.Contains(got, "No archived audits") {
		t.Errorf("empty listing = %q", got)
	}
	recs := []Record{{ID: "0123456789", SystemName: "Loan scorer", Tier: assessment.TierModerate, RiskScore: 3, CreatedAt: baseTime.Add(-2 * time.Hour)}}
	out := RenderRecent(recs, baseTime, format.Markdown)
	for _, want := range []string{"01234567", "Loan scorer", "MODERATE RISK", "3.00", "2 hours ago"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}
}
