package assessment

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var reportDate = time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)

func mustAutonomy(t *testing.T, st *State, level, r1, r2, r3, r4 int) {
	t.Helper()
	if _, err := EvaluateAutonomy(st, validAutonomyInput(level, r1, r2, r3, r4)); err != nil {
		t.Fatalf("setup: EvaluateAutonomy: %v", err)
	}
}

// --- Aggregate ---

func TestAggregate_RequiresAutonomy(t *testing.T) {
	st := New()
	// Values and bias alone are not enough.
	if _, err := EvaluateValues(st, ValuesInput{Weights: weights(25, 20, 15, 15, 15, 10)}); err != nil {
		t.Fatal(err)
	}
	if _, err := DetectBias(st, map[BiasCategory]bool{BiasSampling: true}); err != nil {
		t.Fatal(err)
	}

	_, err := Aggregate(st)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("Aggregate error = %v, want ErrIncomplete", err)
	}
	var ie *IncompleteAssessmentError
	if !errors.As(err, &ie) || ie.Missing != ModuleAutonomy {
		t.Errorf("error should name the autonomy module: %v", err)
	}
}

func TestAggregate_TierIgnoresValuesAndBias(t *testing.T) {
	bare := New()
	mustAutonomy(t, bare, 2, 1, 1, 1, 1) // risk = 4 - 1 = 3

	enriched := bare.Clone()
	if _, err := EvaluateValues(enriched, ValuesInput{Weights: weights(25, 20, 15, 15, 15, 10)}); err != nil {
		t.Fatal(err)
	}
	if _, err := DetectBias(enriched, map[BiasCategory]bool{BiasSampling: true, BiasFeedback: true}); err != nil {
		t.Fatal(err)
	}

	a, err := Aggregate(bare)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Aggregate(enriched)
	if err != nil {
		t.Fatal(err)
	}

	if a.Tier != TierModerate || b.Tier != TierModerate {
		t.Errorf("tiers = %s / %s, want moderate for both", a.Tier, b.Tier)
	}
	want := AggregateResult{
		Tier:          TierModerate,
		AutonomyLevel: 2,
		ControlScore:  1,
		RiskScore:     3,
		BiasCount:     2,
		HasValues:     true,
	}
	if diff := cmp.Diff(want, b); diff != "" {
		t.Errorf("Aggregate mismatch (-want +got):\n%s", diff)
	}
	if a.BiasCount != 0 || a.HasValues {
		t.Errorf("bare aggregate should have no bias/values context: %+v", a)
	}
}

func TestAggregate_ReadOnly(t *testing.T) {
	st := New()
	mustAutonomy(t, st, 3, 1, 1, 1, 1)
	before := st.Clone()
	if _, err := Aggregate(st); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(before, st); diff != "" {
		t.Errorf("Aggregate mutated state (-before +after):\n%s", diff)
	}
}

// --- Render ---

func TestRender_Incomplete(t *testing.T) {
	_, err := Render(New(), reportDate)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("Render error = %v, want ErrIncomplete", err)
	}
}

func TestRender_CriticalReport(t *testing.T) {
	st := New()
	mustAutonomy(t, st, 3, 1, 1, 1, 1)
	if _, err := DetectBias(st, map[BiasCategory]bool{BiasSampling: true, BiasTemporal: true}); err != nil {
		t.Fatal(err)
	}

	doc, err := Render(st, reportDate)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	checks := []string{
		"# NEXUS ETHICAL AUDIT REPORT",
		"**Date:** 2026-02-20",
		"**System evaluated:** System under evaluation",
		"**Overall risk tier:** HIGH RISK",
		"- Autonomy level: 3",
		"- Human control score: 1.00/5",
		"- Autonomy risk score: 5.00",
		"- Biases detected: 2",
		"### Value priorities\n- not evaluated\n",
		"- Detected: Sampling, Temporal",
		"- Checklist: 0/5 completed",
		"1. **IMMEDIATE REVIEW** - critical risk level detected",
		"2. Strengthen meaningful human controls",
		"3. Establish emergency protocols",
	}
	for _, c := range checks {
		if !strings.Contains(doc, c) {
			t.Errorf("report missing %q\n---\n%s", c, doc)
		}
	}
}

func TestRender_TierBlocks(t *testing.T) {
	tests := []struct {
		name  string
		level int
		r     int
		first string
	}{
		{"critical", 3, 1, "1. **IMMEDIATE REVIEW**"},
		{"moderate", 3, 3, "1. **PRIORITY IMPROVEMENTS**"},
		{"acceptable", 1, 5, "1. Keep current controls in place"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := New()
			mustAutonomy(t, st, tt.level, tt.r, tt.r, tt.r, tt.r)
			doc, err := Render(st, reportDate)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(doc, tt.first) {
				t.Errorf("report missing %q\n%s", tt.first, doc)
			}
			if !strings.Contains(doc, "3. ") {
				t.Error("tier block should have three lines")
			}
		})
	}
}

func TestRender_ValuesAndChecklistSections(t *testing.T) {
	st := New()
	in := validAutonomyInput(2, 4, 4, 4, 4)
	in.SystemName = "Loan scorer"
	if _, err := EvaluateAutonomy(st, in); err != nil {
		t.Fatal(err)
	}
	if _, err := EvaluateValues(st, ValuesInput{
		Weights:       weights(25, 20, 15, 15, 15, 10),
		Stakeholders:  []Stakeholder{StakeholderVulnerableGroups},
		Specification: &ValueSpecification{Value: ValueFairness, Text: "Equal opportunity across groups"},
	}); err != nil {
		t.Fatal(err)
	}
	_ = SetChecklistItem(st, QuestionProxyVariables, true)

	doc, err := Render(st, reportDate)
	if err != nil {
		t.Fatal(err)
	}
	checks := []string{
		"**System evaluated:** Loan scorer",
		"- Fairness: 25 points",
		"- Sustainability: 10 points",
		"- Stakeholders: Vulnerable groups",
		"- Specification (Fairness): Equal opportunity across groups",
		"- Detection: not evaluated",
		"- Checklist: 1/5 completed",
	}
	for _, c := range checks {
		if !strings.Contains(doc, c) {
			t.Errorf("report missing %q\n---\n%s", c, doc)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	st := New()
	mustAutonomy(t, st, 2, 3, 2, 4, 1)
	_, _ = DetectBias(st, map[BiasCategory]bool{BiasCorrelation: true, BiasMeasurement: true})

	first, err := Render(st, reportDate)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := Render(st, reportDate)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatalf("render %d differs from first render", i)
		}
	}

	other, err := Render(st.Clone(), reportDate)
	if err != nil {
		t.Fatal(err)
	}
	if other != first {
		t.Error("equal states rendered differently")
	}
}

func TestReportAdvice_CoversEveryTier(t *testing.T) {
	for _, tier := range []Tier{TierCritical, TierModerate, TierAcceptable} {
		if n := len(ReportRecommendations(tier)); n < 2 || n > 3 {
			t.Errorf("tier %s: %d recommendation lines, want 2-3", tier, n)
		}
	}
}

// --- Progress ---

func TestAuditProgress(t *testing.T) {
	st := New()
	p := AuditProgress(st)
	for _, m := range p.Modules {
		if m.Complete || m.Percent != 0 {
			t.Errorf("module %s should start incomplete: %+v", m.Module, m)
		}
	}

	mustAutonomy(t, st, 1, 3, 3, 3, 3)
	_, _ = DetectBias(st, nil)
	_ = SetChecklistItem(st, QuestionEarlyDetection, true)

	want := Progress{
		Modules: []ModuleProgress{
			{Module: ModuleAutonomy, Complete: true, Percent: 100},
			{Module: ModuleValues, Complete: false, Percent: 0},
			{Module: ModuleBias, Complete: true, Percent: 100},
		},
		ChecklistCompleted: 1,
		ChecklistTotal:     5,
	}
	if diff := cmp.Diff(want, AuditProgress(st)); diff != "" {
		t.Errorf("AuditProgress mismatch (-want +got):\n%s", diff)
	}
}
