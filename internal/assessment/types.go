// Package assessment is the scoring engine of the NEXUS audit.
//
// It owns the in-memory State of one audit session and the stateless
// components that read and write it: the autonomy scorer, the values
// allocator, the bias registry, the risk aggregator and the report
// synthesizer. Every operation takes the State explicitly; there is no
// package-level mutable state.
//
// Writes follow a two-phase contract: ValidateX checks an input and
// returns an opaque ValidX, CommitX applies it. Validation is pure and a
// rejected input never touches the State.
package assessment

import (
	"fmt"
	"strings"
)

// --- Risk tier ---

// Tier is the risk classification derived from an autonomy risk score.
type Tier string

const (
	TierCritical   Tier = "critical"
	TierModerate   Tier = "moderate"
	TierAcceptable Tier = "acceptable"
)

const (
	// criticalThreshold is the lowest risk score classified as critical.
	criticalThreshold = 4.0
	// moderateThreshold is the lowest risk score classified as moderate.
	moderateThreshold = 2.5
)

// ClassifyRisk maps a risk score to its tier. Boundaries are inclusive
// on the lower end: 4 is critical, 2.5 is moderate.
func ClassifyRisk(score float64) Tier {
	switch {
	case score >= criticalThreshold:
		return TierCritical
	case score >= moderateThreshold:
		return TierModerate
	default:
		return TierAcceptable
	}
}

// Label returns the upper-case display label used in badges and reports.
func (t Tier) Label() string {
	switch t {
	case TierCritical:
		return "HIGH RISK"
	case TierModerate:
		return "MODERATE RISK"
	case TierAcceptable:
		return "LOW RISK"
	default:
		return strings.ToUpper(string(t))
	}
}

// --- Value names ---

// ValueName is one of the six human values weighted by the values module.
type ValueName string

const (
	ValueFairness       ValueName = "fairness"
	ValueTransparency   ValueName = "transparency"
	ValuePrivacy        ValueName = "privacy"
	ValueAutonomy       ValueName = "autonomy"
	ValueSecurity       ValueName = "security"
	ValueSustainability ValueName = "sustainability"
)

// ValueOrder is the declaration order used for display and validation.
var ValueOrder = []ValueName{
	ValueFairness,
	ValueTransparency,
	ValuePrivacy,
	ValueAutonomy,
	ValueSecurity,
	ValueSustainability,
}

var valueLabels = map[ValueName]string{
	ValueFairness:       "Fairness",
	ValueTransparency:   "Transparency",
	ValuePrivacy:        "Privacy",
	ValueAutonomy:       "Human autonomy",
	ValueSecurity:       "Security",
	ValueSustainability: "Sustainability",
}

// specifiableValues are the values that accept a technical specification.
var specifiableValues = map[ValueName]bool{
	ValueFairness:     true,
	ValueTransparency: true,
	ValuePrivacy:      true,
}

// Label returns the human-readable name of the value.
func (v ValueName) Label() string {
	if l, ok := valueLabels[v]; ok {
		return l
	}
	return string(v)
}

// Valid reports whether v is one of the six fixed values.
func (v ValueName) Valid() bool {
	_, ok := valueLabels[v]
	return ok
}

// ParseValueName accepts a value id case-insensitively.
func ParseValueName(s string) (ValueName, error) {
	v := ValueName(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unknown value %q: must be one of: %s", s, joinIDs(ValueOrder))
	}
	return v, nil
}

// --- Stakeholders ---

// Stakeholder is a group affected by the audited system.
type Stakeholder string

const (
	StakeholderEndUsers          Stakeholder = "end_users"
	StakeholderEmployees         Stakeholder = "employees"
	StakeholderCustomers         Stakeholder = "customers"
	StakeholderLocalCommunity    Stakeholder = "local_community"
	StakeholderRegulators        Stakeholder = "regulators"
	StakeholderInvestors         Stakeholder = "investors"
	StakeholderVulnerableGroups  Stakeholder = "vulnerable_groups"
	StakeholderFutureGenerations Stakeholder = "future_generations"
)

// StakeholderOrder is the declaration order of stakeholder groups.
var StakeholderOrder = []Stakeholder{
	StakeholderEndUsers,
	StakeholderEmployees,
	StakeholderCustomers,
	StakeholderLocalCommunity,
	StakeholderRegulators,
	StakeholderInvestors,
	StakeholderVulnerableGroups,
	StakeholderFutureGenerations,
}

var stakeholderLabels = map[Stakeholder]string{
	StakeholderEndUsers:          "End users",
	StakeholderEmployees:         "Employees",
	StakeholderCustomers:         "Customers",
	StakeholderLocalCommunity:    "Local community",
	StakeholderRegulators:        "Regulators",
	StakeholderInvestors:         "Investors",
	StakeholderVulnerableGroups:  "Vulnerable groups",
	StakeholderFutureGenerations: "Future generations",
}

// Label returns the display name of the stakeholder group.
func (s Stakeholder) Label() string {
	if l, ok := stakeholderLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is a known stakeholder group.
func (s Stakeholder) Valid() bool {
	_, ok := stakeholderLabels[s]
	return ok
}

// ParseStakeholder accepts a stakeholder id case-insensitively.
func ParseStakeholder(s string) (Stakeholder, error) {
	v := Stakeholder(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unknown stakeholder %q: must be one of: %s", s, joinIDs(StakeholderOrder))
	}
	return v, nil
}

// --- Bias categories ---

// BiasCategory is one of the six classes of algorithmic bias tracked by
// the bias registry.
type BiasCategory string

const (
	BiasSampling    BiasCategory = "sampling"
	BiasMeasurement BiasCategory = "measurement"
	BiasGrouping    BiasCategory = "grouping"
	BiasTemporal    BiasCategory = "temporal"
	BiasCorrelation BiasCategory = "correlation"
	BiasFeedback    BiasCategory = "feedback"
)

// BiasOrder is the stable display order of the detected set.
var BiasOrder = []BiasCategory{
	BiasSampling,
	BiasMeasurement,
	BiasGrouping,
	BiasTemporal,
	BiasCorrelation,
	BiasFeedback,
}

var biasLabels = map[BiasCategory]string{
	BiasSampling:    "Sampling",
	BiasMeasurement: "Measurement",
	BiasGrouping:    "Grouping",
	BiasTemporal:    "Temporal",
	BiasCorrelation: "Correlation",
	BiasFeedback:    "Feedback",
}

// Label returns the display name of the category.
func (c BiasCategory) Label() string {
	if l, ok := biasLabels[c]; ok {
		return l
	}
	return string(c)
}

// Valid reports whether c is one of the six fixed categories.
func (c BiasCategory) Valid() bool {
	_, ok := biasLabels[c]
	return ok
}

// ParseBiasCategory accepts a category id case-insensitively.
func ParseBiasCategory(s string) (BiasCategory, error) {
	v := BiasCategory(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unknown bias category %q: must be one of: %s", s, joinIDs(BiasOrder))
	}
	return v, nil
}

// --- Checklist questions ---

// ChecklistQuestion identifies one item of the manual bias checklist.
type ChecklistQuestion string

const (
	QuestionRepresentativeData ChecklistQuestion = "representative_data"
	QuestionProxyVariables     ChecklistQuestion = "proxy_variables"
	QuestionDifferentialImpact ChecklistQuestion = "differential_impact"
	QuestionEarlyDetection     ChecklistQuestion = "early_detection"
	QuestionContestability     ChecklistQuestion = "contestability"
)

// ChecklistOrder is the display order of the checklist.
var ChecklistOrder = []ChecklistQuestion{
	QuestionRepresentativeData,
	QuestionProxyVariables,
	QuestionDifferentialImpact,
	QuestionEarlyDetection,
	QuestionContestability,
}

var checklistText = map[ChecklistQuestion]string{
	QuestionRepresentativeData: "Does the data adequately represent the target population?",
	QuestionProxyVariables:     "Are proxy variables for protected characteristics excluded?",
	QuestionDifferentialImpact: "Do the metrics account for differential impacts?",
	QuestionEarlyDetection:     "Are there mechanisms for early bias detection?",
	QuestionContestability:     "Can users understand and challenge decisions?",
}

// Text returns the question as shown to the operator.
func (q ChecklistQuestion) Text() string {
	if t, ok := checklistText[q]; ok {
		return t
	}
	return string(q)
}

// Valid reports whether q is a known checklist question.
func (q ChecklistQuestion) Valid() bool {
	_, ok := checklistText[q]
	return ok
}

// --- Modules ---

// Module names one stage of the audit.
type Module string

const (
	ModuleAutonomy Module = "autonomy"
	ModuleValues   Module = "values"
	ModuleBias     Module = "bias"
)

// ModuleOrder is the order in which the audit walks its modules.
var ModuleOrder = []Module{ModuleAutonomy, ModuleValues, ModuleBias}

// joinIDs renders enum ids as a comma-separated list for error messages.
func joinIDs[T ~string](ids []T) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
