package assessment

import (
	"maps"
	"strings"
)

// TotalPoints is the budget distributed across the six values.
const TotalPoints = 100

// ValuesInput carries the raw answers of the values module.
type ValuesInput struct {
	Weights       map[ValueName]int
	Stakeholders  []Stakeholder
	Specification *ValueSpecification
}

// ValidValues is a ValuesInput that passed ValidateValues.
type ValidValues struct {
	rec ValuesRecord
}

// Allocation is one value's share of the 100-point budget.
type Allocation struct {
	Value  ValueName
	Points int
	Share  float64 // Points / TotalPoints, for proportion charts
}

// ValuesResult is returned to the presentation layer after a commit.
type ValuesResult struct {
	Allocations  []Allocation
	Stakeholders []Stakeholder
	Primary      ValueName // highest weight, first in declaration order on ties
}

// WeightTotal sums the weights of the six fixed values. Unknown keys
// are ignored.
func WeightTotal(weights map[ValueName]int) int {
	total := 0
	for _, v := range ValueOrder {
		total += weights[v]
	}
	return total
}

// ValidateValues checks key coverage, per-value range and the
// sum-to-100 invariant, then normalizes the optional fields.
func ValidateValues(in ValuesInput) (ValidValues, error) {
	for k := range in.Weights {
		if !k.Valid() {
			return ValidValues{}, invalid("weights", "unknown value %q", k)
		}
	}
	for _, v := range ValueOrder {
		w, ok := in.Weights[v]
		if !ok {
			return ValidValues{}, invalid("weights", "missing weight for %s", v)
		}
		if w < 0 || w > TotalPoints {
			return ValidValues{}, invalid("weights", "%s must be between 0 and %d (got %d)", v, TotalPoints, w)
		}
	}
	if WeightTotal(in.Weights) != TotalPoints {
		return ValidValues{}, &ValidationError{Field: "weights", Message: "weights must sum to 100"}
	}

	rec := ValuesRecord{Weights: maps.Clone(in.Weights)}

	seen := make(map[Stakeholder]bool, len(in.Stakeholders))
	for _, s := range in.Stakeholders {
		if !s.Valid() {
			return ValidValues{}, invalid("stakeholders", "unknown stakeholder %q", s)
		}
		seen[s] = true
	}
	for _, s := range StakeholderOrder {
		if seen[s] {
			rec.Stakeholders = append(rec.Stakeholders, s)
		}
	}

	if spec := in.Specification; spec != nil {
		if !specifiableValues[spec.Value] {
			return ValidValues{}, invalid("specification", "value must be one of: fairness, transparency, privacy (got %q)", spec.Value)
		}
		text := strings.TrimSpace(spec.Text)
		if text == "" {
			return ValidValues{}, invalid("specification", "text must not be empty")
		}
		rec.Specification = &ValueSpecification{Value: spec.Value, Text: text}
	}

	return ValidValues{rec: rec}, nil
}

// CommitValues replaces st.Values with the validated record.
func CommitValues(st *State, v ValidValues) ValuesResult {
	rec := v.rec
	rec.Weights = maps.Clone(v.rec.Weights)
	rec.Stakeholders = append([]Stakeholder(nil), v.rec.Stakeholders...)
	st.Values = &rec
	return valuesResult(rec)
}

// EvaluateValues validates and commits in one step. A rejected input
// leaves st.Values untouched.
func EvaluateValues(st *State, in ValuesInput) (ValuesResult, error) {
	v, err := ValidateValues(in)
	if err != nil {
		return ValuesResult{}, err
	}
	return CommitValues(st, v), nil
}

func valuesResult(rec ValuesRecord) ValuesResult {
	res := ValuesResult{
		Allocations:  make([]Allocation, 0, len(ValueOrder)),
		Stakeholders: append([]Stakeholder(nil), rec.Stakeholders...),
	}
	best := -1
	for _, v := range ValueOrder {
		p := rec.Weights[v]
		res.Allocations = append(res.Allocations, Allocation{
			Value:  v,
			Points: p,
			Share:  float64(p) / TotalPoints,
		})
		if p > best {
			best = p
			res.Primary = v
		}
	}
	return res
}
