package assessment

// biasPlaybook holds the review hint and mitigation actions per category.
// Every BiasCategory has an entry; a category missing here would yield an
// empty action list rather than an error.
var biasPlaybook = map[BiasCategory]struct {
	hint        string
	mitigations []string
}{
	BiasSampling: {
		hint: "Verify demographic representativeness",
		mitigations: []string{
			"Rebalance training data",
			"Include under-represented groups",
		},
	},
	BiasMeasurement: {
		hint: "Review optimization metrics",
		mitigations: []string{
			"Review success metrics",
			"Include fairness metrics",
		},
	},
	BiasGrouping: {
		hint: "Analyze how diverse groups are treated",
		mitigations: []string{
			"Evaluate performance per subgroup",
			"Avoid aggregating heterogeneous populations",
		},
	},
	BiasTemporal: {
		hint: "Assess dependence on historical data",
		mitigations: []string{
			"Refresh training data periodically",
			"Monitor drift against current populations",
		},
	},
	BiasCorrelation: {
		hint: "Identify dangerous proxy variables",
		mitigations: []string{
			"Remove proxies for protected characteristics",
			"Test outcomes for disparate impact",
		},
	},
	BiasFeedback: {
		hint: "Review feedback loops",
		mitigations: []string{
			"Break self-reinforcing decision loops",
			"Audit outcomes independently of model output",
		},
	},
}

// BiasFinding is a detected category with its mitigation plan.
type BiasFinding struct {
	Category    BiasCategory
	Hint        string
	Mitigations []string
}

// BiasResult is returned to the presentation layer after detection.
type BiasResult struct {
	Detected []BiasCategory
	Findings []BiasFinding
}

// ValidBiasFlags is a flag set that passed ValidateBiasFlags.
type ValidBiasFlags struct {
	detected []BiasCategory
}

// ValidateBiasFlags rejects unknown categories and orders the detected
// set by declaration order. Absent categories count as not flagged.
func ValidateBiasFlags(flags map[BiasCategory]bool) (ValidBiasFlags, error) {
	for c := range flags {
		if !c.Valid() {
			return ValidBiasFlags{}, invalid("bias category", "unknown category %q", c)
		}
	}
	detected := []BiasCategory{}
	for _, c := range BiasOrder {
		if flags[c] {
			detected = append(detected, c)
		}
	}
	return ValidBiasFlags{detected: detected}, nil
}

// Mitigations returns the ordered mitigation actions for a category. The
// returned slice is a copy.
func Mitigations(c BiasCategory) []string {
	return append([]string{}, biasPlaybook[c].mitigations...)
}

// Hint returns the one-line review hint for a category.
func Hint(c BiasCategory) string {
	return biasPlaybook[c].hint
}

// CommitBiasFlags replaces the detected set (never a union with the
// previous one) and marks the bias module as submitted.
func CommitBiasFlags(st *State, v ValidBiasFlags) BiasResult {
	st.Bias.Detected = append([]BiasCategory{}, v.detected...)
	st.Bias.Submitted = true

	res := BiasResult{Detected: append([]BiasCategory{}, v.detected...)}
	for _, c := range v.detected {
		res.Findings = append(res.Findings, BiasFinding{
			Category:    c,
			Hint:        Hint(c),
			Mitigations: Mitigations(c),
		})
	}
	return res
}

// DetectBias validates and commits in one step.
func DetectBias(st *State, flags map[BiasCategory]bool) (BiasResult, error) {
	v, err := ValidateBiasFlags(flags)
	if err != nil {
		return BiasResult{}, err
	}
	return CommitBiasFlags(st, v), nil
}

// ValidChecklistItem is a checklist answer that passed validation.
type ValidChecklistItem struct {
	question ChecklistQuestion
	value    bool
}

// ValidateChecklistItem rejects unknown question ids.
func ValidateChecklistItem(q ChecklistQuestion, value bool) (ValidChecklistItem, error) {
	if !q.Valid() {
		return ValidChecklistItem{}, invalid("checklist question", "unknown question %q", q)
	}
	return ValidChecklistItem{question: q, value: value}, nil
}

// CommitChecklistItem records one checklist answer. Detection is not
// affected.
func CommitChecklistItem(st *State, v ValidChecklistItem) {
	if st.Bias.Checklist == nil {
		st.Bias.Checklist = map[ChecklistQuestion]bool{}
	}
	st.Bias.Checklist[v.question] = v.value
}

// SetChecklistItem validates and commits in one step.
func SetChecklistItem(st *State, q ChecklistQuestion, value bool) error {
	v, err := ValidateChecklistItem(q, value)
	if err != nil {
		return err
	}
	CommitChecklistItem(st, v)
	return nil
}

// ChecklistProgress counts answered-yes items against the fixed total.
func ChecklistProgress(st *State) (completed, total int) {
	for _, q := range ChecklistOrder {
		if st.Bias.Checklist[q] {
			completed++
		}
	}
	return completed, len(ChecklistOrder)
}
