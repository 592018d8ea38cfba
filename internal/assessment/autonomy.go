package assessment

import "strings"

// AutonomyInput carries the raw answers of the autonomy module.
type AutonomyInput struct {
	SystemName string

	// Level is 1 (assistant: suggests), 2 (collaborator: acts under
	// supervision) or 3 (actor: decides autonomously).
	Level int

	CanLearn                bool
	ActsUnsupervised        bool
	MakesStrategicDecisions bool

	// C4 human-control rubric, each scored 1..5.
	Comprehension  int
	Capability     int
	Context        int
	Accountability int
}

// ValidAutonomy is an AutonomyInput that passed ValidateAutonomy.
type ValidAutonomy struct {
	in AutonomyInput
}

// AutonomyResult is returned to the presentation layer after a commit.
type AutonomyResult struct {
	Record          AutonomyRecord
	Tier            Tier
	Headline        string
	Recommendations []string
}

// autonomyAdvice is the scorer's own recommendation block per tier.
var autonomyAdvice = map[Tier]struct {
	headline string
	lines    []string
}{
	TierCritical: {
		headline: "IMMEDIATE ACTION REQUIRED",
		lines: []string{
			"Review human control mechanisms",
			"Establish clear accountable owners",
			"Consider reducing the autonomy level",
		},
	},
	TierModerate: {
		headline: "IMPROVEMENTS RECOMMENDED",
		lines: []string{
			"Strengthen human supervision",
			"Improve documentation and operator training",
			"Establish emergency protocols",
		},
	},
	TierAcceptable: {
		headline: "WITHIN ACCEPTABLE PARAMETERS",
		lines: []string{
			"Keep current controls in place",
			"Monitor periodically",
		},
	},
}

// ValidateAutonomy checks the level and rubric ranges.
func ValidateAutonomy(in AutonomyInput) (ValidAutonomy, error) {
	if in.Level < 1 || in.Level > 3 {
		return ValidAutonomy{}, invalid("level", "must be 1, 2 or 3 (got %d)", in.Level)
	}
	rubric := []struct {
		name  string
		value int
	}{
		{"comprehension", in.Comprehension},
		{"capability", in.Capability},
		{"context", in.Context},
		{"accountability", in.Accountability},
	}
	for _, r := range rubric {
		if r.value < 1 || r.value > 5 {
			return ValidAutonomy{}, invalid(r.name, "must be between 1 and 5 (got %d)", r.value)
		}
	}
	in.SystemName = strings.TrimSpace(in.SystemName)
	return ValidAutonomy{in: in}, nil
}

// ControlScore is the mean of the four C4 rubric values.
func ControlScore(comprehension, capability, context, accountability int) float64 {
	return float64(comprehension+capability+context+accountability) / 4
}

// RiskScore is level*2 minus the control score. It is not clamped: a
// negative score signals strongly mitigated autonomy.
func RiskScore(level int, controlScore float64) float64 {
	return float64(level*2) - controlScore
}

// CommitAutonomy scores a validated input and replaces st.Autonomy.
func CommitAutonomy(st *State, v ValidAutonomy) AutonomyResult {
	in := v.in
	control := ControlScore(in.Comprehension, in.Capability, in.Context, in.Accountability)
	rec := AutonomyRecord{
		SystemName:              in.SystemName,
		Level:                   in.Level,
		CanLearn:                in.CanLearn,
		ActsUnsupervised:        in.ActsUnsupervised,
		MakesStrategicDecisions: in.MakesStrategicDecisions,
		Comprehension:           in.Comprehension,
		Capability:              in.Capability,
		Context:                 in.Context,
		Accountability:          in.Accountability,
		ControlScore:            control,
		RiskScore:               RiskScore(in.Level, control),
	}
	st.Autonomy = &rec

	tier := ClassifyRisk(rec.RiskScore)
	advice := autonomyAdvice[tier]
	return AutonomyResult{
		Record:          rec,
		Tier:            tier,
		Headline:        advice.headline,
		Recommendations: append([]string(nil), advice.lines...),
	}
}

// EvaluateAutonomy validates and commits in one step.
func EvaluateAutonomy(st *State, in AutonomyInput) (AutonomyResult, error) {
	v, err := ValidateAutonomy(in)
	if err != nil {
		return AutonomyResult{}, err
	}
	return CommitAutonomy(st, v), nil
}
