package assessment

import "maps"

// State is the in-memory record of one audit in progress.
//
// Optional records are pointers: nil means the module has not been
// submitted. Every write replaces a whole record, never single fields.
type State struct {
	Autonomy *AutonomyRecord `json:"autonomy,omitempty"`
	Values   *ValuesRecord   `json:"values,omitempty"`
	Bias     BiasRecord      `json:"bias"`
}

// AutonomyRecord is the stored outcome of the autonomy module.
type AutonomyRecord struct {
	SystemName              string  `json:"system_name,omitempty"`
	Level                   int     `json:"level"`
	CanLearn                bool    `json:"can_learn"`
	ActsUnsupervised        bool    `json:"acts_unsupervised"`
	MakesStrategicDecisions bool    `json:"makes_strategic_decisions"`
	Comprehension           int     `json:"comprehension"`
	Capability              int     `json:"capability"`
	Context                 int     `json:"context"`
	Accountability          int     `json:"accountability"`
	ControlScore            float64 `json:"control_score"`
	RiskScore               float64 `json:"risk_score"`
}

// ValuesRecord is the stored 100-point value allocation.
type ValuesRecord struct {
	Weights       map[ValueName]int   `json:"weights"`
	Stakeholders  []Stakeholder       `json:"stakeholders,omitempty"`
	Specification *ValueSpecification `json:"specification,omitempty"`
}

// ValueSpecification is a free-text technical commitment for one value.
type ValueSpecification struct {
	Value ValueName `json:"value"`
	Text  string    `json:"text"`
}

// BiasRecord holds the detected bias set and the manual checklist. The
// two sub-records are independent: neither gates the other.
type BiasRecord struct {
	// Submitted is set once detection has run, even if nothing was found.
	Submitted bool                       `json:"submitted"`
	Detected  []BiasCategory             `json:"detected"`
	Checklist map[ChecklistQuestion]bool `json:"checklist"`
}

// New returns an empty State, as at session start.
func New() *State {
	return &State{
		Bias: BiasRecord{
			Detected:  []BiasCategory{},
			Checklist: map[ChecklistQuestion]bool{},
		},
	}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := New()
	if s.Autonomy != nil {
		a := *s.Autonomy
		c.Autonomy = &a
	}
	if s.Values != nil {
		v := ValuesRecord{
			Weights:      maps.Clone(s.Values.Weights),
			Stakeholders: append([]Stakeholder(nil), s.Values.Stakeholders...),
		}
		if s.Values.Specification != nil {
			spec := *s.Values.Specification
			v.Specification = &spec
		}
		c.Values = &v
	}
	c.Bias.Submitted = s.Bias.Submitted
	c.Bias.Detected = append(c.Bias.Detected, s.Bias.Detected...)
	maps.Copy(c.Bias.Checklist, s.Bias.Checklist)
	return c
}

// Complete reports whether a module has been submitted. Autonomy and
// values are complete once their record exists; bias once detection has
// fired at least once.
func (s *State) Complete(m Module) bool {
	switch m {
	case ModuleAutonomy:
		return s.Autonomy != nil
	case ModuleValues:
		return s.Values != nil
	case ModuleBias:
		return s.Bias.Submitted
	default:
		return false
	}
}
