// Package answers reads a complete set of audit answers from a YAML file
// so an audit can run offline, without an MCP host.
package answers

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/HendryAvila/nexus-audit/internal/assessment"
)

// File models an answers file. Sections left out are not submitted.
type File struct {
	SystemName string    `yaml:"system_name"`
	Autonomy   *Autonomy `yaml:"autonomy"`
	Values     *Values   `yaml:"values"`
	Bias       *Bias     `yaml:"bias"`
}

// Autonomy holds the autonomy module answers.
type Autonomy struct {
	Level                   int  `yaml:"level"`
	CanLearn                bool `yaml:"can_learn"`
	ActsUnsupervised        bool `yaml:"acts_unsupervised"`
	MakesStrategicDecisions bool `yaml:"makes_strategic_decisions"`
	Comprehension           int  `yaml:"comprehension"`
	Capability              int  `yaml:"capability"`
	Context                 int  `yaml:"context"`
	Accountability          int  `yaml:"accountability"`
}

// Values holds the value allocation answers.
type Values struct {
	Weights       map[string]int `yaml:"weights"`
	Stakeholders  []string       `yaml:"stakeholders"`
	Specification *struct {
		Value string `yaml:"value"`
		Text  string `yaml:"text"`
	} `yaml:"specification"`
}

// Bias holds the detection flags and the checklist items answered yes.
type Bias struct {
	Detected  []string `yaml:"detected"`
	Checklist []string `yaml:"checklist"`
}

// Load reads and decodes an answers file. Unknown keys are rejected so
// typos surface instead of silently skipping a module.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var out File
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return &out, nil
}

// Apply submits every present section to the session in module order.
// The whole file is applied in one update: if any section is invalid,
// the session is left unchanged.
func (a *File) Apply(s *assessment.Session) error {
	return s.Update(func(st *assessment.State) error {
		if a.Autonomy != nil {
			in := assessment.AutonomyInput{
				SystemName:              a.SystemName,
				Level:                   a.Autonomy.Level,
				CanLearn:                a.Autonomy.CanLearn,
				ActsUnsupervised:        a.Autonomy.ActsUnsupervised,
				MakesStrategicDecisions: a.Autonomy.MakesStrategicDecisions,
				Comprehension:           a.Autonomy.Comprehension,
				Capability:              a.Autonomy.Capability,
				Context:                 a.Autonomy.Context,
				Accountability:          a.Autonomy.Accountability,
			}
			if _, err := assessment.EvaluateAutonomy(st, in); err != nil {
				return fmt.Errorf("autonomy: %w", err)
			}
		}

		if a.Values != nil {
			if _, err := assessment.EvaluateValues(st, a.Values.input()); err != nil {
				return fmt.Errorf("values: %w", err)
			}
		}

		if a.Bias != nil {
			flags := make(map[assessment.BiasCategory]bool, len(a.Bias.Detected))
			for _, d := range a.Bias.Detected {
				flags[assessment.BiasCategory(normalize(d))] = true
			}
			if _, err := assessment.DetectBias(st, flags); err != nil {
				return fmt.Errorf("bias: %w", err)
			}
			for _, q := range a.Bias.Checklist {
				if err := assessment.SetChecklistItem(st, assessment.ChecklistQuestion(normalize(q)), true); err != nil {
					return fmt.Errorf("bias checklist: %w", err)
				}
			}
		}
		return nil
	})
}

func (v *Values) input() assessment.ValuesInput {
	in := assessment.ValuesInput{Weights: make(map[assessment.ValueName]int, len(v.Weights))}
	for k, w := range v.Weights {
		in.Weights[assessment.ValueName(normalize(k))] = w
	}
	for _, s := range v.Stakeholders {
		in.Stakeholders = append(in.Stakeholders, assessment.Stakeholder(normalize(s)))
	}
	if v.Specification != nil {
		in.Specification = &assessment.ValueSpecification{
			Value: assessment.ValueName(normalize(v.Specification.Value)),
			Text:  v.Specification.Text,
		}
	}
	return in
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
