package assessment

// AggregateResult is the overall view of an audit.
type AggregateResult struct {
	Tier          Tier    `json:"tier"`
	AutonomyLevel int     `json:"autonomy_level"`
	ControlScore  float64 `json:"control_score"`
	RiskScore     float64 `json:"risk_score"`
	BiasCount     int     `json:"bias_count"`
	HasValues     bool    `json:"has_values"`
}

// Aggregate combines module outputs into the overall risk tier. It
// requires the autonomy module; values and bias are optional and only
// contribute counts, never the tier.
func Aggregate(st *State) (AggregateResult, error) {
	if st.Autonomy == nil {
		return AggregateResult{}, &IncompleteAssessmentError{Missing: ModuleAutonomy}
	}
	return AggregateResult{
		Tier:          ClassifyRisk(st.Autonomy.RiskScore),
		AutonomyLevel: st.Autonomy.Level,
		ControlScore:  st.Autonomy.ControlScore,
		RiskScore:     st.Autonomy.RiskScore,
		BiasCount:     len(st.Bias.Detected),
		HasValues:     st.Values != nil,
	}, nil
}

// ModuleProgress is the completion of one module for the dashboard.
type ModuleProgress struct {
	Module   Module `json:"module"`
	Complete bool   `json:"complete"`
	Percent  int    `json:"percent"`
}

// Progress is the dashboard view of an audit in progress.
type Progress struct {
	Modules            []ModuleProgress `json:"modules"`
	ChecklistCompleted int              `json:"checklist_completed"`
	ChecklistTotal     int              `json:"checklist_total"`
}

// AuditProgress reports per-module completion in module order.
func AuditProgress(st *State) Progress {
	p := Progress{Modules: make([]ModuleProgress, 0, len(ModuleOrder))}
	for _, m := range ModuleOrder {
		mp := ModuleProgress{Module: m, Complete: st.Complete(m)}
		if mp.Complete {
			mp.Percent = 100
		}
		p.Modules = append(p.Modules, mp)
	}
	p.ChecklistCompleted, p.ChecklistTotal = ChecklistProgress(st)
	return p
}
