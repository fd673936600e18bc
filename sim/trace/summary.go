package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalAdmissions    int
	AdmittedCount      int
	RejectedCount      int
	TotalPlacements    int
	MeanRegret         float64
	MaxRegret          float64
	UniqueTargets      int
	TargetDistribution map[int]int // VM ID -> cloudlets placed on it
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TargetDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalAdmissions = len(st.Admissions)
	for _, a := range st.Admissions {
		if a.Admitted {
			summary.AdmittedCount++
		} else {
			summary.RejectedCount++
		}
	}

	summary.TotalPlacements = len(st.Placements)
	if len(st.Placements) > 0 {
		totalRegret := 0.0
		for _, p := range st.Placements {
			summary.TargetDistribution[p.ChosenVm]++
			totalRegret += p.Regret
			if p.Regret > summary.MaxRegret {
				summary.MaxRegret = p.Regret
			}
		}
		summary.MeanRegret = totalRegret / float64(len(st.Placements))
	}

	summary.UniqueTargets = len(summary.TargetDistribution)

	return summary
}
