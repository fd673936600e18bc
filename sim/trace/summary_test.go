package trace

import "testing"

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.TotalAdmissions != 0 || summary.TotalPlacements != 0 {
		t.Errorf("expected 0 decisions, got %d admissions, %d placements", summary.TotalAdmissions, summary.TotalPlacements)
	}
	if summary.AdmittedCount != 0 || summary.RejectedCount != 0 {
		t.Error("expected 0 admitted and rejected")
	}
	if summary.UniqueTargets != 0 {
		t.Errorf("expected 0 unique targets, got %d", summary.UniqueTargets)
	}
	if summary.MeanRegret != 0 || summary.MaxRegret != 0 {
		t.Error("expected 0 regret values")
	}
	if len(summary.TargetDistribution) != 0 {
		t.Error("expected empty target distribution")
	}
}

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if summary.TotalPlacements != 0 || summary.TargetDistribution == nil {
		t.Errorf("unexpected summary for nil trace: %+v", summary)
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with mixed admission and placement records
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordAdmission(AdmissionRecord{VmID: 0, Admitted: true, HostID: 0})
	st.RecordAdmission(AdmissionRecord{VmID: 1, Admitted: false, HostID: -1, Reason: "insufficient capacity"})
	st.RecordAdmission(AdmissionRecord{VmID: 2, Admitted: true, HostID: 1})
	st.RecordPlacement(PlacementRecord{CloudletID: 0, ChosenVm: 0, Regret: 1})
	st.RecordPlacement(PlacementRecord{CloudletID: 1, ChosenVm: 2, Regret: 3})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts match
	if summary.TotalAdmissions != 3 {
		t.Errorf("expected 3 admissions, got %d", summary.TotalAdmissions)
	}
	if summary.AdmittedCount != 2 {
		t.Errorf("expected 2 admitted, got %d", summary.AdmittedCount)
	}
	if summary.RejectedCount != 1 {
		t.Errorf("expected 1 rejected, got %d", summary.RejectedCount)
	}
	if summary.TotalPlacements != 2 {
		t.Errorf("expected 2 placements, got %d", summary.TotalPlacements)
	}
	if summary.UniqueTargets != 2 {
		t.Errorf("expected 2 unique targets, got %d", summary.UniqueTargets)
	}
}

func TestSummarize_RegretStatistics_CorrectMeanAndMax(t *testing.T) {
	// GIVEN placement records with known regrets
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordPlacement(PlacementRecord{CloudletID: 1, ChosenVm: 0, Regret: 1})
	st.RecordPlacement(PlacementRecord{CloudletID: 2, ChosenVm: 0, Regret: 5})
	st.RecordPlacement(PlacementRecord{CloudletID: 3, ChosenVm: 1, Regret: 2})

	// WHEN summarized
	summary := Summarize(st)

	// THEN mean regret = (1 + 5 + 2) / 3
	expectedMean := 8.0 / 3.0
	if summary.MeanRegret < expectedMean-0.001 || summary.MeanRegret > expectedMean+0.001 {
		t.Errorf("expected mean regret ~%.4f, got %.4f", expectedMean, summary.MeanRegret)
	}

	// THEN max regret = 5
	if summary.MaxRegret != 5 {
		t.Errorf("expected max regret 5, got %.4f", summary.MaxRegret)
	}
}

func TestSummarize_TargetDistribution_CountsPerVm(t *testing.T) {
	// GIVEN placements to the same VM multiple times
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordPlacement(PlacementRecord{CloudletID: 1, ChosenVm: 0})
	st.RecordPlacement(PlacementRecord{CloudletID: 2, ChosenVm: 0})
	st.RecordPlacement(PlacementRecord{CloudletID: 3, ChosenVm: 4})

	// WHEN summarized
	summary := Summarize(st)

	// THEN target distribution reflects counts
	if summary.TargetDistribution[0] != 2 {
		t.Errorf("expected vm 0 count 2, got %d", summary.TargetDistribution[0])
	}
	if summary.TargetDistribution[4] != 1 {
		t.Errorf("expected vm 4 count 1, got %d", summary.TargetDistribution[4])
	}
}
