package trace

// AdmissionRecord captures one VM admission attempt at the datacenter.
type AdmissionRecord struct {
	VmID     int
	Clock    float64
	Admitted bool
	HostID   int // -1 when rejected
	Reason   string
}

// CandidateScore is one VM a cloudlet could have been placed on, scored by
// the whole-second finish estimate had it gone there.
type CandidateScore struct {
	VmID            int
	EstimatedFinish float64
	Assigned        int // cloudlets already placed on the VM
}

// PlacementRecord captures a single placement decision with optional counterfactual analysis.
type PlacementRecord struct {
	CloudletID int
	Clock      float64
	ChosenVm   int
	Policy     string
	Estimates  map[int]float64  // VM ID -> estimated finish for every candidate
	Candidates []CandidateScore // top-k by ascending estimate (nil if k=0)
	Regret     float64          // estimate(chosen) - min(estimates); 0 if chosen is best
}
