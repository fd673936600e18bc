package sim

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/greencloud-sim/greencloud-sim/sim/trace"
)

// CloudletResult is the reportable outcome of one terminal cloudlet.
type CloudletResult struct {
	ID             int            `json:"id"`
	VmID           int            `json:"vm_id"`
	Status         CloudletStatus `json:"status"`
	Length         int64          `json:"length"`
	HasDeadline    bool           `json:"has_deadline"`
	Deadline       float64        `json:"deadline,omitempty"`
	SubmissionTime float64        `json:"submission_time"`
	ExecStartTime  float64        `json:"exec_start_time"`
	FinishTime     float64        `json:"finish_time"`
	ExecTime       float64        `json:"exec_time"`
	DeadlineMet    bool           `json:"deadline_met"`
	FailureReason  string         `json:"failure_reason,omitempty"`
}

// UnplacedVm records a VM no host could admit.
type UnplacedVm struct {
	VmID   int    `json:"vm_id"`
	Reason string `json:"reason"`
}

// Result is the queryable result set of a finished run.
type Result struct {
	Policy          string                 `json:"policy"`
	Cloudlets       []CloudletResult       `json:"cloudlets"`        // in the order the broker received them
	Unplaced        []UnplacedVm           `json:"unplaced_vms"`
	HostEnergyWh    map[int]float64        `json:"host_energy_wh"`
	TotalEnergyWh   float64                `json:"total_energy_wh"`
	Makespan        float64                `json:"makespan"`
	AvgExecTime     float64                `json:"avg_exec_time"`
	Completed       int                    `json:"completed"`
	Failed          int                    `json:"failed"`
	DeadlinesMissed int                    `json:"deadlines_missed"`
	Unfinished      int                    `json:"unfinished"`       // cloudlets cut off by MaxSimTime
	EndTime         float64                `json:"end_time"`
	Samples         []EnergySample         `json:"-"`
	Trace           *trace.SimulationTrace `json:"-"`                // nil unless decision tracing was on
}

func newCloudletResult(c *Cloudlet) CloudletResult {
	r := CloudletResult{
		ID:             c.ID,
		VmID:           c.VmID,
		Status:         c.Status,
		Length:         c.Length,
		HasDeadline:    c.HasDeadline(),
		SubmissionTime: c.SubmissionTime,
		ExecStartTime:  c.ExecStartTime,
		FinishTime:     c.FinishTime,
		ExecTime:       c.ActualCPUTime(),
		DeadlineMet:    c.DeadlineMet(),
		FailureReason:  c.FailureReason,
	}
	if r.HasDeadline {
		r.Deadline = c.Deadline
	}
	return r
}

// buildResult summarizes received cloudlets and the energy meter.
// Makespan is the latest finish among successes; AvgExecTime their mean FinishTime - ExecStartTime.
func buildResult(policy string, received []*Cloudlet, submitted int, unplaced []UnplacedVm,
	meter *EnergyMeter, endTime float64) *Result {
	res := &Result{
		Policy:        policy,
		Cloudlets:     make([]CloudletResult, 0, len(received)),
		Unplaced:      unplaced,
		HostEnergyWh:  meter.HostTotals(),
		TotalEnergyWh: meter.TotalWh(),
		Unfinished:    submitted - len(received),
		EndTime:       endTime,
		Samples:       meter.Samples(),
	}
	var finishTimes, execTimes []float64
	for _, c := range received {
		cr := newCloudletResult(c)
		res.Cloudlets = append(res.Cloudlets, cr)
		switch c.Status {
		case StatusSuccess:
			res.Completed++
			finishTimes = append(finishTimes, c.FinishTime)
			execTimes = append(execTimes, cr.ExecTime)
			if !cr.DeadlineMet {
				res.DeadlinesMissed++
			}
		case StatusFailed:
			res.Failed++
		}
	}
	if len(finishTimes) > 0 {
		res.Makespan = floats.Max(finishTimes)
		res.AvgExecTime = stat.Mean(execTimes, nil)
	}
	return res
}

// HostEnergySum returns the sum of per-host totals; equals TotalEnergyWh within float tolerance.
func (r *Result) HostEnergySum() float64 {
	ids := make([]int, 0, len(r.HostEnergyWh))
	for id := range r.HostEnergyWh {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	vals := make([]float64, len(ids))
	for i, id := range ids {
		vals[i] = r.HostEnergyWh[id]
	}
	return floats.Sum(vals)
}

// DeadlineMetRatio returns the fraction of deadline-constrained successes that met it.
// Returns 1 when no cloudlet carries a deadline.
func (r *Result) DeadlineMetRatio() float64 {
	constrained, met := 0, 0
	for _, c := range r.Cloudlets {
		if c.Status != StatusSuccess || !c.HasDeadline {
			continue
		}
		constrained++
		if c.DeadlineMet {
			met++
		}
	}
	if constrained == 0 {
		return 1
	}
	return float64(met) / float64(constrained)
}
