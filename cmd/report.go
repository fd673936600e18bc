// Prints result sets and policy comparisons as text or JSON.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/greencloud-sim/greencloud-sim/sim"
	"github.com/greencloud-sim/greencloud-sim/sim/trace"
)

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeResult prints one run. With perCloudlet, the text form adds a table
// row for every cloudlet in the order the broker received them.
func writeResult(w io.Writer, res *sim.Result, format string, perCloudlet bool) error {
	switch format {
	case "json":
		return writeJSON(w, res)
	case "text", "":
	default:
		return fmt.Errorf("unknown output format %q; valid: text, json", format)
	}

	fmt.Fprintln(w, "=== Simulation Result ===")
	fmt.Fprintf(w, "Placement Policy     : %s\n", res.Policy)
	fmt.Fprintf(w, "Completed Cloudlets  : %d\n", res.Completed)
	fmt.Fprintf(w, "Failed Cloudlets     : %d\n", res.Failed)
	if res.Unfinished > 0 {
		fmt.Fprintf(w, "Unfinished Cloudlets : %d\n", res.Unfinished)
	}
	fmt.Fprintf(w, "Deadlines Missed     : %d\n", res.DeadlinesMissed)
	fmt.Fprintf(w, "Makespan             : %.2f s\n", res.Makespan)
	fmt.Fprintf(w, "Average Exec Time    : %.2f s\n", res.AvgExecTime)
	fmt.Fprintf(w, "Total Energy         : %.4f Wh\n", res.TotalEnergyWh)
	fmt.Fprintf(w, "Simulation End Time  : %.2f s\n", res.EndTime)
	for _, u := range res.Unplaced {
		fmt.Fprintf(w, "Unplaced VM %d: %s\n", u.VmID, u.Reason)
	}

	if res.Trace != nil {
		ts := trace.Summarize(res.Trace)
		fmt.Fprintf(w, "VM Admissions        : %d admitted, %d rejected\n", ts.AdmittedCount, ts.RejectedCount)
		fmt.Fprintf(w, "Placement Regret     : mean %.2f s, max %.2f s over %d decisions\n",
			ts.MeanRegret, ts.MaxRegret, ts.TotalPlacements)
		fmt.Fprintf(w, "VMs Targeted         : %d\n", ts.UniqueTargets)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\nHost\tEnergy (Wh)")
	for _, id := range sortedHostIDs(res.HostEnergyWh) {
		fmt.Fprintf(tw, "%d\t%.4f\n", id, res.HostEnergyWh[id])
	}
	if perCloudlet {
		fmt.Fprintln(tw, "\nCloudlet\tStatus\tVM\tStart\tFinish\tDeadline\tMet")
		for _, c := range res.Cloudlets {
			deadline := "-"
			if c.HasDeadline {
				deadline = fmt.Sprintf("%.2f", c.Deadline)
			}
			fmt.Fprintf(tw, "%d\t%s\t%d\t%.2f\t%.2f\t%s\t%t\n",
				c.ID, c.Status, c.VmID, c.ExecStartTime, c.FinishTime, deadline, c.DeadlineMet)
		}
	}
	return tw.Flush()
}

// writeComparison prints one row per (VM count, policy) run.
func writeComparison(w io.Writer, rows []ComparisonRow, format string) error {
	switch format {
	case "json":
		return writeJSON(w, rows)
	case "text", "":
	default:
		return fmt.Errorf("unknown output format %q; valid: text, json", format)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VMs\tPolicy\tCompleted\tFailed\tMakespan (s)\tAvg Exec (s)\tEnergy (Wh)")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%.2f\t%.2f\t%.4f\n",
			r.Vms, r.Policy, r.Completed, r.Failed, r.Makespan, r.AvgExecTime, r.TotalEnergyWh)
	}
	return tw.Flush()
}

func sortedHostIDs(m map[int]float64) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
