package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/greencloud-sim/greencloud-sim/sim"
	"github.com/greencloud-sim/greencloud-sim/sim/scenario"
)

var (
	comparePreset   string   // Built-in scenario to compare on
	compareVms      []int    // VM counts to sweep
	comparePolicies []string // Placement policies to sweep
)

// ComparisonRow is the summary of one (VM count, policy) run.
type ComparisonRow struct {
	Vms             int     `json:"vms"`
	Policy          string  `json:"policy"`
	Completed       int     `json:"completed"`
	Failed          int     `json:"failed"`
	DeadlinesMissed int     `json:"deadlines_missed"`
	Makespan        float64 `json:"makespan"`
	AvgExecTime     float64 `json:"avg_exec_time"`
	TotalEnergyWh   float64 `json:"total_energy_wh"`
}

// compareCmd runs one preset under several policies and VM counts
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare placement policies on a preset across VM counts",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		rows, err := comparePolicyRuns(comparePreset, compareVms, comparePolicies)
		if err != nil {
			logrus.Fatalf("Comparison failed: %v", err)
		}
		if err := writeComparison(cmd.OutOrStdout(), rows, outputFormat); err != nil {
			logrus.Fatalf("Failed to write comparison: %v", err)
		}
	},
}

// comparePolicyRuns runs the preset once per (VM count, policy) pair, each on
// a fresh simulator, in the order given.
func comparePolicyRuns(preset string, vmCounts []int, policies []string) ([]ComparisonRow, error) {
	for _, p := range policies {
		if !sim.IsValidPlacementPolicy(p) || p == "" {
			return nil, fmt.Errorf("unknown placement policy %q", p)
		}
	}
	var rows []ComparisonRow
	for _, n := range vmCounts {
		for _, p := range policies {
			s, err := scenario.Preset(preset, scenario.PresetOptions{Placement: p, Vms: n})
			if err != nil {
				return nil, err
			}
			res, err := s.Run(nil)
			if err != nil {
				return nil, fmt.Errorf("%s with %d vms: %w", p, n, err)
			}
			logrus.Infof("compare: %s vms=%d makespan=%.2f energy=%.3fWh", p, n, res.Makespan, res.TotalEnergyWh)
			rows = append(rows, ComparisonRow{
				Vms:             n,
				Policy:          res.Policy,
				Completed:       res.Completed,
				Failed:          res.Failed,
				DeadlinesMissed: res.DeadlinesMissed,
				Makespan:        res.Makespan,
				AvgExecTime:     res.AvgExecTime,
				TotalEnergyWh:   res.TotalEnergyWh,
			})
		}
	}
	return rows, nil
}
