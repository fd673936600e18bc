package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/greencloud-sim/greencloud-sim/sim"
	"github.com/greencloud-sim/greencloud-sim/sim/scenario"
	"github.com/greencloud-sim/greencloud-sim/sim/trace"
)

var (
	// CLI flags shared by run and compare
	scenarioPath string  // YAML scenario file
	presetName   string  // Built-in scenario name
	policy       string  // Placement policy override
	allocation   string  // Host allocation policy override
	numVms       int     // VM count override for presets
	maxSimTime   float64 // Stop dispatching events past this time
	logLevel     string  // Log verbosity level
	outputFormat string  // text or json
	showCloudlet bool    // Print one row per cloudlet

	// CLI flags for decision tracing
	traceLevel      string // none or decisions
	counterfactualK int    // Candidate VMs kept per placement decision
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "greencloud-sim",
	Short: "Discrete-event simulator for deadline- and energy-aware cloud scheduling",
}

// runCmd executes one scenario and prints its result set
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one simulation from a scenario file or preset",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		s, err := loadScenario(scenarioPath, presetName, scenario.PresetOptions{Placement: policy, Vms: numVms})
		if err != nil {
			logrus.Fatalf("Failed to load scenario: %v", err)
		}
		applyOverrides(cmd, s)

		res, err := runWithTrace(s, traceLevel, counterfactualK)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if err := writeResult(cmd.OutOrStdout(), res, outputFormat, showCloudlet); err != nil {
			logrus.Fatalf("Failed to write result: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// presetsCmd lists the built-in scenarios
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List built-in scenarios",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range scenario.PresetNames() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// loadScenario reads a scenario file or builds a preset; exactly one must be given.
// Preset options only apply to presets.
func loadScenario(path, preset string, opts scenario.PresetOptions) (*scenario.Scenario, error) {
	switch {
	case path != "" && preset != "":
		return nil, fmt.Errorf("--scenario and --preset are mutually exclusive")
	case path != "" && opts.Vms != 0:
		return nil, fmt.Errorf("--vms only applies to --preset; set vm counts in the scenario file")
	case path != "":
		s, err := scenario.Load(path)
		if err != nil {
			return nil, err
		}
		if opts.Placement != "" {
			s.Placement = opts.Placement
		}
		return s, nil
	case preset != "":
		return scenario.Preset(preset, opts)
	default:
		return nil, fmt.Errorf("one of --scenario or --preset is required")
	}
}

// runWithTrace runs the scenario on a fresh simulator, recording decisions
// when level is "decisions".
func runWithTrace(s *scenario.Scenario, level string, k int) (*sim.Result, error) {
	if !trace.IsValidTraceLevel(level) {
		return nil, fmt.Errorf("unknown trace level %q; valid: none, decisions", level)
	}
	topo, err := s.Build()
	if err != nil {
		return nil, err
	}
	topo.Config.Trace = trace.TraceConfig{Level: trace.TraceLevel(level), CounterfactualK: k}
	simulator := topo.NewSimulator(nil)
	defer simulator.Teardown()
	return simulator.RunUntilComplete()
}

// applyOverrides copies explicitly set flags onto the scenario.
func applyOverrides(cmd *cobra.Command, s *scenario.Scenario) {
	if cmd.Flags().Changed("allocation") {
		s.Allocation = allocation
	}
	if cmd.Flags().Changed("max-sim-time") {
		s.MaxSimTime = maxSimTime
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a YAML scenario file")
	runCmd.Flags().StringVar(&presetName, "preset", "", "Built-in scenario (see 'presets')")
	runCmd.Flags().StringVar(&policy, "policy", "", "Placement policy (deadline-aware, fcfs, sjf, round-robin)")
	runCmd.Flags().StringVar(&allocation, "allocation", "", "VM allocation policy (most-free, first-fit)")
	runCmd.Flags().IntVar(&numVms, "vms", 0, "Number of VMs for --preset (0 = preset default); not allowed with --scenario")
	runCmd.Flags().Float64Var(&maxSimTime, "max-sim-time", 0, "Stop the simulation at this time in seconds (0 = unbounded)")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&outputFormat, "output", "text", "Result format (text, json)")
	runCmd.Flags().BoolVar(&showCloudlet, "cloudlets", false, "Print one line per cloudlet")
	runCmd.Flags().StringVar(&traceLevel, "trace-level", "none", "Decision tracing (none, decisions)")
	runCmd.Flags().IntVar(&counterfactualK, "counterfactual-k", 0, "Candidate VMs recorded per placement decision")

	compareCmd.Flags().StringVar(&comparePreset, "preset", "green", "Built-in scenario to compare policies on")
	compareCmd.Flags().IntSliceVar(&compareVms, "vms", []int{3, 5}, "Comma-separated VM counts")
	compareCmd.Flags().StringSliceVar(&comparePolicies, "policies", []string{"round-robin", "sjf", "fcfs"}, "Comma-separated placement policies")
	compareCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	compareCmd.Flags().StringVar(&outputFormat, "output", "text", "Result format (text, json)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(presetsCmd)
}
