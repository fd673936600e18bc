package scenario

import (
	"fmt"
	"slices"
	"strings"
)

// PresetOptions tunes a preset. Zero values keep the preset's defaults.
type PresetOptions struct {
	Placement string
	Vms       int
}

type presetFunc func(opts PresetOptions) *Scenario

var presets = map[string]presetFunc{
	"deadline": deadlinePreset,
	"green":    greenPreset,
}

// PresetNames returns the built-in preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Preset returns a fresh copy of the named built-in scenario.
func Preset(name string, opts PresetOptions) (*Scenario, error) {
	fn, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q; valid: %s", name, strings.Join(PresetNames(), ", "))
	}
	if opts.Vms < 0 {
		return nil, fmt.Errorf("preset %q: vms must be non-negative, got %d", name, opts.Vms)
	}
	return fn(opts), nil
}

// deadlinePreset is a large homogeneous datacenter with one deadline per
// cloudlet, 50 s apart by 10 s steps.
func deadlinePreset(opts PresetOptions) *Scenario {
	vms := opts.Vms
	if vms == 0 {
		vms = 200
	}
	placement := opts.Placement
	if placement == "" {
		placement = "deadline-aware"
	}
	deadline := 50.0
	return &Scenario{
		Name:      "deadline",
		Placement: placement,
		Hosts: []HostGroup{
			{Count: 20, Pes: 8, PeMips: 2000, Ram: 32768, Bw: 10000, Storage: 1000000},
		},
		Vms: []VmGroup{
			{Count: vms, Mips: 1000, Cores: 1, Ram: 2048, Bw: 1000, Size: 10000, Scheduler: "time-shared"},
		},
		Cloudlets: []CloudletGroup{
			{Count: 500, Length: 10000, Cores: 1, Deadline: &deadline, DeadlineStep: 10},
		},
	}
}

// greenLengths is the cyclic length table (MI) of the green workload.
var greenLengths = []int64{6000, 20000, 8000, 10000, 120000, 6000, 70000, 9000, 40000, 30000}

// greenPreset is a small three-host datacenter with heterogeneous VMs
// (1000 + 100i MIPS) and a mixed-length batch. Round-robin runs on
// time-shared VMs, every other policy on space-shared ones.
func greenPreset(opts PresetOptions) *Scenario {
	vms := opts.Vms
	if vms == 0 {
		vms = 3
	}
	placement := opts.Placement
	if placement == "" {
		placement = "round-robin"
	}
	scheduler := "space-shared"
	if placement == "round-robin" {
		scheduler = "time-shared"
	}
	return &Scenario{
		Name:               "green",
		Placement:          placement,
		SchedulingInterval: 1.0,
		Hosts: []HostGroup{
			{Count: 3, Pes: 4, PeMips: 2000, Ram: 8192, Bw: 10000, Storage: 1000000},
		},
		Vms: []VmGroup{
			{Count: vms, Mips: 1000, MipsStep: 100, Cores: 1, Ram: 1024, Bw: 1000, Size: 10000, Scheduler: scheduler},
		},
		Cloudlets: []CloudletGroup{
			{Count: 200, Lengths: slices.Clone(greenLengths), Cores: 1},
		},
	}
}
