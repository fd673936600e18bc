// Package scenario describes a simulation as data: host, VM and cloudlet
// groups plus the strategies to run them with. Scenarios come from YAML files
// or built-in presets and are turned into sim objects by Build.
package scenario

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/greencloud-sim/greencloud-sim/sim"
)

// Scenario is the top-level YAML document.
type Scenario struct {
	Name               string          `yaml:"name"`
	Placement          string          `yaml:"placement"`
	Allocation         string          `yaml:"allocation"`
	SchedulingInterval float64         `yaml:"scheduling_interval"`
	MaxSimTime         float64         `yaml:"max_sim_time"`
	Power              *PowerSpec      `yaml:"power,omitempty"`
	Hosts              []HostGroup     `yaml:"hosts"`
	Vms                []VmGroup       `yaml:"vms"`
	Cloudlets          []CloudletGroup `yaml:"cloudlets"`
}

// PowerSpec configures the linear power model shared by every host.
type PowerSpec struct {
	IdleWatts float64 `yaml:"idle_watts"`
	MaxWatts  float64 `yaml:"max_watts"`
}

// HostGroup is Count identical hosts.
type HostGroup struct {
	Count   int     `yaml:"count"`
	Pes     int     `yaml:"pes"`
	PeMips  float64 `yaml:"pe_mips"`
	Ram     int64   `yaml:"ram"`
	Bw      int64   `yaml:"bw"`
	Storage int64   `yaml:"storage"`
}

// VmGroup is Count VMs. The i-th VM of the group requests Mips + i*MipsStep per core.
type VmGroup struct {
	Count     int     `yaml:"count"`
	Mips      float64 `yaml:"mips"`
	MipsStep  float64 `yaml:"mips_step,omitempty"`
	Cores     int     `yaml:"cores"`
	Ram       int64   `yaml:"ram"`
	Bw        int64   `yaml:"bw"`
	Size      int64   `yaml:"size"`
	Scheduler string  `yaml:"scheduler,omitempty"`
}

// CloudletGroup is Count cloudlets. The i-th cloudlet of the group has length
// Lengths[i mod len(Lengths)] (or Length when Lengths is empty), deadline
// Deadline + i*DeadlineStep when Deadline is set, and arrival Arrival + i*ArrivalStep.
type CloudletGroup struct {
	Count        int      `yaml:"count"`
	Length       int64    `yaml:"length,omitempty"`
	Lengths      []int64  `yaml:"lengths,omitempty"`
	Cores        int      `yaml:"cores,omitempty"`
	Deadline     *float64 `yaml:"deadline,omitempty"`
	DeadlineStep float64  `yaml:"deadline_step,omitempty"`
	Arrival      float64  `yaml:"arrival,omitempty"`
	ArrivalStep  float64  `yaml:"arrival_step,omitempty"`
	Vm           *int     `yaml:"vm,omitempty"` // pre-bind every cloudlet of the group to this VM ID
}

// Load reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML scenario document with strict field checking.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &s, nil
}

// Validate checks every field and returns all problems found, combined with multierr.
func (s *Scenario) Validate() error {
	var errs error
	if !sim.IsValidPlacementPolicy(s.Placement) {
		errs = multierr.Append(errs, fmt.Errorf("unknown placement %q; valid: deadline-aware, fcfs, sjf, round-robin", s.Placement))
	}
	if !sim.IsValidAllocationPolicy(s.Allocation) {
		errs = multierr.Append(errs, fmt.Errorf("unknown allocation %q; valid: most-free, first-fit", s.Allocation))
	}
	errs = multierr.Append(errs, validateNonNegative("scheduling_interval", s.SchedulingInterval))
	errs = multierr.Append(errs, validateNonNegative("max_sim_time", s.MaxSimTime))
	if s.Power != nil {
		errs = multierr.Append(errs, validateNonNegative("power.idle_watts", s.Power.IdleWatts))
		if s.Power.MaxWatts < s.Power.IdleWatts {
			errs = multierr.Append(errs, fmt.Errorf("power.max_watts (%v) must be >= idle_watts (%v)", s.Power.MaxWatts, s.Power.IdleWatts))
		}
	}
	if len(s.Hosts) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("at least one host group required"))
	}
	for i, h := range s.Hosts {
		errs = multierr.Append(errs, h.validate(fmt.Sprintf("hosts[%d]", i)))
	}
	for i, v := range s.Vms {
		errs = multierr.Append(errs, v.validate(fmt.Sprintf("vms[%d]", i)))
	}
	for i, c := range s.Cloudlets {
		errs = multierr.Append(errs, c.validate(fmt.Sprintf("cloudlets[%d]", i)))
	}
	return errs
}

func (h HostGroup) validate(prefix string) error {
	var errs error
	errs = multierr.Append(errs, validatePositiveInt(prefix+".count", h.Count))
	errs = multierr.Append(errs, validatePositiveInt(prefix+".pes", h.Pes))
	errs = multierr.Append(errs, validateFinitePositive(prefix+".pe_mips", h.PeMips))
	errs = multierr.Append(errs, validateNonNegativeInt64(prefix+".ram", h.Ram))
	errs = multierr.Append(errs, validateNonNegativeInt64(prefix+".bw", h.Bw))
	errs = multierr.Append(errs, validateNonNegativeInt64(prefix+".storage", h.Storage))
	return errs
}

func (v VmGroup) validate(prefix string) error {
	var errs error
	errs = multierr.Append(errs, validatePositiveInt(prefix+".count", v.Count))
	errs = multierr.Append(errs, validatePositiveInt(prefix+".cores", v.Cores))
	errs = multierr.Append(errs, validateFinitePositive(prefix+".mips", v.Mips))
	if v.Count > 0 {
		// the last VM of the group must still request positive MIPS
		if last := v.Mips + float64(v.Count-1)*v.MipsStep; last <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("%s: mips_step drives vm %d to %v MIPS", prefix, v.Count-1, last))
		}
	}
	errs = multierr.Append(errs, validateNonNegativeInt64(prefix+".ram", v.Ram))
	errs = multierr.Append(errs, validateNonNegativeInt64(prefix+".bw", v.Bw))
	errs = multierr.Append(errs, validateNonNegativeInt64(prefix+".size", v.Size))
	if !sim.IsValidCloudletScheduler(v.Scheduler) {
		errs = multierr.Append(errs, fmt.Errorf("%s: unknown scheduler %q; valid: time-shared, space-shared", prefix, v.Scheduler))
	}
	return errs
}

func (c CloudletGroup) validate(prefix string) error {
	var errs error
	errs = multierr.Append(errs, validatePositiveInt(prefix+".count", c.Count))
	if c.Length != 0 && len(c.Lengths) > 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s: set length or lengths, not both", prefix))
	}
	errs = multierr.Append(errs, validateNonNegativeInt64(prefix+".length", c.Length))
	for i, l := range c.Lengths {
		errs = multierr.Append(errs, validateNonNegativeInt64(fmt.Sprintf("%s.lengths[%d]", prefix, i), l))
	}
	if c.Cores < 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s.cores must be non-negative, got %d", prefix, c.Cores))
	}
	if c.Deadline != nil {
		errs = multierr.Append(errs, validateNonNegative(prefix+".deadline", *c.Deadline))
	}
	errs = multierr.Append(errs, validateNonNegative(prefix+".arrival", c.Arrival))
	errs = multierr.Append(errs, validateNonNegative(prefix+".arrival_step", c.ArrivalStep))
	if math.IsNaN(c.DeadlineStep) || math.IsInf(c.DeadlineStep, 0) {
		errs = multierr.Append(errs, fmt.Errorf("%s.deadline_step must be a finite number, got %f", prefix, c.DeadlineStep))
	}
	return errs
}

func validatePositiveInt(name string, val int) error {
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, val)
	}
	return nil
}

func validateNonNegativeInt64(name string, val int64) error {
	if val < 0 {
		return fmt.Errorf("%s must be non-negative, got %d", name, val)
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}

func validateNonNegative(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val < 0 {
		return fmt.Errorf("%s must be non-negative, got %f", name, val)
	}
	return nil
}
