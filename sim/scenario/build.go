package scenario

import (
	"fmt"

	"github.com/uber-go/tally/v4"

	"github.com/greencloud-sim/greencloud-sim/sim"
)

// Topology is a scenario materialized into fresh sim objects. Host, VM and
// cloudlet IDs are assigned sequentially from 0 across groups, in group order.
type Topology struct {
	Hosts     []*sim.Host
	Vms       []*sim.Vm
	Cloudlets []*sim.Cloudlet
	Config    sim.Config
}

// Build validates the scenario and creates its hosts, VMs, cloudlets and
// simulator config. Every call returns independent objects.
func (s *Scenario) Build() (*Topology, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	t := &Topology{
		Config: sim.Config{
			MaxSimTime:         s.MaxSimTime,
			SchedulingInterval: s.SchedulingInterval,
			Placement:          sim.NewPlacementPolicy(s.Placement),
			Allocation:         sim.NewAllocationPolicy(s.Allocation),
		},
	}
	if s.Power != nil {
		t.Config.Power = sim.LinearPowerModel{IdleWatts: s.Power.IdleWatts, MaxWatts: s.Power.MaxWatts}
	}

	for _, g := range s.Hosts {
		for range g.Count {
			t.Hosts = append(t.Hosts, sim.NewUniformHost(len(t.Hosts), g.Pes, g.PeMips, g.Ram, g.Bw, g.Storage))
		}
	}
	for _, g := range s.Vms {
		for i := range g.Count {
			mips := g.Mips + float64(i)*g.MipsStep
			t.Vms = append(t.Vms, sim.NewVm(len(t.Vms), mips, g.Cores, g.Ram, g.Bw, g.Size,
				sim.NewCloudletScheduler(g.Scheduler)))
		}
	}
	for _, g := range s.Cloudlets {
		for i := range g.Count {
			t.Cloudlets = append(t.Cloudlets, g.cloudlet(len(t.Cloudlets), i))
		}
	}
	return t, nil
}

func (g CloudletGroup) cloudlet(id, i int) *sim.Cloudlet {
	length := g.Length
	if len(g.Lengths) > 0 {
		length = g.Lengths[i%len(g.Lengths)]
	}
	c := sim.NewCloudlet(id, length, max(g.Cores, 1))
	if g.Deadline != nil {
		c.WithDeadline(*g.Deadline + float64(i)*g.DeadlineStep)
	}
	c.ArrivalTime = g.Arrival + float64(i)*g.ArrivalStep
	if g.Vm != nil {
		c.VmID = *g.Vm
	}
	return c
}

// NewSimulator creates a simulator over the topology with VMs and cloudlets
// already submitted to its broker. scope may be nil.
func (t *Topology) NewSimulator(scope tally.Scope) *sim.Simulator {
	cfg := t.Config
	cfg.Scope = scope
	s := sim.NewSimulator(cfg, t.Hosts)
	s.Broker().SubmitVms(t.Vms)
	s.Broker().SubmitCloudlets(t.Cloudlets)
	return s
}

// Run builds the scenario and runs it to completion on a fresh simulator.
func (s *Scenario) Run(scope tally.Scope) (*sim.Result, error) {
	t, err := s.Build()
	if err != nil {
		return nil, err
	}
	simulator := t.NewSimulator(scope)
	defer simulator.Teardown()
	return simulator.RunUntilComplete()
}
