package sim

import (
	"github.com/uber-go/tally/v4"

	"github.com/greencloud-sim/greencloud-sim/sim/trace"
)

// Config groups the pluggable strategies and run bounds of one simulation.
// Zero-valued fields take the defaults documented on each field.
type Config struct {
	MaxSimTime         float64           // stop dispatching events past this time; 0 = unbounded
	SchedulingInterval float64           // periodic processing ticks while work remains; 0 = only at arrivals and completions
	Placement          PlacementPolicy   // nil = fcfs
	Allocation         AllocationPolicy  // nil = most-free
	Power              PowerModel        // nil = DefaultPowerModel()
	Scope              tally.Scope       // nil = tally.NoopScope
	Trace              trace.TraceConfig // zero value = no decision trace
}

func (c Config) withDefaults() Config {
	if c.Placement == nil {
		c.Placement = NewPlacementPolicy("")
	}
	if c.Allocation == nil {
		c.Allocation = NewAllocationPolicy("")
	}
	if c.Power == nil {
		c.Power = DefaultPowerModel()
	}
	if c.Scope == nil {
		c.Scope = tally.NoopScope
	}
	return c
}
