// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/greencloud-sim/greencloud-sim/sim/trace"
)

// Simulator is the simulation context: it owns the clock, the event queue,
// the datacenter topology, the broker, the energy meter and the results.
// Nothing lives in package-level state, so independent Simulators can run
// side by side (e.g. one per policy in a comparison).
//
// Thread-safety: NOT thread-safe. All methods must be called from the same goroutine.
type Simulator struct {
	clock      float64
	maxSimTime float64
	interval   float64

	queue      *EventQueue
	datacenter *Datacenter
	broker     *Broker
	energy     *EnergyMeter
	metrics    *simMetrics
	trace      *trace.SimulationTrace // nil when tracing is off

	// pendingTick is the only live ProcessTickEvent; earlier-scheduled ticks
	// that were superseded are dropped when popped.
	pendingTick *ProcessTickEvent
	unplaced    []UnplacedVm

	hasRun bool
	result *Result
}

// NewSimulator creates a simulator over hosts with the strategies in cfg.
// Panics on a negative MaxSimTime or SchedulingInterval.
func NewSimulator(cfg Config, hosts []*Host) *Simulator {
	if cfg.MaxSimTime < 0 {
		panic(fmt.Sprintf("NewSimulator: MaxSimTime must be >= 0, got %v", cfg.MaxSimTime))
	}
	if cfg.SchedulingInterval < 0 {
		panic(fmt.Sprintf("NewSimulator: SchedulingInterval must be >= 0, got %v", cfg.SchedulingInterval))
	}
	cfg = cfg.withDefaults()
	maxSimTime := cfg.MaxSimTime
	if maxSimTime == 0 {
		maxSimTime = math.Inf(1)
	}
	var st *trace.SimulationTrace
	if cfg.Trace.Enabled() {
		st = trace.NewSimulationTrace(cfg.Trace)
	}
	return &Simulator{
		trace:      st,
		maxSimTime: maxSimTime,
		interval:   cfg.SchedulingInterval,
		queue:      NewEventQueue(),
		datacenter: NewDatacenter(hosts, cfg.Allocation),
		broker:     NewBroker(cfg.Placement),
		energy:     NewEnergyMeter(cfg.Power),
		metrics:    newSimMetrics(cfg.Scope),
	}
}

// Now returns the fire time of the most recently dispatched event.
func (s *Simulator) Now() float64 { return s.clock }

// Broker returns the broker used to submit VMs and cloudlets.
func (s *Simulator) Broker() *Broker { return s.broker }

// Datacenter returns the resource topology.
func (s *Simulator) Datacenter() *Datacenter { return s.datacenter }

// Energy returns the energy meter.
func (s *Simulator) Energy() *EnergyMeter { return s.energy }

// Trace returns the decision trace, or nil when tracing is off.
func (s *Simulator) Trace() *trace.SimulationTrace { return s.trace }

// PendingEvents returns the number of events not yet dispatched.
func (s *Simulator) PendingEvents() int { return s.queue.Len() }

// Schedule pushes an event into the simulator's event queue.
func (s *Simulator) Schedule(ev Event) {
	s.queue.Schedule(ev)
}

// RunUntilComplete dispatches events in (time, insertion) order until the queue
// drains, every submitted cloudlet is back at the broker, or the next event
// lies past MaxSimTime. A run cut off by MaxSimTime ends at exactly
// MaxSimTime, with energy and progress accounted up to it.
// Returns the result set.
// Panics if called more than once.
func (s *Simulator) RunUntilComplete() (*Result, error) {
	if s.hasRun {
		panic("Simulator.RunUntilComplete() called more than once")
	}
	s.hasRun = true

	logrus.Infof("Starting simulation: %d hosts, %d vms, %d cloudlets, placement=%s",
		len(s.datacenter.Hosts()), len(s.broker.vms), len(s.broker.cloudlets), s.broker.policy.Name())
	s.broker.start(s)

	for s.queue.Len() > 0 {
		if next := s.queue.Peek(); next.Timestamp() > s.maxSimTime {
			if s.clock < s.maxSimTime {
				// Hosts stay powered and cloudlets keep running until the horizon.
				s.clock = s.maxSimTime
				s.updateProcessing()
				continue
			}
			logrus.Infof("[t=%10.3f] next event at %.3f is past max sim time %.3f; stopping",
				s.clock, next.Timestamp(), s.maxSimTime)
			break
		}
		ev, err := s.queue.Next()
		if err != nil {
			return nil, fmt.Errorf("dispatch at t=%.3f: %w", s.clock, err)
		}
		if ev.Timestamp() < s.clock {
			panic(fmt.Sprintf("clock went backwards: %v < %v", ev.Timestamp(), s.clock))
		}
		s.clock = ev.Timestamp()
		s.metrics.eventsDispatched.Inc(1)
		logrus.Tracef("[t=%10.3f] executing %s", s.clock, ev.Kind())
		ev.Execute(s)

		if s.broker.done() {
			break
		}
	}

	s.metrics.reportEnergy(s.energy)
	s.result = buildResult(s.broker.policy.Name(), s.broker.received, len(s.broker.cloudlets),
		s.unplaced, s.energy, s.clock)
	s.result.Trace = s.trace
	logrus.Infof("[t=%10.3f] Simulation ended: %d succeeded, %d failed, %.3f Wh",
		s.clock, s.result.Completed, s.result.Failed, s.result.TotalEnergyWh)
	return s.result, nil
}

// Result returns the result set of the finished run.
// Panics if called before RunUntilComplete.
func (s *Simulator) Result() *Result {
	if !s.hasRun {
		panic("Simulator.Result() called before RunUntilComplete()")
	}
	return s.result
}

// Teardown releases every VM's host reservations. Call once, after the results
// have been read: utilization drops to zero afterwards.
func (s *Simulator) Teardown() {
	s.datacenter.Teardown()
}

// updateProcessing samples energy for the interval just ended, then advances
// every VM to now and sends completed cloudlets back to the broker.
// The sample comes first so the interval is charged at the utilization that held during it.
func (s *Simulator) updateProcessing() {
	now := s.clock
	s.energy.Sample(now, s.datacenter.Hosts())
	for _, c := range s.datacenter.UpdateProcessing(now) {
		s.metrics.cloudletCompleted.Inc(1)
		if !c.DeadlineMet() {
			s.metrics.cloudletDeadlineMissed.Inc(1)
			logrus.Debugf("[t=%10.3f] cloudlet %d missed deadline %.3f", now, c.ID, c.Deadline)
		}
		s.Schedule(&CloudletReturnEvent{time: now, Cloudlet: c})
	}
}

// processTick is one processing step: progress, energy, and the next tick.
func (s *Simulator) processTick() {
	s.updateProcessing()
	s.scheduleNextTick()
}

// scheduleNextTick keeps exactly one live tick at the earliest of the next
// estimated completion and, while work remains, now + SchedulingInterval.
func (s *Simulator) scheduleNextTick() {
	now := s.clock
	next := s.datacenter.NextCompletion(now)
	if s.interval > 0 && s.datacenter.ActiveCloudlets() > 0 {
		next = min(next, now+s.interval)
	}
	if math.IsInf(next, 1) {
		return
	}
	next = max(next, now)
	if s.pendingTick != nil && s.pendingTick.time <= next {
		return
	}
	tick := &ProcessTickEvent{time: next}
	s.pendingTick = tick
	s.Schedule(tick)
}

// submitToVm brings every VM up to date, then hands the cloudlet to its VM's scheduler.
func (s *Simulator) submitToVm(c *Cloudlet) {
	vm := s.datacenter.Vm(c.VmID)
	if vm == nil {
		s.failCloudlet(c, fmt.Sprintf("vm %d is not placed", c.VmID))
		return
	}
	s.updateProcessing()
	c.submit(s.clock)
	vm.Scheduler.Submit(c, s.clock)
	s.scheduleNextTick()
}

// failCloudlet marks a cloudlet Failed at setup time and returns it to the broker.
func (s *Simulator) failCloudlet(c *Cloudlet, reason string) {
	logrus.Warnf("[t=%10.3f] cloudlet %d failed: %s", s.clock, c.ID, reason)
	c.fail(s.clock, reason)
	s.metrics.cloudletFailed.Inc(1)
	s.Schedule(&CloudletReturnEvent{time: s.clock, Cloudlet: c})
}

func (s *Simulator) recordUnplaced(vm *Vm, err error) {
	s.metrics.vmRejected.Inc(1)
	s.unplaced = append(s.unplaced, UnplacedVm{VmID: vm.ID, Reason: err.Error()})
}
