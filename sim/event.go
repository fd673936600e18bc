package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/greencloud-sim/greencloud-sim/sim/trace"
)

// EventKind names the type of a simulation event. Used for logging and tests.
type EventKind string

const (
	EventVmCreate         EventKind = "VmCreate"
	EventCloudletDispatch EventKind = "CloudletDispatch"
	EventCloudletArrival  EventKind = "CloudletArrival"
	EventProcessTick      EventKind = "ProcessTick"
	EventCloudletReturn   EventKind = "CloudletReturn"
)

// Event defines the interface for all simulation events.
// Each event has a fire time (in simulated seconds) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() float64
	Kind() EventKind
	Execute(*Simulator)
}

// VmCreateEvent asks the datacenter to place a VM on a host.
type VmCreateEvent struct {
	time float64
	Vm   *Vm
}

func (e *VmCreateEvent) Timestamp() float64 { return e.time }
func (e *VmCreateEvent) Kind() EventKind    { return EventVmCreate }

// Execute admits the VM or records it as unplaced.
func (e *VmCreateEvent) Execute(s *Simulator) {
	if err := s.datacenter.CreateVm(e.Vm); err != nil {
		logrus.Warnf("[t=%10.3f] vm %d rejected: %v", e.time, e.Vm.ID, err)
		s.recordUnplaced(e.Vm, err)
		if s.trace != nil {
			s.trace.RecordAdmission(trace.AdmissionRecord{VmID: e.Vm.ID, Clock: e.time, HostID: -1, Reason: err.Error()})
		}
		return
	}
	s.metrics.vmAdmitted.Inc(1)
	if s.trace != nil {
		s.trace.RecordAdmission(trace.AdmissionRecord{VmID: e.Vm.ID, Clock: e.time, Admitted: true, HostID: e.Vm.HostID()})
	}
	logrus.Debugf("[t=%10.3f] vm %d placed on host %d", e.time, e.Vm.ID, e.Vm.HostID())
}

// CloudletDispatchEvent runs the broker's placement pass once all VM creation
// events queued before it have been handled.
type CloudletDispatchEvent struct {
	time float64
}

func (e *CloudletDispatchEvent) Timestamp() float64 { return e.time }
func (e *CloudletDispatchEvent) Kind() EventKind    { return EventCloudletDispatch }

func (e *CloudletDispatchEvent) Execute(s *Simulator) {
	s.broker.dispatch(s)
}

// CloudletArrivalEvent hands a bound cloudlet to its VM's scheduler.
type CloudletArrivalEvent struct {
	time     float64
	Cloudlet *Cloudlet
}

func (e *CloudletArrivalEvent) Timestamp() float64 { return e.time }
func (e *CloudletArrivalEvent) Kind() EventKind    { return EventCloudletArrival }

func (e *CloudletArrivalEvent) Execute(s *Simulator) {
	logrus.Debugf("[t=%10.3f] << arrival: cloudlet %d -> vm %d", e.time, e.Cloudlet.ID, e.Cloudlet.VmID)
	s.submitToVm(e.Cloudlet)
}

// ProcessTickEvent advances every VM's cloudlets to the current time and
// samples energy. Only the most recently scheduled tick is live; superseded
// ticks are dropped when popped.
type ProcessTickEvent struct {
	time float64
}

func (e *ProcessTickEvent) Timestamp() float64 { return e.time }
func (e *ProcessTickEvent) Kind() EventKind    { return EventProcessTick }

func (e *ProcessTickEvent) Execute(s *Simulator) {
	if s.pendingTick != e {
		return
	}
	s.pendingTick = nil
	s.processTick()
}

// CloudletReturnEvent delivers a terminal cloudlet back to the broker.
type CloudletReturnEvent struct {
	time     float64
	Cloudlet *Cloudlet
}

func (e *CloudletReturnEvent) Timestamp() float64 { return e.time }
func (e *CloudletReturnEvent) Kind() EventKind    { return EventCloudletReturn }

func (e *CloudletReturnEvent) Execute(s *Simulator) {
	logrus.Debugf("[t=%10.3f] >> return: cloudlet %d (%s)", e.time, e.Cloudlet.ID, e.Cloudlet.Status)
	s.broker.receive(e.Cloudlet)
}
