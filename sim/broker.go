package sim

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/greencloud-sim/greencloud-sim/sim/trace"
)

// Broker is the seam between scenario setup and the simulation core. It
// submits VMs and cloudlets, applies the placement policy, and collects
// cloudlets as they reach a terminal state.
//
// Thread-safety: NOT thread-safe. All methods must be called from the same goroutine.
type Broker struct {
	policy PlacementPolicy

	vms       []*Vm
	vmByID    map[int]*Vm
	cloudlets []*Cloudlet
	byID      map[int]*Cloudlet

	received   []*Cloudlet
	started    bool
	dispatched bool
}

// NewBroker creates a broker that places unbound cloudlets with policy.
func NewBroker(policy PlacementPolicy) *Broker {
	return &Broker{
		policy: policy,
		vmByID: make(map[int]*Vm),
		byID:   make(map[int]*Cloudlet),
	}
}

// Policy returns the placement policy in use.
func (b *Broker) Policy() PlacementPolicy { return b.policy }

// SubmitVms queues VMs for creation at time 0, in the given order.
// Panics on a duplicate VM ID or if the simulation already started.
func (b *Broker) SubmitVms(vms []*Vm) {
	b.mustNotBeStarted("SubmitVms")
	for _, vm := range vms {
		if _, dup := b.vmByID[vm.ID]; dup {
			panic(fmt.Sprintf("SubmitVms: duplicate vm ID %d", vm.ID))
		}
		b.vmByID[vm.ID] = vm
		b.vms = append(b.vms, vm)
	}
}

// SubmitCloudlets queues cloudlets for placement and arrival.
// Panics on a duplicate cloudlet ID or if the simulation already started.
func (b *Broker) SubmitCloudlets(cloudlets []*Cloudlet) {
	b.mustNotBeStarted("SubmitCloudlets")
	for _, c := range cloudlets {
		if _, dup := b.byID[c.ID]; dup {
			panic(fmt.Sprintf("SubmitCloudlets: duplicate cloudlet ID %d", c.ID))
		}
		b.byID[c.ID] = c
		b.cloudlets = append(b.cloudlets, c)
	}
}

// BindCloudletToVm forces a placement, overriding the policy's choice for that
// cloudlet. Both must have been submitted. Returns ErrInvalidRebinding, keeping
// the old binding, once the cloudlet has entered execution.
func (b *Broker) BindCloudletToVm(cloudletID, vmID int) error {
	c, ok := b.byID[cloudletID]
	if !ok {
		return fmt.Errorf("bind cloudlet %d: %w", cloudletID, ErrUnknownCloudlet)
	}
	if _, ok := b.vmByID[vmID]; !ok {
		return fmt.Errorf("bind cloudlet %d to vm %d: %w", cloudletID, vmID, ErrUnknownVm)
	}
	if c.BindingLocked() {
		return fmt.Errorf("bind cloudlet %d to vm %d (bound to vm %d, %s): %w",
			cloudletID, vmID, c.VmID, c.Status, ErrInvalidRebinding)
	}
	c.VmID = vmID
	return nil
}

// ReceivedCloudlets returns terminal cloudlets in the order they came back.
func (b *Broker) ReceivedCloudlets() []*Cloudlet {
	return slices.Clone(b.received)
}

// Cloudlets returns every submitted cloudlet in submission order.
func (b *Broker) Cloudlets() []*Cloudlet {
	return slices.Clone(b.cloudlets)
}

// Vms returns every submitted VM in submission order, placed or not.
func (b *Broker) Vms() []*Vm {
	return slices.Clone(b.vms)
}

// done reports whether every submitted cloudlet has been received.
func (b *Broker) done() bool {
	return b.dispatched && len(b.received) == len(b.cloudlets)
}

func (b *Broker) mustNotBeStarted(op string) {
	if b.started {
		panic(op + ": simulation already started")
	}
}

// start queues one creation event per VM, then a dispatch event behind them at
// the same instant so placement sees the final topology.
func (b *Broker) start(s *Simulator) {
	b.started = true
	for _, vm := range b.vms {
		s.Schedule(&VmCreateEvent{time: 0, Vm: vm})
	}
	s.Schedule(&CloudletDispatchEvent{time: 0})
}

// dispatch binds every cloudlet and schedules its arrival. Cloudlets that
// cannot run anywhere fail here, before consuming any capacity.
func (b *Broker) dispatch(s *Simulator) {
	b.dispatched = true
	now := s.Now()
	created := make([]*Vm, 0, len(b.vms))
	for _, vm := range b.vms {
		if vm.IsPlaced() {
			created = append(created, vm)
		}
	}

	var observe placementObserver
	if s.trace != nil {
		observe = func(c *Cloudlet, vmID int, vms []*Vm, assignment Assignment) {
			s.trace.RecordPlacement(newPlacementRecord(c, vmID, vms, assignment, b.policy.Name(), now, s.trace.Config.CounterfactualK))
		}
	}
	ordered, binding := plan(b.policy, b.cloudlets, created, observe)
	for _, c := range ordered {
		vmID, ok := binding[c.ID]
		if !ok {
			reason := "no vm available"
			if c.VmID != Unbound {
				reason = fmt.Sprintf("bound vm %d was never placed", c.VmID)
			}
			s.failCloudlet(c, reason)
			continue
		}
		c.VmID = vmID
		s.Schedule(&CloudletArrivalEvent{time: max(c.ArrivalTime, now), Cloudlet: c})
	}
	logrus.Infof("[t=%10.3f] %s placed %d cloudlets on %d vms", now, b.policy.Name(), len(binding), len(created))
}

func (b *Broker) receive(c *Cloudlet) {
	b.received = append(b.received, c)
}

// newPlacementRecord scores every candidate VM by the finish estimate the
// cloudlet would get there. Regret is how much later the chosen VM's estimate
// is than the best one; deadline-aware placement always has zero regret.
func newPlacementRecord(c *Cloudlet, vmID int, vms []*Vm, assignment Assignment,
	policy string, now float64, k int) trace.PlacementRecord {
	estimates := make(map[int]float64, len(vms))
	candidates := make([]trace.CandidateScore, 0, len(vms))
	best := math.Inf(1)
	for _, vm := range vms {
		est := float64(EstimatedFinishTime(assignment[vm.ID], c, vm))
		estimates[vm.ID] = est
		best = min(best, est)
		candidates = append(candidates, trace.CandidateScore{
			VmID:            vm.ID,
			EstimatedFinish: est,
			Assigned:        len(assignment[vm.ID]),
		})
	}
	record := trace.PlacementRecord{
		CloudletID: c.ID,
		Clock:      now,
		ChosenVm:   vmID,
		Policy:     policy,
		Estimates:  estimates,
		Regret:     estimates[vmID] - best,
	}
	if k > 0 {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].EstimatedFinish < candidates[j].EstimatedFinish
		})
		record.Candidates = candidates[:min(k, len(candidates))]
	}
	return record
}
