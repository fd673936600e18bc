package sim

import (
	"fmt"
	"math"
	"slices"
	"sort"
)

// Assignment maps a VM ID to the cloudlets placed on it so far, in placement order.
type Assignment map[int][]*Cloudlet

// Load returns the summed length (MI) of the cloudlets assigned to vmID.
func (a Assignment) Load(vmID int) int64 {
	var total int64
	for _, c := range a[vmID] {
		total += c.Length
	}
	return total
}

// PlacementPolicy decides which VM receives which cloudlet.
// Order fixes the sequence cloudlets are placed (and submitted) in;
// SelectVm is then called once per unbound cloudlet in that sequence.
// vms is always sorted by ascending ID and never empty.
type PlacementPolicy interface {
	Name() string
	Order(cloudlets []*Cloudlet) []*Cloudlet
	SelectVm(c *Cloudlet, vms []*Vm, assignment Assignment) int
}

// DeadlineAware places cloudlets earliest-deadline-first on the VM with the
// lowest estimated finish time: floor((load already assigned + c.Length) / vm.Mips).
// Unconstrained cloudlets sort after all deadlines; ties by cloudlet ID, then lowest VM ID.
//
// This is greedy list scheduling, not a global optimum. The estimate sums whole
// lengths and ignores progress already made, and each selection rescans every
// VM's load, so a run costs O(cloudlets × VMs × assigned). Fine at hundreds of
// VMs and cloudlets; do not change the tie-breaks, placements depend on them.
type DeadlineAware struct{}

func (DeadlineAware) Name() string { return "deadline-aware" }

func (DeadlineAware) Order(cloudlets []*Cloudlet) []*Cloudlet {
	ordered := slices.Clone(cloudlets)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Deadline != ordered[j].Deadline {
			return ordered[i].Deadline < ordered[j].Deadline
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

func (DeadlineAware) SelectVm(c *Cloudlet, vms []*Vm, assignment Assignment) int {
	best := vms[0].ID
	bestEstimate := math.MaxInt
	for _, vm := range vms {
		estimate := EstimatedFinishTime(assignment[vm.ID], c, vm)
		if estimate < bestEstimate {
			bestEstimate = estimate
			best = vm.ID
		}
	}
	return best
}

// EstimatedFinishTime returns the whole seconds a VM needs to run everything
// already assigned to it plus next, truncated toward zero.
func EstimatedFinishTime(assigned []*Cloudlet, next *Cloudlet, vm *Vm) int {
	total := next.Length
	for _, c := range assigned {
		total += c.Length
	}
	return int(float64(total) / vm.Mips)
}

// FCFS places cloudlets in ID order on the first available VM: the one with
// the fewest cloudlets assigned so far, lowest ID on ties.
type FCFS struct{}

func (FCFS) Name() string { return "fcfs" }

func (FCFS) Order(cloudlets []*Cloudlet) []*Cloudlet {
	ordered := slices.Clone(cloudlets)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })
	return ordered
}

func (FCFS) SelectVm(_ *Cloudlet, vms []*Vm, assignment Assignment) int {
	return leastAssigned(vms, assignment)
}

// SJF places cloudlets shortest first (ties by ID) on the first available VM.
// Warning: under sustained load long cloudlets end up behind every short one.
type SJF struct{}

func (SJF) Name() string { return "sjf" }

func (SJF) Order(cloudlets []*Cloudlet) []*Cloudlet {
	ordered := slices.Clone(cloudlets)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Length != ordered[j].Length {
			return ordered[i].Length < ordered[j].Length
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

func (SJF) SelectVm(_ *Cloudlet, vms []*Vm, assignment Assignment) int {
	return leastAssigned(vms, assignment)
}

// RoundRobin places the i-th cloudlet (in ID order) on VM i mod |VMs|, ignoring load.
// Each Order call starts a new pass at VM position 0.
type RoundRobin struct {
	counter int
}

func (rr *RoundRobin) Name() string { return "round-robin" }

func (rr *RoundRobin) Order(cloudlets []*Cloudlet) []*Cloudlet {
	rr.counter = 0
	return FCFS{}.Order(cloudlets)
}

func (rr *RoundRobin) SelectVm(_ *Cloudlet, vms []*Vm, _ Assignment) int {
	target := vms[rr.counter%len(vms)]
	rr.counter++
	return target.ID
}

func leastAssigned(vms []*Vm, assignment Assignment) int {
	best := vms[0].ID
	fewest := len(assignment[best])
	for _, vm := range vms[1:] {
		if n := len(assignment[vm.ID]); n < fewest {
			fewest = n
			best = vm.ID
		}
	}
	return best
}

// Plan orders cloudlets with policy and binds each to a VM. Cloudlets already
// bound to one of vms keep their binding and count toward that VM's load from
// the start. Cloudlets bound to a VM outside vms are left out of the binding map.
// Returns the cloudlets in placement order and a cloudlet ID -> VM ID map.
func Plan(policy PlacementPolicy, cloudlets []*Cloudlet, vms []*Vm) ([]*Cloudlet, map[int]int) {
	return plan(policy, cloudlets, vms, nil)
}

// placementObserver sees each policy decision before the assignment is updated.
type placementObserver func(c *Cloudlet, vmID int, vms []*Vm, assignment Assignment)

func plan(policy PlacementPolicy, cloudlets []*Cloudlet, vms []*Vm, observe placementObserver) ([]*Cloudlet, map[int]int) {
	ordered := policy.Order(cloudlets)
	binding := make(map[int]int, len(cloudlets))
	if len(vms) == 0 {
		return ordered, binding
	}
	sorted := slices.Clone(vms)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	known := make(map[int]bool, len(sorted))
	for _, vm := range sorted {
		known[vm.ID] = true
	}

	assignment := make(Assignment, len(sorted))
	for _, c := range ordered {
		if c.VmID != Unbound && known[c.VmID] {
			assignment[c.VmID] = append(assignment[c.VmID], c)
			binding[c.ID] = c.VmID
		}
	}
	for _, c := range ordered {
		if c.VmID != Unbound {
			continue
		}
		vmID := policy.SelectVm(c, sorted, assignment)
		if observe != nil {
			observe(c, vmID, sorted, assignment)
		}
		assignment[vmID] = append(assignment[vmID], c)
		binding[c.ID] = vmID
	}
	return ordered, binding
}

// ValidPlacementPolicies is the set of recognized placement policy names.
var ValidPlacementPolicies = map[string]bool{"": true, "deadline-aware": true, "fcfs": true, "sjf": true, "round-robin": true}

// IsValidPlacementPolicy returns true if name is a recognized placement policy.
func IsValidPlacementPolicy(name string) bool {
	return ValidPlacementPolicies[name]
}

// NewPlacementPolicy creates a PlacementPolicy by name.
// Empty string defaults to fcfs. Panics on unrecognized names.
func NewPlacementPolicy(name string) PlacementPolicy {
	if !IsValidPlacementPolicy(name) {
		panic(fmt.Sprintf("unknown placement policy %q", name))
	}
	switch name {
	case "", "fcfs":
		return FCFS{}
	case "deadline-aware":
		return DeadlineAware{}
	case "sjf":
		return SJF{}
	case "round-robin":
		return &RoundRobin{}
	default:
		panic(fmt.Sprintf("unhandled placement policy %q", name))
	}
}
