package sim

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
)

// AllocationPolicy orders the hosts a datacenter tries when admitting a VM.
// The first host in the returned order that accepts the VM wins.
type AllocationPolicy interface {
	Name() string
	Candidates(vm *Vm, hosts []*Host) []*Host
}

// MostFreeAllocation tries the host with the most free MIPS first, spreading
// VMs across servers. Ties broken by lowest host ID.
type MostFreeAllocation struct{}

func (MostFreeAllocation) Name() string { return "most-free" }

func (MostFreeAllocation) Candidates(_ *Vm, hosts []*Host) []*Host {
	ordered := slices.Clone(hosts)
	sort.SliceStable(ordered, func(i, j int) bool {
		fi, fj := ordered[i].FreeMips(), ordered[j].FreeMips()
		if fi != fj {
			return fi > fj
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

// FirstFitAllocation tries hosts in ascending ID order, packing VMs onto as
// few servers as possible.
type FirstFitAllocation struct{}

func (FirstFitAllocation) Name() string { return "first-fit" }

func (FirstFitAllocation) Candidates(_ *Vm, hosts []*Host) []*Host {
	ordered := slices.Clone(hosts)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })
	return ordered
}

// ValidAllocationPolicies is the set of recognized VM allocation policy names.
var ValidAllocationPolicies = map[string]bool{"": true, "most-free": true, "first-fit": true}

// IsValidAllocationPolicy returns true if name is a recognized allocation policy.
func IsValidAllocationPolicy(name string) bool {
	return ValidAllocationPolicies[name]
}

// NewAllocationPolicy creates an AllocationPolicy by name.
// Empty string defaults to most-free. Panics on unrecognized names.
func NewAllocationPolicy(name string) AllocationPolicy {
	if !IsValidAllocationPolicy(name) {
		panic(fmt.Sprintf("unknown allocation policy %q", name))
	}
	switch name {
	case "", "most-free":
		return MostFreeAllocation{}
	case "first-fit":
		return FirstFitAllocation{}
	default:
		panic(fmt.Sprintf("unhandled allocation policy %q", name))
	}
}

// Datacenter owns the hosts and the VMs admitted to them. It is the only
// component that mutates PE and provisioner state.
type Datacenter struct {
	hosts  []*Host
	policy AllocationPolicy
	vms    []*Vm // placed VMs, ascending ID
	byID   map[int]*Vm
}

// NewDatacenter creates a datacenter over hosts. Hosts are kept in ascending ID order.
// Panics on duplicate host IDs.
func NewDatacenter(hosts []*Host, policy AllocationPolicy) *Datacenter {
	ordered := slices.Clone(hosts)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })
	for i := 1; i < len(ordered); i++ {
		if ordered[i].ID == ordered[i-1].ID {
			panic(fmt.Sprintf("NewDatacenter: duplicate host ID %d", ordered[i].ID))
		}
	}
	return &Datacenter{
		hosts:  ordered,
		policy: policy,
		byID:   make(map[int]*Vm),
	}
}

// Hosts returns the hosts in ascending ID order.
func (d *Datacenter) Hosts() []*Host { return d.hosts }

// Vms returns the placed VMs in ascending ID order.
func (d *Datacenter) Vms() []*Vm { return d.vms }

// Vm returns a placed VM by ID, or nil.
func (d *Datacenter) Vm(id int) *Vm { return d.byID[id] }

// CreateVm places vm on the first candidate host that admits it.
// Returns an error wrapping ErrInsufficientCapacity if no host does; the VM
// then stays out of the topology.
func (d *Datacenter) CreateVm(vm *Vm) error {
	if _, dup := d.byID[vm.ID]; dup {
		return fmt.Errorf("vm %d already created", vm.ID)
	}
	var errs []error
	for _, h := range d.policy.Candidates(vm, d.hosts) {
		err := h.AllocatePEs(vm)
		if err == nil {
			d.byID[vm.ID] = vm
			idx, _ := slices.BinarySearchFunc(d.vms, vm.ID, func(v *Vm, id int) int { return v.ID - id })
			d.vms = slices.Insert(d.vms, idx, vm)
			return nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return fmt.Errorf("vm %d: no hosts: %w", vm.ID, ErrInsufficientCapacity)
	}
	return fmt.Errorf("vm %d: no host can admit it: %w", vm.ID, errors.Join(errs...))
}

// UpdateProcessing advances every placed VM's cloudlets to now and returns
// the cloudlets that completed, in ascending cloudlet ID.
func (d *Datacenter) UpdateProcessing(now float64) []*Cloudlet {
	var finished []*Cloudlet
	for _, vm := range d.vms {
		finished = append(finished, vm.Scheduler.Update(now, vm.GrantedMips(), vm.Cores)...)
	}
	sortByID(finished)
	return finished
}

// NextCompletion returns the earliest estimated completion across all VMs, or +Inf.
func (d *Datacenter) NextCompletion(now float64) float64 {
	next := math.Inf(1)
	for _, vm := range d.vms {
		next = min(next, vm.Scheduler.NextCompletion(now, vm.GrantedMips(), vm.Cores))
	}
	return next
}

// ActiveCloudlets returns how many cloudlets are submitted but unfinished.
func (d *Datacenter) ActiveCloudlets() int {
	n := 0
	for _, vm := range d.vms {
		n += vm.Scheduler.Active()
	}
	return n
}

// Teardown releases every VM's reservations. Called once when the run ends.
func (d *Datacenter) Teardown() {
	for _, vm := range d.vms {
		if h := vm.host; h != nil {
			h.DeallocatePEs(vm)
		}
	}
}
