package sim

import "fmt"

// Host is a physical server. It owns its PEs and scalar provisioners for
// the whole run and keeps the VMs placed on it in admission order.
//
// Thread-safety: NOT thread-safe. Mutated only from the event loop.
type Host struct {
	ID      int
	Pes     []*Pe
	Ram     *Provisioner
	Bw      *Provisioner
	Storage *Provisioner

	vms []*Vm
}

// NewHost creates a host from a PE list and RAM (MB), bandwidth and storage capacities.
// Panics if pes is empty.
func NewHost(id int, pes []*Pe, ram, bw, storage int64) *Host {
	if len(pes) == 0 {
		panic(fmt.Sprintf("NewHost: host %d has no PEs", id))
	}
	return &Host{
		ID:      id,
		Pes:     pes,
		Ram:     NewProvisioner(ram),
		Bw:      NewProvisioner(bw),
		Storage: NewProvisioner(storage),
	}
}

// NewUniformHost creates a host with numPes identical PEs of peMips each.
func NewUniformHost(id int, numPes int, peMips float64, ram, bw, storage int64) *Host {
	pes := make([]*Pe, numPes)
	for i := range pes {
		pes[i] = NewPe(i, peMips)
	}
	return NewHost(id, pes, ram, bw, storage)
}

// TotalMips returns the summed capacity of all PEs.
func (h *Host) TotalMips() float64 {
	total := 0.0
	for _, pe := range h.Pes {
		total += pe.CapacityMips
	}
	return total
}

// FreeMips returns the summed unreserved capacity of all PEs.
func (h *Host) FreeMips() float64 {
	free := 0.0
	for _, pe := range h.Pes {
		free += pe.FreeMips()
	}
	return free
}

// Vms returns the VMs currently placed on this host, in admission order.
func (h *Host) Vms() []*Vm {
	return h.vms
}

// pickPes selects, first-fit in PE order, one distinct PE per virtual core
// with at least vm.Mips free. Returns nil if the host cannot pin every core.
func (h *Host) pickPes(vm *Vm) []*Pe {
	picked := make([]*Pe, 0, vm.Cores)
	for _, pe := range h.Pes {
		if len(picked) == vm.Cores {
			break
		}
		if pe.CanReserve(vm.Mips) {
			picked = append(picked, pe)
		}
	}
	if len(picked) < vm.Cores {
		return nil
	}
	return picked
}

// IsSuitableForVm reports whether AllocatePEs would succeed without mutating state.
func (h *Host) IsSuitableForVm(vm *Vm) bool {
	return h.pickPes(vm) != nil &&
		h.Ram.CanAllocate(vm.Ram) &&
		h.Bw.CanAllocate(vm.Bw) &&
		h.Storage.CanAllocate(vm.Size)
}

// AllocatePEs reserves capacity for every core the VM requests, plus its RAM,
// bandwidth and storage. Each virtual core is pinned to a distinct PE.
// Returns ErrInsufficientCapacity, with nothing reserved, if any resource is short.
func (h *Host) AllocatePEs(vm *Vm) error {
	if vm.host != nil {
		panic(fmt.Sprintf("AllocatePEs: vm %d already placed on host %d", vm.ID, vm.host.ID))
	}
	pes := h.pickPes(vm)
	if pes == nil {
		return fmt.Errorf("host %d: %d cores x %.0f MIPS do not fit on free PEs: %w",
			h.ID, vm.Cores, vm.Mips, ErrInsufficientCapacity)
	}
	if !h.Ram.Allocate(vm.ID, vm.Ram) {
		return fmt.Errorf("host %d: ram %d MB unavailable: %w", h.ID, vm.Ram, ErrInsufficientCapacity)
	}
	if !h.Bw.Allocate(vm.ID, vm.Bw) {
		h.Ram.Deallocate(vm.ID)
		return fmt.Errorf("host %d: bandwidth %d unavailable: %w", h.ID, vm.Bw, ErrInsufficientCapacity)
	}
	if !h.Storage.Allocate(vm.ID, vm.Size) {
		h.Ram.Deallocate(vm.ID)
		h.Bw.Deallocate(vm.ID)
		return fmt.Errorf("host %d: storage %d unavailable: %w", h.ID, vm.Size, ErrInsufficientCapacity)
	}
	for _, pe := range pes {
		pe.reserve(vm.ID, vm.Mips)
	}
	vm.host = h
	vm.pes = pes
	h.vms = append(h.vms, vm)
	return nil
}

// DeallocatePEs releases every reservation held by vm. Only called at teardown:
// VMs are never destroyed mid-run.
func (h *Host) DeallocatePEs(vm *Vm) {
	if vm.host != h {
		return
	}
	for _, pe := range vm.pes {
		pe.release(vm.ID)
	}
	h.Ram.Deallocate(vm.ID)
	h.Bw.Deallocate(vm.ID)
	h.Storage.Deallocate(vm.ID)
	for i, v := range h.vms {
		if v == vm {
			h.vms = append(h.vms[:i], h.vms[i+1:]...)
			break
		}
	}
	vm.host = nil
	vm.pes = nil
}

// AllocatedMipsForVm returns the MIPS the host delivers to vm across its pinned PEs.
func (h *Host) AllocatedMipsForVm(vm *Vm) float64 {
	if vm.host != h {
		return 0
	}
	total := 0.0
	for _, pe := range vm.pes {
		total += pe.GrantedMips(vm.ID)
	}
	return total
}

// CurrentUtilization returns delivered MIPS over total PE capacity, in [0, 1].
func (h *Host) CurrentUtilization() float64 {
	capacity := h.TotalMips()
	if capacity == 0 {
		return 0
	}
	used := 0.0
	for _, pe := range h.Pes {
		used += pe.GrantedTotal()
	}
	return min(max(used/capacity, 0), 1)
}
