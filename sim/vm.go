package sim

import "fmt"

// Vm is a virtual machine requesting a fixed MIPS per core, core count, RAM (MB),
// bandwidth and storage. Once placed it stays on its host for the whole run.
type Vm struct {
	ID        int
	Mips      float64 // per core
	Cores     int
	Ram       int64
	Bw        int64
	Size      int64
	Scheduler CloudletScheduler

	host *Host
	pes  []*Pe
}

// NewVm creates an unplaced VM. Panics on non-positive MIPS or cores, or a nil scheduler.
func NewVm(id int, mips float64, cores int, ram, bw, size int64, scheduler CloudletScheduler) *Vm {
	if mips <= 0 || cores <= 0 {
		panic(fmt.Sprintf("NewVm: vm %d needs positive mips and cores, got mips=%v cores=%d", id, mips, cores))
	}
	if scheduler == nil {
		panic(fmt.Sprintf("NewVm: vm %d has nil cloudlet scheduler", id))
	}
	return &Vm{
		ID:        id,
		Mips:      mips,
		Cores:     cores,
		Ram:       ram,
		Bw:        bw,
		Size:      size,
		Scheduler: scheduler,
	}
}

// TotalMips returns the requested MIPS across all cores.
func (vm *Vm) TotalMips() float64 {
	return vm.Mips * float64(vm.Cores)
}

// IsPlaced reports whether the VM has been admitted to a host.
func (vm *Vm) IsPlaced() bool {
	return vm.host != nil
}

// HostID returns the ID of the hosting server, or -1 when unplaced.
func (vm *Vm) HostID() int {
	if vm.host == nil {
		return -1
	}
	return vm.host.ID
}

// GrantedMips returns the MIPS the host currently delivers to this VM.
func (vm *Vm) GrantedMips() float64 {
	if vm.host == nil {
		return 0
	}
	return vm.host.AllocatedMipsForVm(vm)
}

func (vm *Vm) String() string {
	return fmt.Sprintf("Vm: (ID: %d, Mips: %.0f, Cores: %d, Host: %d, Scheduler: %s)",
		vm.ID, vm.Mips, vm.Cores, vm.HostID(), vm.Scheduler.Name())
}
