package sim

// capacityEpsilon absorbs float drift when comparing reserved MIPS to capacity.
const capacityEpsilon = 1e-9

// Provisioner tracks one scalar host resource (RAM in MB, bandwidth, storage)
// reserved by VMs. Reservations are exact integers, so no drift accumulates.
type Provisioner struct {
	capacity  int64
	used      int64
	allocated map[int]int64 // vm ID -> amount
}

// NewProvisioner creates a Provisioner with the given total capacity.
func NewProvisioner(capacity int64) *Provisioner {
	return &Provisioner{
		capacity:  capacity,
		allocated: make(map[int]int64),
	}
}

func (p *Provisioner) Capacity() int64  { return p.capacity }
func (p *Provisioner) Available() int64 { return p.capacity - p.used }

// CanAllocate reports whether amount fits in the remaining capacity.
func (p *Provisioner) CanAllocate(amount int64) bool {
	return amount >= 0 && amount <= p.Available()
}

// Allocate reserves amount for vmID, replacing any previous reservation.
// Returns false and leaves state unchanged if it does not fit.
func (p *Provisioner) Allocate(vmID int, amount int64) bool {
	prev := p.allocated[vmID]
	if amount < 0 || amount-prev > p.Available() {
		return false
	}
	p.used += amount - prev
	p.allocated[vmID] = amount
	return true
}

// Deallocate releases whatever vmID holds. No-op for unknown VMs.
func (p *Provisioner) Deallocate(vmID int) {
	p.used -= p.allocated[vmID]
	delete(p.allocated, vmID)
}

// AllocatedFor returns the amount held by vmID.
func (p *Provisioner) AllocatedFor(vmID int) int64 {
	return p.allocated[vmID]
}

// Pe is a single physical processing element (core) with fixed MIPS capacity.
// VMs reserve MIPS on it; under time sharing several VMs may hold a share.
type Pe struct {
	ID           int
	CapacityMips float64

	reserved      map[int]float64 // vm ID -> requested MIPS
	reservedTotal float64
}

// NewPe creates a PE with the given capacity.
func NewPe(id int, capacityMips float64) *Pe {
	return &Pe{
		ID:           id,
		CapacityMips: capacityMips,
		reserved:     make(map[int]float64),
	}
}

// FreeMips returns capacity not yet reserved by any VM.
func (p *Pe) FreeMips() float64 {
	return max(0, p.CapacityMips-p.reservedTotal)
}

// CanReserve reports whether mips more can be reserved on this PE.
func (p *Pe) CanReserve(mips float64) bool {
	return mips <= p.FreeMips()+capacityEpsilon
}

func (p *Pe) reserve(vmID int, mips float64) {
	p.reserved[vmID] += mips
	p.reservedTotal += mips
}

func (p *Pe) release(vmID int) {
	p.reservedTotal -= p.reserved[vmID]
	delete(p.reserved, vmID)
	if len(p.reserved) == 0 {
		p.reservedTotal = 0
	}
}

// GrantedMips returns the MIPS this PE actually delivers to vmID.
// CanReserve keeps admitted VMs within capacity, so the proportional branch
// is only a cap for direct reserve calls; oversubscription is not modelled.
func (p *Pe) GrantedMips(vmID int) float64 {
	r := p.reserved[vmID]
	if p.reservedTotal <= p.CapacityMips {
		return r
	}
	return r * p.CapacityMips / p.reservedTotal
}

// GrantedTotal returns the MIPS delivered across all VMs, capped at capacity.
func (p *Pe) GrantedTotal() float64 {
	return min(p.reservedTotal, p.CapacityMips)
}
