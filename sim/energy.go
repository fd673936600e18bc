package sim

import "slices"

// PowerModel maps host utilization in [0, 1] to instantaneous power draw in watts.
type PowerModel interface {
	Power(utilization float64) float64
}

// LinearPowerModel draws IdleWatts at zero load and rises linearly to MaxWatts at full load.
type LinearPowerModel struct {
	IdleWatts float64
	MaxWatts  float64
}

// DefaultPowerModel returns the 100 W idle / 250 W peak server profile.
func DefaultPowerModel() LinearPowerModel {
	return LinearPowerModel{IdleWatts: 100, MaxWatts: 250}
}

// Power implements PowerModel. Utilization outside [0, 1] is clamped.
func (m LinearPowerModel) Power(utilization float64) float64 {
	u := min(max(utilization, 0), 1)
	return m.IdleWatts + (m.MaxWatts-m.IdleWatts)*u
}

// EnergySample is one host's energy over one sampling interval. Never mutated once recorded.
type EnergySample struct {
	HostID        int
	Time          float64 // end of the interval
	TimeDelta     float64
	Utilization   float64
	PowerWatts    float64
	EnergyDeltaWh float64
}

// kahanSum is a compensated running sum, so thousands of tiny per-tick
// increments do not lose precision against a large total.
type kahanSum struct {
	sum, c float64
}

func (k *kahanSum) add(x float64) {
	y := x - k.c
	t := k.sum + y
	k.c = (t - k.sum) - y
	k.sum = t
}

// EnergyMeter integrates host power over simulated time.
// Sample must be called once per processing tick; calling it again at the
// same time is a no-op, so no interval is ever counted twice.
type EnergyMeter struct {
	model      PowerModel
	lastSample float64
	samples    []EnergySample
	hostWh     map[int]*kahanSum
	hostOrder  []int
	total      kahanSum
}

// NewEnergyMeter creates a meter starting at time 0.
func NewEnergyMeter(model PowerModel) *EnergyMeter {
	return &EnergyMeter{
		model:  model,
		hostWh: make(map[int]*kahanSum),
	}
}

// Sample charges every host for the interval since the previous sample at its
// current utilization. Returns false, changing nothing, if time has not advanced.
func (m *EnergyMeter) Sample(now float64, hosts []*Host) bool {
	dt := now - m.lastSample
	if dt <= 0 {
		return false
	}
	for _, h := range hosts {
		util := h.CurrentUtilization()
		power := m.model.Power(util)
		wh := power * dt / 3600.0

		acc, ok := m.hostWh[h.ID]
		if !ok {
			acc = &kahanSum{}
			m.hostWh[h.ID] = acc
			m.hostOrder = append(m.hostOrder, h.ID)
		}
		acc.add(wh)
		m.total.add(wh)
		m.samples = append(m.samples, EnergySample{
			HostID:        h.ID,
			Time:          now,
			TimeDelta:     dt,
			Utilization:   util,
			PowerWatts:    power,
			EnergyDeltaWh: wh,
		})
	}
	m.lastSample = now
	return true
}

// LastSampleTime returns the end of the most recent sampled interval.
func (m *EnergyMeter) LastSampleTime() float64 { return m.lastSample }

// TotalWh returns energy accumulated across all hosts.
func (m *EnergyMeter) TotalWh() float64 { return m.total.sum }

// HostWh returns energy accumulated by one host.
func (m *EnergyMeter) HostWh(hostID int) float64 {
	if acc, ok := m.hostWh[hostID]; ok {
		return acc.sum
	}
	return 0
}

// HostTotals returns a copy of the per-host totals.
func (m *EnergyMeter) HostTotals() map[int]float64 {
	out := make(map[int]float64, len(m.hostWh))
	for id, acc := range m.hostWh {
		out[id] = acc.sum
	}
	return out
}

// HostIDs returns host IDs in the order they were first sampled.
func (m *EnergyMeter) HostIDs() []int {
	return slices.Clone(m.hostOrder)
}

// Samples returns a copy of every recorded sample in recording order.
func (m *EnergyMeter) Samples() []EnergySample {
	return slices.Clone(m.samples)
}
