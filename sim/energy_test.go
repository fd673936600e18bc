package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greencloud-sim/greencloud-sim/sim/internal/testutil"
)

func TestLinearPowerModel_Power(t *testing.T) {
	m := DefaultPowerModel()
	tests := []struct {
		util, want float64
	}{
		{0, 100},
		{0.5, 175},
		{1, 250},
		{-0.2, 100},
		{1.7, 250},
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.want, m.Power(tc.util), 1e-12, "util=%v", tc.util)
	}
}

func TestEnergyMeter_Sample_TwiceAtSameTime_IsNoOp(t *testing.T) {
	// GIVEN a meter that already sampled at t=10
	hosts := []*Host{newTestHost(0, 2, 1000)}
	m := NewEnergyMeter(DefaultPowerModel())
	require.True(t, m.Sample(10, hosts))
	before := m.TotalWh()

	// WHEN sampled again at the same time
	changed := m.Sample(10, hosts)

	// THEN nothing is recorded
	assert.False(t, changed)
	assert.Equal(t, before, m.TotalWh())
	assert.Len(t, m.Samples(), 1)
}

func TestEnergyMeter_Sample_IdleHostDrawsIdlePower(t *testing.T) {
	hosts := []*Host{newTestHost(0, 2, 1000)}
	m := NewEnergyMeter(DefaultPowerModel())

	m.Sample(3600, hosts)

	testutil.AssertFloat64Equal(t, "idle hour", 100, m.TotalWh(), 1e-12)
	s := m.Samples()[0]
	assert.Equal(t, 0, s.HostID)
	assert.Equal(t, 3600.0, s.TimeDelta)
	assert.Equal(t, 100.0, s.PowerWatts)
}

func TestEnergyMeter_TotalEqualsSumOfHosts(t *testing.T) {
	// GIVEN two hosts at different utilizations
	busy := newTestHost(0, 2, 1000)
	require.NoError(t, busy.AllocatePEs(NewVm(0, 1000, 2, 512, 100, 1000, NewTimeShared())))
	idle := newTestHost(1, 4, 500)
	hosts := []*Host{busy, idle}
	m := NewEnergyMeter(DefaultPowerModel())

	// WHEN sampled over many small uneven intervals
	now := 0.0
	var totals []float64
	for i := range 5000 {
		now += 0.01 + float64(i%7)*0.003
		m.Sample(now, hosts)
		totals = append(totals, m.TotalWh())
	}

	// THEN the global total matches the per-host totals and never decreases
	testutil.AssertFloat64Equal(t, "total", m.HostWh(0)+m.HostWh(1), m.TotalWh(), 1e-9)
	testutil.AssertFloat64Equal(t, "busy host", 250*now/3600, m.HostWh(0), 1e-9)
	testutil.AssertFloat64Equal(t, "idle host", 100*now/3600, m.HostWh(1), 1e-9)
	testutil.AssertNonDecreasing(t, "running total", totals)
	assert.Equal(t, []int{0, 1}, m.HostIDs())
	assert.Equal(t, now, m.LastSampleTime())
}

func TestEnergyMeter_Sample_BackwardsTime_IsIgnored(t *testing.T) {
	hosts := []*Host{newTestHost(0, 1, 1000)}
	m := NewEnergyMeter(DefaultPowerModel())
	m.Sample(5, hosts)

	assert.False(t, m.Sample(4, hosts))
	assert.Equal(t, 5.0, m.LastSampleTime())
	assert.Equal(t, 0.0, m.HostWh(42))
}
