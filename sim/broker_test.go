package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_BindCloudletToVm_Errors(t *testing.T) {
	b := NewBroker(FCFS{})
	b.SubmitVms([]*Vm{newTestVm(0, 1000, NewTimeShared()), newTestVm(1, 1000, NewTimeShared())})
	cs := newTestCloudlets(2, 100)
	b.SubmitCloudlets(cs)

	tests := []struct {
		name     string
		cloudlet int
		vm       int
		setup    func()
		wantErr  error
		wantVmID int
	}{
		{name: "unknown cloudlet", cloudlet: 9, vm: 0, wantErr: ErrUnknownCloudlet, wantVmID: Unbound},
		{name: "unknown vm", cloudlet: 0, vm: 9, wantErr: ErrUnknownVm, wantVmID: Unbound},
		{name: "created", cloudlet: 0, vm: 1, wantVmID: 1},
		{name: "rebind before execution", cloudlet: 0, vm: 0, setup: func() { cs[0].submit(0) }, wantVmID: 0},
		{
			name: "in execution", cloudlet: 0, vm: 1,
			setup:   func() { cs[0].start(1) },
			wantErr: ErrInvalidRebinding, wantVmID: 0,
		},
		{
			name: "terminal", cloudlet: 1, vm: 1,
			setup:   func() { cs[1].fail(1, "no vm available") },
			wantErr: ErrInvalidRebinding, wantVmID: Unbound,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setup != nil {
				tc.setup()
			}
			err := b.BindCloudletToVm(tc.cloudlet, tc.vm)
			if tc.wantErr != nil {
				assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
			if c, ok := b.byID[tc.cloudlet]; ok {
				assert.Equal(t, tc.wantVmID, c.VmID)
			}
		})
	}
}

func TestBroker_SubmitDuplicateIDs_Panics(t *testing.T) {
	b := NewBroker(FCFS{})
	b.SubmitCloudlets(newTestCloudlets(2, 100))

	assert.Panics(t, func() { b.SubmitCloudlets(newTestCloudlets(1, 100)) })
	b.SubmitVms([]*Vm{newTestVm(0, 1000, NewTimeShared())})
	assert.Panics(t, func() { b.SubmitVms([]*Vm{newTestVm(0, 1000, NewTimeShared())}) })
}

func TestBroker_SubmitAfterStart_Panics(t *testing.T) {
	s := NewSimulator(Config{}, []*Host{newTestHost(0, 1, 1000)})
	s.Broker().SubmitVms([]*Vm{newTestVm(0, 1000, NewTimeShared())})
	s.Broker().SubmitCloudlets(newTestCloudlets(1, 100))
	_, err := s.RunUntilComplete()
	require.NoError(t, err)

	assert.Panics(t, func() { s.Broker().SubmitCloudlets([]*Cloudlet{NewCloudlet(5, 1, 1)}) })
}

func TestBroker_ForcedBinding_OverridesPolicy(t *testing.T) {
	// GIVEN round-robin placement and a cloudlet forced onto VM 1
	hosts := []*Host{newTestHost(0, 2, 1000)}
	vms := []*Vm{newTestVm(0, 1000, NewTimeShared()), newTestVm(1, 1000, NewTimeShared())}
	cs := newTestCloudlets(2, 1000)
	s := NewSimulator(Config{Placement: &RoundRobin{}}, hosts)
	s.Broker().SubmitVms(vms)
	s.Broker().SubmitCloudlets(cs)
	require.NoError(t, s.Broker().BindCloudletToVm(0, 1))

	// WHEN the simulation runs
	res, err := s.RunUntilComplete()
	require.NoError(t, err)

	// THEN the forced cloudlet ran on VM 1 and the other one was placed by the policy
	byID := resultByID(res)
	assert.Equal(t, 1, byID[0].VmID)
	assert.Equal(t, 0, byID[1].VmID)
	assert.Len(t, s.Broker().ReceivedCloudlets(), 2)
}
