package scenario

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/greencloud-sim/greencloud-sim/sim"
)

const smallScenarioYAML = `
name: small
placement: deadline-aware
allocation: first-fit
scheduling_interval: 0.5
power:
  idle_watts: 80
  max_watts: 200
hosts:
  - count: 2
    pes: 2
    pe_mips: 2000
    ram: 8192
    bw: 10000
    storage: 100000
vms:
  - count: 3
    mips: 1000
    mips_step: 100
    cores: 1
    ram: 1024
    bw: 1000
    size: 10000
    scheduler: space-shared
cloudlets:
  - count: 4
    length: 10000
    deadline: 50
    deadline_step: 10
  - count: 2
    lengths: [3000, 5000]
    cores: 1
    arrival: 2
    arrival_step: 1
    vm: 0
`

func TestParse_ValidScenario(t *testing.T) {
	s, err := Parse([]byte(smallScenarioYAML))
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	assert.Equal(t, "small", s.Name)
	assert.Equal(t, "deadline-aware", s.Placement)
	assert.Equal(t, 0.5, s.SchedulingInterval)
	require.NotNil(t, s.Power)
	assert.Equal(t, 200.0, s.Power.MaxWatts)
	require.Len(t, s.Cloudlets, 2)
	assert.Equal(t, []int64{3000, 5000}, s.Cloudlets[1].Lengths)
	require.NotNil(t, s.Cloudlets[1].Vm)
	assert.Equal(t, 0, *s.Cloudlets[1].Vm)
}

func TestParse_UnknownField_Rejected(t *testing.T) {
	// GIVEN a typo in a host group key
	doc := strings.Replace(smallScenarioYAML, "pe_mips:", "pe_mip:", 1)

	// WHEN parsed
	_, err := Parse([]byte(doc))

	// THEN strict decoding rejects it
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pe_mip")
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smallScenarioYAML), 0o644))

	s, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "small", s.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "reading scenario")
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	// GIVEN a scenario with several independent mistakes
	s := &Scenario{
		Placement:  "edf",
		Allocation: "best-fit",
		Hosts:      []HostGroup{{Count: 0, Pes: 2, PeMips: -5}},
		Vms:        []VmGroup{{Count: 1, Mips: 1000, Cores: 1, Scheduler: "gang"}},
		Cloudlets:  []CloudletGroup{{Count: 1, Length: 10, Lengths: []int64{5}}},
	}

	// WHEN validated
	err := s.Validate()

	// THEN all of them are reported, not just the first
	require.Error(t, err)
	errs := multierr.Errors(err)
	assert.Len(t, errs, 6)
	msg := err.Error()
	for _, want := range []string{"edf", "best-fit", "hosts[0].count", "hosts[0].pe_mips", "gang", "not both"} {
		assert.Contains(t, msg, want)
	}
}

func TestValidate_EdgeCases(t *testing.T) {
	base := func() *Scenario {
		return &Scenario{
			Hosts:     []HostGroup{{Count: 1, Pes: 1, PeMips: 1000}},
			Vms:       []VmGroup{{Count: 3, Mips: 1000, Cores: 1}},
			Cloudlets: []CloudletGroup{{Count: 1, Length: 100}},
		}
	}
	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr string
	}{
		{name: "valid", mutate: func(*Scenario) {}},
		{name: "no hosts", mutate: func(s *Scenario) { s.Hosts = nil }, wantErr: "at least one host group"},
		{name: "negative interval", mutate: func(s *Scenario) { s.SchedulingInterval = -1 }, wantErr: "scheduling_interval"},
		{name: "max below idle", mutate: func(s *Scenario) { s.Power = &PowerSpec{IdleWatts: 100, MaxWatts: 50} }, wantErr: "max_watts"},
		{name: "mips step to zero", mutate: func(s *Scenario) { s.Vms[0].MipsStep = -500 }, wantErr: "mips_step"},
		{name: "negative deadline", mutate: func(s *Scenario) { d := -1.0; s.Cloudlets[0].Deadline = &d }, wantErr: "deadline"},
		{name: "negative arrival", mutate: func(s *Scenario) { s.Cloudlets[0].Arrival = -2 }, wantErr: "arrival"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := base()
			tc.mutate(s)
			err := s.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestBuild_AssignsSequentialIDsAcrossGroups(t *testing.T) {
	s, err := Parse([]byte(smallScenarioYAML))
	require.NoError(t, err)

	topo, err := s.Build()
	require.NoError(t, err)

	require.Len(t, topo.Hosts, 2)
	require.Len(t, topo.Vms, 3)
	require.Len(t, topo.Cloudlets, 6)
	for i, h := range topo.Hosts {
		assert.Equal(t, i, h.ID)
		assert.Len(t, h.Pes, 2)
	}
	assert.Equal(t, []float64{1000, 1100, 1200}, []float64{topo.Vms[0].Mips, topo.Vms[1].Mips, topo.Vms[2].Mips})
	assert.Equal(t, "space-shared", topo.Vms[2].Scheduler.Name())

	// first group: deadlines 50 + 10i, unbound
	assert.Equal(t, 80.0, topo.Cloudlets[3].Deadline)
	assert.Equal(t, sim.Unbound, topo.Cloudlets[3].VmID)
	// second group: cyclic lengths, staggered arrivals, pre-bound, no deadline
	assert.Equal(t, int64(3000), topo.Cloudlets[4].Length)
	assert.Equal(t, int64(5000), topo.Cloudlets[5].Length)
	assert.Equal(t, 3.0, topo.Cloudlets[5].ArrivalTime)
	assert.Equal(t, 0, topo.Cloudlets[5].VmID)
	assert.False(t, topo.Cloudlets[5].HasDeadline())

	assert.Equal(t, "deadline-aware", topo.Config.Placement.Name())
	assert.Equal(t, "first-fit", topo.Config.Allocation.Name())
	assert.Equal(t, sim.LinearPowerModel{IdleWatts: 80, MaxWatts: 200}, topo.Config.Power)
}

func TestBuild_InvalidScenario_ReturnsError(t *testing.T) {
	_, err := (&Scenario{Name: "broken"}).Build()
	assert.ErrorContains(t, err, `scenario "broken"`)
}

func TestRun_SmallScenario_CompletesEveryCloudlet(t *testing.T) {
	s, err := Parse([]byte(smallScenarioYAML))
	require.NoError(t, err)

	res, err := s.Run(nil)

	require.NoError(t, err)
	assert.Equal(t, 6, res.Completed)
	assert.Equal(t, "deadline-aware", res.Policy)
	assert.Positive(t, res.TotalEnergyWh)
	for _, c := range res.Cloudlets {
		if c.ID >= 4 {
			assert.Equal(t, 0, c.VmID, "pre-bound cloudlet %d", c.ID)
		}
	}
}
