// Live counters and gauges for a simulation run, reported through a tally scope.

package sim

import (
	"strconv"

	"github.com/uber-go/tally/v4"
)

// simMetrics contains the run-time metrics of one Simulator, rooted below the configured scope.
type simMetrics struct {
	scope tally.Scope

	eventsDispatched tally.Counter
	vmAdmitted       tally.Counter
	vmRejected       tally.Counter

	cloudletCompleted      tally.Counter
	cloudletFailed         tally.Counter
	cloudletDeadlineMissed tally.Counter

	energyTotal tally.Gauge
}

func newSimMetrics(scope tally.Scope) *simMetrics {
	vmScope := scope.SubScope("vm")
	cloudletScope := scope.SubScope("cloudlet")
	return &simMetrics{
		scope:                  scope,
		eventsDispatched:       scope.SubScope("event").Counter("dispatched"),
		vmAdmitted:             vmScope.Counter("admitted"),
		vmRejected:             vmScope.Counter("rejected"),
		cloudletCompleted:      cloudletScope.Counter("completed"),
		cloudletFailed:         cloudletScope.Counter("failed"),
		cloudletDeadlineMissed: cloudletScope.Counter("deadline_missed"),
		energyTotal:            scope.SubScope("energy").Gauge("total_wh"),
	}
}

// reportEnergy publishes the global total and one host-tagged gauge per host.
func (m *simMetrics) reportEnergy(meter *EnergyMeter) {
	m.energyTotal.Update(meter.TotalWh())
	energyScope := m.scope.SubScope("energy")
	for _, id := range meter.HostIDs() {
		energyScope.Tagged(map[string]string{"host": strconv.Itoa(id)}).
			Gauge("host_wh").Update(meter.HostWh(id))
	}
}
