// Package trace records where the simulator put each VM and cloudlet, along
// with the finish-time estimate every other VM would have offered.
// It holds plain data only and does not import sim.
package trace

// TraceLevel selects what gets recorded.
type TraceLevel string

const (
	TraceLevelNone      TraceLevel = "none"
	TraceLevelDecisions TraceLevel = "decisions" // VM admissions and cloudlet placements
)

var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // same as none
}

// IsValidTraceLevel reports whether level is accepted by --trace-level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig is carried in sim.Config. The zero value records nothing.
type TraceConfig struct {
	Level           TraceLevel
	CounterfactualK int // candidate VMs kept per placement, best estimate first; 0 keeps none
}

// Enabled reports whether the simulator should allocate a trace at all.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelDecisions
}

// SimulationTrace holds the records of one run, in dispatch order.
// Owned by a single Simulator; not safe for concurrent use.
type SimulationTrace struct {
	Config     TraceConfig
	Admissions []AdmissionRecord
	Placements []PlacementRecord
}

func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:     config,
		Admissions: make([]AdmissionRecord, 0),
		Placements: make([]PlacementRecord, 0),
	}
}

// RecordAdmission appends the outcome of one VM creation attempt.
func (st *SimulationTrace) RecordAdmission(record AdmissionRecord) {
	st.Admissions = append(st.Admissions, record)
}

// RecordPlacement appends one broker binding decision.
func (st *SimulationTrace) RecordPlacement(record PlacementRecord) {
	st.Placements = append(st.Placements, record)
}
