package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures all scheduling decisions.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects decision records during a simulation.
type SimulationTrace struct {
	Config        TraceConfig
	Preemptions   []PreemptionRecord
	Promotions    []PromotionRecord
	Cancellations []CancellationRecord
	Injuries      []InjuryRecord
	Breaks        []BreakRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:        config,
		Preemptions:   make([]PreemptionRecord, 0),
		Promotions:    make([]PromotionRecord, 0),
		Cancellations: make([]CancellationRecord, 0),
		Injuries:      make([]InjuryRecord, 0),
		Breaks:        make([]BreakRecord, 0),
	}
}

// Enabled reports whether records should be collected.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelDecisions
}

func (st *SimulationTrace) RecordPreemption(record PreemptionRecord) {
	st.Preemptions = append(st.Preemptions, record)
}

func (st *SimulationTrace) RecordPromotion(record PromotionRecord) {
	st.Promotions = append(st.Promotions, record)
}

func (st *SimulationTrace) RecordCancellation(record CancellationRecord) {
	st.Cancellations = append(st.Cancellations, record)
}

func (st *SimulationTrace) RecordInjury(record InjuryRecord) {
	st.Injuries = append(st.Injuries, record)
}

func (st *SimulationTrace) RecordBreak(record BreakRecord) {
	st.Breaks = append(st.Breaks, record)
}
