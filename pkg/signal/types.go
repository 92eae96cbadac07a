package signal

import "context"

// Kind identifies one of the thirteen thinking signals the mentor tracks.
type Kind string

const (
	KindCausalAmbiguity     Kind = "causal_ambiguity"
	KindSystemBottleneck    Kind = "system_bottleneck"
	KindStakeholderConflict Kind = "stakeholder_conflict"
	KindTrendPressure       Kind = "trend_pressure"
	KindUserBehavior        Kind = "user_behavior"
	KindBusinessModel       Kind = "business_model"
	KindValidationGap       Kind = "validation_gap"
	KindExecutionFocus      Kind = "execution_focus"
	KindIdeationNeeded      Kind = "ideation_needed"
	KindNarrativeFocus      Kind = "narrative_focus"
	KindStrategicChoice     Kind = "strategic_choice"
	KindUncertaintyHigh     Kind = "uncertainty_high"
	KindTimePressure        Kind = "time_pressure"
)

// AllKinds lists every signal kind in priority order. Earlier entries win
// confidence ties so that rankings are reproducible across runs.
var AllKinds = []Kind{
	KindCausalAmbiguity,
	KindUncertaintyHigh,
	KindStakeholderConflict,
	KindValidationGap,
	KindSystemBottleneck,
	KindUserBehavior,
	KindBusinessModel,
	KindStrategicChoice,
	KindTrendPressure,
	KindExecutionFocus,
	KindIdeationNeeded,
	KindNarrativeFocus,
	KindTimePressure,
}

var kindPriority = func() map[Kind]int {
	p := make(map[Kind]int, len(AllKinds))
	for i, k := range AllKinds {
		p[k] = i
	}
	return p
}()

// Valid reports whether k is one of the thirteen known kinds.
func (k Kind) Valid() bool {
	_, ok := kindPriority[k]
	return ok
}

// Priority returns the fixed tie-break rank of k (lower ranks first).
func (k Kind) Priority() int {
	if p, ok := kindPriority[k]; ok {
		return p
	}
	return len(AllKinds)
}

// Source records which detection layer produced a signal.
type Source string

const (
	SourcePattern Source = "pattern"
	SourceModel   Source = "model"
)

// Signal is a detected thinking signal with its confidence in [0,1].
type Signal struct {
	Kind       Kind    `json:"kind"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
}

// Classifier is the external model-backed signal classification capability.
// Implementations may be nondeterministic; the detector's merge and ranking
// stay deterministic given identical classifier output.
type Classifier interface {
	ClassifySignals(ctx context.Context, text string) ([]Signal, error)
}
