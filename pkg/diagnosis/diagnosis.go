package diagnosis

import (
	"pws-mentor-be/pkg/signal"
)

// Definition classifies how well the problem itself is understood.
type Definition string

const (
	DefinitionUndefined   Definition = "undefined"
	DefinitionIllDefined  Definition = "ill-defined"
	DefinitionWellDefined Definition = "well-defined"
	DefinitionWicked      Definition = "wicked"
)

// Complexity classifies the problem's solution space.
type Complexity string

const (
	ComplexitySimple      Complexity = "simple"
	ComplexityComplicated Complexity = "complicated"
	ComplexityComplex     Complexity = "complex"
	ComplexityChaotic     Complexity = "chaotic"
)

// SignalRecord is one observed signal in the session's history, tagged with
// the turn it was last seen on.
type SignalRecord struct {
	Kind       signal.Kind   `json:"kind"`
	Confidence float64       `json:"confidence"`
	Source     signal.Source `json:"source"`
	Turn       int           `json:"turn"`
}

// Diagnosis is the session's running classification. It is mutated only via
// Aggregator.Update and committed atomically with a completed turn.
type Diagnosis struct {
	Definition        Definition     `json:"definition"`
	Complexity        Complexity     `json:"complexity"`
	PrimarySignal     signal.Kind    `json:"primary_signal,omitempty"`
	Signals           []SignalRecord `json:"signals"`
	FrameworksApplied []string       `json:"frameworks_applied"`
	Turn              int            `json:"turn"`
}

// New returns the empty diagnosis a session starts with. The defaults mirror
// a conversation about which nothing is known yet.
func New() *Diagnosis {
	return &Diagnosis{
		Definition: DefinitionUndefined,
		Complexity: ComplexityComplex,
	}
}

// Clone deep-copies d so a turn can be aborted without leaking partial state.
func (d *Diagnosis) Clone() *Diagnosis {
	out := *d
	out.Signals = append([]SignalRecord(nil), d.Signals...)
	out.FrameworksApplied = append([]string(nil), d.FrameworksApplied...)
	return &out
}

// HasApplied reports whether frameworkID is in the applied set.
func (d *Diagnosis) HasApplied(frameworkID string) bool {
	for _, id := range d.FrameworksApplied {
		if id == frameworkID {
			return true
		}
	}
	return false
}

// MarkApplied adds frameworkID to the applied set. The set only grows.
func (d *Diagnosis) MarkApplied(frameworkID string) {
	if frameworkID == "" || d.HasApplied(frameworkID) {
		return
	}
	d.FrameworksApplied = append(d.FrameworksApplied, frameworkID)
}
