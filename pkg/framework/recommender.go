package framework

import (
	"log"

	"pws-mentor-be/pkg/diagnosis"
)

// Recommendation reasons.
const (
	ReasonNone         = "none"
	ReasonPrerequisite = "prerequisite"
	reasonSignalPrefix = "signal:"
)

// Recommendation is the recommender's verdict for one turn. FrameworkID is
// empty exactly when Reason is ReasonNone.
type Recommendation struct {
	FrameworkID  string   `json:"framework_id,omitempty"`
	Reason       string   `json:"reason"`
	Next         string   `json:"next,omitempty"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// None reports whether no framework could be recommended yet.
func (r Recommendation) None() bool {
	return r.Reason == ReasonNone
}

// Recommender turns a diagnosis into a single framework recommendation,
// honoring prerequisite chains.
type Recommender struct {
	catalog *Catalog
	logger  *log.Logger
}

func NewRecommender(catalog *Catalog, logger *log.Logger) *Recommender {
	return &Recommender{catalog: catalog, logger: logger}
}

// Recommend resolves the diagnosis's primary signal to its framework. When
// that framework has unmet prerequisites, the first unmet one is recommended
// instead with the target framework as Next. A diagnosis without a primary
// signal yields an explicit none result, which is not an error.
func (r *Recommender) Recommend(d *diagnosis.Diagnosis) Recommendation {
	if d == nil || d.PrimarySignal == "" {
		return Recommendation{Reason: ReasonNone}
	}

	primary, alternatives, ok := r.catalog.FrameworksFor(d.PrimarySignal)
	if !ok {
		r.logger.Printf("[RECOMMEND] No framework mapped for signal %q", d.PrimarySignal)
		return Recommendation{Reason: ReasonNone}
	}

	var missing []string
	for _, prereq := range r.catalog.PrerequisitesOf(primary.ID) {
		if !d.HasApplied(prereq) {
			missing = append(missing, prereq)
		}
	}

	if len(missing) > 0 {
		return Recommendation{
			FrameworkID: missing[0],
			Reason:      ReasonPrerequisite,
			Next:        primary.ID,
		}
	}

	altIDs := make([]string, len(alternatives))
	for i, alt := range alternatives {
		altIDs[i] = alt.ID
	}
	return Recommendation{
		FrameworkID:  primary.ID,
		Reason:       reasonSignalPrefix + string(d.PrimarySignal),
		Alternatives: altIDs,
	}
}
