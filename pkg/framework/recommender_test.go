package framework

import (
	"io"
	"log"
	"testing"

	"pws-mentor-be/pkg/diagnosis"
	"pws-mentor-be/pkg/signal"
)

func newTestRecommender() *Recommender {
	return NewRecommender(NewCatalog(), log.New(io.Discard, "", 0))
}

func diagnosisWithPrimary(kind signal.Kind) *diagnosis.Diagnosis {
	d := diagnosis.New()
	d.PrimarySignal = kind
	d.Signals = []diagnosis.SignalRecord{{Kind: kind, Confidence: 0.9, Turn: 1}}
	d.Turn = 1
	return d
}

func TestRecommendNoPrimarySignal(t *testing.T) {
	r := newTestRecommender()

	got := r.Recommend(diagnosis.New())

	if !got.None() {
		t.Fatalf("Recommend() = %+v, want none", got)
	}
	if got.Reason != ReasonNone {
		t.Errorf("reason = %q, want %q", got.Reason, ReasonNone)
	}
}

func TestRecommendMapsSignalToFramework(t *testing.T) {
	r := newTestRecommender()

	got := r.Recommend(diagnosisWithPrimary(signal.KindCausalAmbiguity))

	if got.FrameworkID != "root_cause_analysis" {
		t.Errorf("framework = %q, want root_cause_analysis", got.FrameworkID)
	}
	if got.Reason != "signal:causal_ambiguity" {
		t.Errorf("reason = %q, want signal:causal_ambiguity", got.Reason)
	}
	if got.Next != "" {
		t.Errorf("next = %q, want empty for direct recommendation", got.Next)
	}
	if len(got.Alternatives) == 0 {
		t.Error("alternatives empty, want catalog alternatives")
	}
}

func TestRecommendPrerequisiteDetour(t *testing.T) {
	r := newTestRecommender()

	// business_model maps to business_model_canvas which requires
	// jobs_to_be_done first.
	got := r.Recommend(diagnosisWithPrimary(signal.KindBusinessModel))

	if got.FrameworkID != "jobs_to_be_done" {
		t.Errorf("framework = %q, want prerequisite jobs_to_be_done", got.FrameworkID)
	}
	if got.Reason != ReasonPrerequisite {
		t.Errorf("reason = %q, want %q", got.Reason, ReasonPrerequisite)
	}
	if got.Next != "business_model_canvas" {
		t.Errorf("next = %q, want business_model_canvas", got.Next)
	}
}

func TestRecommendSkipsSatisfiedPrerequisite(t *testing.T) {
	r := newTestRecommender()

	d := diagnosisWithPrimary(signal.KindBusinessModel)
	d.MarkApplied("jobs_to_be_done")

	got := r.Recommend(d)

	if got.FrameworkID != "business_model_canvas" {
		t.Errorf("framework = %q, want business_model_canvas once prerequisite applied", got.FrameworkID)
	}
	if got.Reason != "signal:business_model" {
		t.Errorf("reason = %q, want signal:business_model", got.Reason)
	}
}

func TestCatalogPrimaryMappingsExist(t *testing.T) {
	c := NewCatalog()

	for _, kind := range signal.AllKinds {
		if _, _, ok := c.FrameworksFor(kind); !ok {
			t.Errorf("no framework mapped for signal %s", kind)
		}
	}
}

func TestCatalogReferencesResolve(t *testing.T) {
	c := NewCatalog()

	for _, f := range c.All() {
		for _, id := range f.Prerequisites {
			if _, ok := c.Get(id); !ok {
				t.Errorf("%s prerequisite %q not in catalog", f.ID, id)
			}
		}
		for _, id := range f.Alternatives {
			if _, ok := c.Get(id); !ok {
				t.Errorf("%s alternative %q not in catalog", f.ID, id)
			}
		}
	}
}
