package diagnosis

import (
	"io"
	"log"
	"testing"

	"pws-mentor-be/pkg/signal"
)

func newTestAggregator() *Aggregator {
	return NewAggregator(log.New(io.Discard, "", 0))
}

func TestUpdateDoesNotMutateInput(t *testing.T) {
	a := newTestAggregator()
	base := New()
	base.Signals = []SignalRecord{{Kind: signal.KindUserBehavior, Confidence: 0.5, Turn: 0}}

	a.Update(base, []signal.Signal{{Kind: signal.KindUserBehavior, Confidence: 0.9}})

	if base.Turn != 0 {
		t.Errorf("input turn mutated to %d", base.Turn)
	}
	if base.Signals[0].Confidence != 0.5 {
		t.Errorf("input signal mutated to %v", base.Signals[0].Confidence)
	}
	if base.PrimarySignal != "" {
		t.Errorf("input primary mutated to %s", base.PrimarySignal)
	}
}

func TestUpdatePrimaryFromSignals(t *testing.T) {
	a := newTestAggregator()

	got := a.Update(New(), []signal.Signal{
		{Kind: signal.KindTimePressure, Confidence: 0.6},
		{Kind: signal.KindCausalAmbiguity, Confidence: 0.9},
	})

	if got.PrimarySignal != signal.KindCausalAmbiguity {
		t.Errorf("primary = %s, want %s", got.PrimarySignal, signal.KindCausalAmbiguity)
	}
	if got.Turn != 1 {
		t.Errorf("turn = %d, want 1", got.Turn)
	}

	// Primary must always be one of the tracked signals.
	found := false
	for _, rec := range got.Signals {
		if rec.Kind == got.PrimarySignal {
			found = true
		}
	}
	if !found {
		t.Errorf("primary %s not present in signals %v", got.PrimarySignal, got.Signals)
	}
}

func TestUpdateEmptyHistoryHasNoPrimary(t *testing.T) {
	a := newTestAggregator()

	got := a.Update(New(), nil)

	if got.PrimarySignal != "" {
		t.Errorf("primary = %q, want empty", got.PrimarySignal)
	}
	if got.Definition != DefinitionUndefined || got.Complexity != ComplexityComplex {
		t.Errorf("empty diagnosis = %s/%s, want undefined/complex", got.Definition, got.Complexity)
	}
}

func TestUpdateDeduplicatesByKind(t *testing.T) {
	a := newTestAggregator()

	d := a.Update(New(), []signal.Signal{{Kind: signal.KindUserBehavior, Confidence: 0.8}})
	d = a.Update(d, []signal.Signal{{Kind: signal.KindUserBehavior, Confidence: 0.4}})

	if len(d.Signals) != 1 {
		t.Fatalf("signals = %v, want one record per kind", d.Signals)
	}
	rec := d.Signals[0]
	if rec.Confidence != 0.8 {
		t.Errorf("confidence = %v, want prior 0.8 kept over weaker re-detection", rec.Confidence)
	}
	if rec.Turn != 2 {
		t.Errorf("turn = %d, want stamp advanced to 2", rec.Turn)
	}
}

func TestUpdateDecayReplacesStaleRecord(t *testing.T) {
	a := newTestAggregator()

	d := a.Update(New(), []signal.Signal{{Kind: signal.KindUserBehavior, Confidence: 0.9}})
	// Enough empty turns for the record to fall out of the decay window.
	for i := 0; i < decayWindow+1; i++ {
		d = a.Update(d, nil)
	}
	d = a.Update(d, []signal.Signal{{Kind: signal.KindUserBehavior, Confidence: 0.3}})

	if len(d.Signals) != 1 {
		t.Fatalf("signals = %v, want single record", d.Signals)
	}
	if d.Signals[0].Confidence != 0.3 {
		t.Errorf("confidence = %v, want stale record replaced with 0.3", d.Signals[0].Confidence)
	}
}

func TestUpdateRecencyWindowGuidesPrimary(t *testing.T) {
	a := newTestAggregator()

	d := a.Update(New(), []signal.Signal{{Kind: signal.KindCausalAmbiguity, Confidence: 0.9}})
	d = a.Update(d, []signal.Signal{{Kind: signal.KindTimePressure, Confidence: 0.5}})
	d = a.Update(d, []signal.Signal{{Kind: signal.KindTimePressure, Confidence: 0.5}})
	d = a.Update(d, []signal.Signal{{Kind: signal.KindTimePressure, Confidence: 0.5}})

	// The 0.9 observation is outside the recency window now.
	if d.PrimarySignal != signal.KindTimePressure {
		t.Errorf("primary = %s, want recent %s", d.PrimarySignal, signal.KindTimePressure)
	}
}

func TestClassifyCombinations(t *testing.T) {
	a := newTestAggregator()

	tests := []struct {
		name           string
		signals        []signal.Signal
		wantDefinition Definition
		wantComplexity Complexity
	}{
		{
			name: "wicked problem",
			signals: []signal.Signal{
				{Kind: signal.KindStakeholderConflict, Confidence: 0.8},
				{Kind: signal.KindUncertaintyHigh, Confidence: 0.7},
			},
			wantDefinition: DefinitionWicked,
			wantComplexity: ComplexityComplex,
		},
		{
			name: "chaotic under time pressure",
			signals: []signal.Signal{
				{Kind: signal.KindUncertaintyHigh, Confidence: 0.8},
				{Kind: signal.KindTimePressure, Confidence: 0.8},
			},
			wantDefinition: DefinitionUndefined,
			wantComplexity: ComplexityChaotic,
		},
		{
			name: "causal ambiguity alone",
			signals: []signal.Signal{
				{Kind: signal.KindCausalAmbiguity, Confidence: 0.9},
			},
			wantDefinition: DefinitionIllDefined,
			wantComplexity: ComplexityComplicated,
		},
		{
			name: "execution only",
			signals: []signal.Signal{
				{Kind: signal.KindExecutionFocus, Confidence: 0.9},
			},
			wantDefinition: DefinitionWellDefined,
			wantComplexity: ComplexitySimple,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Update(New(), tt.signals)
			if got.Definition != tt.wantDefinition {
				t.Errorf("definition = %s, want %s", got.Definition, tt.wantDefinition)
			}
			if got.Complexity != tt.wantComplexity {
				t.Errorf("complexity = %s, want %s", got.Complexity, tt.wantComplexity)
			}
		})
	}
}

func TestMarkAppliedGrowsOnce(t *testing.T) {
	d := New()
	d.MarkApplied("five_whys")
	d.MarkApplied("five_whys")
	d.MarkApplied("")

	if len(d.FrameworksApplied) != 1 {
		t.Errorf("applied = %v, want single entry", d.FrameworksApplied)
	}
	if !d.HasApplied("five_whys") {
		t.Error("HasApplied(five_whys) = false")
	}
}
