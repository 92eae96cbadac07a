package signal

import (
	"context"
	"errors"
	"io"
	"log"
	"reflect"
	"testing"
)

type stubClassifier struct {
	signals []Signal
	err     error
}

func (s *stubClassifier) ClassifySignals(_ context.Context, _ string) ([]Signal, error) {
	return s.signals, s.err
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestDetectPatternLayer(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		wantKinds []Kind
	}{
		{
			name:      "root cause question",
			message:   "I don't understand why our signups keep dropping, we need the root cause",
			wantKinds: []Kind{KindCausalAmbiguity},
		},
		{
			name:      "churn mentions user behavior",
			message:   "Our churn doubled last quarter",
			wantKinds: []Kind{KindUserBehavior},
		},
		{
			name:      "deadline and pitch",
			message:   "The investor pitch deadline is next week",
			wantKinds: []Kind{KindNarrativeFocus, KindTimePressure},
		},
		{
			name:      "no lexical evidence",
			message:   "Hello there",
			wantKinds: []Kind{},
		},
	}

	d := NewDetector(nil, testLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(context.Background(), tt.message, nil)

			gotKinds := make(map[Kind]bool, len(got))
			for _, s := range got {
				gotKinds[s.Kind] = true
				if s.Confidence != 1.0 {
					t.Errorf("pattern signal %s confidence = %v, want 1.0", s.Kind, s.Confidence)
				}
				if s.Source != SourcePattern {
					t.Errorf("pattern signal %s source = %v, want %v", s.Kind, s.Source, SourcePattern)
				}
			}
			for _, k := range tt.wantKinds {
				if !gotKinds[k] {
					t.Errorf("Detect() missing kind %s, got %v", k, got)
				}
			}
		})
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	d := NewDetector(&stubClassifier{
		signals: []Signal{
			{Kind: KindValidationGap, Confidence: 0.7},
			{Kind: KindBusinessModel, Confidence: 0.7},
		},
	}, testLogger())

	message := "Why does our churn keep happening before the deadline?"
	first := d.Detect(context.Background(), message, []string{"earlier context"})
	for i := 0; i < 5; i++ {
		again := d.Detect(context.Background(), message, []string{"earlier context"})
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Detect() not deterministic:\nfirst: %v\nagain: %v", first, again)
		}
	}
}

func TestDetectMergesLayersByMaxConfidence(t *testing.T) {
	d := NewDetector(&stubClassifier{
		signals: []Signal{
			// Lower than the pattern layer's 1.0, must not shadow it.
			{Kind: KindCausalAmbiguity, Confidence: 0.4},
			// Model-only signal joins the result.
			{Kind: KindValidationGap, Confidence: 0.8},
			// Invalid and non-positive entries are dropped.
			{Kind: Kind("made_up"), Confidence: 0.9},
			{Kind: KindTimePressure, Confidence: 0},
			// Above 1 is clamped.
			{Kind: KindBusinessModel, Confidence: 1.7},
		},
	}, testLogger())

	got := d.Detect(context.Background(), "no idea why this keeps happening", nil)

	byKind := make(map[Kind]Signal, len(got))
	for _, s := range got {
		byKind[s.Kind] = s
	}

	if s := byKind[KindCausalAmbiguity]; s.Confidence != 1.0 || s.Source != SourcePattern {
		t.Errorf("causal_ambiguity = %+v, want pattern evidence kept at 1.0", s)
	}
	if s := byKind[KindValidationGap]; s.Confidence != 0.8 || s.Source != SourceModel {
		t.Errorf("validation_gap = %+v, want model 0.8", s)
	}
	if s := byKind[KindBusinessModel]; s.Confidence != 1.0 {
		t.Errorf("business_model confidence = %v, want clamped to 1.0", s.Confidence)
	}
	if _, ok := byKind["made_up"]; ok {
		t.Error("invalid kind survived the merge")
	}
	if _, ok := byKind[KindTimePressure]; ok {
		t.Error("zero-confidence signal survived the merge")
	}
}

func TestDetectDegradesOnClassifierError(t *testing.T) {
	d := NewDetector(&stubClassifier{err: errors.New("backend down")}, testLogger())

	got := d.Detect(context.Background(), "what is the root cause here", nil)

	if len(got) == 0 {
		t.Fatal("Detect() returned nothing, want pattern-only result")
	}
	for _, s := range got {
		if s.Source != SourcePattern {
			t.Errorf("degraded result contains non-pattern signal %+v", s)
		}
	}
}

func TestDetectRankingTieBreak(t *testing.T) {
	d := NewDetector(&stubClassifier{
		signals: []Signal{
			{Kind: KindTimePressure, Confidence: 0.6},
			{Kind: KindUncertaintyHigh, Confidence: 0.6},
			{Kind: KindExecutionFocus, Confidence: 0.9},
		},
	}, testLogger())

	got := d.Detect(context.Background(), "nothing lexical here", nil)

	want := []Kind{KindExecutionFocus, KindUncertaintyHigh, KindTimePressure}
	if len(got) != len(want) {
		t.Fatalf("Detect() = %v, want kinds %v", got, want)
	}
	for i, k := range want {
		if got[i].Kind != k {
			t.Errorf("rank %d = %s, want %s", i, got[i].Kind, k)
		}
	}
}

func TestDetectUsesHistoryWindow(t *testing.T) {
	d := NewDetector(nil, testLogger())

	// Evidence lives in history, not the message.
	history := []string{"we keep missing the deadline"}
	got := d.Detect(context.Background(), "what should we do", history)

	found := false
	for _, s := range got {
		if s.Kind == KindTimePressure {
			found = true
		}
	}
	if !found {
		t.Errorf("Detect() ignored history evidence, got %v", got)
	}

	// Evidence older than the window is dropped.
	old := append([]string{"we keep missing the deadline"}, make([]string, historyWindow)...)
	for i := 1; i < len(old); i++ {
		old[i] = "neutral filler"
	}
	got = d.Detect(context.Background(), "what should we do", old)
	for _, s := range got {
		if s.Kind == KindTimePressure {
			t.Errorf("Detect() used evidence outside the history window: %v", got)
		}
	}
}
