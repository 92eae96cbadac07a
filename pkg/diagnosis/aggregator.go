package diagnosis

import (
	"log"

	"pws-mentor-be/pkg/signal"
)

const (
	// decayWindow bounds how many turns back a previously seen signal still
	// shadows a weaker re-detection of the same kind.
	decayWindow = 5

	// recencyWindow bounds which turns feed the primary-signal choice, so a
	// single noisy turn cannot flip the diagnosis on its own.
	recencyWindow = 3
)

// Aggregator folds per-turn signal detections into a session diagnosis.
type Aggregator struct {
	logger *log.Logger
}

func NewAggregator(logger *log.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Update returns a new diagnosis with newSignals folded in. The input is
// never mutated; callers commit the returned value only when the turn
// completes.
func (a *Aggregator) Update(d *Diagnosis, newSignals []signal.Signal) *Diagnosis {
	next := d.Clone()
	next.Turn = d.Turn + 1

	for _, s := range newSignals {
		a.fold(next, s)
	}

	next.PrimarySignal = a.primarySignal(next)
	next.Definition, next.Complexity = classify(a.activeKinds(next))

	a.logger.Printf("[DIAGNOSIS] turn=%d primary=%s definition=%s complexity=%s signals=%d",
		next.Turn, next.PrimarySignal, next.Definition, next.Complexity, len(next.Signals))

	return next
}

// fold records one detected signal, deduplicating by kind: within the decay
// window the higher confidence wins and the turn stamp advances; outside it
// the new observation replaces the stale one outright.
func (a *Aggregator) fold(d *Diagnosis, s signal.Signal) {
	for i := range d.Signals {
		if d.Signals[i].Kind != s.Kind {
			continue
		}
		rec := &d.Signals[i]
		stale := d.Turn-rec.Turn > decayWindow
		if stale || s.Confidence >= rec.Confidence {
			rec.Confidence = s.Confidence
			rec.Source = s.Source
		}
		rec.Turn = d.Turn
		return
	}
	d.Signals = append(d.Signals, SignalRecord{
		Kind:       s.Kind,
		Confidence: s.Confidence,
		Source:     s.Source,
		Turn:       d.Turn,
	})
}

// primarySignal picks the highest-confidence signal observed within the
// recency window, ties broken by the fixed kind priority. When no signal is
// recent enough it falls back to the whole history, so a non-empty history
// always has a primary signal.
func (a *Aggregator) primarySignal(d *Diagnosis) signal.Kind {
	cutoff := d.Turn - recencyWindow + 1
	if best := bestRecord(d.Signals, cutoff); best != nil {
		return best.Kind
	}
	if best := bestRecord(d.Signals, 0); best != nil {
		return best.Kind
	}
	return ""
}

func bestRecord(records []SignalRecord, cutoff int) *SignalRecord {
	var best *SignalRecord
	for i := range records {
		rec := &records[i]
		if rec.Turn < cutoff {
			continue
		}
		if best == nil ||
			rec.Confidence > best.Confidence ||
			(rec.Confidence == best.Confidence && rec.Kind.Priority() < best.Kind.Priority()) {
			best = rec
		}
	}
	return best
}

// activeKinds is the set of kinds seen within the decay window; it feeds the
// definition/complexity mapping.
func (a *Aggregator) activeKinds(d *Diagnosis) map[signal.Kind]bool {
	cutoff := d.Turn - decayWindow
	kinds := make(map[signal.Kind]bool)
	for _, rec := range d.Signals {
		if rec.Turn > cutoff {
			kinds[rec.Kind] = true
		}
	}
	return kinds
}

// classify maps an observed signal set to exactly one definition and one
// complexity. The rule lists are evaluated in order and end in a catch-all,
// so the mapping is total and deterministic.
func classify(kinds map[signal.Kind]bool) (Definition, Complexity) {
	if len(kinds) == 0 {
		return DefinitionUndefined, ComplexityComplex
	}

	var definition Definition
	switch {
	case kinds[signal.KindStakeholderConflict] && kinds[signal.KindUncertaintyHigh]:
		definition = DefinitionWicked
	case kinds[signal.KindUncertaintyHigh] || kinds[signal.KindIdeationNeeded]:
		definition = DefinitionUndefined
	case kinds[signal.KindCausalAmbiguity] || kinds[signal.KindSystemBottleneck] ||
		kinds[signal.KindUserBehavior] || kinds[signal.KindStakeholderConflict] ||
		kinds[signal.KindStrategicChoice] || kinds[signal.KindTrendPressure]:
		definition = DefinitionIllDefined
	default:
		definition = DefinitionWellDefined
	}

	var complexity Complexity
	switch {
	case kinds[signal.KindUncertaintyHigh] && kinds[signal.KindTimePressure]:
		complexity = ComplexityChaotic
	case kinds[signal.KindUncertaintyHigh] || kinds[signal.KindStakeholderConflict] ||
		kinds[signal.KindTrendPressure] || kinds[signal.KindIdeationNeeded]:
		complexity = ComplexityComplex
	case kinds[signal.KindCausalAmbiguity] || kinds[signal.KindSystemBottleneck] ||
		kinds[signal.KindStrategicChoice] || kinds[signal.KindBusinessModel] ||
		kinds[signal.KindUserBehavior]:
		complexity = ComplexityComplicated
	default:
		complexity = ComplexitySimple
	}

	return definition, complexity
}
