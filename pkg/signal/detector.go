package signal

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
)

// ErrClassifierUnavailable is returned by classifiers that cannot reach the
// model backend. The detector treats it as a degraded, not failed, detection.
var ErrClassifierUnavailable = errors.New("signal classifier unavailable")

// historyWindow is how many trailing history messages join the current
// message when building the classification text.
const historyWindow = 5

// Detector classifies a message plus its recent history into ranked signals.
// The pattern layer is frozen at construction; the model layer is optional
// and failure there degrades the result to pattern-only.
type Detector struct {
	classifier Classifier
	logger     *log.Logger
}

func NewDetector(classifier Classifier, logger *log.Logger) *Detector {
	return &Detector{
		classifier: classifier,
		logger:     logger,
	}
}

// Detect returns signals ranked by confidence descending, ties broken by the
// fixed kind priority. Given a frozen pattern table and identical classifier
// output, repeated calls produce identical rankings.
func (d *Detector) Detect(ctx context.Context, message string, history []string) []Signal {
	combined := d.combineText(message, history)

	merged := make(map[Kind]Signal, len(AllKinds))

	// Pattern layer: first match per kind is binary evidence.
	for kind, patterns := range patternTable {
		for _, p := range patterns {
			if p.MatchString(combined) {
				merged[kind] = Signal{Kind: kind, Confidence: 1.0, Source: SourcePattern}
				break
			}
		}
	}

	// Model layer: union with pattern results, keeping max confidence.
	if d.classifier != nil {
		classified, err := d.classifier.ClassifySignals(ctx, combined)
		if err != nil {
			d.logger.Printf("[WARN] Signal classifier degraded to pattern-only: %v", err)
		} else {
			for _, s := range classified {
				if !s.Kind.Valid() || s.Confidence <= 0 {
					continue
				}
				if s.Confidence > 1 {
					s.Confidence = 1
				}
				s.Source = SourceModel
				if existing, ok := merged[s.Kind]; !ok || s.Confidence > existing.Confidence {
					merged[s.Kind] = s
				}
			}
		}
	}

	ranked := make([]Signal, 0, len(merged))
	for _, s := range merged {
		ranked = append(ranked, s)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Confidence != ranked[j].Confidence {
			return ranked[i].Confidence > ranked[j].Confidence
		}
		return ranked[i].Kind.Priority() < ranked[j].Kind.Priority()
	})

	return ranked
}

func (d *Detector) combineText(message string, history []string) string {
	window := history
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}
	parts := make([]string, 0, len(window)+1)
	parts = append(parts, window...)
	parts = append(parts, message)
	return strings.Join(parts, "\n")
}
