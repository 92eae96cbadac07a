package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"pws-mentor-be/pkg/llm"
)

// LLMClassifier asks a fast model for graded signal scores. It is the only
// nondeterministic part of detection and sits behind the Classifier interface
// so the merge/rank logic stays testable with a substitute.
type LLMClassifier struct {
	provider llm.LLMProvider
}

func NewLLMClassifier(provider llm.LLMProvider) *LLMClassifier {
	return &LLMClassifier{provider: provider}
}

const classifierPromptTemplate = `Analyze this conversation excerpt for thinking signals.

TEXT:
%s

Return JSON only, no markdown:
{"signals":[{"kind":"<signal>","confidence":0.0}]}

SIGNAL OPTIONS: causal_ambiguity, system_bottleneck, stakeholder_conflict, trend_pressure, user_behavior, business_model, validation_gap, execution_focus, ideation_needed, narrative_focus, strategic_choice, uncertainty_high, time_pressure

Only include signals actually present. Confidence is in [0,1].
JSON only:`

type classifierPayload struct {
	Signals []struct {
		Kind       string  `json:"kind"`
		Confidence float64 `json:"confidence"`
	} `json:"signals"`
}

func (c *LLMClassifier) ClassifySignals(ctx context.Context, text string) ([]Signal, error) {
	const maxInput = 4000
	text = truncateTail(text, maxInput)

	raw, err := c.provider.Generate(ctx,
		fmt.Sprintf(classifierPromptTemplate, text),
		llm.WithTemperature(0.1),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}

	payload, err := parseClassifierResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}

	signals := make([]Signal, 0, len(payload.Signals))
	for _, s := range payload.Signals {
		kind := Kind(s.Kind)
		if !kind.Valid() {
			continue
		}
		signals = append(signals, Signal{
			Kind:       kind,
			Confidence: s.Confidence,
			Source:     SourceModel,
		})
	}
	return signals, nil
}

// truncateTail keeps at most max trailing bytes, advancing the cut to the
// next rune boundary so the excerpt never starts mid-rune.
func truncateTail(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := len(text) - max
	for cut < len(text) && !utf8.RuneStart(text[cut]) {
		cut++
	}
	return text[cut:]
}

// parseClassifierResponse tolerates models that wrap JSON in code fences.
func parseClassifierResponse(raw string) (*classifierPayload, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		parts := strings.SplitN(text, "```", 3)
		if len(parts) >= 2 {
			text = parts[1]
		}
		text = strings.TrimPrefix(text, "json")
		text = strings.TrimSpace(text)
	}

	var payload classifierPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("malformed classifier response: %v", err)
	}
	return &payload, nil
}
