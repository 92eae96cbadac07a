package persona

// Behaviors tunes how the prompt builder shapes a persona's responses.
// Ratios and levels are in [0, 1].
type Behaviors struct {
	QuestionRatio  float64 `json:"question_ratio"`
	FrameworkIntro string  `json:"framework_intro"`
	ToneWarmth     float64 `json:"tone_warmth"`
	ChallengeLevel float64 `json:"challenge_level"`
}

// Persona is one mentoring mode. The registry is immutable after process
// start.
type Persona struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	ShortDescription string    `json:"short_description"`
	SystemPrompt     string    `json:"-"`
	Behaviors        Behaviors `json:"behaviors"`
	IsDefault        bool      `json:"is_default"`
}

const DefaultID = "mentor"

// Get returns the persona for id, falling back to the default persona for
// unknown ids. Switching personas never touches session state, so a bad id
// is harmless.
func Get(id string) Persona {
	if p, ok := registry[id]; ok {
		return p
	}
	return registry[DefaultID]
}

// All returns every registered persona, default first.
func All() []Persona {
	out := make([]Persona, 0, len(registry))
	out = append(out, registry[DefaultID])
	for _, id := range orderedIDs {
		if id == DefaultID {
			continue
		}
		out = append(out, registry[id])
	}
	return out
}

var orderedIDs = []string{"mentor", "evaluator", "strategist"}

var registry = map[string]Persona{
	"mentor": {
		ID:               "mentor",
		Name:             "Mentor",
		ShortDescription: "Socratic guide for problem discovery",
		SystemPrompt:     mentorPrompt,
		IsDefault:        true,
		Behaviors: Behaviors{
			QuestionRatio:  0.6,
			FrameworkIntro: "Think about it like this:",
			ToneWarmth:     0.8,
			ChallengeLevel: 0.6,
		},
	},
	"evaluator": {
		ID:               "evaluator",
		Name:             "Evaluator",
		ShortDescription: "Framework evaluation and feedback",
		SystemPrompt:     evaluatorPrompt,
		Behaviors: Behaviors{
			QuestionRatio:  0.4,
			FrameworkIntro: "Very simply:",
			ToneWarmth:     0.5,
			ChallengeLevel: 0.8,
		},
	},
	"strategist": {
		ID:               "strategist",
		Name:             "Strategist",
		ShortDescription: "Strategy and competitive positioning",
		SystemPrompt:     strategistPrompt,
		Behaviors: Behaviors{
			QuestionRatio:  0.5,
			FrameworkIntro: "Let me challenge you with this:",
			ToneWarmth:     0.5,
			ChallengeLevel: 0.9,
		},
	},
}
