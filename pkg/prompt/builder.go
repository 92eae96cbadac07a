package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"pws-mentor-be/pkg/diagnosis"
	"pws-mentor-be/pkg/framework"
	"pws-mentor-be/pkg/llm"
	"pws-mentor-be/pkg/persona"
)

// historyLimit caps how many prior messages are replayed into the prompt.
const historyLimit = 6

// Builder assembles the generation request for one turn: persona system
// prompt, trimmed history, retrieved context, and the internal analysis
// block the model should honor but never echo.
type Builder struct {
	persona        persona.Persona
	history        []llm.Message
	query          string
	context        string
	diagnosis      *diagnosis.Diagnosis
	recommendation framework.Recommendation
	catalog        *framework.Catalog
}

func NewBuilder(p persona.Persona, history []llm.Message, query string, catalog *framework.Catalog) *Builder {
	return &Builder{
		persona: p,
		history: history,
		query:   query,
		catalog: catalog,
	}
}

// WithContext injects the retrieval context bundle. Empty context is fine
// and simply omits the section.
func (b *Builder) WithContext(context string) *Builder {
	b.context = context
	return b
}

// WithAnalysis injects the turn's diagnosis and framework recommendation.
func (b *Builder) WithAnalysis(d *diagnosis.Diagnosis, rec framework.Recommendation) *Builder {
	b.diagnosis = d
	b.recommendation = rec
	return b
}

// BuildMessages produces the chat transcript for the LLM provider: the
// system prompt first, then at most historyLimit prior messages, then the
// current user turn.
func (b *Builder) BuildMessages() []llm.Message {
	history := b.history
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: b.buildSystem()})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: b.query})
	return messages
}

func (b *Builder) buildSystem() string {
	var prompt strings.Builder

	prompt.WriteString(b.persona.SystemPrompt)
	prompt.WriteString("\n\n")

	b.writeReferenceMaterial(&prompt)
	b.writeInternalAnalysis(&prompt)
	b.writeGuidelines(&prompt)

	return strings.TrimRight(prompt.String(), "\n")
}

func (b *Builder) writeReferenceMaterial(prompt *strings.Builder) {
	if b.context == "" {
		return
	}

	prompt.WriteString("<reference_material>\n")
	prompt.WriteString(b.context)
	prompt.WriteString("\n</reference_material>\n\n")
}

func (b *Builder) writeInternalAnalysis(prompt *strings.Builder) {
	if b.diagnosis == nil {
		return
	}

	prompt.WriteString("<internal_analysis>\n")
	prompt.WriteString("This analysis is for you only. Use it to shape your response. Never quote or mention it.\n")

	diagJSON, err := json.Marshal(b.diagnosis)
	if err == nil {
		prompt.WriteString("Diagnosis: ")
		prompt.Write(diagJSON)
		prompt.WriteString("\n")
	}

	if !b.recommendation.None() {
		if fw, ok := b.catalog.Get(b.recommendation.FrameworkID); ok {
			fmt.Fprintf(prompt, "Recommended framework: %s (%s). %s\n", fw.Title, b.recommendation.Reason, fw.Definition)
		}
		if b.recommendation.Reason == framework.ReasonPrerequisite {
			if next, ok := b.catalog.Get(b.recommendation.Next); ok {
				fmt.Fprintf(prompt, "This is a prerequisite. Work toward %s once it is complete.\n", next.Title)
			}
		}
		for _, altID := range b.recommendation.Alternatives {
			if alt, ok := b.catalog.Get(altID); ok {
				fmt.Fprintf(prompt, "Alternative: %s\n", alt.Title)
			}
		}
	}

	prompt.WriteString("</internal_analysis>\n\n")
}

func (b *Builder) writeGuidelines(prompt *strings.Builder) {
	behaviors := b.persona.Behaviors

	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("Response principles:\n")
	prompt.WriteString("1. Apply at most one framework per response.\n")
	prompt.WriteString("2. State your diagnosis of the problem explicitly.\n")
	prompt.WriteString("3. Ground claims in the reference material when it is present, and say so honestly when it is not.\n")
	prompt.WriteString("4. End with a concrete next step for the user.\n")

	if behaviors.QuestionRatio >= 0.5 {
		prompt.WriteString("5. Favor probing questions over direct answers.\n")
	} else {
		prompt.WriteString("5. Favor structured evaluation over open questions.\n")
	}
	if behaviors.FrameworkIntro != "" {
		fmt.Fprintf(prompt, "When introducing a framework, open with %q.\n", behaviors.FrameworkIntro)
	}
	if behaviors.ChallengeLevel >= 0.8 {
		prompt.WriteString("Challenge the user's assumptions directly.\n")
	}
	prompt.WriteString("</guidelines>\n\n")
}
