package prompt

import (
	"strings"
	"testing"

	"pws-mentor-be/pkg/diagnosis"
	"pws-mentor-be/pkg/framework"
	"pws-mentor-be/pkg/llm"
	"pws-mentor-be/pkg/persona"
	"pws-mentor-be/pkg/signal"
)

func buildTestMessages(history []llm.Message, context string, d *diagnosis.Diagnosis, rec framework.Recommendation) []llm.Message {
	return NewBuilder(persona.Get(persona.DefaultID), history, "what should I do next", framework.NewCatalog()).
		WithContext(context).
		WithAnalysis(d, rec).
		BuildMessages()
}

func TestBuildMessagesShape(t *testing.T) {
	history := []llm.Message{
		{Role: llm.RoleUser, Content: "first"},
		{Role: llm.RoleAssistant, Content: "second"},
	}

	messages := buildTestMessages(history, "", nil, framework.Recommendation{Reason: framework.ReasonNone})

	if len(messages) != 4 {
		t.Fatalf("messages = %d, want system + 2 history + user", len(messages))
	}
	if messages[0].Role != llm.RoleSystem {
		t.Errorf("first role = %s, want system", messages[0].Role)
	}
	if messages[len(messages)-1].Role != llm.RoleUser {
		t.Errorf("last role = %s, want user", messages[len(messages)-1].Role)
	}
	if messages[len(messages)-1].Content != "what should I do next" {
		t.Errorf("last content = %q", messages[len(messages)-1].Content)
	}
}

func TestBuildMessagesTrimsHistory(t *testing.T) {
	history := make([]llm.Message, historyLimit+4)
	for i := range history {
		history[i] = llm.Message{Role: llm.RoleUser, Content: string(rune('a' + i))}
	}

	messages := buildTestMessages(history, "", nil, framework.Recommendation{Reason: framework.ReasonNone})

	if len(messages) != historyLimit+2 {
		t.Fatalf("messages = %d, want system + %d history + user", len(messages), historyLimit)
	}
	// Oldest entries must be the ones dropped.
	if messages[1].Content != history[4].Content {
		t.Errorf("first kept history = %q, want %q", messages[1].Content, history[4].Content)
	}
}

func TestSystemPromptSections(t *testing.T) {
	d := diagnosis.New()
	d.PrimarySignal = signal.KindCausalAmbiguity
	d.Turn = 2

	rec := framework.Recommendation{
		FrameworkID:  "root_cause_analysis",
		Reason:       "signal:causal_ambiguity",
		Alternatives: []string{"systems_thinking"},
	}

	messages := buildTestMessages(nil, "[1] Five Whys\nexplained here", d, rec)
	system := messages[0].Content

	for _, want := range []string{
		"<reference_material>",
		"[1] Five Whys",
		"<internal_analysis>",
		"Never quote or mention it",
		"\"primary_signal\":\"causal_ambiguity\"",
		"Root Cause Analysis",
		"<guidelines>",
	} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestSystemPromptOmitsEmptySections(t *testing.T) {
	messages := buildTestMessages(nil, "", nil, framework.Recommendation{Reason: framework.ReasonNone})
	system := messages[0].Content

	if strings.Contains(system, "<reference_material>") {
		t.Error("reference material section present without context")
	}
	if strings.Contains(system, "<internal_analysis>") {
		t.Error("analysis section present without diagnosis")
	}
	if !strings.Contains(system, "<guidelines>") {
		t.Error("guidelines section missing")
	}
}

func TestSystemPromptPrerequisiteNote(t *testing.T) {
	d := diagnosis.New()
	d.PrimarySignal = signal.KindBusinessModel

	rec := framework.Recommendation{
		FrameworkID: "jobs_to_be_done",
		Reason:      framework.ReasonPrerequisite,
		Next:        "business_model_canvas",
	}

	messages := buildTestMessages(nil, "", d, rec)
	system := messages[0].Content

	if !strings.Contains(system, "This is a prerequisite") {
		t.Error("prerequisite note missing")
	}
	if !strings.Contains(system, "Business Model Canvas") {
		t.Error("target framework title missing from prerequisite note")
	}
}
