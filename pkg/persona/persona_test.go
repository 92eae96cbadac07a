package persona

import "testing"

func TestGetFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		wantID string
	}{
		{name: "known persona", id: "evaluator", wantID: "evaluator"},
		{name: "empty id", id: "", wantID: DefaultID},
		{name: "unknown id", id: "drill-sergeant", wantID: DefaultID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Get(tt.id)
			if got.ID != tt.wantID {
				t.Errorf("Get(%q).ID = %q, want %q", tt.id, got.ID, tt.wantID)
			}
			if got.SystemPrompt == "" {
				t.Errorf("Get(%q) has empty system prompt", tt.id)
			}
		})
	}
}

func TestAllListsDefaultFirst(t *testing.T) {
	personas := All()

	if len(personas) != 3 {
		t.Fatalf("All() = %d personas, want 3", len(personas))
	}
	if !personas[0].IsDefault || personas[0].ID != DefaultID {
		t.Errorf("first persona = %+v, want the default", personas[0])
	}

	seen := make(map[string]bool)
	for _, p := range personas {
		if seen[p.ID] {
			t.Errorf("duplicate persona %q", p.ID)
		}
		seen[p.ID] = true
	}
}
