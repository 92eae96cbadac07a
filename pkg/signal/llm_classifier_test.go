package signal

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateTailKeepsRuneBoundary(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
	}{
		{name: "short text untouched", text: "hello", max: 10},
		{name: "ascii cut", text: strings.Repeat("a", 20), max: 8},
		{name: "cut lands inside multibyte rune", text: strings.Repeat("é", 10), max: 9},
		{name: "four byte runes", text: strings.Repeat("\U0001F600", 6), max: 10},
		{name: "mixed ascii and multibyte", text: "abc" + strings.Repeat("ü", 12), max: 7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := truncateTail(tc.text, tc.max)
			if !utf8.ValidString(got) {
				t.Fatalf("truncateTail produced invalid UTF-8: %q", got)
			}
			if len(got) > tc.max {
				t.Fatalf("truncateTail kept %d bytes, max %d", len(got), tc.max)
			}
			if !strings.HasSuffix(tc.text, got) {
				t.Fatalf("truncateTail result %q is not a suffix of input", got)
			}
		})
	}
}

func TestTruncateTailDropsOversizeTailRune(t *testing.T) {
	// A single rune larger than max leaves nothing rather than broken bytes.
	got := truncateTail("\U0001F600", 2)
	if got != "" {
		t.Fatalf("expected empty tail, got %q", got)
	}
}

func TestParseClassifierResponseCodeFence(t *testing.T) {
	raw := "```json\n{\"signals\":[{\"kind\":\"time_pressure\",\"confidence\":0.7}]}\n```"
	payload, err := parseClassifierResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payload.Signals) != 1 || payload.Signals[0].Kind != "time_pressure" {
		t.Fatalf("unexpected payload: %+v", payload.Signals)
	}
}
