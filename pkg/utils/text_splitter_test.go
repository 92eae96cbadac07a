package utils

import (
	"strings"
	"testing"
)

func TestSplitText(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		chunkSize  int
		overlap    int
		wantChunks int
	}{
		{name: "short text single chunk", text: "hello", chunkSize: 100, overlap: 10, wantChunks: 1},
		{name: "exact fit", text: strings.Repeat("a", 100), chunkSize: 100, overlap: 10, wantChunks: 1},
		{name: "two chunks with overlap", text: strings.Repeat("a", 150), chunkSize: 100, overlap: 50, wantChunks: 2},
		{name: "overlap larger than chunk falls back", text: strings.Repeat("a", 250), chunkSize: 100, overlap: 150, wantChunks: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitText(tt.text, tt.chunkSize, tt.overlap)
			if len(got) != tt.wantChunks {
				t.Errorf("SplitText() = %d chunks, want %d", len(got), tt.wantChunks)
			}
			for i, chunk := range got {
				if len([]rune(chunk)) > tt.chunkSize {
					t.Errorf("chunk %d length %d exceeds %d", i, len(chunk), tt.chunkSize)
				}
			}
		})
	}
}

func TestSplitTextOverlapPreservesBoundary(t *testing.T) {
	text := strings.Repeat("x", 80) + strings.Repeat("y", 80)
	chunks := SplitText(text, 100, 20)

	if len(chunks) < 2 {
		t.Fatalf("chunks = %d, want at least 2", len(chunks))
	}
	// The second chunk starts inside the first chunk's tail.
	tail := chunks[0][len(chunks[0])-20:]
	if !strings.HasPrefix(chunks[1], tail) {
		t.Errorf("chunk 1 does not start with chunk 0's overlap tail")
	}
}
