package retrieval

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"pws-mentor-be/pkg/framework"
	"pws-mentor-be/pkg/signal"
)

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return make([]float32, 768), nil
}

type stubStore struct {
	chunks []Chunk
	err    error

	gotThreshold float64
	gotLimit     int
}

func (s *stubStore) Search(_ context.Context, _ []float32, threshold float64, limit int) ([]Chunk, error) {
	s.gotThreshold = threshold
	s.gotLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.chunks, nil
}

func newTestRetriever(embedder Embedder, store Store) *Retriever {
	return NewRetriever(embedder, store, framework.NewCatalog(), log.New(io.Discard, "", 0))
}

func chunkFixture(id string, frameworkID string, similarity float64) Chunk {
	return Chunk{
		ID:          id,
		Title:       "Chunk " + id,
		Content:     "content " + id,
		Source:      "catalog:" + frameworkID,
		FrameworkID: frameworkID,
		Similarity:  similarity,
	}
}

func TestRetrievePassesThresholdAndLimit(t *testing.T) {
	store := &stubStore{chunks: []Chunk{chunkFixture("a", "root_cause_analysis", 0.9)}}
	r := newTestRetriever(&stubEmbedder{}, store)

	r.Retrieve(context.Background(), "why is this failing", nil)

	if store.gotThreshold != SimilarityThreshold {
		t.Errorf("threshold = %v, want %v", store.gotThreshold, SimilarityThreshold)
	}
	if store.gotLimit != searchLimit {
		t.Errorf("limit = %v, want %v", store.gotLimit, searchLimit)
	}
}

func TestRetrieveCapsResults(t *testing.T) {
	chunks := make([]Chunk, searchLimit)
	for i := range chunks {
		chunks[i] = chunkFixture(string(rune('a'+i)), "", 0.9-float64(i)*0.01)
	}
	r := newTestRetriever(&stubEmbedder{}, &stubStore{chunks: chunks})

	got := r.Retrieve(context.Background(), "query", nil)

	if len(got.Chunks) != ResultLimit {
		t.Errorf("chunks = %d, want capped at %d", len(got.Chunks), ResultLimit)
	}
	if len(got.Citations) != ResultLimit {
		t.Errorf("citations = %d, want %d", len(got.Citations), ResultLimit)
	}
}

func TestRetrieveDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name     string
		embedder Embedder
		store    Store
	}{
		{
			name:     "embedding failure",
			embedder: &stubEmbedder{err: errors.New("provider down")},
			store:    &stubStore{},
		},
		{
			name:     "store failure",
			embedder: &stubEmbedder{},
			store:    &stubStore{err: errors.New("db down")},
		},
		{
			name:     "no hits",
			embedder: &stubEmbedder{},
			store:    &stubStore{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRetriever(tt.embedder, tt.store)
			got := r.Retrieve(context.Background(), "query", nil)

			if !got.Empty() {
				t.Errorf("Retrieve() = %+v, want empty result", got)
			}
			if got.Context != "" {
				t.Errorf("context = %q, want empty", got.Context)
			}
		})
	}
}

func TestRetrieveBoostReordersMatchingCategory(t *testing.T) {
	// root_cause_analysis shares the causal_ambiguity signal's category;
	// the boost must lift it over a slightly more similar unrelated chunk.
	store := &stubStore{chunks: []Chunk{
		chunkFixture("other", "heart_framework", 0.70),
		chunkFixture("match", "root_cause_analysis", 0.60),
	}}
	r := newTestRetriever(&stubEmbedder{}, store)

	got := r.Retrieve(context.Background(), "query", []signal.Signal{
		{Kind: signal.KindCausalAmbiguity, Confidence: 0.9},
	})

	if got.Chunks[0].ID != "match" {
		t.Fatalf("top chunk = %s, want boosted match", got.Chunks[0].ID)
	}
	// The reported similarity stays the raw store value.
	if got.Chunks[0].Similarity != 0.60 {
		t.Errorf("similarity = %v, want raw 0.60", got.Chunks[0].Similarity)
	}
}

func TestRetrieveNoSignalsKeepsStoreOrder(t *testing.T) {
	store := &stubStore{chunks: []Chunk{
		chunkFixture("first", "heart_framework", 0.80),
		chunkFixture("second", "root_cause_analysis", 0.70),
	}}
	r := newTestRetriever(&stubEmbedder{}, store)

	got := r.Retrieve(context.Background(), "query", nil)

	if got.Chunks[0].ID != "first" || got.Chunks[1].ID != "second" {
		t.Errorf("order = %v, want store order preserved", got.Chunks)
	}
}

func TestRetrieveContextFormat(t *testing.T) {
	store := &stubStore{chunks: []Chunk{
		chunkFixture("a", "", 0.9),
		chunkFixture("b", "", 0.8),
	}}
	r := newTestRetriever(&stubEmbedder{}, store)

	got := r.Retrieve(context.Background(), "query", nil)

	if !strings.Contains(got.Context, "[1] Chunk a") {
		t.Errorf("context missing first section header: %q", got.Context)
	}
	if !strings.Contains(got.Context, "\n\n---\n\n") {
		t.Errorf("context missing section separator: %q", got.Context)
	}
	if len(got.Citations) != 2 || got.Citations[0].Title != "Chunk a" {
		t.Errorf("citations = %v", got.Citations)
	}
}
