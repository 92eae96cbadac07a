package retrieval

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"pws-mentor-be/pkg/framework"
	"pws-mentor-be/pkg/signal"
)

const (
	// SimilarityThreshold is the minimum cosine similarity a chunk must
	// reach to be considered at all.
	SimilarityThreshold = 0.5
	// searchLimit is how many candidates we pull from the store before
	// re-ranking.
	searchLimit = 10
	// ResultLimit caps the final context bundle.
	ResultLimit = 5
	// categoryBoost is added to a candidate's rank score when its
	// framework category matches the primary signal's recommended
	// framework category.
	categoryBoost = 0.15
)

// Chunk is one knowledge fragment returned by the vector store. Similarity
// is the raw store similarity (1 - cosine distance), untouched by re-ranking.
type Chunk struct {
	ID          string
	Title       string
	Content     string
	Source      string
	FrameworkID string
	Similarity  float64
}

// Citation attributes a piece of the context bundle.
type Citation struct {
	Title  string `json:"title"`
	Source string `json:"source"`
}

// Result is the retrieval outcome for one turn. A zero Result (empty
// context, no citations) is the degraded form used whenever embedding or
// search fails.
type Result struct {
	Chunks    []Chunk
	Context   string
	Citations []Citation
}

func (r Result) Empty() bool {
	return len(r.Chunks) == 0
}

// Embedder produces the query vector. Implementations wrap the external
// embedding capability.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Store searches the vector index. Implementations return only chunks whose
// similarity meets the threshold, ranked best-first.
type Store interface {
	Search(ctx context.Context, vector []float32, threshold float64, limit int) ([]Chunk, error)
}

// Retriever embeds a query, searches the knowledge store and re-ranks the
// hits by the active signal's framework category.
type Retriever struct {
	embedder Embedder
	store    Store
	catalog  *framework.Catalog
	logger   *log.Logger
}

func NewRetriever(embedder Embedder, store Store, catalog *framework.Catalog, logger *log.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		store:    store,
		catalog:  catalog,
		logger:   logger,
	}
}

// Retrieve returns the context bundle for a query. signals must be ranked
// best-first; the top signal steers re-ranking. Any embedding or store
// failure degrades to an empty Result, never an error, so the turn can
// proceed without context.
func (r *Retriever) Retrieve(ctx context.Context, query string, signals []signal.Signal) Result {
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		r.logger.Printf("[WARN] Retrieval degraded, embedding failed: %v", err)
		return Result{}
	}

	chunks, err := r.store.Search(ctx, vector, SimilarityThreshold, searchLimit)
	if err != nil {
		r.logger.Printf("[WARN] Retrieval degraded, vector search failed: %v", err)
		return Result{}
	}
	if len(chunks) == 0 {
		return Result{}
	}

	ranked := r.rerank(chunks, signals)
	if len(ranked) > ResultLimit {
		ranked = ranked[:ResultLimit]
	}
	return buildResult(ranked)
}

// rerank boosts chunks whose framework category matches the category of the
// primary signal's recommended framework, then re-sorts. The boost affects
// ordering only; reported similarity stays the store's raw value.
func (r *Retriever) rerank(chunks []Chunk, signals []signal.Signal) []Chunk {
	boostCategory, ok := r.primaryCategory(signals)
	if !ok {
		return chunks
	}

	type scored struct {
		chunk Chunk
		score float64
	}
	candidates := make([]scored, len(chunks))
	for i, chunk := range chunks {
		score := chunk.Similarity
		if fw, found := r.catalog.Get(chunk.FrameworkID); found && fw.Category == boostCategory {
			score += categoryBoost
		}
		candidates[i] = scored{chunk: chunk, score: score}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	ranked := make([]Chunk, len(candidates))
	for i, c := range candidates {
		ranked[i] = c.chunk
	}
	return ranked
}

func (r *Retriever) primaryCategory(signals []signal.Signal) (framework.Category, bool) {
	if len(signals) == 0 {
		return "", false
	}
	fw, _, ok := r.catalog.FrameworksFor(signals[0].Kind)
	if !ok {
		return "", false
	}
	return fw.Category, true
}

func buildResult(chunks []Chunk) Result {
	sections := make([]string, len(chunks))
	citations := make([]Citation, len(chunks))
	for i, chunk := range chunks {
		sections[i] = fmt.Sprintf("[%d] %s\n%s", i+1, chunk.Title, chunk.Content)
		citations[i] = Citation{Title: chunk.Title, Source: chunk.Source}
	}
	return Result{
		Chunks:    chunks,
		Context:   strings.Join(sections, "\n\n---\n\n"),
		Citations: citations,
	}
}
