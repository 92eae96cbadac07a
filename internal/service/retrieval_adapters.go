package service

import (
	"context"

	"pws-mentor-be/internal/repository/unitofwork"
	"pws-mentor-be/pkg/embedding"
	"pws-mentor-be/pkg/retrieval"
)

// queryEmbedder bridges the embedding provider into the retriever's narrow
// interface.
type queryEmbedder struct {
	provider embedding.EmbeddingProvider
}

func NewQueryEmbedder(provider embedding.EmbeddingProvider) retrieval.Embedder {
	return &queryEmbedder{provider: provider}
}

func (e *queryEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	res, err := e.provider.Generate(ctx, text, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}
	return res.Embedding.Values, nil
}

// knowledgeStore bridges the pgvector repository into the retriever's store
// interface.
type knowledgeStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewKnowledgeStore(uowFactory unitofwork.RepositoryFactory) retrieval.Store {
	return &knowledgeStore{uowFactory: uowFactory}
}

func (s *knowledgeStore) Search(ctx context.Context, vector []float32, threshold float64, limit int) ([]retrieval.Chunk, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	scored, err := uow.KnowledgeChunkRepository().SearchSimilarWithScore(ctx, vector, limit, threshold)
	if err != nil {
		return nil, err
	}

	chunks := make([]retrieval.Chunk, len(scored))
	for i, sc := range scored {
		chunks[i] = retrieval.Chunk{
			ID:          sc.Chunk.Id.String(),
			Title:       sc.Chunk.Title,
			Content:     sc.Chunk.Content,
			Source:      sc.Chunk.Source,
			FrameworkID: sc.Chunk.FrameworkId,
			Similarity:  sc.Similarity,
		}
	}
	return chunks, nil
}
