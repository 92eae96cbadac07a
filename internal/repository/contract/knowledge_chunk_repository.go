package contract

import (
	"context"

	"github.com/google/uuid"

	"pws-mentor-be/internal/entity"
	"pws-mentor-be/internal/repository/specification"
)

// ScoredKnowledgeChunk wraps KnowledgeChunk with its similarity score
type ScoredKnowledgeChunk struct {
	Chunk      *entity.KnowledgeChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type KnowledgeChunkRepository interface {
	Create(ctx context.Context, chunk *entity.KnowledgeChunk) error
	CreateBulk(ctx context.Context, chunks []*entity.KnowledgeChunk) error
	Update(ctx context.Context, chunk *entity.KnowledgeChunk) error
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySource(ctx context.Context, source string) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeChunk, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns chunks with their similarity scores, filtered by threshold
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*ScoredKnowledgeChunk, error)
}
