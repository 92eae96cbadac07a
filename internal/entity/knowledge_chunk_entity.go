package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeChunk is one embedded fragment of the framework knowledge base.
// Embedding is nil until the ingestion consumer has processed the chunk.
type KnowledgeChunk struct {
	Id          uuid.UUID
	Title       string
	Content     string
	Source      string
	FrameworkId string
	ChunkIndex  int
	Embedding   []float32
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
