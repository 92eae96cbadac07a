package dto

import "github.com/google/uuid"

// PublishEmbedChunkMessage is the payload queued for the embedding consumer.
type PublishEmbedChunkMessage struct {
	ChunkId uuid.UUID `json:"chunk_id"`
}

type IngestDocumentRequest struct {
	Title       string `json:"title" validate:"required"`
	Content     string `json:"content" validate:"required"`
	Source      string `json:"source" validate:"required"`
	FrameworkId string `json:"framework_id,omitempty"`
}

type IngestDocumentResponse struct {
	Source     string      `json:"source"`
	ChunkCount int         `json:"chunk_count"`
	ChunkIds   []uuid.UUID `json:"chunk_ids"`
}
