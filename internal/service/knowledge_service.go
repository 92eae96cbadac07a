package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pws-mentor-be/internal/dto"
	"pws-mentor-be/internal/entity"
	"pws-mentor-be/internal/repository/specification"
	"pws-mentor-be/internal/repository/unitofwork"
	"pws-mentor-be/internal/pkg/logger"
	"pws-mentor-be/pkg/utils"
)

// Chunking parameters for knowledge documents.
// ChunkSize 1500 chars (approx 375 tokens), overlap 200 chars.
const (
	knowledgeChunkSize    = 1500
	knowledgeChunkOverlap = 200
)

type IKnowledgeService interface {
	IngestDocument(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
	ReindexSource(ctx context.Context, source string) (int, error)
	CountChunks(ctx context.Context) (int64, error)
}

type knowledgeService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	log              logger.ILogger
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		log:              log,
	}
}

// IngestDocument splits a document into chunks, replaces any previous chunks
// from the same source, and queues each chunk for embedding.
func (s *knowledgeService) IngestDocument(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	chunks := utils.SplitText(req.Content, knowledgeChunkSize, knowledgeChunkOverlap)

	now := time.Now()
	entities := make([]*entity.KnowledgeChunk, len(chunks))
	for i, chunk := range chunks {
		entities[i] = &entity.KnowledgeChunk{
			Id:          uuid.New(),
			Title:       req.Title,
			Content:     chunk,
			Source:      req.Source,
			FrameworkId: req.FrameworkId,
			ChunkIndex:  i,
			CreatedAt:   now,
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.KnowledgeChunkRepository().DeleteBySource(ctx, req.Source); err != nil {
		return nil, fmt.Errorf("delete previous chunks for source %q: %w", req.Source, err)
	}
	if err := uow.KnowledgeChunkRepository().CreateBulk(ctx, entities); err != nil {
		return nil, fmt.Errorf("store chunks for source %q: %w", req.Source, err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(entities))
	for i, e := range entities {
		ids[i] = e.Id
		if err := s.publishEmbedRequest(ctx, e.Id); err != nil {
			s.log.Error("knowledge", "Failed to queue chunk for embedding", map[string]interface{}{
				"chunk_id": e.Id.String(),
				"error":    err.Error(),
			})
		}
	}

	s.log.Info("knowledge", "Document ingested", map[string]interface{}{
		"source": req.Source,
		"chunks": len(entities),
	})

	return &dto.IngestDocumentResponse{
		Source:     req.Source,
		ChunkCount: len(entities),
		ChunkIds:   ids,
	}, nil
}

// ReindexSource re-queues every chunk of a source for embedding. Used after
// switching embedding providers.
func (s *knowledgeService) ReindexSource(ctx context.Context, source string) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chunks, err := uow.KnowledgeChunkRepository().FindAll(ctx,
		specification.Filter("source", source),
		specification.OrderBy{Field: "chunk_index"},
	)
	if err != nil {
		return 0, err
	}

	for _, chunk := range chunks {
		if err := s.publishEmbedRequest(ctx, chunk.Id); err != nil {
			return 0, err
		}
	}
	return len(chunks), nil
}

func (s *knowledgeService) CountChunks(ctx context.Context) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.KnowledgeChunkRepository().Count(ctx)
}

func (s *knowledgeService) publishEmbedRequest(ctx context.Context, chunkId uuid.UUID) error {
	payload, err := json.Marshal(dto.PublishEmbedChunkMessage{ChunkId: chunkId})
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payload)
}
