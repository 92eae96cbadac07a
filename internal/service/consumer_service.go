package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"pws-mentor-be/internal/dto"
	"pws-mentor-be/internal/repository/specification"
	"pws-mentor-be/internal/repository/unitofwork"
	"pws-mentor-be/pkg/embedding"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedChunkMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing embedding for ChunkId: %s", payload.ChunkId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	chunk, err := uow.KnowledgeChunkRepository().FindOne(ctx, specification.ByID{ID: payload.ChunkId})
	if err != nil {
		log.Printf("[ERROR] Failed to get chunk %s: %v", payload.ChunkId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if chunk == nil {
		log.Printf("[ERROR] Chunk not found: %s", payload.ChunkId)
		msg.Ack() // Chunk deleted? Ack.
		return
	}

	res, err := cs.embeddingProvider.Generate(ctx, chunk.Content, embedding.TaskRetrievalDocument)
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for chunk %s: %v", payload.ChunkId, err)
		msg.Nack()
		return
	}

	if err := uow.KnowledgeChunkRepository().UpdateEmbedding(ctx, chunk.Id, res.Embedding.Values); err != nil {
		log.Printf("[ERROR] Failed to store embedding for chunk %s: %v", payload.ChunkId, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Chunk embedded: %s", payload.ChunkId)
	msg.Ack()
}
