package mapper

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"pws-mentor-be/internal/entity"
	"pws-mentor-be/internal/model"
)

type KnowledgeMapper struct{}

func NewKnowledgeMapper() *KnowledgeMapper {
	return &KnowledgeMapper{}
}

func (m *KnowledgeMapper) ToEntity(c *model.KnowledgeChunk) *entity.KnowledgeChunk {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	var embedding []float32
	if c.Embedding != nil {
		embedding = c.Embedding.Slice()
	}

	return &entity.KnowledgeChunk{
		Id:          c.Id,
		Title:       c.Title,
		Content:     c.Content,
		Source:      c.Source,
		FrameworkId: c.FrameworkId,
		ChunkIndex:  c.ChunkIndex,
		Embedding:   embedding,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   c.DeletedAt.Valid,
	}
}

func (m *KnowledgeMapper) ToModel(c *entity.KnowledgeChunk) *model.KnowledgeChunk {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	var embedding *pgvector.Vector
	if c.Embedding != nil {
		v := pgvector.NewVector(c.Embedding)
		embedding = &v
	}

	return &model.KnowledgeChunk{
		Id:          c.Id,
		Title:       c.Title,
		Content:     c.Content,
		Source:      c.Source,
		FrameworkId: c.FrameworkId,
		ChunkIndex:  c.ChunkIndex,
		Embedding:   embedding,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}
