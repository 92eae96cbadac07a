package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type KnowledgeChunk struct {
	Id          uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string           `gorm:"type:text;not null"`
	Content     string           `gorm:"type:text;not null"`
	Source      string           `gorm:"type:text;not null;index"`
	FrameworkId string           `gorm:"type:varchar(64);index"`
	ChunkIndex  int              `gorm:"default:0"` // 0-based index for ordering
	Embedding   *pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	CreatedAt   time.Time        `gorm:"autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt   `gorm:"index"`
}

func (KnowledgeChunk) TableName() string {
	return "knowledge_chunks"
}
