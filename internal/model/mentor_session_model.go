package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MentorSession struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Title      string         `gorm:"type:text;not null"`
	PersonaId  string         `gorm:"type:varchar(32);not null;default:'mentor'"`
	Status     string         `gorm:"type:varchar(16);not null;default:'active';index"`
	TurnCount  int            `gorm:"not null;default:0"`
	LastTurnAt *time.Time     `gorm:"index"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (MentorSession) TableName() string {
	return "mentor_sessions"
}
