package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session status values.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionArchived  = "archived"
)

type MentorSession struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	Title      string
	PersonaId  string
	Status     string
	TurnCount  int
	LastTurnAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
