package entity

import (
	"time"

	"github.com/google/uuid"

	"pws-mentor-be/pkg/diagnosis"
)

// SessionDiagnosis is the one mutable diagnosis row per session. It is only
// ever replaced wholesale inside a committed turn.
type SessionDiagnosis struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Diagnosis *diagnosis.Diagnosis
	CreatedAt time.Time
	UpdatedAt *time.Time
}
