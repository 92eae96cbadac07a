package contract

import (
	"context"

	"github.com/google/uuid"

	"pws-mentor-be/internal/entity"
)

type SessionDiagnosisRepository interface {
	// Upsert writes the session's diagnosis row, replacing any existing one.
	Upsert(ctx context.Context, diagnosis *entity.SessionDiagnosis) error
	FindBySessionId(ctx context.Context, sessionId uuid.UUID) (*entity.SessionDiagnosis, error)
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
}
