package contract

import (
	"context"

	"github.com/google/uuid"

	"pws-mentor-be/internal/entity"
	"pws-mentor-be/internal/repository/specification"
)

type MentorMessageRepository interface {
	Create(ctx context.Context, message *entity.MentorMessage) error
	Update(ctx context.Context, message *entity.MentorMessage) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MentorMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MentorMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
