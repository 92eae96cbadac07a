package contract

import (
	"context"

	"github.com/google/uuid"

	"pws-mentor-be/internal/entity"
	"pws-mentor-be/internal/repository/specification"
)

type MentorSessionRepository interface {
	Create(ctx context.Context, session *entity.MentorSession) error
	Update(ctx context.Context, session *entity.MentorSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MentorSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MentorSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
