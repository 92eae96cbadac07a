package unitofwork

import (
	"context"

	"pws-mentor-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	MentorSessionRepository() contract.MentorSessionRepository
	MentorMessageRepository() contract.MentorMessageRepository
	SessionDiagnosisRepository() contract.SessionDiagnosisRepository
	KnowledgeChunkRepository() contract.KnowledgeChunkRepository
}
