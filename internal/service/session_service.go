package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"pws-mentor-be/internal/dto"
	"pws-mentor-be/internal/entity"
	"pws-mentor-be/internal/pkg/logger"
	"pws-mentor-be/internal/repository/memory"
	"pws-mentor-be/internal/repository/specification"
	"pws-mentor-be/internal/repository/unitofwork"
	"pws-mentor-be/pkg/persona"
)

// ISessionService covers the session lifecycle around the turn pipeline:
// creation, listing, history, persona switching, and deletion.
type ISessionService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]dto.GetAllSessionsResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]dto.GetHistoryResponse, error)
	SwitchPersona(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.SwitchPersonaRequest) error
	GetDiagnosis(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.GetDiagnosisResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error
	ListPersonas() []dto.PersonaResponse
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	stateRepo  *memory.SessionStateRepository
	validate   *validator.Validate
	log        logger.ILogger
}

func NewSessionService(uowFactory unitofwork.RepositoryFactory, stateRepo *memory.SessionStateRepository, log logger.ILogger) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
		stateRepo:  stateRepo,
		validate:   validator.New(),
		log:        log,
	}
}

func (ss *sessionService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	if err := ss.validate.Struct(req); err != nil {
		return nil, ErrValidation
	}

	p := persona.Get(req.PersonaId)
	session := &entity.MentorSession{
		Id:        uuid.New(),
		UserId:    userId,
		PersonaId: p.ID,
		Status:    entity.SessionActive,
		CreatedAt: time.Now(),
	}

	uow := ss.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MentorSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}

	ss.log.Info("session", "Session created", map[string]interface{}{
		"session_id": session.Id.String(),
		"persona":    session.PersonaId,
	})

	return &dto.CreateSessionResponse{Id: session.Id, PersonaId: session.PersonaId}, nil
}

func (ss *sessionService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]dto.GetAllSessionsResponse, error) {
	uow := ss.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.MentorSessionRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GetAllSessionsResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, dto.GetAllSessionsResponse{
			Id:         session.Id,
			Title:      session.Title,
			PersonaId:  session.PersonaId,
			Status:     session.Status,
			TurnCount:  session.TurnCount,
			LastTurnAt: session.LastTurnAt,
			CreatedAt:  session.CreatedAt,
			UpdatedAt:  session.UpdatedAt,
		})
	}
	return responses, nil
}

func (ss *sessionService) GetHistory(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) ([]dto.GetHistoryResponse, error) {
	uow := ss.uowFactory.NewUnitOfWork(ctx)
	if _, err := ss.findOwnedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	messages, err := uow.MentorMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.GetHistoryResponse, 0, len(messages))
	for _, msg := range messages {
		response := dto.GetHistoryResponse{
			Id:        msg.Id,
			Role:      msg.Role,
			Content:   msg.Content,
			Turn:      msg.Turn,
			CreatedAt: msg.CreatedAt,
		}
		if msg.Metadata != nil {
			response.Citations = msg.Metadata.Citations
			response.Truncated = msg.Metadata.Truncated
		}
		responses = append(responses, response)
	}
	return responses, nil
}

// SwitchPersona changes which voice answers from the next turn on. The
// session's diagnosis and history are deliberately left alone.
func (ss *sessionService) SwitchPersona(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.SwitchPersonaRequest) error {
	if err := ss.validate.Struct(req); err != nil {
		return ErrValidation
	}

	uow := ss.uowFactory.NewUnitOfWork(ctx)
	session, err := ss.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}

	session.PersonaId = persona.Get(req.PersonaId).ID
	if err := uow.MentorSessionRepository().Update(ctx, session); err != nil {
		return err
	}

	if state, ok := ss.stateRepo.Get(sessionId.String()); ok {
		state.PersonaID = session.PersonaId
		ss.stateRepo.Save(state)
	}
	return nil
}

func (ss *sessionService) GetDiagnosis(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.GetDiagnosisResponse, error) {
	uow := ss.uowFactory.NewUnitOfWork(ctx)
	if _, err := ss.findOwnedSession(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	row, err := uow.SessionDiagnosisRepository().FindBySessionId(ctx, sessionId)
	if err != nil {
		return nil, err
	}

	response := &dto.GetDiagnosisResponse{SessionId: sessionId}
	if row != nil {
		response.Diagnosis = row.Diagnosis
	}
	return response, nil
}

func (ss *sessionService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	uow := ss.uowFactory.NewUnitOfWork(ctx)
	session, err := ss.findOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MentorMessageRepository().DeleteBySessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.SessionDiagnosisRepository().DeleteBySessionId(ctx, sessionId); err != nil {
		return err
	}
	if err := uow.MentorSessionRepository().Delete(ctx, session.Id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	ss.stateRepo.Delete(sessionId.String())

	ss.log.Info("session", "Session deleted", map[string]interface{}{
		"session_id": sessionId.String(),
	})
	return nil
}

func (ss *sessionService) ListPersonas() []dto.PersonaResponse {
	personas := persona.All()
	responses := make([]dto.PersonaResponse, 0, len(personas))
	for _, p := range personas {
		responses = append(responses, dto.PersonaResponse{
			Id:               p.ID,
			Name:             p.Name,
			ShortDescription: p.ShortDescription,
			IsDefault:        p.IsDefault,
		})
	}
	return responses
}

func (ss *sessionService) findOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, sessionId uuid.UUID) (*entity.MentorSession, error) {
	session, err := uow.MentorSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}
