package service

import (
	"context"
	"fmt"
	"time"

	"pws-mentor-be/internal/config"
	"pws-mentor-be/internal/entity"
	"pws-mentor-be/internal/pkg/logger"
	"pws-mentor-be/internal/pkg/mailer"
	"pws-mentor-be/internal/repository/memory"
	"pws-mentor-be/internal/repository/specification"
	"pws-mentor-be/internal/repository/unitofwork"
	"pws-mentor-be/pkg/events"
	"pws-mentor-be/pkg/nats"
)

// IArchiverService sweeps idle sessions into the archived state.
type IArchiverService interface {
	ArchiveInactiveSessions(ctx context.Context) (int, error)
	Run(ctx context.Context, interval time.Duration)
}

type archiverService struct {
	uowFactory     unitofwork.RepositoryFactory
	stateRepo      *memory.SessionStateRepository
	eventPublisher *nats.Publisher
	emailService   mailer.IEmailService
	log            logger.ILogger
	smtpCfg        config.SMTPConfig
	archiveAfter   time.Duration
}

func NewArchiverService(
	uowFactory unitofwork.RepositoryFactory,
	stateRepo *memory.SessionStateRepository,
	eventPublisher *nats.Publisher,
	emailService mailer.IEmailService,
	log logger.ILogger,
	smtpCfg config.SMTPConfig,
	archiveAfter time.Duration,
) IArchiverService {
	return &archiverService{
		uowFactory:     uowFactory,
		stateRepo:      stateRepo,
		eventPublisher: eventPublisher,
		emailService:   emailService,
		log:            log,
		smtpCfg:        smtpCfg,
		archiveAfter:   archiveAfter,
	}
}

// Run sweeps on a fixed interval until the context is cancelled.
func (as *archiverService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := as.ArchiveInactiveSessions(ctx); err != nil {
				as.log.Error("archiver", "Sweep failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}

// ArchiveInactiveSessions archives every active session whose last activity
// is older than the configured cutoff. Returns how many were archived.
func (as *archiverService) ArchiveInactiveSessions(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-as.archiveAfter)

	uow := as.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.MentorSessionRepository().FindAll(ctx,
		specification.ByStatus{Status: entity.SessionActive},
		specification.InactiveSince{Cutoff: cutoff},
	)
	if err != nil {
		return 0, err
	}

	archived := 0
	for _, session := range sessions {
		if err := as.archiveSession(ctx, session); err != nil {
			as.log.Error("archiver", "Failed to archive session", map[string]interface{}{
				"session_id": session.Id.String(),
				"error":      err.Error(),
			})
			continue
		}
		archived++
	}

	if archived > 0 {
		as.log.Info("archiver", "Sweep finished", map[string]interface{}{
			"archived": archived,
			"cutoff":   cutoff.Format(time.RFC3339),
		})
	}
	return archived, nil
}

func (as *archiverService) archiveSession(ctx context.Context, session *entity.MentorSession) error {
	session.Status = entity.SessionArchived

	uow := as.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MentorSessionRepository().Update(ctx, session); err != nil {
		return err
	}

	messageCount, err := uow.MentorMessageRepository().Count(ctx,
		specification.BySessionID{SessionID: session.Id},
	)
	if err != nil {
		messageCount = 0
	}

	as.stateRepo.Delete(session.Id.String())

	if as.eventPublisher != nil {
		publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := as.eventPublisher.Publish(publishCtx, events.NewSessionArchived(session.Id.String(), int(messageCount))); err != nil {
			as.log.Warn("archiver", "Failed to publish archive event", map[string]interface{}{
				"session_id": session.Id.String(),
				"error":      err.Error(),
			})
		}
		cancel()
	}

	if as.smtpCfg.NotifyEmail != "" && as.emailService != nil {
		summary := fmt.Sprintf("Session archived after %d turns (%d messages).", session.TurnCount, messageCount)
		if err := as.emailService.SendSessionArchive(as.smtpCfg.NotifyEmail, session.Title, summary); err != nil {
			as.log.Warn("archiver", "Failed to send archive mail", map[string]interface{}{
				"session_id": session.Id.String(),
				"error":      err.Error(),
			})
		}
	}

	return nil
}
