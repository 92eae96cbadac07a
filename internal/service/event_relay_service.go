package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"pws-mentor-be/internal/pkg/logger"
	"pws-mentor-be/internal/repository/specification"
	"pws-mentor-be/internal/repository/unitofwork"
	"pws-mentor-be/internal/websocket"
	"pws-mentor-be/pkg/events"
	"pws-mentor-be/pkg/nats"
)

const relayDurableName = "mentor-event-relay"

// IEventRelayService forwards turn lifecycle events from NATS to the
// websocket hub so a user's other devices see turns land in real time.
type IEventRelayService interface {
	Start() error
}

type eventRelayService struct {
	subscriber *nats.Subscriber
	uowFactory unitofwork.RepositoryFactory
	hub        *websocket.Hub
	log        logger.ILogger
}

func NewEventRelayService(subscriber *nats.Subscriber, uowFactory unitofwork.RepositoryFactory, hub *websocket.Hub, log logger.ILogger) IEventRelayService {
	return &eventRelayService{
		subscriber: subscriber,
		uowFactory: uowFactory,
		hub:        hub,
		log:        log,
	}
}

func (s *eventRelayService) Start() error {
	return s.subscriber.Subscribe("events.>", relayDurableName, s.relay)
}

// relay resolves the event's session to its owner and pushes the event to
// that user's connections. Events without a resolvable owner are dropped.
func (s *eventRelayService) relay(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	sessionIdStr, _ := payload["session_id"].(string)
	sessionId, err := uuid.Parse(sessionIdStr)
	if err != nil {
		s.log.Warn("event_relay", "Event without session id", map[string]interface{}{
			"event": event.EventType(),
		})
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.MentorSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return fmt.Errorf("resolve session owner: %w", err)
	}
	if session == nil {
		return nil
	}

	s.hub.Send(session.UserId, event.EventType(), payload)
	return nil
}
