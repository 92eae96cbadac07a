package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "turn.committed").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type codes.
const (
	TypeTurnCommitted   = "turn.committed"
	TypeTurnFailed      = "turn.failed"
	TypeSessionArchived = "session.archived"
)

// BaseEvent is the generic Event implementation used across the service.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewTurnCommitted records a fully committed conversation turn.
func NewTurnCommitted(sessionID string, turn int, primarySignal, frameworkID string, truncated bool) Event {
	return BaseEvent{
		Type: TypeTurnCommitted,
		Data: map[string]interface{}{
			"session_id":     sessionID,
			"turn":           turn,
			"primary_signal": primarySignal,
			"framework_id":   frameworkID,
			"truncated":      truncated,
		},
		OccurredAt: time.Now(),
	}
}

// NewTurnFailed records a turn that ended in terminal generation failure.
func NewTurnFailed(sessionID string, reason string) Event {
	return BaseEvent{
		Type: TypeTurnFailed,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"reason":     reason,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionArchived records a session archived after the inactivity window.
func NewSessionArchived(sessionID string, messageCount int) Event {
	return BaseEvent{
		Type: TypeSessionArchived,
		Data: map[string]interface{}{
			"session_id":    sessionID,
			"message_count": messageCount,
		},
		OccurredAt: time.Now(),
	}
}
