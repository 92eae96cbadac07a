package entity

import (
	"time"

	"github.com/google/uuid"

	"pws-mentor-be/pkg/retrieval"
	"pws-mentor-be/pkg/signal"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// MessageMetadata is the per-message analysis record. Only assistant
// messages carry a populated value.
type MessageMetadata struct {
	Signals              []signal.Signal      `json:"signals,omitempty"`
	RecommendedFramework string               `json:"recommended_framework,omitempty"`
	RecommendationReason string               `json:"recommendation_reason,omitempty"`
	Citations            []retrieval.Citation `json:"citations,omitempty"`
	Truncated            bool                 `json:"truncated,omitempty"`
	LatencyMs            int64                `json:"latency_ms,omitempty"`
}

type MentorMessage struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Role      string
	Content   string
	Turn      int
	Metadata  *MessageMetadata
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
