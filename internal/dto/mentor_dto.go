package dto

import (
	"time"

	"github.com/google/uuid"

	"pws-mentor-be/pkg/diagnosis"
	"pws-mentor-be/pkg/framework"
	"pws-mentor-be/pkg/retrieval"
	"pws-mentor-be/pkg/signal"
)

type CreateSessionRequest struct {
	PersonaId string `json:"persona_id,omitempty" validate:"omitempty,oneof=mentor evaluator strategist"`
}

type CreateSessionResponse struct {
	Id        uuid.UUID `json:"id"`
	PersonaId string    `json:"persona_id"`
}

type GetAllSessionsResponse struct {
	Id         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	PersonaId  string     `json:"persona_id"`
	Status     string     `json:"status"`
	TurnCount  int        `json:"turn_count"`
	LastTurnAt *time.Time `json:"last_turn_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at"`
}

type GetHistoryResponse struct {
	Id        uuid.UUID            `json:"id"`
	Role      string               `json:"role"`
	Content   string               `json:"content"`
	Turn      int                  `json:"turn"`
	CreatedAt time.Time            `json:"created_at"`
	Citations []retrieval.Citation `json:"citations,omitempty"`
	Truncated bool                 `json:"truncated,omitempty"`
}

type SendTurnRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	PersonaId string    `json:"persona_id,omitempty" validate:"omitempty,oneof=mentor evaluator strategist"`
	Message   string    `json:"message" validate:"required"`
}

type SwitchPersonaRequest struct {
	PersonaId string `json:"persona_id" validate:"required,oneof=mentor evaluator strategist"`
}

type GetDiagnosisResponse struct {
	SessionId uuid.UUID            `json:"session_id"`
	Diagnosis *diagnosis.Diagnosis `json:"diagnosis"`
}

type PersonaResponse struct {
	Id               string `json:"id"`
	Name             string `json:"name"`
	ShortDescription string `json:"short_description"`
	IsDefault        bool   `json:"is_default"`
}

// TurnChunk is one piece of streamed reply text.
type TurnChunk struct {
	Text string `json:"text"`
}

// TurnRecord is the structured summary delivered after the streamed text is
// exhausted or cancelled.
type TurnRecord struct {
	SessionId            uuid.UUID                `json:"session_id"`
	Turn                 int                      `json:"turn"`
	FullText             string                   `json:"full_text"`
	SignalsDetected      []signal.Signal          `json:"signals_detected"`
	RecommendedFramework framework.Recommendation `json:"recommended_framework"`
	Diagnosis            *diagnosis.Diagnosis     `json:"diagnosis"`
	Citations            []retrieval.Citation     `json:"citations"`
	Truncated            bool                     `json:"truncated"`
	Failed               bool                     `json:"failed,omitempty"`
	Error                string                   `json:"error,omitempty"`
}
