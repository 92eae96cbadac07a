package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"pws-mentor-be/internal/entity"
	"pws-mentor-be/internal/model"
)

type MentorMapper struct{}

func NewMentorMapper() *MentorMapper {
	return &MentorMapper{}
}

// Session Mappers

func (m *MentorMapper) SessionToEntity(s *model.MentorSession) *entity.MentorSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.MentorSession{
		Id:         s.Id,
		UserId:     s.UserId,
		Title:      s.Title,
		PersonaId:  s.PersonaId,
		Status:     s.Status,
		TurnCount:  s.TurnCount,
		LastTurnAt: s.LastTurnAt,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
		IsDeleted:  s.DeletedAt.Valid,
	}
}

func (m *MentorMapper) SessionToModel(s *entity.MentorSession) *model.MentorSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.MentorSession{
		Id:         s.Id,
		UserId:     s.UserId,
		Title:      s.Title,
		PersonaId:  s.PersonaId,
		Status:     s.Status,
		TurnCount:  s.TurnCount,
		LastTurnAt: s.LastTurnAt,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  updatedAt,
		DeletedAt:  deletedAt,
	}
}

// Message Mappers

func (m *MentorMapper) MessageToEntity(msg *model.MentorMessage) *entity.MentorMessage {
	if msg == nil {
		return nil
	}

	var deletedAt *time.Time
	if msg.DeletedAt.Valid {
		t := msg.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !msg.UpdatedAt.IsZero() {
		t := msg.UpdatedAt
		updatedAt = &t
	}

	var metadata *entity.MessageMetadata
	if len(msg.Metadata) > 0 {
		var parsed entity.MessageMetadata
		if err := json.Unmarshal(msg.Metadata, &parsed); err == nil {
			metadata = &parsed
		}
	}

	return &entity.MentorMessage{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Content:   msg.Content,
		Turn:      msg.Turn,
		Metadata:  metadata,
		CreatedAt: msg.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: msg.DeletedAt.Valid,
	}
}

func (m *MentorMapper) MessageToModel(msg *entity.MentorMessage) *model.MentorMessage {
	if msg == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if msg.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *msg.DeletedAt, Valid: true}
	} else if msg.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if msg.UpdatedAt != nil {
		updatedAt = *msg.UpdatedAt
	}

	var metadata datatypes.JSON
	if msg.Metadata != nil {
		if raw, err := json.Marshal(msg.Metadata); err == nil {
			metadata = raw
		}
	}

	return &model.MentorMessage{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Content:   msg.Content,
		Turn:      msg.Turn,
		Metadata:  metadata,
		CreatedAt: msg.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}
