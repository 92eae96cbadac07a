package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pws-mentor-be/internal/entity"
	"pws-mentor-be/internal/mapper"
	"pws-mentor-be/internal/model"
	"pws-mentor-be/internal/repository/contract"
)

type SessionDiagnosisRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DiagnosisMapper
}

func NewSessionDiagnosisRepository(db *gorm.DB) contract.SessionDiagnosisRepository {
	return &SessionDiagnosisRepositoryImpl{
		db:     db,
		mapper: mapper.NewDiagnosisMapper(),
	}
}

func (r *SessionDiagnosisRepositoryImpl) Upsert(ctx context.Context, diagnosis *entity.SessionDiagnosis) error {
	m, err := r.mapper.ToModel(diagnosis)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"diagnosis", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	*diagnosis = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionDiagnosisRepositoryImpl) FindBySessionId(ctx context.Context, sessionId uuid.UUID) (*entity.SessionDiagnosis, error) {
	var m model.SessionDiagnosis
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SessionDiagnosisRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.SessionDiagnosis{}).Error
}
