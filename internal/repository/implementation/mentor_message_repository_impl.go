package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pws-mentor-be/internal/entity"
	"pws-mentor-be/internal/mapper"
	"pws-mentor-be/internal/model"
	"pws-mentor-be/internal/repository/contract"
	"pws-mentor-be/internal/repository/specification"
)

type MentorMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MentorMapper
}

func NewMentorMessageRepository(db *gorm.DB) contract.MentorMessageRepository {
	return &MentorMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewMentorMapper(),
	}
}

func (r *MentorMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MentorMessageRepositoryImpl) Create(ctx context.Context, message *entity.MentorMessage) error {
	m := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *MentorMessageRepositoryImpl) Update(ctx context.Context, message *entity.MentorMessage) error {
	m := r.mapper.MessageToModel(message)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.MessageToEntity(m)
	return nil
}

func (r *MentorMessageRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.MentorMessage{}, id).Error
}

func (r *MentorMessageRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.MentorMessage{}).Error
}

func (r *MentorMessageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MentorMessage, error) {
	var m model.MentorMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.MessageToEntity(&m), nil
}

func (r *MentorMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MentorMessage, error) {
	var models []*model.MentorMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.MentorMessage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MessageToEntity(m)
	}
	return entities, nil
}

func (r *MentorMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.MentorMessage{}).Count(&count).Error
	return count, err
}
