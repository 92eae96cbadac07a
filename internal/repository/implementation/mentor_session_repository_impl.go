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

type MentorSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MentorMapper
}

func NewMentorSessionRepository(db *gorm.DB) contract.MentorSessionRepository {
	return &MentorSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewMentorMapper(),
	}
}

func (r *MentorSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MentorSessionRepositoryImpl) Create(ctx context.Context, session *entity.MentorSession) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *MentorSessionRepositoryImpl) Update(ctx context.Context, session *entity.MentorSession) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *MentorSessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.MentorSession{}, id).Error
}

func (r *MentorSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MentorSession, error) {
	var m model.MentorSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SessionToEntity(&m), nil
}

func (r *MentorSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MentorSession, error) {
	var models []*model.MentorSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.MentorSession, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SessionToEntity(m)
	}
	return entities, nil
}

func (r *MentorSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.MentorSession{}).Count(&count).Error
	return count, err
}
