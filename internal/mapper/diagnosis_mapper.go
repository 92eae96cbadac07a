package mapper

import (
	"encoding/json"
	"time"

	"pws-mentor-be/internal/entity"
	"pws-mentor-be/internal/model"
	"pws-mentor-be/pkg/diagnosis"
)

type DiagnosisMapper struct{}

func NewDiagnosisMapper() *DiagnosisMapper {
	return &DiagnosisMapper{}
}

func (m *DiagnosisMapper) ToEntity(d *model.SessionDiagnosis) *entity.SessionDiagnosis {
	if d == nil {
		return nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	diag := diagnosis.New()
	if len(d.Diagnosis) > 0 {
		var parsed diagnosis.Diagnosis
		if err := json.Unmarshal(d.Diagnosis, &parsed); err == nil {
			diag = &parsed
		}
	}

	return &entity.SessionDiagnosis{
		Id:        d.Id,
		SessionId: d.SessionId,
		Diagnosis: diag,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *DiagnosisMapper) ToModel(d *entity.SessionDiagnosis) (*model.SessionDiagnosis, error) {
	if d == nil {
		return nil, nil
	}

	diag := d.Diagnosis
	if diag == nil {
		diag = diagnosis.New()
	}
	raw, err := json.Marshal(diag)
	if err != nil {
		return nil, err
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.SessionDiagnosis{
		Id:        d.Id,
		SessionId: d.SessionId,
		Diagnosis: raw,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
	}, nil
}
