package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pws-mentor-be/internal/dto"
	"pws-mentor-be/internal/entity"
	"pws-mentor-be/internal/repository/memory"
	"pws-mentor-be/pkg/diagnosis"
	"pws-mentor-be/pkg/retrieval"
)

func newSessionFixture() (ISessionService, *fakeStore, *memory.SessionStateRepository) {
	store := newFakeStore()
	stateRepo := memory.NewSessionStateRepository()
	return NewSessionService(&fakeUowFactory{store: store}, stateRepo, noopLogger{}), store, stateRepo
}

func TestCreateSessionDefaultsPersona(t *testing.T) {
	svc, store, _ := newSessionFixture()
	userId := uuid.New()

	res, err := svc.CreateSession(context.Background(), userId, &dto.CreateSessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "mentor", res.PersonaId)

	session := store.session(res.Id)
	require.NotNil(t, session)
	assert.Equal(t, entity.SessionActive, session.Status)
	assert.Equal(t, userId, session.UserId)
}

func TestCreateSessionWithPersona(t *testing.T) {
	svc, _, _ := newSessionFixture()

	res, err := svc.CreateSession(context.Background(), uuid.New(), &dto.CreateSessionRequest{PersonaId: "strategist"})
	require.NoError(t, err)
	assert.Equal(t, "strategist", res.PersonaId)
}

func TestGetHistoryExposesMetadata(t *testing.T) {
	svc, store, _ := newSessionFixture()
	userId := uuid.New()
	session := &entity.MentorSession{Id: uuid.New(), UserId: userId, PersonaId: "mentor", Status: entity.SessionActive}
	store.addSession(session)

	store.mu.Lock()
	store.messages = append(store.messages,
		&entity.MentorMessage{
			Id: uuid.New(), SessionId: session.Id, Role: entity.RoleUser,
			Content: "question", Turn: 1, CreatedAt: time.Now(),
		},
		&entity.MentorMessage{
			Id: uuid.New(), SessionId: session.Id, Role: entity.RoleAssistant,
			Content: "answer", Turn: 1, CreatedAt: time.Now(),
			Metadata: &entity.MessageMetadata{
				Citations: []retrieval.Citation{{Title: "Five Whys", Source: "catalog:root_cause_analysis"}},
				Truncated: true,
			},
		},
	)
	store.mu.Unlock()

	history, err := svc.GetHistory(context.Background(), userId, session.Id)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Empty(t, history[0].Citations)
	assert.False(t, history[0].Truncated)
	require.Len(t, history[1].Citations, 1)
	assert.Equal(t, "Five Whys", history[1].Citations[0].Title)
	assert.True(t, history[1].Truncated)
}

func TestGetHistoryRejectsForeignSession(t *testing.T) {
	svc, store, _ := newSessionFixture()
	session := &entity.MentorSession{Id: uuid.New(), UserId: uuid.New(), PersonaId: "mentor"}
	store.addSession(session)

	_, err := svc.GetHistory(context.Background(), uuid.New(), session.Id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSwitchPersonaLeavesDiagnosisAlone(t *testing.T) {
	svc, store, stateRepo := newSessionFixture()
	userId := uuid.New()
	session := &entity.MentorSession{Id: uuid.New(), UserId: userId, PersonaId: "mentor"}
	store.addSession(session)

	d := diagnosis.New()
	d.Turn = 3
	store.mu.Lock()
	store.diagnoses[session.Id] = &entity.SessionDiagnosis{Id: uuid.New(), SessionId: session.Id, Diagnosis: d}
	store.mu.Unlock()
	stateRepo.Save(&memory.SessionState{SessionID: session.Id.String(), PersonaID: "mentor", Diagnosis: d})

	err := svc.SwitchPersona(context.Background(), userId, session.Id, &dto.SwitchPersonaRequest{PersonaId: "evaluator"})
	require.NoError(t, err)

	assert.Equal(t, "evaluator", store.session(session.Id).PersonaId)

	stored := store.diagnosisFor(session.Id)
	require.NotNil(t, stored)
	assert.Equal(t, 3, stored.Diagnosis.Turn)

	state, ok := stateRepo.Get(session.Id.String())
	require.True(t, ok)
	assert.Equal(t, "evaluator", state.PersonaID)
	assert.Equal(t, 3, state.Diagnosis.Turn)
}

func TestDeleteSessionRemovesEverything(t *testing.T) {
	svc, store, stateRepo := newSessionFixture()
	userId := uuid.New()
	session := &entity.MentorSession{Id: uuid.New(), UserId: userId, PersonaId: "mentor"}
	store.addSession(session)

	store.mu.Lock()
	store.messages = append(store.messages, &entity.MentorMessage{
		Id: uuid.New(), SessionId: session.Id, Role: entity.RoleUser, Content: "hi",
	})
	store.diagnoses[session.Id] = &entity.SessionDiagnosis{Id: uuid.New(), SessionId: session.Id, Diagnosis: diagnosis.New()}
	store.mu.Unlock()
	stateRepo.Save(&memory.SessionState{SessionID: session.Id.String()})

	err := svc.DeleteSession(context.Background(), userId, session.Id)
	require.NoError(t, err)

	assert.Nil(t, store.session(session.Id))
	assert.Empty(t, store.messagesFor(session.Id))
	assert.Nil(t, store.diagnosisFor(session.Id))
	_, ok := stateRepo.Get(session.Id.String())
	assert.False(t, ok)
}

func TestListPersonas(t *testing.T) {
	svc, _, _ := newSessionFixture()

	personas := svc.ListPersonas()
	require.Len(t, personas, 3)
	assert.True(t, personas[0].IsDefault)
	assert.Equal(t, "mentor", personas[0].Id)
}

func TestGetDiagnosisEmptySession(t *testing.T) {
	svc, store, _ := newSessionFixture()
	userId := uuid.New()
	session := &entity.MentorSession{Id: uuid.New(), UserId: userId, PersonaId: "mentor"}
	store.addSession(session)

	res, err := svc.GetDiagnosis(context.Background(), userId, session.Id)
	require.NoError(t, err)
	assert.Equal(t, session.Id, res.SessionId)
	assert.Nil(t, res.Diagnosis)
}
