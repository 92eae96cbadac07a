package service

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pws-mentor-be/internal/config"
	"pws-mentor-be/internal/dto"
	"pws-mentor-be/internal/entity"
	"pws-mentor-be/internal/pkg/sessionlock"
	"pws-mentor-be/internal/repository/contract"
	"pws-mentor-be/internal/repository/memory"
	"pws-mentor-be/internal/repository/specification"
	"pws-mentor-be/internal/repository/unitofwork"
	"pws-mentor-be/pkg/diagnosis"
	"pws-mentor-be/pkg/framework"
	"pws-mentor-be/pkg/llm"
	"pws-mentor-be/pkg/retrieval"
	"pws-mentor-be/pkg/signal"
)

// In-memory store shared by all fake unit of work instances.
type fakeStore struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*entity.MentorSession
	messages  []*entity.MentorMessage
	diagnoses map[uuid.UUID]*entity.SessionDiagnosis
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions:  make(map[uuid.UUID]*entity.MentorSession),
		diagnoses: make(map[uuid.UUID]*entity.SessionDiagnosis),
	}
}

func (s *fakeStore) addSession(session *entity.MentorSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.sessions[session.Id] = &copied
}

func (s *fakeStore) session(id uuid.UUID) *entity.MentorSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[id]; ok {
		copied := *session
		return &copied
	}
	return nil
}

func (s *fakeStore) messagesFor(sessionId uuid.UUID) []*entity.MentorMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.MentorMessage
	for _, msg := range s.messages {
		if msg.SessionId == sessionId {
			copied := *msg
			out = append(out, &copied)
		}
	}
	return out
}

func (s *fakeStore) diagnosisFor(sessionId uuid.UUID) *entity.SessionDiagnosis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.diagnoses[sessionId]
}

type fakeUowFactory struct{ store *fakeStore }

func (f *fakeUowFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeUow struct{ store *fakeStore }

func (u *fakeUow) Begin(_ context.Context) error { return nil }
func (u *fakeUow) Commit() error                 { return nil }
func (u *fakeUow) Rollback() error               { return nil }

func (u *fakeUow) MentorSessionRepository() contract.MentorSessionRepository {
	return &fakeSessionRepo{store: u.store}
}

func (u *fakeUow) MentorMessageRepository() contract.MentorMessageRepository {
	return &fakeMessageRepo{store: u.store}
}

func (u *fakeUow) SessionDiagnosisRepository() contract.SessionDiagnosisRepository {
	return &fakeDiagnosisRepo{store: u.store}
}

func (u *fakeUow) KnowledgeChunkRepository() contract.KnowledgeChunkRepository {
	return nil
}

type fakeSessionRepo struct{ store *fakeStore }

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.MentorSession) error {
	r.store.addSession(session)
	return nil
}

func (r *fakeSessionRepo) Update(_ context.Context, session *entity.MentorSession) error {
	r.store.addSession(session)
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.sessions, id)
	return nil
}

func (r *fakeSessionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.MentorSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, session := range r.store.sessions {
		if sessionMatches(session, specs) {
			copied := *session
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.MentorSession, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.MentorSession
	for _, session := range r.store.sessions {
		if sessionMatches(session, specs) {
			copied := *session
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func sessionMatches(session *entity.MentorSession, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if session.Id != s.ID {
				return false
			}
		case specification.ByUserID:
			if session.UserId != s.UserID {
				return false
			}
		}
	}
	return true
}

type fakeMessageRepo struct{ store *fakeStore }

func (r *fakeMessageRepo) Create(_ context.Context, message *entity.MentorMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *message
	r.store.messages = append(r.store.messages, &copied)
	return nil
}

func (r *fakeMessageRepo) Update(_ context.Context, _ *entity.MentorMessage) error { return nil }
func (r *fakeMessageRepo) Delete(_ context.Context, _ uuid.UUID) error             { return nil }

func (r *fakeMessageRepo) DeleteBySessionId(_ context.Context, sessionId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.messages[:0]
	for _, msg := range r.store.messages {
		if msg.SessionId != sessionId {
			kept = append(kept, msg)
		}
	}
	r.store.messages = kept
	return nil
}

func (r *fakeMessageRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MentorMessage, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeMessageRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.MentorMessage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.MentorMessage
	for _, msg := range r.store.messages {
		matches := true
		for _, spec := range specs {
			if s, ok := spec.(specification.BySessionID); ok && msg.SessionId != s.SessionID {
				matches = false
			}
		}
		if matches {
			copied := *msg
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type fakeDiagnosisRepo struct{ store *fakeStore }

func (r *fakeDiagnosisRepo) Upsert(_ context.Context, d *entity.SessionDiagnosis) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *d
	r.store.diagnoses[d.SessionId] = &copied
	return nil
}

func (r *fakeDiagnosisRepo) FindBySessionId(_ context.Context, sessionId uuid.UUID) (*entity.SessionDiagnosis, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if d, ok := r.store.diagnoses[sessionId]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeDiagnosisRepo) DeleteBySessionId(_ context.Context, sessionId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.diagnoses, sessionId)
	return nil
}

// stubProvider scripts the model side of a turn.
type stubProvider struct {
	chunks    []string
	streamErr error
	chunkGap  time.Duration
}

func (p *stubProvider) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	return "", nil
}

func (p *stubProvider) Generate(_ context.Context, _ string, _ ...llm.Option) (string, error) {
	return "", nil
}

func (p *stubProvider) ChatStream(ctx context.Context, _ []llm.Message, _ ...llm.Option) (<-chan llm.StreamChunk, error) {
	if p.streamErr != nil {
		return nil, p.streamErr
	}
	out := make(chan llm.StreamChunk)
	go func() {
		defer close(out)
		for _, text := range p.chunks {
			if p.chunkGap > 0 {
				time.Sleep(p.chunkGap)
			}
			select {
			case out <- llm.StreamChunk{Text: text}:
			case <-ctx.Done():
				return
			}
		}
		out <- llm.StreamChunk{Done: true}
	}()
	return out, nil
}

// flakyProvider fails the first failures attempts at the stream call, then
// behaves like stubProvider.
type flakyProvider struct {
	stubProvider
	failures int

	mu       sync.Mutex
	attempts int
}

func (p *flakyProvider) ChatStream(ctx context.Context, messages []llm.Message, opts ...llm.Option) (<-chan llm.StreamChunk, error) {
	p.mu.Lock()
	p.attempts++
	attempt := p.attempts
	p.mu.Unlock()

	if attempt <= p.failures {
		return nil, errors.New("model unavailable")
	}
	return p.stubProvider.ChatStream(ctx, messages, opts...)
}

func (p *flakyProvider) attemptCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempts
}

type noopLogger struct{}

func (noopLogger) Debug(string, string, map[string]interface{}) {}
func (noopLogger) Info(string, string, map[string]interface{})  {}
func (noopLogger) Warn(string, string, map[string]interface{})  {}
func (noopLogger) Error(string, string, map[string]interface{}) {}
func (noopLogger) Sync() error                                  { return nil }

type stubQueryEmbedder struct{}

func (stubQueryEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return make([]float32, 768), nil
}

type stubChunkStore struct{ chunks []retrieval.Chunk }

func (s stubChunkStore) Search(_ context.Context, _ []float32, _ float64, _ int) ([]retrieval.Chunk, error) {
	return s.chunks, nil
}

type conversationFixture struct {
	service IConversationService
	store   *fakeStore
	session *entity.MentorSession
	userId  uuid.UUID
}

func newConversationFixture(t *testing.T, provider llm.LLMProvider) *conversationFixture {
	t.Helper()
	return newConversationFixtureWithRetry(t, provider, 0)
}

func newConversationFixtureWithRetry(t *testing.T, provider llm.LLMProvider, generationRetry int) *conversationFixture {
	t.Helper()

	store := newFakeStore()
	userId := uuid.New()
	session := &entity.MentorSession{
		Id:        uuid.New(),
		UserId:    userId,
		PersonaId: "mentor",
		Status:    entity.SessionActive,
		CreatedAt: time.Now(),
	}
	store.addSession(session)

	catalog := framework.NewCatalog()
	discard := log.New(io.Discard, "", 0)
	retriever := retrieval.NewRetriever(
		stubQueryEmbedder{},
		stubChunkStore{chunks: []retrieval.Chunk{{
			ID: "k1", Title: "Five Whys", Content: "Ask why five times.",
			Source: "catalog:root_cause_analysis", FrameworkID: "root_cause_analysis", Similarity: 0.8,
		}}},
		catalog,
		discard,
	)

	svc := NewConversationService(
		&fakeUowFactory{store: store},
		signal.NewDetector(nil, discard),
		retriever,
		diagnosis.NewAggregator(discard),
		framework.NewRecommender(catalog, discard),
		catalog,
		provider,
		nil,
		memory.NewSessionStateRepository(),
		sessionlock.NewLocalLocker(),
		noopLogger{},
		config.TurnConfig{
			AnalysisTimeout:  2 * time.Second,
			LockTTL:          time.Minute,
			MaxMessageLength: 200,
			GenerationRetry:  generationRetry,
		},
	)

	return &conversationFixture{service: svc, store: store, session: session, userId: userId}
}

func runTurnToCompletion(t *testing.T, stream *TurnStream) (string, *dto.TurnRecord) {
	t.Helper()
	var text string
	for chunk := range stream.Chunks() {
		text += chunk
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	record, err := stream.Record(ctx)
	require.NoError(t, err)
	return text, record
}

func TestProcessTurnCommitsFullPipeline(t *testing.T) {
	fx := newConversationFixture(t, &stubProvider{chunks: []string{"Let us find ", "the root cause."}})

	stream, err := fx.service.ProcessTurn(context.Background(), fx.userId, &dto.SendTurnRequest{
		SessionId: fx.session.Id,
		Message:   "I have no idea why our signups keep dropping",
	})
	require.NoError(t, err)

	text, record := runTurnToCompletion(t, stream)

	assert.Equal(t, "Let us find the root cause.", text)
	assert.Equal(t, text, record.FullText)
	assert.Equal(t, 1, record.Turn)
	assert.False(t, record.Failed)
	assert.False(t, record.Truncated)
	assert.NotEmpty(t, record.SignalsDetected)
	assert.Equal(t, "root_cause_analysis", record.RecommendedFramework.FrameworkID)
	require.NotNil(t, record.Diagnosis)
	assert.Equal(t, signal.KindCausalAmbiguity, record.Diagnosis.PrimarySignal)
	assert.Len(t, record.Citations, 1)

	messages := fx.store.messagesFor(fx.session.Id)
	require.Len(t, messages, 2)
	assert.Equal(t, entity.RoleUser, messages[0].Role)
	assert.Equal(t, entity.RoleAssistant, messages[1].Role)
	require.NotNil(t, messages[1].Metadata)
	assert.Equal(t, "root_cause_analysis", messages[1].Metadata.RecommendedFramework)

	session := fx.store.session(fx.session.Id)
	assert.Equal(t, 1, session.TurnCount)
	assert.NotEmpty(t, session.Title)
	require.NotNil(t, session.LastTurnAt)

	stored := fx.store.diagnosisFor(fx.session.Id)
	require.NotNil(t, stored)
	assert.Equal(t, signal.KindCausalAmbiguity, stored.Diagnosis.PrimarySignal)
	assert.True(t, stored.Diagnosis.HasApplied("root_cause_analysis"))
}

func TestProcessTurnValidation(t *testing.T) {
	fx := newConversationFixture(t, &stubProvider{})

	_, err := fx.service.ProcessTurn(context.Background(), fx.userId, &dto.SendTurnRequest{
		SessionId: fx.session.Id,
		Message:   "   ",
	})
	assert.ErrorIs(t, err, ErrValidation)

	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	_, err = fx.service.ProcessTurn(context.Background(), fx.userId, &dto.SendTurnRequest{
		SessionId: fx.session.Id,
		Message:   string(long),
	})
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, fx.store.messagesFor(fx.session.Id))
}

func TestProcessTurnUnknownSession(t *testing.T) {
	fx := newConversationFixture(t, &stubProvider{})

	_, err := fx.service.ProcessTurn(context.Background(), fx.userId, &dto.SendTurnRequest{
		SessionId: uuid.New(),
		Message:   "hello",
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// A session owned by someone else behaves like a missing one.
	_, err = fx.service.ProcessTurn(context.Background(), uuid.New(), &dto.SendTurnRequest{
		SessionId: fx.session.Id,
		Message:   "hello",
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestProcessTurnRejectsConcurrentTurn(t *testing.T) {
	provider := &stubProvider{chunks: []string{"slow", "reply"}, chunkGap: 50 * time.Millisecond}
	fx := newConversationFixture(t, provider)

	stream, err := fx.service.ProcessTurn(context.Background(), fx.userId, &dto.SendTurnRequest{
		SessionId: fx.session.Id,
		Message:   "first turn",
	})
	require.NoError(t, err)

	_, err = fx.service.ProcessTurn(context.Background(), fx.userId, &dto.SendTurnRequest{
		SessionId: fx.session.Id,
		Message:   "second turn while first is running",
	})
	assert.ErrorIs(t, err, sessionlock.ErrTurnInProgress)

	runTurnToCompletion(t, stream)
}

func TestProcessTurnCancellationKeepsPartialWithoutDiagnosis(t *testing.T) {
	provider := &stubProvider{
		chunks:   []string{"partial ", "text ", "never ", "seen"},
		chunkGap: 20 * time.Millisecond,
	}
	fx := newConversationFixture(t, provider)

	stream, err := fx.service.ProcessTurn(context.Background(), fx.userId, &dto.SendTurnRequest{
		SessionId: fx.session.Id,
		Message:   "why does this keep happening",
	})
	require.NoError(t, err)

	// Read one chunk, then walk away.
	<-stream.Chunks()
	stream.Cancel()
	for range stream.Chunks() {
	}

	ctx, cancelCtx := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelCtx()
	record, err := stream.Record(ctx)
	require.NoError(t, err)

	assert.True(t, record.Truncated)
	assert.False(t, record.Failed)
	assert.NotEmpty(t, record.FullText)

	messages := fx.store.messagesFor(fx.session.Id)
	require.Len(t, messages, 2)
	require.NotNil(t, messages[1].Metadata)
	assert.True(t, messages[1].Metadata.Truncated)

	// A cancelled turn never commits a diagnosis.
	assert.Nil(t, fx.store.diagnosisFor(fx.session.Id))
}

func TestProcessTurnGenerationFailure(t *testing.T) {
	fx := newConversationFixture(t, &stubProvider{streamErr: errors.New("model offline")})

	stream, err := fx.service.ProcessTurn(context.Background(), fx.userId, &dto.SendTurnRequest{
		SessionId: fx.session.Id,
		Message:   "why does this keep happening",
	})
	require.NoError(t, err)

	text, record := runTurnToCompletion(t, stream)

	assert.Empty(t, text)
	assert.True(t, record.Failed)
	assert.NotEmpty(t, record.Error)

	// The user message survives; nothing else is committed.
	messages := fx.store.messagesFor(fx.session.Id)
	require.Len(t, messages, 1)
	assert.Equal(t, entity.RoleUser, messages[0].Role)
	assert.Nil(t, fx.store.diagnosisFor(fx.session.Id))
	assert.Equal(t, 0, fx.store.session(fx.session.Id).TurnCount)
}

func TestProcessTurnGenerationRecoversWithinRetryBudget(t *testing.T) {
	provider := &flakyProvider{
		stubProvider: stubProvider{chunks: []string{"recovered."}},
		failures:     2,
	}
	fx := newConversationFixtureWithRetry(t, provider, 2)

	stream, err := fx.service.ProcessTurn(context.Background(), fx.userId, &dto.SendTurnRequest{
		SessionId: fx.session.Id,
		Message:   "why does this keep happening",
	})
	require.NoError(t, err)

	text, record := runTurnToCompletion(t, stream)

	assert.Equal(t, "recovered.", text)
	assert.False(t, record.Failed)
	assert.Equal(t, 3, provider.attemptCount())

	// The recovered turn commits like any other.
	messages := fx.store.messagesFor(fx.session.Id)
	require.Len(t, messages, 2)
	assert.Equal(t, entity.RoleAssistant, messages[1].Role)
	require.NotNil(t, fx.store.diagnosisFor(fx.session.Id))
	assert.Equal(t, 1, fx.store.session(fx.session.Id).TurnCount)
}

func TestProcessTurnGenerationRetryBudgetExhausted(t *testing.T) {
	provider := &flakyProvider{failures: 100}
	fx := newConversationFixtureWithRetry(t, provider, 2)

	stream, err := fx.service.ProcessTurn(context.Background(), fx.userId, &dto.SendTurnRequest{
		SessionId: fx.session.Id,
		Message:   "why does this keep happening",
	})
	require.NoError(t, err)

	text, record := runTurnToCompletion(t, stream)

	assert.Empty(t, text)
	assert.True(t, record.Failed)
	assert.Contains(t, record.Error, "model unavailable")

	// Initial attempt plus two retries, then terminal.
	assert.Equal(t, 3, provider.attemptCount())

	messages := fx.store.messagesFor(fx.session.Id)
	require.Len(t, messages, 1)
	assert.Equal(t, entity.RoleUser, messages[0].Role)
	assert.Nil(t, fx.store.diagnosisFor(fx.session.Id))
	assert.Equal(t, 0, fx.store.session(fx.session.Id).TurnCount)
}

func TestProcessTurnPersonaSwitchPersists(t *testing.T) {
	fx := newConversationFixture(t, &stubProvider{chunks: []string{"evaluated."}})

	stream, err := fx.service.ProcessTurn(context.Background(), fx.userId, &dto.SendTurnRequest{
		SessionId: fx.session.Id,
		PersonaId: "evaluator",
		Message:   "assess my plan",
	})
	require.NoError(t, err)
	runTurnToCompletion(t, stream)

	assert.Equal(t, "evaluator", fx.store.session(fx.session.Id).PersonaId)
}
