package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"

	"pws-mentor-be/internal/config"
	"pws-mentor-be/internal/constant"
	"pws-mentor-be/internal/dto"
	"pws-mentor-be/internal/entity"
	"pws-mentor-be/internal/pkg/logger"
	"pws-mentor-be/internal/pkg/sessionlock"
	"pws-mentor-be/internal/repository/memory"
	"pws-mentor-be/internal/repository/specification"
	"pws-mentor-be/internal/repository/unitofwork"
	"pws-mentor-be/pkg/diagnosis"
	"pws-mentor-be/pkg/events"
	"pws-mentor-be/pkg/framework"
	"pws-mentor-be/pkg/llm"
	"pws-mentor-be/pkg/nats"
	"pws-mentor-be/pkg/persona"
	"pws-mentor-be/pkg/prompt"
	"pws-mentor-be/pkg/retrieval"
	"pws-mentor-be/pkg/signal"
)

const sessionTitleLimit = 48

// IConversationService runs the per-turn pipeline: signal detection and
// retrieval in parallel, diagnosis update, framework recommendation, prompt
// assembly, and streamed generation with an atomic commit at the end.
type IConversationService interface {
	ProcessTurn(ctx context.Context, userId uuid.UUID, req *dto.SendTurnRequest) (*TurnStream, error)
}

type conversationService struct {
	uowFactory     unitofwork.RepositoryFactory
	detector       *signal.Detector
	retriever      *retrieval.Retriever
	aggregator     *diagnosis.Aggregator
	recommender    *framework.Recommender
	catalog        *framework.Catalog
	llmProvider    llm.LLMProvider
	eventPublisher *nats.Publisher
	stateRepo      *memory.SessionStateRepository
	locker         sessionlock.Locker
	log            logger.ILogger
	turnCfg        config.TurnConfig
}

func NewConversationService(
	uowFactory unitofwork.RepositoryFactory,
	detector *signal.Detector,
	retriever *retrieval.Retriever,
	aggregator *diagnosis.Aggregator,
	recommender *framework.Recommender,
	catalog *framework.Catalog,
	llmProvider llm.LLMProvider,
	eventPublisher *nats.Publisher,
	stateRepo *memory.SessionStateRepository,
	locker sessionlock.Locker,
	log logger.ILogger,
	turnCfg config.TurnConfig,
) IConversationService {
	return &conversationService{
		uowFactory:     uowFactory,
		detector:       detector,
		retriever:      retriever,
		aggregator:     aggregator,
		recommender:    recommender,
		catalog:        catalog,
		llmProvider:    llmProvider,
		eventPublisher: eventPublisher,
		stateRepo:      stateRepo,
		locker:         locker,
		log:            log,
		turnCfg:        turnCfg,
	}
}

// turnContext carries everything the turn goroutine needs after the
// synchronous validation phase succeeded.
type turnContext struct {
	session   *entity.MentorSession
	persona   persona.Persona
	message   string
	turn      int
	history   []llm.Message
	diagnosis *diagnosis.Diagnosis
	release   func()
}

// ProcessTurn validates the request, persists the user message, and launches
// the turn pipeline. Validation and lock failures are returned synchronously;
// everything after that is reported through the stream's final record.
func (cs *conversationService) ProcessTurn(ctx context.Context, userId uuid.UUID, req *dto.SendTurnRequest) (*TurnStream, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: empty message", ErrValidation)
	}
	if cs.turnCfg.MaxMessageLength > 0 && len(message) > cs.turnCfg.MaxMessageLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", ErrValidation, cs.turnCfg.MaxMessageLength)
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.MentorSessionRepository().FindOne(ctx,
		specification.ByID{ID: req.SessionId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	release, err := cs.locker.Acquire(ctx, session.Id.String())
	if err != nil {
		return nil, err
	}

	tc, err := cs.prepareTurn(ctx, uow, session, req, message)
	if err != nil {
		release()
		return nil, err
	}
	tc.release = release

	// The turn outlives the request context; cancellation comes from the
	// stream handle, not from the HTTP request.
	turnCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stream := newTurnStream(cancel)

	go cs.runTurn(turnCtx, stream, tc)

	return stream, nil
}

// prepareTurn loads prior state and persists the user message. The user
// message is committed before generation starts, so no input is ever lost.
func (cs *conversationService) prepareTurn(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	session *entity.MentorSession,
	req *dto.SendTurnRequest,
	message string,
) (*turnContext, error) {
	activePersona := persona.Get(session.PersonaId)
	if req.PersonaId != "" && req.PersonaId != session.PersonaId {
		// Persona switches never touch diagnosis or history.
		activePersona = persona.Get(req.PersonaId)
		session.PersonaId = activePersona.ID
	}

	diag, err := cs.loadDiagnosis(ctx, uow, session.Id)
	if err != nil {
		return nil, err
	}

	history, err := cs.loadHistory(ctx, uow, session.Id)
	if err != nil {
		return nil, err
	}

	turn := session.TurnCount + 1
	userMessage := &entity.MentorMessage{
		Id:        uuid.New(),
		SessionId: session.Id,
		Role:      entity.RoleUser,
		Content:   message,
		Turn:      turn,
		CreatedAt: time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.MentorMessageRepository().Create(ctx, userMessage); err != nil {
		return nil, err
	}
	if err := uow.MentorSessionRepository().Update(ctx, session); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &turnContext{
		session:   session,
		persona:   activePersona,
		message:   message,
		turn:      turn,
		history:   history,
		diagnosis: diag,
	}, nil
}

// runTurn drives the state machine to COMMITTED or FAILED.
func (cs *conversationService) runTurn(ctx context.Context, stream *TurnStream, tc *turnContext) {
	defer tc.release()

	record := &dto.TurnRecord{
		SessionId: tc.session.Id,
		Turn:      tc.turn,
		Diagnosis: tc.diagnosis,
	}

	cs.log.Info("conversation", "Turn started", map[string]interface{}{
		"session_id": tc.session.Id.String(),
		"turn":       tc.turn,
		"state":      constant.TurnStateAnalyzing,
	})

	signals, result := cs.analyze(ctx, tc)
	record.SignalsDetected = signals
	record.Citations = result.Citations

	updated := cs.aggregator.Update(tc.diagnosis, signals)
	rec := cs.recommender.Recommend(updated)
	record.RecommendedFramework = rec

	cs.log.Debug("conversation", "Turn diagnosed", map[string]interface{}{
		"session_id":     tc.session.Id.String(),
		"primary_signal": string(updated.PrimarySignal),
		"framework":      rec.FrameworkID,
		"state":          constant.TurnStateDiagnosed,
	})

	messages := prompt.NewBuilder(tc.persona, tc.history, tc.message, cs.catalog).
		WithContext(result.Context).
		WithAnalysis(updated, rec).
		BuildMessages()

	genStart := time.Now()
	fullText, truncated, err := cs.generate(ctx, stream, messages)
	latency := time.Since(genStart)
	record.FullText = fullText
	record.Truncated = truncated

	if err != nil && !truncated {
		// Terminal generation failure. The user message stays persisted;
		// no assistant message or diagnosis is committed.
		record.Failed = true
		record.Error = err.Error()
		cs.log.Error("conversation", "Turn failed", map[string]interface{}{
			"session_id": tc.session.Id.String(),
			"turn":       tc.turn,
			"error":      err.Error(),
			"state":      constant.TurnStateFailed,
		})
		cs.publishEvent(events.NewTurnFailed(tc.session.Id.String(), err.Error()))
		stream.finish(record)
		return
	}

	if err := cs.commitTurn(ctx, tc, updated, rec, signals, result, fullText, truncated, latency); err != nil {
		record.Failed = true
		record.Error = err.Error()
		cs.log.Error("conversation", "Turn commit failed", map[string]interface{}{
			"session_id": tc.session.Id.String(),
			"turn":       tc.turn,
			"error":      err.Error(),
		})
		stream.finish(record)
		return
	}

	if !truncated {
		record.Diagnosis = updated
	}

	cs.log.Info("conversation", "Turn committed", map[string]interface{}{
		"session_id": tc.session.Id.String(),
		"turn":       tc.turn,
		"truncated":  truncated,
		"state":      constant.TurnStateCommitted,
	})
	cs.publishEvent(events.NewTurnCommitted(
		tc.session.Id.String(), tc.turn, string(updated.PrimarySignal), rec.FrameworkID, truncated,
	))
	stream.finish(record)
}

// analyze runs signal detection and retrieval concurrently against the same
// history snapshot, bounded by the analysis timeout. A timeout degrades the
// late input to its empty value instead of blocking the turn.
func (cs *conversationService) analyze(ctx context.Context, tc *turnContext) ([]signal.Signal, retrieval.Result) {
	analysisCtx, cancel := context.WithTimeout(ctx, cs.turnCfg.AnalysisTimeout)
	defer cancel()

	historyTexts := make([]string, 0, len(tc.history))
	for _, msg := range tc.history {
		if msg.Role == llm.RoleUser {
			historyTexts = append(historyTexts, msg.Content)
		}
	}

	// Retrieval is steered by the previous turn's primary signal; this
	// turn's signals are still being detected in parallel.
	var priorSignals []signal.Signal
	if tc.diagnosis.PrimarySignal != "" {
		priorSignals = []signal.Signal{{Kind: tc.diagnosis.PrimarySignal, Confidence: 1.0}}
	}

	var (
		wg      sync.WaitGroup
		signals []signal.Signal
		result  retrieval.Result
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		signals = cs.detector.Detect(analysisCtx, tc.message, historyTexts)
	}()
	go func() {
		defer wg.Done()
		result = cs.retriever.Retrieve(analysisCtx, tc.message, priorSignals)
	}()
	wg.Wait()

	return signals, result
}

// generate streams the model output, retrying with backoff as long as
// nothing has been forwarded yet. Once the consumer has seen text, a failure
// is terminal rather than retried, to avoid replaying partial output.
func (cs *conversationService) generate(ctx context.Context, stream *TurnStream, messages []llm.Message) (string, bool, error) {
	var full strings.Builder
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond

	for attempt := 0; ; attempt++ {
		chunks, err := cs.llmProvider.ChatStream(ctx, messages)
		if err == nil {
			var done bool
			done, err = cs.forward(stream, &full, chunks)
			if done {
				return full.String(), stream.isCancelled(), nil
			}
		}

		if stream.isCancelled() {
			return full.String(), true, nil
		}
		if full.Len() > 0 || attempt >= cs.turnCfg.GenerationRetry {
			return full.String(), false, fmt.Errorf("%w: %v", llm.ErrGenerationFailure, err)
		}

		select {
		case <-time.After(policy.NextBackOff()):
		case <-ctx.Done():
			return full.String(), stream.isCancelled(), ctx.Err()
		}
	}
}

// forward drains one stream attempt. Returns done=true when the stream ended
// cleanly or the consumer cancelled.
func (cs *conversationService) forward(stream *TurnStream, full *strings.Builder, chunks <-chan llm.StreamChunk) (bool, error) {
	for chunk := range chunks {
		if chunk.Err != nil {
			return false, chunk.Err
		}
		if chunk.Text != "" {
			full.WriteString(chunk.Text)
			if !stream.emit(chunk.Text) {
				// Consumer cancelled mid-stream.
				return true, nil
			}
		}
		if chunk.Done {
			return true, nil
		}
	}
	return true, nil
}

// commitTurn applies the turn's post-analysis state in one transaction. On a
// cancelled turn the partial text is saved with a truncation flag and the
// diagnosis is left untouched.
func (cs *conversationService) commitTurn(
	ctx context.Context,
	tc *turnContext,
	updated *diagnosis.Diagnosis,
	rec framework.Recommendation,
	signals []signal.Signal,
	result retrieval.Result,
	fullText string,
	truncated bool,
	latency time.Duration,
) error {
	now := time.Now()

	metadata := &entity.MessageMetadata{
		Signals:   signals,
		Citations: result.Citations,
		Truncated: truncated,
		LatencyMs: latency.Milliseconds(),
	}
	if !rec.None() {
		metadata.RecommendedFramework = rec.FrameworkID
		metadata.RecommendationReason = rec.Reason
	}

	assistantMessage := &entity.MentorMessage{
		Id:        uuid.New(),
		SessionId: tc.session.Id,
		Role:      entity.RoleAssistant,
		Content:   fullText,
		Turn:      tc.turn,
		Metadata:  metadata,
		CreatedAt: now,
	}

	session := tc.session
	session.TurnCount = tc.turn
	session.LastTurnAt = &now
	if tc.turn == 1 {
		session.Title = deriveTitle(tc.message)
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MentorMessageRepository().Create(ctx, assistantMessage); err != nil {
		return err
	}
	if err := uow.MentorSessionRepository().Update(ctx, session); err != nil {
		return err
	}

	if !truncated {
		// A framework recommended for the signal itself counts as applied
		// once its turn commits; prerequisite detours do not.
		if !rec.None() && rec.Reason != framework.ReasonPrerequisite {
			updated.MarkApplied(rec.FrameworkID)
		}
		if err := uow.SessionDiagnosisRepository().Upsert(ctx, &entity.SessionDiagnosis{
			Id:        uuid.New(),
			SessionId: session.Id,
			Diagnosis: updated,
			CreatedAt: now,
		}); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	cs.cacheState(tc, updated, fullText, truncated)
	return nil
}

func (cs *conversationService) cacheState(tc *turnContext, updated *diagnosis.Diagnosis, fullText string, truncated bool) {
	diag := updated
	if truncated {
		diag = tc.diagnosis
	}
	history := append(tc.history,
		llm.Message{Role: llm.RoleUser, Content: tc.message},
		llm.Message{Role: llm.RoleAssistant, Content: fullText},
	)
	cs.stateRepo.Save(&memory.SessionState{
		SessionID: tc.session.Id.String(),
		PersonaID: tc.session.PersonaId,
		Diagnosis: diag,
		History:   history,
	})
}

func (cs *conversationService) loadDiagnosis(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) (*diagnosis.Diagnosis, error) {
	if state, ok := cs.stateRepo.Get(sessionId.String()); ok && state.Diagnosis != nil {
		return state.Diagnosis.Clone(), nil
	}

	row, err := uow.SessionDiagnosisRepository().FindBySessionId(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if row == nil || row.Diagnosis == nil {
		return diagnosis.New(), nil
	}
	return row.Diagnosis.Clone(), nil
}

func (cs *conversationService) loadHistory(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]llm.Message, error) {
	messages, err := uow.MentorMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	history := make([]llm.Message, 0, len(messages))
	for _, msg := range messages {
		role := llm.RoleUser
		if msg.Role == entity.RoleAssistant {
			role = llm.RoleAssistant
		}
		history = append(history, llm.Message{Role: role, Content: msg.Content})
	}
	return history, nil
}

func (cs *conversationService) publishEvent(event events.Event) {
	if cs.eventPublisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := cs.eventPublisher.Publish(ctx, event); err != nil {
		cs.log.Warn("conversation", "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

func deriveTitle(message string) string {
	title := strings.TrimSpace(message)
	if len(title) > sessionTitleLimit {
		runes := []rune(title)
		if len(runes) > sessionTitleLimit {
			title = string(runes[:sessionTitleLimit]) + "…"
		}
	}
	return title
}
