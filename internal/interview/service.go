package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mockprep/interview/internal/events"
	"mockprep/interview/internal/locking"
	"mockprep/interview/internal/metrics"
	"mockprep/interview/internal/models"
	"mockprep/interview/internal/repositories"
)

// QuestionProvider produces the next interview question from the answered
// exchanges so far. It may instead return text carrying the completion sentinel.
type QuestionProvider interface {
	NextQuestion(ctx context.Context, ic models.InterviewContext, history []models.Exchange) (string, error)
}

// Evaluator scores a finished transcript.
type Evaluator interface {
	Evaluate(ctx context.Context, ic models.InterviewContext, transcript []models.TranscriptEntry) (*models.Scorecard, error)
}

type Config struct {
	TotalMainQuestions int
	MaxFollowUps       int
	// ProviderTimeout bounds each question or evaluation call; zero disables it.
	ProviderTimeout time.Duration
}

// AnswerResult is what a submitted answer produced: either the next open
// question or, when Done, the scorecard.
type AnswerResult struct {
	Done       bool
	Question   string
	Progress   models.ProgressState
	Evaluation *models.Scorecard
	Session    *models.InterviewSession
}

// Service is the session controller. Mutations of one session are serialized
// through the locker and every write is version-checked by the store.
type Service struct {
	store     repositories.SessionStore
	questions QuestionProvider
	evaluator Evaluator
	locker    locking.Locker
	publisher events.Publisher
	cfg       Config
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewService(
	store repositories.SessionStore,
	questions QuestionProvider,
	evaluator Evaluator,
	locker locking.Locker,
	publisher events.Publisher,
	cfg Config,
	logger *zap.Logger,
) (*Service, error) {
	if err := ValidateLimits(cfg.TotalMainQuestions, cfg.MaxFollowUps); err != nil {
		return nil, err
	}
	if locker == nil {
		locker = locking.NewLocalLocker()
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		questions: questions,
		evaluator: evaluator,
		locker:    locker,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}, nil
}

// Create starts a session and asks for its opening question. Nothing is stored
// unless the provider answers.
func (s *Service) Create(ctx context.Context, ownerID string, setup models.InterviewSetup) (*models.InterviewSession, error) {
	setup.Company = strings.TrimSpace(setup.Company)
	setup.Role = strings.TrimSpace(setup.Role)
	setup.Skills = strings.TrimSpace(setup.Skills)

	switch {
	case ownerID == "":
		return nil, fmt.Errorf("%w: owner is required", ErrConfiguration)
	case setup.Company == "" || setup.Role == "" || setup.RoundType == "":
		return nil, fmt.Errorf("%w: company, role and round type are required", ErrConfiguration)
	case !models.SupportedRoundTypes[setup.RoundType]:
		return nil, fmt.Errorf("%w: unsupported round type %q", ErrConfiguration, setup.RoundType)
	}

	now := s.now()
	session := &models.InterviewSession{
		ID:                 s.newID(),
		OwnerID:            ownerID,
		Company:            setup.Company,
		Role:               setup.Role,
		RoundType:          setup.RoundType,
		Skills:             setup.Skills,
		Status:             models.StatusInProgress,
		TotalMainQuestions: s.cfg.TotalMainQuestions,
		MaxFollowUps:       s.cfg.MaxFollowUps,
		Conversation:       []models.ConversationEntry{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	question, err := s.askQuestion(ctx, session)
	if err != nil {
		return nil, err
	}
	if IsCompletionSignal(question) {
		return nil, fmt.Errorf("%w: provider ended the interview before asking a question", ErrProvider)
	}

	session.Conversation = append(session.Conversation, models.NewPendingEntry(question, false, 0, 0, now))
	if err := s.store.Create(ctx, session); err != nil {
		return nil, err
	}

	metrics.SessionStarted(string(session.RoundType))
	s.logger.Info("interview session created",
		zap.String("session_id", session.ID),
		zap.String("owner_id", ownerID),
		zap.String("round_type", string(session.RoundType)))

	return session, nil
}

// SubmitAnswer answers the open question and advances the session. A provider
// failure leaves the stored session untouched.
func (s *Service) SubmitAnswer(ctx context.Context, ownerID, sessionID, answer string) (*AnswerResult, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, ErrInvalidAnswer
	}

	release, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := s.load(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, ErrAlreadyCompleted
	}

	open, ok := session.OpenEntry()
	if !ok {
		return nil, fmt.Errorf("%w: no open question", ErrInvalidState)
	}
	if err := open.Record(answer); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	turn := NextTurn(session.CurrentMainQuestion, session.CurrentFollowUpCount, session.MaxFollowUps, session.TotalMainQuestions)
	if turn.Kind == TurnComplete {
		return s.complete(ctx, session, events.TriggerPolicy)
	}

	reply, err := s.askQuestion(ctx, session)
	if err != nil {
		s.logger.Warn("question provider failed",
			zap.String("session_id", sessionID),
			zap.Int("main_index", session.CurrentMainQuestion),
			zap.Int("follow_up", session.CurrentFollowUpCount),
			zap.Error(err))
		return nil, err
	}
	if IsCompletionSignal(reply) {
		return s.complete(ctx, session, events.TriggerProvider)
	}

	now := s.now()
	session.CurrentMainQuestion = turn.MainIndex
	session.CurrentFollowUpCount = turn.FollowUpCount
	session.Conversation = append(session.Conversation,
		models.NewPendingEntry(reply, turn.Kind == TurnFollowUp, turn.MainIndex, turn.FollowUpCount, now))
	session.UpdatedAt = now

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	metrics.AnswerSubmitted(turn.Kind.String())
	s.logger.Debug("answer accepted",
		zap.String("session_id", sessionID),
		zap.String("turn", turn.Kind.String()),
		zap.Int("main_index", turn.MainIndex),
		zap.Int("follow_up", turn.FollowUpCount))

	return &AnswerResult{
		Question: reply,
		Progress: session.Progress(),
		Session:  session,
	}, nil
}

// RetryEvaluation scores a completed session that has no scorecard yet. A
// session that already has one is returned as is without calling the evaluator.
func (s *Service) RetryEvaluation(ctx context.Context, ownerID, sessionID string) (*models.Scorecard, error) {
	release, err := s.lock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	session, err := s.load(ctx, ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsCompleted() {
		return nil, fmt.Errorf("%w: interview is still in progress", ErrInvalidState)
	}
	if session.Evaluation != nil {
		return session.Evaluation, nil
	}

	return s.attachEvaluation(ctx, session)
}

func (s *Service) Get(ctx context.Context, ownerID, sessionID string) (*models.InterviewSession, error) {
	return s.load(ctx, ownerID, sessionID)
}

func (s *Service) List(ctx context.Context, ownerID string) ([]models.SessionSummary, error) {
	return s.store.List(ctx, ownerID)
}

func (s *Service) Delete(ctx context.Context, ownerID, sessionID string) error {
	release, err := s.lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer release()

	if err := s.store.Delete(ctx, sessionID, ownerID); err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.logger.Info("interview session deleted", zap.String("session_id", sessionID), zap.String("owner_id", ownerID))
	return nil
}

// complete seals the session before evaluating it, so an evaluator failure
// leaves a COMPLETED session that RetryEvaluation can resume.
func (s *Service) complete(ctx context.Context, session *models.InterviewSession, trigger string) (*AnswerResult, error) {
	now := s.now()
	session.Status = models.StatusCompleted
	session.CompletedAt = &now
	session.UpdatedAt = now
	session.TotalDurationSeconds = int(now.Sub(session.CreatedAt).Seconds())

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	metrics.AnswerSubmitted(TurnComplete.String())
	metrics.SessionCompleted(trigger)
	s.logger.Info("interview completed",
		zap.String("session_id", session.ID),
		zap.String("owner_id", session.OwnerID),
		zap.String("trigger", trigger),
		zap.Int("main_index", session.CurrentMainQuestion),
		zap.Int("follow_up", session.CurrentFollowUpCount))

	card, evalErr := s.attachEvaluation(ctx, session)
	s.publishCompleted(ctx, session, trigger)
	if evalErr != nil {
		return nil, evalErr
	}

	return &AnswerResult{
		Done:       true,
		Progress:   session.Progress(),
		Evaluation: card,
		Session:    session,
	}, nil
}

func (s *Service) attachEvaluation(ctx context.Context, session *models.InterviewSession) (*models.Scorecard, error) {
	card, err := s.score(ctx, session)
	if err != nil {
		outcome := "provider_error"
		if errors.Is(err, ErrEvaluationParse) {
			outcome = "parse_error"
		}
		metrics.EvaluationAttempt(outcome)
		s.logger.Warn("evaluation failed",
			zap.String("session_id", session.ID),
			zap.String("outcome", outcome),
			zap.Error(err))
		return nil, err
	}

	session.Evaluation = card
	session.UpdatedAt = s.now()
	if err := s.save(ctx, session); err != nil {
		session.Evaluation = nil
		return nil, err
	}

	metrics.EvaluationAttempt("ok")
	return card, nil
}

func (s *Service) askQuestion(ctx context.Context, session *models.InterviewSession) (string, error) {
	callCtx, cancel := s.providerContext(ctx)
	defer cancel()

	start := time.Now()
	question, err := s.questions.NextQuestion(callCtx, session.Context(), session.History())
	metrics.ObserveProvider("question", start, err)
	if err != nil {
		return "", providerFailure(err)
	}
	return question, nil
}

func (s *Service) score(ctx context.Context, session *models.InterviewSession) (*models.Scorecard, error) {
	callCtx, cancel := s.providerContext(ctx)
	defer cancel()

	start := time.Now()
	card, err := s.evaluator.Evaluate(callCtx, session.Context(), session.Transcript())
	metrics.ObserveProvider("evaluation", start, err)
	if err != nil {
		return nil, providerFailure(err)
	}
	if card == nil {
		return nil, fmt.Errorf("%w: evaluator returned no scorecard", ErrEvaluationParse)
	}
	return card, nil
}

func (s *Service) providerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.ProviderTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.ProviderTimeout)
}

func (s *Service) publishCompleted(ctx context.Context, session *models.InterviewSession, trigger string) {
	event := events.InterviewCompletedEvent{
		SessionID:   session.ID,
		OwnerID:     session.OwnerID,
		Company:     session.Company,
		Role:        session.Role,
		RoundType:   string(session.RoundType),
		Trigger:     trigger,
		DurationSec: session.TotalDurationSeconds,
	}
	if session.CompletedAt != nil {
		event.CompletedAt = *session.CompletedAt
	}
	if session.Evaluation != nil {
		event.Evaluated = true
		event.OverallScore = session.Evaluation.OverallScore
		event.Verdict = string(session.Evaluation.Verdict)
	}
	if err := s.publisher.PublishCompleted(ctx, event); err != nil {
		s.logger.Warn("failed to publish completion event", zap.String("session_id", session.ID), zap.Error(err))
	}
}

func (s *Service) lock(ctx context.Context, sessionID string) (func(), error) {
	release, err := s.locker.TryLock(ctx, sessionID)
	if errors.Is(err, locking.ErrLockBusy) {
		return nil, ErrConcurrentUpdate
	}
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	return release, nil
}

func (s *Service) load(ctx context.Context, ownerID, sessionID string) (*models.InterviewSession, error) {
	session, err := s.store.Get(ctx, sessionID, ownerID)
	if errors.Is(err, repositories.ErrSessionNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) save(ctx context.Context, session *models.InterviewSession) error {
	err := s.store.Update(ctx, session)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrVersionConflict):
		return ErrConcurrentUpdate
	case errors.Is(err, repositories.ErrSessionNotFound):
		return ErrNotFound
	default:
		return err
	}
}
