package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mockprep/interview/internal/interview"
	"mockprep/interview/internal/models"
)

type pendingLister interface {
	ListPendingEvaluation(ctx context.Context, limit int) ([]*models.InterviewSession, error)
}

type evaluationRetrier interface {
	RetryEvaluation(ctx context.Context, ownerID, sessionID string) (*models.Scorecard, error)
}

// EvaluationRetryJob finds sessions that completed without a scorecard and
// asks the evaluator again. The question provider is never involved.
type EvaluationRetryJob struct {
	store   pendingLister
	retrier evaluationRetrier
	config  *RetryConfig
	logger  *zap.Logger
	cron    *cron.Cron
}

type RetryConfig struct {
	Schedule    string // cron schedule, e.g. "*/5 * * * *"
	Enabled     bool
	BatchSize   int
	Concurrency int
	RunTimeout  time.Duration // bounds a whole run
}

// RunResult summarises one pass over the pending sessions.
type RunResult struct {
	Found     int
	Evaluated int
	Skipped   int
	Failed    int
}

func NewEvaluationRetryJob(store pendingLister, retrier evaluationRetrier, config *RetryConfig, logger *zap.Logger) *EvaluationRetryJob {
	if config.BatchSize <= 0 {
		config.BatchSize = 20
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = 4 * time.Minute
	}
	return &EvaluationRetryJob{
		store:   store,
		retrier: retrier,
		config:  config,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Start schedules the job
func (j *EvaluationRetryJob) Start() error {
	if !j.config.Enabled {
		j.logger.Info("evaluation retry is disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), j.config.RunTimeout)
		defer cancel()
		if _, err := j.RunOnce(ctx); err != nil {
			j.logger.Error("evaluation retry run failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule evaluation retry job: %w", err)
	}

	j.cron.Start()
	j.logger.Info("evaluation retry scheduled", zap.String("schedule", j.config.Schedule))
	return nil
}

// Stop halts scheduling and waits for a running pass to finish
func (j *EvaluationRetryJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
	}
}

// RunOnce retries one batch. Failures of individual sessions are counted and
// logged; only a failure to list the batch is returned as an error.
func (j *EvaluationRetryJob) RunOnce(ctx context.Context) (RunResult, error) {
	pending, err := j.store.ListPendingEvaluation(ctx, j.config.BatchSize)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to list sessions pending evaluation: %w", err)
	}
	if len(pending) == 0 {
		return RunResult{}, nil
	}

	var evaluated, skipped, failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.config.Concurrency)

	for _, session := range pending {
		g.Go(func() error {
			_, err := j.retrier.RetryEvaluation(gctx, session.OwnerID, session.ID)
			switch {
			case err == nil:
				evaluated.Add(1)
			case errors.Is(err, interview.ErrConcurrentUpdate), errors.Is(err, interview.ErrNotFound):
				skipped.Add(1)
			default:
				failed.Add(1)
				j.logger.Warn("evaluation retry failed",
					zap.String("session_id", session.ID),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	result := RunResult{
		Found:     len(pending),
		Evaluated: int(evaluated.Load()),
		Skipped:   int(skipped.Load()),
		Failed:    int(failed.Load()),
	}
	j.logger.Info("evaluation retry run finished",
		zap.Int("found", result.Found),
		zap.Int("evaluated", result.Evaluated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return result, nil
}
