package repositories

import (
	"context"
	"errors"

	"mockprep/interview/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrVersionConflict = errors.New("session was modified concurrently")
)

// SessionStore persists interview sessions. Every read and delete is scoped by
// owner; a session belonging to someone else is reported as not found.
type SessionStore interface {
	Create(ctx context.Context, session *models.InterviewSession) error
	Get(ctx context.Context, id, ownerID string) (*models.InterviewSession, error)
	// Update writes the whole session if its stored version still equals
	// session.Version, then bumps session.Version.
	Update(ctx context.Context, session *models.InterviewSession) error
	List(ctx context.Context, ownerID string) ([]models.SessionSummary, error)
	Delete(ctx context.Context, id, ownerID string) error
	// ListPendingEvaluation returns completed sessions that still lack a scorecard,
	// oldest completion first.
	ListPendingEvaluation(ctx context.Context, limit int) ([]*models.InterviewSession, error)
	Ping(ctx context.Context) error
}
