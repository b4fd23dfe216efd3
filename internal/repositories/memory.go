package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"mockprep/interview/internal/models"
)

// MemoryStore keeps sessions in process. It backs local development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.InterviewSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*models.InterviewSession)}
}

func (m *MemoryStore) Create(_ context.Context, session *models.InterviewSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session.Version = 1
	m.sessions[session.ID] = cloneSession(session)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id, ownerID string) (*models.InterviewSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.sessions[id]
	if !ok || stored.OwnerID != ownerID {
		return nil, ErrSessionNotFound
	}
	return cloneSession(stored), nil
}

func (m *MemoryStore) Update(_ context.Context, session *models.InterviewSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.sessions[session.ID]
	if !ok || stored.OwnerID != session.OwnerID {
		return ErrSessionNotFound
	}
	if stored.Version != session.Version {
		return ErrVersionConflict
	}
	session.Version++
	m.sessions[session.ID] = cloneSession(session)
	return nil
}

func (m *MemoryStore) List(_ context.Context, ownerID string) ([]models.SessionSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.SessionSummary{}
	for _, s := range m.sessions {
		if s.OwnerID == ownerID {
			out = append(out, s.Summary())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) Delete(_ context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.sessions[id]
	if !ok || stored.OwnerID != ownerID {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) ListPendingEvaluation(_ context.Context, limit int) ([]*models.InterviewSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.InterviewSession
	for _, s := range m.sessions {
		if s.NeedsEvaluation() {
			out = append(out, cloneSession(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return completedAt(out[i]).Before(completedAt(out[j])) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func cloneSession(s *models.InterviewSession) *models.InterviewSession {
	cp := *s
	cp.Conversation = append([]models.ConversationEntry(nil), s.Conversation...)
	if s.Evaluation != nil {
		eval := *s.Evaluation
		cp.Evaluation = &eval
	}
	if s.CompletedAt != nil {
		at := *s.CompletedAt
		cp.CompletedAt = &at
	}
	return &cp
}

func completedAt(s *models.InterviewSession) time.Time {
	if s.CompletedAt == nil {
		return s.UpdatedAt
	}
	return *s.CompletedAt
}
