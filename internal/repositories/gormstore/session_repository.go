package gormstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mockprep/interview/internal/models"
	"mockprep/interview/internal/repositories"
)

type SessionRepository struct {
	DB *gorm.DB
}

// Migrate creates or updates the sessions table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&sessionRecord{})
}

func (r *SessionRepository) Create(ctx context.Context, s *models.InterviewSession) error {
	s.Version = 1
	return r.DB.WithContext(ctx).Create(toRecord(s)).Error
}

func (r *SessionRepository) Get(ctx context.Context, id, ownerID string) (*models.InterviewSession, error) {
	var rec sessionRecord
	err := r.DB.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repositories.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

// Update writes every column guarded by the previous version
func (r *SessionRepository) Update(ctx context.Context, s *models.InterviewSession) error {
	expected := s.Version
	rec := toRecord(s)
	rec.Version = expected + 1

	res := r.DB.WithContext(ctx).
		Model(&sessionRecord{}).
		Where("id = ? AND owner_id = ? AND version = ?", s.ID, s.OwnerID, expected).
		Select("*").
		Omit("id", "owner_id", "created_at").
		Updates(rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrVersionConflict
	}
	s.Version = rec.Version
	return nil
}

func (r *SessionRepository) List(ctx context.Context, ownerID string) ([]models.SessionSummary, error) {
	var recs []sessionRecord
	err := r.DB.WithContext(ctx).
		Omit("conversation").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.SessionSummary, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toModel().Summary())
	}
	return out, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id, ownerID string) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&sessionRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) ListPendingEvaluation(ctx context.Context, limit int) ([]*models.InterviewSession, error) {
	q := r.DB.WithContext(ctx).
		Where("status = ? AND evaluated = ?", string(models.StatusCompleted), false).
		Order("completed_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var recs []sessionRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]*models.InterviewSession, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toModel())
	}
	return out, nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

var _ repositories.SessionStore = (*SessionRepository)(nil)
