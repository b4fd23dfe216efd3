package gormstore

import (
	"time"

	"mockprep/interview/internal/models"
)

// sessionRecord is the relational row for an interview session. The conversation
// and scorecard are stored as JSON columns.
type sessionRecord struct {
	ID        string `gorm:"primaryKey;size:36"`
	OwnerID   string `gorm:"not null;index:idx_owner_created,priority:1"`
	Company   string `gorm:"not null"`
	Role      string `gorm:"not null"`
	RoundType string `gorm:"not null"`
	Skills    string `gorm:"type:text"`
	Status    string `gorm:"not null;index:idx_pending,priority:1"`

	CurrentMainQuestion  int
	CurrentFollowUpCount int
	TotalMainQuestions   int
	MaxFollowUps         int

	Conversation []models.ConversationEntry `gorm:"serializer:json;type:text"`
	Evaluation   *models.Scorecard          `gorm:"serializer:json;type:text"`
	Evaluated    bool                       `gorm:"not null;default:false;index:idx_pending,priority:2"`

	Version int64 `gorm:"not null"`

	CreatedAt            time.Time `gorm:"autoCreateTime:false;index:idx_owner_created,priority:2"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime:false"`
	CompletedAt          *time.Time
	TotalDurationSeconds int
}

func (sessionRecord) TableName() string { return "interview_sessions" }

func toRecord(s *models.InterviewSession) *sessionRecord {
	return &sessionRecord{
		ID:                   s.ID,
		OwnerID:              s.OwnerID,
		Company:              s.Company,
		Role:                 s.Role,
		RoundType:            string(s.RoundType),
		Skills:               s.Skills,
		Status:               string(s.Status),
		CurrentMainQuestion:  s.CurrentMainQuestion,
		CurrentFollowUpCount: s.CurrentFollowUpCount,
		TotalMainQuestions:   s.TotalMainQuestions,
		MaxFollowUps:         s.MaxFollowUps,
		Conversation:         s.Conversation,
		Evaluation:           s.Evaluation,
		Evaluated:            s.Evaluation != nil,
		Version:              s.Version,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
		CompletedAt:          s.CompletedAt,
		TotalDurationSeconds: s.TotalDurationSeconds,
	}
}

func (r *sessionRecord) toModel() *models.InterviewSession {
	conversation := r.Conversation
	if conversation == nil {
		conversation = []models.ConversationEntry{}
	}
	return &models.InterviewSession{
		ID:                   r.ID,
		OwnerID:              r.OwnerID,
		Company:              r.Company,
		Role:                 r.Role,
		RoundType:            models.RoundType(r.RoundType),
		Skills:               r.Skills,
		Status:               models.Status(r.Status),
		CurrentMainQuestion:  r.CurrentMainQuestion,
		CurrentFollowUpCount: r.CurrentFollowUpCount,
		TotalMainQuestions:   r.TotalMainQuestions,
		MaxFollowUps:         r.MaxFollowUps,
		Conversation:         conversation,
		Evaluation:           r.Evaluation,
		Version:              r.Version,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
		CompletedAt:          r.CompletedAt,
		TotalDurationSeconds: r.TotalDurationSeconds,
	}
}
