package models

import (
	"errors"
	"time"
)

type RoundType string

const (
	RoundTechnical    RoundType = "Technical"
	RoundHR           RoundType = "HR"
	RoundSystemDesign RoundType = "System Design"
)

// contains all supported interview round types
var SupportedRoundTypes = map[RoundType]bool{
	RoundTechnical:    true,
	RoundHR:           true,
	RoundSystemDesign: true,
}

func SupportedRoundTypesList() []string {
	return []string{string(RoundTechnical), string(RoundHR), string(RoundSystemDesign)}
}

// Status is monotonic: a COMPLETED session never goes back to IN_PROGRESS.
type Status string

const (
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// EntryState tags a conversation entry as awaiting a reply or answered.
type EntryState string

const (
	EntryPending  EntryState = "pending"
	EntryAnswered EntryState = "answered"
)

var ErrEntryAlreadyAnswered = errors.New("conversation entry already answered")

// ConversationEntry is one question/answer exchange. Answer is only meaningful
// once State is EntryAnswered.
type ConversationEntry struct {
	Question          string     `json:"question" bson:"question"`
	Answer            string     `json:"answer" bson:"answer"`
	State             EntryState `json:"state" bson:"state"`
	IsFollowUp        bool       `json:"isFollowUp" bson:"isFollowUp"`
	MainQuestionIndex int        `json:"mainQuestionIndex" bson:"mainQuestionIndex"`
	FollowUpCount     int        `json:"followUpCount" bson:"followUpCount"`
	Timestamp         time.Time  `json:"timestamp" bson:"timestamp"`
}

func NewPendingEntry(question string, isFollowUp bool, mainIndex, followUpCount int, at time.Time) ConversationEntry {
	return ConversationEntry{
		Question:          question,
		State:             EntryPending,
		IsFollowUp:        isFollowUp,
		MainQuestionIndex: mainIndex,
		FollowUpCount:     followUpCount,
		Timestamp:         at,
	}
}

func (e ConversationEntry) IsPending() bool {
	return e.State == EntryPending
}

// Record moves a pending entry to answered.
func (e *ConversationEntry) Record(answer string) error {
	if !e.IsPending() {
		return ErrEntryAlreadyAnswered
	}
	e.Answer = answer
	e.State = EntryAnswered
	return nil
}

// InterviewSession is the persisted state of one mock interview.
type InterviewSession struct {
	ID        string    `json:"id" bson:"_id"`
	OwnerID   string    `json:"ownerId" bson:"ownerId"`
	Company   string    `json:"company" bson:"company"`
	Role      string    `json:"role" bson:"role"`
	RoundType RoundType `json:"roundType" bson:"roundType"`
	Skills    string    `json:"skills" bson:"skills"`
	Status    Status    `json:"status" bson:"status"`

	CurrentMainQuestion  int `json:"currentMainQuestion" bson:"currentMainQuestion"`
	CurrentFollowUpCount int `json:"currentFollowUpCount" bson:"currentFollowUpCount"`
	TotalMainQuestions   int `json:"totalMainQuestions" bson:"totalMainQuestions"`
	MaxFollowUps         int `json:"maxFollowUps" bson:"maxFollowUps"`

	Conversation []ConversationEntry `json:"conversation" bson:"conversation"`
	Evaluation   *Scorecard          `json:"evaluation,omitempty" bson:"evaluation,omitempty"`

	// Version is bumped on every write and used for optimistic concurrency.
	Version int64 `json:"-" bson:"version"`

	CreatedAt            time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt" bson:"updatedAt"`
	CompletedAt          *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	TotalDurationSeconds int        `json:"totalDuration,omitempty" bson:"totalDuration,omitempty"`
}

// OpenEntry returns the trailing pending entry, if any.
func (s *InterviewSession) OpenEntry() (*ConversationEntry, bool) {
	if len(s.Conversation) == 0 {
		return nil, false
	}
	last := &s.Conversation[len(s.Conversation)-1]
	if !last.IsPending() {
		return nil, false
	}
	return last, true
}

func (s *InterviewSession) IsCompleted() bool {
	return s.Status == StatusCompleted
}

// NeedsEvaluation reports a session that was sealed but whose scorecard was never attached.
func (s *InterviewSession) NeedsEvaluation() bool {
	return s.IsCompleted() && s.Evaluation == nil
}

func (s *InterviewSession) Context() InterviewContext {
	return InterviewContext{
		Company:   s.Company,
		Role:      s.Role,
		RoundType: string(s.RoundType),
		Skills:    s.Skills,

		TotalMainQuestions: s.TotalMainQuestions,
		MaxFollowUps:       s.MaxFollowUps,
	}
}

// History lists answered exchanges in order; the open question is left out.
func (s *InterviewSession) History() []Exchange {
	history := make([]Exchange, 0, len(s.Conversation))
	for _, entry := range s.Conversation {
		if entry.IsPending() {
			continue
		}
		history = append(history, Exchange{Question: entry.Question, Answer: entry.Answer})
	}
	return history
}

func (s *InterviewSession) Transcript() []TranscriptEntry {
	transcript := make([]TranscriptEntry, 0, len(s.Conversation))
	for i, entry := range s.Conversation {
		transcript = append(transcript, TranscriptEntry{
			Index:      i + 1,
			IsFollowUp: entry.IsFollowUp,
			Question:   entry.Question,
			Answer:     entry.Answer,
		})
	}
	return transcript
}

func (s *InterviewSession) Progress() ProgressState {
	isFollowUp := false
	if open, ok := s.OpenEntry(); ok {
		isFollowUp = open.IsFollowUp
	}
	return ProgressState{
		CurrentMainQuestion:  s.CurrentMainQuestion,
		CurrentFollowUpCount: s.CurrentFollowUpCount,
		TotalMainQuestions:   s.TotalMainQuestions,
		MaxFollowUps:         s.MaxFollowUps,
		IsFollowUp:           isFollowUp,
	}
}

func (s *InterviewSession) Summary() SessionSummary {
	return SessionSummary{
		ID:                   s.ID,
		Company:              s.Company,
		Role:                 s.Role,
		RoundType:            s.RoundType,
		Skills:               s.Skills,
		Status:               s.Status,
		CurrentMainQuestion:  s.CurrentMainQuestion,
		CurrentFollowUpCount: s.CurrentFollowUpCount,
		TotalMainQuestions:   s.TotalMainQuestions,
		MaxFollowUps:         s.MaxFollowUps,
		Evaluation:           s.Evaluation,
		CreatedAt:            s.CreatedAt,
		CompletedAt:          s.CompletedAt,
		TotalDurationSeconds: s.TotalDurationSeconds,
	}
}

// SessionSummary is the dashboard view of a session, without the conversation.
type SessionSummary struct {
	ID                   string     `json:"id"`
	Company              string     `json:"company"`
	Role                 string     `json:"role"`
	RoundType            RoundType  `json:"roundType"`
	Skills               string     `json:"skills"`
	Status               Status     `json:"status"`
	CurrentMainQuestion  int        `json:"currentMainQuestion"`
	CurrentFollowUpCount int        `json:"currentFollowUpCount"`
	TotalMainQuestions   int        `json:"totalMainQuestions"`
	MaxFollowUps         int        `json:"maxFollowUps"`
	Evaluation           *Scorecard `json:"evaluation,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
	TotalDurationSeconds int        `json:"totalDuration,omitempty"`
}

// InterviewContext is the immutable setup passed to the question provider and evaluator.
type InterviewContext struct {
	Company   string
	Role      string
	RoundType string
	Skills    string

	TotalMainQuestions int
	MaxFollowUps       int
}

type Exchange struct {
	Question string
	Answer   string
}

type TranscriptEntry struct {
	Index      int
	IsFollowUp bool
	Question   string
	Answer     string
}
