package models

// CompletionSentinel is the literal a question provider emits to end the interview
// early; it is also the message returned with the final scorecard.
const CompletionSentinel = "INTERVIEW_COMPLETE"

// progress counters returned after every turn
type ProgressState struct {
	CurrentMainQuestion  int  `json:"currentMainQuestion"`
	CurrentFollowUpCount int  `json:"currentFollowUpCount"`
	TotalMainQuestions   int  `json:"totalMainQuestions"`
	MaxFollowUps         int  `json:"maxFollowUps"`
	IsFollowUp           bool `json:"isFollowUp"`
}

type StartInterviewResponse struct {
	SessionID string        `json:"sessionId"`
	Question  string        `json:"question"`
	State     ProgressState `json:"state"`
}

// either the next question (Done=false) or the final evaluation (Done=true)
type SubmitAnswerResponse struct {
	Done       bool           `json:"done"`
	Question   string         `json:"question,omitempty"`
	State      *ProgressState `json:"state,omitempty"`
	Evaluation *Scorecard     `json:"evaluation,omitempty"`
	Message    string         `json:"message,omitempty"`
}

type EvaluationResponse struct {
	SessionID  string     `json:"sessionId"`
	Evaluation *Scorecard `json:"evaluation"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// uniform error responses
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}
