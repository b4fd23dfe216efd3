package models

import (
	"strings"
)

type StartInterviewRequest struct {
	Company   string `json:"company"`
	Role      string `json:"role"`
	RoundType string `json:"roundType"`
	Skills    string `json:"skills"`
}

// implements the Validator interface
func (r *StartInterviewRequest) Validate() error {
	r.Company = strings.TrimSpace(r.Company)
	r.Role = strings.TrimSpace(r.Role)
	r.RoundType = strings.TrimSpace(r.RoundType)
	r.Skills = strings.TrimSpace(r.Skills)

	if r.Company == "" || r.Role == "" || r.RoundType == "" {
		return &ErrorResponse{
			Code:    "invalid_configuration",
			Message: "company, role, and roundType are required",
		}
	}

	if !SupportedRoundTypes[RoundType(r.RoundType)] {
		return &ErrorResponse{
			Code:    "invalid_configuration",
			Message: "roundType must be one of: " + strings.Join(SupportedRoundTypesList(), ", "),
		}
	}

	return nil
}

func (r *StartInterviewRequest) Setup() InterviewSetup {
	return InterviewSetup{
		Company:   r.Company,
		Role:      r.Role,
		RoundType: RoundType(r.RoundType),
		Skills:    r.Skills,
	}
}

type SubmitAnswerRequest struct {
	SessionID string `json:"sessionId"`
	Answer    string `json:"answer"`
}

func (r *SubmitAnswerRequest) Validate() error {
	r.SessionID = strings.TrimSpace(r.SessionID)
	r.Answer = strings.TrimSpace(r.Answer)
	if r.SessionID == "" || r.Answer == "" {
		return &ErrorResponse{Code: "missing_fields", Message: "sessionId and answer are required"}
	}
	return nil
}

// InterviewSetup is the configuration a session is created from.
type InterviewSetup struct {
	Company   string
	Role      string
	RoundType RoundType
	Skills    string
}
