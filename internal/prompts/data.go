package prompts

import "mockprep/interview/internal/models"

// Template and variant names shipped in templates/.
const (
	InterviewTemplate  = "interview"
	EvaluationTemplate = "evaluation"

	VariantSystem      = "system"
	VariantAcknowledge = "acknowledge"
	VariantOpening     = "opening"
	VariantContinue    = "continue"
	VariantDefault     = "default"
)

// fields available to interview.yaml
type InterviewData struct {
	models.InterviewContext
	Sentinel string
}

// fields available to evaluation.yaml
type EvaluationData struct {
	models.InterviewContext
	Transcript []models.TranscriptEntry
}
