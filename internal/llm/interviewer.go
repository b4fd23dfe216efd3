package llm

import (
	"context"
	"fmt"
	"strings"

	"mockprep/interview/internal/models"
	"mockprep/interview/internal/prompts"
)

// Interviewer drives a Provider with the interview and evaluation prompts.
// It satisfies both the question provider and evaluator roles of a session.
type Interviewer struct {
	provider Provider
	prompts  prompts.PromptProvider
}

func NewInterviewer(provider Provider, pm prompts.PromptProvider) *Interviewer {
	return &Interviewer{provider: provider, prompts: pm}
}

func (i *Interviewer) ProviderName() string {
	return i.provider.GetProviderName()
}

// NextQuestion asks the provider for the next question given the answered
// exchanges so far. An empty history yields the opening question.
func (i *Interviewer) NextQuestion(ctx context.Context, ic models.InterviewContext, history []models.Exchange) (string, error) {
	data := prompts.InterviewData{InterviewContext: ic, Sentinel: models.CompletionSentinel}

	system, err := i.prompts.BuildPrompt(prompts.InterviewTemplate, prompts.VariantSystem, data)
	if err != nil {
		return "", err
	}
	ack, err := i.prompts.BuildPrompt(prompts.InterviewTemplate, prompts.VariantAcknowledge, data)
	if err != nil {
		return "", err
	}

	variant := prompts.VariantContinue
	if len(history) == 0 {
		variant = prompts.VariantOpening
	}
	instruction, err := i.prompts.BuildPrompt(prompts.InterviewTemplate, variant, data)
	if err != nil {
		return "", err
	}

	reply, err := i.provider.Chat(ctx, system, buildHistory(system, ack, history), instruction)
	if err != nil {
		return "", err
	}

	question := strings.TrimSpace(reply)
	if question == "" {
		return "", &ProviderError{
			Provider: i.provider.GetProviderName(),
			Code:     ErrCodeEmpty,
			Message:  "provider returned no question",
		}
	}
	return question, nil
}

// Evaluate scores a completed transcript. A reply that does not carry a valid
// scorecard yields an error wrapping ErrEvaluationParse.
func (i *Interviewer) Evaluate(ctx context.Context, ic models.InterviewContext, transcript []models.TranscriptEntry) (*models.Scorecard, error) {
	prompt, err := i.prompts.BuildPrompt(prompts.EvaluationTemplate, prompts.VariantDefault, prompts.EvaluationData{
		InterviewContext: ic,
		Transcript:       transcript,
	})
	if err != nil {
		return nil, err
	}

	reply, err := i.provider.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	card, err := ExtractScorecard(reply)
	if err != nil {
		return nil, fmt.Errorf("%s evaluation: %w", i.provider.GetProviderName(), err)
	}
	return card, nil
}

// seeds the chat with the system prompt as a user turn acknowledged by the model,
// then replays each question as a model turn and each answer as a user turn
func buildHistory(system, ack string, exchanges []models.Exchange) []Message {
	history := make([]Message, 0, 2+2*len(exchanges))
	history = append(history,
		Message{Role: RoleUser, Content: system},
		Message{Role: RoleModel, Content: ack},
	)
	for _, ex := range exchanges {
		history = append(history,
			Message{Role: RoleModel, Content: ex.Question},
			Message{Role: RoleUser, Content: ex.Answer},
		)
	}
	return history
}
