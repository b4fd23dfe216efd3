package handlers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"text/template"

	"mockprep/interview/internal/llm"
	"mockprep/interview/internal/models"
)

type mockProvider struct {
	name string
}

func (m *mockProvider) Chat(context.Context, string, []llm.Message, string) (string, error) {
	return "", nil
}

func (m *mockProvider) Generate(context.Context, string) (string, error) {
	return "", nil
}

func (m *mockProvider) GetProviderName() string {
	if m.name == "" {
		return "mock"
	}
	return m.name
}

type mockPromptManager struct {
	getTemplatesFn func() map[string]map[string]*template.Template
}

func (m *mockPromptManager) BuildPrompt(string, string, interface{}) (string, error) {
	return "mock prompt", nil
}

func (m *mockPromptManager) GetTemplates() map[string]map[string]*template.Template {
	if m.getTemplatesFn == nil {
		return map[string]map[string]*template.Template{
			"interview": {
				"system": template.Must(template.New("test").Parse("test")),
			},
		}
	}
	return m.getTemplatesFn()
}

type mockPinger struct {
	err error
}

func (m mockPinger) Ping(context.Context) error { return m.err }

// scriptedInterviewer asks numbered questions and returns the next queued
// error, if any, before answering.
type scriptedInterviewer struct {
	mu        sync.Mutex
	calls     int
	errs      []error
	finishAt  int
	evalErr   error
	scorecard *models.Scorecard
}

func (s *scriptedInterviewer) NextQuestion(context.Context, models.InterviewContext, []models.Exchange) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return "", err
		}
	}
	if s.finishAt > 0 && s.calls >= s.finishAt {
		return models.CompletionSentinel, nil
	}
	return fmt.Sprintf("Question %d?", s.calls), nil
}

func (s *scriptedInterviewer) Evaluate(context.Context, models.InterviewContext, []models.TranscriptEntry) (*models.Scorecard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evalErr != nil {
		err := s.evalErr
		s.evalErr = nil
		return nil, err
	}
	if s.scorecard != nil {
		return s.scorecard, nil
	}
	return &models.Scorecard{
		TechnicalScore:      70,
		CommunicationScore:  80,
		ProblemSolvingScore: 60,
		OverallScore:        70,
		Strengths:           []string{"clear"},
		Weaknesses:          []string{"depth"},
		Suggestions:         []string{"practice"},
		Verdict:             models.VerdictOnHold,
		Summary:             "Solid.",
	}, nil
}

var errUpstream = errors.New("upstream unavailable")
