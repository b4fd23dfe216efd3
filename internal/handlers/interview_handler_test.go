package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mockprep/interview/internal/interview"
	"mockprep/interview/internal/llm"
	"mockprep/interview/internal/middleware"
	"mockprep/interview/internal/models"
	"mockprep/interview/internal/repositories"
)

const testOwner = "owner-1"

type testServer struct {
	router http.Handler
	store  *repositories.MemoryStore
}

func newTestServer(t *testing.T, interviewer *scriptedInterviewer) *testServer {
	t.Helper()
	store := repositories.NewMemoryStore()
	service, err := interview.NewService(store, interviewer, interviewer, nil, nil, interview.Config{
		TotalMainQuestions: 2,
		MaxFollowUps:       1,
		ProviderTimeout:    time.Second,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	handler := NewInterviewHandler(service, zap.NewNop())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if owner := req.Header.Get("X-Test-Owner"); owner != "" {
				req = req.WithContext(middleware.WithOwnerID(req.Context(), owner))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.With(middleware.ValidateRequest[*models.StartInterviewRequest]()).Post("/start", handler.StartHandler)
	r.With(middleware.ValidateRequest[*models.SubmitAnswerRequest]()).Post("/answer", handler.AnswerHandler)
	r.Get("/sessions", handler.ListHandler)
	r.Get("/sessions/{id}", handler.GetHandler)
	r.Delete("/sessions/{id}", handler.DeleteHandler)
	r.Post("/sessions/{id}/evaluate", handler.EvaluateHandler)

	return &testServer{router: r, store: store}
}

func (s *testServer) do(t *testing.T, owner, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if owner != "" {
		req.Header.Set("X-Test-Owner", owner)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
	return out
}

func (s *testServer) start(t *testing.T) models.StartInterviewResponse {
	t.Helper()
	rec := s.do(t, testOwner, http.MethodPost, "/start", models.StartInterviewRequest{
		Company:   "Acme",
		Role:      "Backend Engineer",
		RoundType: "Technical",
		Skills:    "Go, go ,Redis",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	return decodeBody[models.StartInterviewResponse](t, rec)
}

func TestStartHandler(t *testing.T) {
	srv := newTestServer(t, &scriptedInterviewer{})
	resp := srv.start(t)

	if resp.SessionID == "" || resp.Question != "Question 1?" {
		t.Fatalf("unexpected start response: %+v", resp)
	}
	if resp.State.TotalMainQuestions != 2 || resp.State.MaxFollowUps != 1 || resp.State.CurrentMainQuestion != 0 {
		t.Fatalf("unexpected initial state: %+v", resp.State)
	}

	stored, err := srv.store.Get(t.Context(), resp.SessionID, testOwner)
	if err != nil {
		t.Fatalf("session not stored: %v", err)
	}
	if stored.Skills != "Go, Redis" {
		t.Fatalf("expected normalized skills, got %q", stored.Skills)
	}
}

func TestStartHandler_Errors(t *testing.T) {
	srv := newTestServer(t, &scriptedInterviewer{})

	rec := srv.do(t, testOwner, http.MethodPost, "/start", models.StartInterviewRequest{Company: "Acme", Role: "SWE", RoundType: "Trivia"})
	if rec.Code != http.StatusBadRequest || decodeBody[models.ErrorResponse](t, rec).Code != "invalid_configuration" {
		t.Fatalf("expected invalid_configuration, got %d %s", rec.Code, rec.Body.String())
	}

	rec = srv.do(t, "", http.MethodPost, "/start", models.StartInterviewRequest{Company: "Acme", Role: "SWE", RoundType: "HR"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without owner, got %d", rec.Code)
	}

	failing := newTestServer(t, &scriptedInterviewer{errs: []error{errUpstream}})
	rec = failing.do(t, testOwner, http.MethodPost, "/start", models.StartInterviewRequest{Company: "Acme", Role: "SWE", RoundType: "HR"})
	if rec.Code != http.StatusBadGateway || decodeBody[models.ErrorResponse](t, rec).Code != "provider_error" {
		t.Fatalf("expected provider_error, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestAnswerHandler_FullInterview(t *testing.T) {
	srv := newTestServer(t, &scriptedInterviewer{})
	sessionID := srv.start(t).SessionID

	expectFollowUp := []bool{true, false, true}
	for i, followUp := range expectFollowUp {
		rec := srv.do(t, testOwner, http.MethodPost, "/answer", models.SubmitAnswerRequest{SessionID: sessionID, Answer: fmt.Sprintf("answer %d", i)})
		if rec.Code != http.StatusOK {
			t.Fatalf("answer %d: expected 200, got %d (%s)", i, rec.Code, rec.Body.String())
		}
		resp := decodeBody[models.SubmitAnswerResponse](t, rec)
		if resp.Done || resp.State == nil || resp.State.IsFollowUp != followUp {
			t.Fatalf("answer %d: unexpected response %+v", i, resp)
		}
	}

	rec := srv.do(t, testOwner, http.MethodPost, "/answer", models.SubmitAnswerRequest{SessionID: sessionID, Answer: "last"})
	resp := decodeBody[models.SubmitAnswerResponse](t, rec)
	if !resp.Done || resp.Message != models.CompletionSentinel || resp.Evaluation == nil {
		t.Fatalf("expected completion with evaluation, got %+v", resp)
	}

	rec = srv.do(t, testOwner, http.MethodPost, "/answer", models.SubmitAnswerRequest{SessionID: sessionID, Answer: "again"})
	if rec.Code != http.StatusConflict || decodeBody[models.ErrorResponse](t, rec).Code != "session_completed" {
		t.Fatalf("expected session_completed, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestAnswerHandler_ProviderEndsEarly(t *testing.T) {
	srv := newTestServer(t, &scriptedInterviewer{finishAt: 2})
	sessionID := srv.start(t).SessionID

	rec := srv.do(t, testOwner, http.MethodPost, "/answer", models.SubmitAnswerRequest{SessionID: sessionID, Answer: "done"})
	resp := decodeBody[models.SubmitAnswerResponse](t, rec)
	if !resp.Done || resp.Evaluation == nil {
		t.Fatalf("expected early completion, got %+v", resp)
	}
}

func TestAnswerHandler_Errors(t *testing.T) {
	timeout := &llm.ProviderError{Provider: "mock", Code: llm.ErrCodeTimeout, Message: "deadline"}
	srv := newTestServer(t, &scriptedInterviewer{errs: []error{nil, timeout}})
	sessionID := srv.start(t).SessionID

	rec := srv.do(t, testOwner, http.MethodPost, "/answer", models.SubmitAnswerRequest{SessionID: sessionID, Answer: "   "})
	if rec.Code != http.StatusBadRequest || decodeBody[models.ErrorResponse](t, rec).Code != "missing_fields" {
		t.Fatalf("expected missing_fields, got %d %s", rec.Code, rec.Body.String())
	}

	rec = srv.do(t, testOwner, http.MethodPost, "/answer", models.SubmitAnswerRequest{SessionID: "nope", Answer: "hi"})
	if rec.Code != http.StatusNotFound || decodeBody[models.ErrorResponse](t, rec).Code != "session_not_found" {
		t.Fatalf("expected session_not_found, got %d %s", rec.Code, rec.Body.String())
	}

	rec = srv.do(t, "intruder", http.MethodPost, "/answer", models.SubmitAnswerRequest{SessionID: sessionID, Answer: "hi"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected other owners to get 404, got %d", rec.Code)
	}

	rec = srv.do(t, testOwner, http.MethodPost, "/answer", models.SubmitAnswerRequest{SessionID: sessionID, Answer: "hi"})
	if rec.Code != http.StatusGatewayTimeout || decodeBody[models.ErrorResponse](t, rec).Code != "provider_timeout" {
		t.Fatalf("expected provider_timeout, got %d %s", rec.Code, rec.Body.String())
	}

	stored, _ := srv.store.Get(t.Context(), sessionID, testOwner)
	if len(stored.Conversation) != 1 || !stored.Conversation[0].IsPending() {
		t.Fatalf("failed answer must not be persisted: %+v", stored.Conversation)
	}
}

func TestSessionEndpoints(t *testing.T) {
	srv := newTestServer(t, &scriptedInterviewer{})
	first := srv.start(t).SessionID
	second := srv.start(t).SessionID

	rec := srv.do(t, testOwner, http.MethodGet, "/sessions", nil)
	list := decodeBody[[]models.SessionSummary](t, rec)
	if len(list) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(list))
	}

	rec = srv.do(t, "someone-else", http.MethodGet, "/sessions", nil)
	if rec.Body.String() != "[]\n" {
		t.Fatalf("expected empty list for another owner, got %s", rec.Body.String())
	}

	rec = srv.do(t, testOwner, http.MethodGet, "/sessions/"+first, nil)
	if got := decodeBody[models.InterviewSession](t, rec); got.ID != first || len(got.Conversation) != 1 {
		t.Fatalf("unexpected session detail: %+v", got)
	}

	rec = srv.do(t, testOwner, http.MethodDelete, "/sessions/"+second, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	rec = srv.do(t, testOwner, http.MethodDelete, "/sessions/"+second, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestEvaluateHandler(t *testing.T) {
	interviewer := &scriptedInterviewer{finishAt: 2, evalErr: fmt.Errorf("mock: %w", llm.ErrEvaluationParse)}
	srv := newTestServer(t, interviewer)
	sessionID := srv.start(t).SessionID

	rec := srv.do(t, testOwner, http.MethodPost, "/sessions/"+sessionID+"/evaluate", nil)
	if rec.Code != http.StatusConflict || decodeBody[models.ErrorResponse](t, rec).Code != "invalid_state" {
		t.Fatalf("expected invalid_state before completion, got %d %s", rec.Code, rec.Body.String())
	}

	rec = srv.do(t, testOwner, http.MethodPost, "/answer", models.SubmitAnswerRequest{SessionID: sessionID, Answer: "done"})
	if rec.Code != http.StatusBadGateway || decodeBody[models.ErrorResponse](t, rec).Code != "evaluation_parse_error" {
		t.Fatalf("expected evaluation_parse_error, got %d %s", rec.Code, rec.Body.String())
	}

	rec = srv.do(t, testOwner, http.MethodPost, "/sessions/"+sessionID+"/evaluate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("retry: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	resp := decodeBody[models.EvaluationResponse](t, rec)
	if resp.SessionID != sessionID || resp.Evaluation == nil || resp.Evaluation.OverallScore != 70 {
		t.Fatalf("unexpected evaluation response: %+v", resp)
	}
}
