package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"mockprep/interview/internal/interview"
	"mockprep/interview/internal/middleware"
	"mockprep/interview/internal/models"
	"mockprep/interview/internal/utils"
)

type InterviewHandler struct {
	service *interview.Service
	logger  *zap.Logger
}

func NewInterviewHandler(service *interview.Service, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		service: service,
		logger:  logger,
	}
}

// StartHandler creates a session and returns its opening question.
func (h *InterviewHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	req := middleware.GetValidatedRequest[*models.StartInterviewRequest](r)

	setup := req.Setup()
	setup.Skills = utils.NormalizeSkills(setup.Skills)

	session, err := h.service.Create(r.Context(), ownerID, setup)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	open, _ := session.OpenEntry()
	utils.JSON(w, http.StatusCreated, models.StartInterviewResponse{
		SessionID: session.ID,
		Question:  open.Question,
		State:     session.Progress(),
	})
}

// AnswerHandler records an answer and returns the next question or the scorecard.
func (h *InterviewHandler) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}
	req := middleware.GetValidatedRequest[*models.SubmitAnswerRequest](r)

	result, err := h.service.SubmitAnswer(r.Context(), ownerID, req.SessionID, req.Answer)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if result.Done {
		utils.JSON(w, http.StatusOK, models.SubmitAnswerResponse{
			Done:       true,
			Evaluation: result.Evaluation,
			Message:    models.CompletionSentinel,
		})
		return
	}

	progress := result.Progress
	utils.JSON(w, http.StatusOK, models.SubmitAnswerResponse{
		Question: result.Question,
		State:    &progress,
	})
}

func (h *InterviewHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	sessions, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []models.SessionSummary{}
	}
	utils.JSON(w, http.StatusOK, sessions)
}

func (h *InterviewHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	session, err := h.service.Get(r.Context(), ownerID, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, session)
}

func (h *InterviewHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), ownerID, chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.MessageResponse{Message: "Session deleted"})
}

// EvaluateHandler retries the evaluation of a completed session.
func (h *InterviewHandler) EvaluateHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.owner(w, r)
	if !ok {
		return
	}

	sessionID := chi.URLParam(r, "id")
	card, err := h.service.RetryEvaluation(r.Context(), ownerID, sessionID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.EvaluationResponse{SessionID: sessionID, Evaluation: card})
}

func (h *InterviewHandler) owner(w http.ResponseWriter, r *http.Request) (string, bool) {
	ownerID, ok := middleware.OwnerIDFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing owner identity")
	}
	return ownerID, ok
}

// writeServiceError maps the interview error taxonomy onto HTTP responses.
func (h *InterviewHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, message := http.StatusInternalServerError, "internal_error", "Something went wrong"

	switch {
	case errors.Is(err, interview.ErrConfiguration):
		status, code, message = http.StatusBadRequest, "invalid_configuration", configMessage(err)
	case errors.Is(err, interview.ErrInvalidAnswer):
		status, code, message = http.StatusBadRequest, "missing_fields", "sessionId and answer are required"
	case errors.Is(err, interview.ErrNotFound):
		status, code, message = http.StatusNotFound, "session_not_found", "Session not found"
	case errors.Is(err, interview.ErrAlreadyCompleted):
		status, code, message = http.StatusConflict, "session_completed", "Interview already completed"
	case errors.Is(err, interview.ErrInvalidState):
		status, code, message = http.StatusConflict, "invalid_state", "Interview is not in a state that allows this"
	case errors.Is(err, interview.ErrConcurrentUpdate):
		status, code, message = http.StatusConflict, "session_busy", "Session is being updated, retry shortly"
	case errors.Is(err, interview.ErrProviderTimeout):
		status, code, message = http.StatusGatewayTimeout, "provider_timeout", "The interviewer took too long to respond"
	case errors.Is(err, interview.ErrEvaluationParse):
		status, code, message = http.StatusBadGateway, "evaluation_parse_error", "Could not read the evaluation, retry later"
	case errors.Is(err, interview.ErrProvider):
		status, code, message = http.StatusBadGateway, "provider_error", "The interviewer is unavailable"
	}

	fields := []zap.Field{
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.String("code", code),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("interview request failed", fields...)
	} else {
		h.logger.Debug("interview request rejected", fields...)
	}

	utils.WriteError(w, status, code, message)
}

// configuration errors are caller mistakes, so their detail is safe to return
func configMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
