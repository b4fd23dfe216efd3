package handlers

import (
	"context"
	"net/http"
	"time"

	"mockprep/interview/internal/llm"
	"mockprep/interview/internal/prompts"
	"mockprep/interview/internal/utils"
)

const serviceName = "interview"

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"` // "ready" | "not_ready"
	Service string                    `json:"service"`
	Checks  map[string]ReadinessCheck `json:"checks"`
}

// Pinger is anything whose reachability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	provider      llm.Provider
	promptManager prompts.PromptProvider
	store         Pinger
	pingTimeout   time.Duration
}

func NewHealthHandler(provider llm.Provider, promptManager prompts.PromptProvider, store Pinger) *HealthHandler {
	return &HealthHandler{
		provider:      provider,
		promptManager: promptManager,
		store:         store,
		pingTimeout:   2 * time.Second,
	}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
		"version": "1.0.0",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := map[string]ReadinessCheck{
		"provider":       handler.checkProvider(),
		"prompt_manager": handler.checkPrompts(),
		"store":          handler.checkStore(request.Context()),
	}

	response := ReadinessResponse{
		Status:  "ready",
		Service: serviceName,
		Checks:  checks,
	}
	for _, check := range checks {
		if check.Status != "ok" {
			response.Status = "not_ready"
			utils.JSON(writer, http.StatusServiceUnavailable, response)
			return
		}
	}
	utils.JSON(writer, http.StatusOK, response)
}

func (handler *HealthHandler) checkProvider() ReadinessCheck {
	if handler.provider == nil {
		return failed("AI provider not initialized")
	}
	return ReadinessCheck{Status: "ok", Message: handler.provider.GetProviderName()}
}

func (handler *HealthHandler) checkPrompts() ReadinessCheck {
	if handler.promptManager == nil {
		return failed("Prompt manager not initialized")
	}
	if len(handler.promptManager.GetTemplates()) == 0 {
		return failed("No prompt templates loaded")
	}
	return ReadinessCheck{Status: "ok"}
}

func (handler *HealthHandler) checkStore(ctx context.Context) ReadinessCheck {
	if handler.store == nil {
		return failed("Session store not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, handler.pingTimeout)
	defer cancel()
	if err := handler.store.Ping(ctx); err != nil {
		return failed("Session store unreachable: " + err.Error())
	}
	return ReadinessCheck{Status: "ok"}
}

func failed(message string) ReadinessCheck {
	return ReadinessCheck{Status: "failed", Message: message}
}
