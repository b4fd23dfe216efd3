package llm

import (
	"context"
	"errors"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// single turn of a chat history
type Message struct {
	Role    string
	Content string
}

// defines the interface for LLM providers
type Provider interface {
	// Chat continues a conversation seeded with a system instruction and prior turns.
	Chat(ctx context.Context, system string, history []Message, prompt string) (string, error)
	// Generate runs a single stateless prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	GetProviderName() string
}

// represents an error from an LLM provider
type ProviderError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + " error: " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Provider + " error: " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Common error codes
// For current and future use across different providers
const (
	ErrCodeAPIKey       = "invalid_api_key"
	ErrCodeRateLimit    = "rate_limit_exceeded"
	ErrCodeServiceDown  = "service_unavailable"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeTimeout      = "timeout"
	ErrCodeEmpty        = "empty_response"
)

// IsTimeout reports whether err came from a deadline, either the caller's or the provider's.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var provErr *ProviderError
	return errors.As(err, &provErr) && provErr.Code == ErrCodeTimeout
}
