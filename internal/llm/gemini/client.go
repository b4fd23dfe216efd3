package gemini

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"mockprep/interview/internal/llm"
)

const providerName = "gemini"

// Client represents a Gemini LLM client
type Client struct {
	client *genai.Client
	config *Config
}

func NewClient(config *Config) (*Client, error) {
	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	return &Client{
		client: client,
		config: config,
	}, nil
}

// continues a chat seeded with the system instruction and prior turns
func (c *Client) Chat(ctx context.Context, system string, history []llm.Message, prompt string) (string, error) {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		contents = append(contents, genai.NewContentFromText(msg.Content, genai.Role(msg.Role)))
	}

	chat, err := c.client.Chats.Create(ctx, c.config.Model, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.Role(genai.RoleUser)),
	}, contents)
	if err != nil {
		return "", classifyError(err, "Failed to create chat")
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return "", classifyError(err, "Failed to send chat message")
	}
	return responseText(resp)
}

// runs a single stateless prompt
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(
		ctx,
		c.config.Model,
		genai.Text(prompt),
		nil,
	)
	if err != nil {
		return "", classifyError(err, "Failed to generate content")
	}
	return responseText(resp)
}

func (c *Client) GetProviderName() string {
	return providerName
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeEmpty,
			Message:  "No response generated",
		}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			sb.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeEmpty,
			Message:  "Empty response generated",
		}
	}
	return text, nil
}

func classifyError(err error, message string) error {
	code := llm.ErrCodeServiceDown
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code = llm.ErrCodeTimeout
	case isRateLimitError(err):
		code = llm.ErrCodeRateLimit
	case isAuthError(err):
		code = llm.ErrCodeAPIKey
	}
	return &llm.ProviderError{
		Provider: providerName,
		Code:     code,
		Message:  message,
		Err:      err,
	}
}

// checks if the error is a rate limit error
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "quota")
}

func isAuthError(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 401 || apiErr.Code == 403
	}
	return strings.Contains(err.Error(), "API_KEY_INVALID")
}
