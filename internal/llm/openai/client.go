package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"mockprep/interview/internal/llm"
)

const providerName = "openai"

// Client talks to the OpenAI chat completions API.
type Client struct {
	client *goopenai.Client
	config *Config
}

func NewClient(config *Config) *Client {
	clientConfig := goopenai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	return &Client{
		client: goopenai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

func (c *Client) Chat(ctx context.Context, system string, history []llm.Message, prompt string) (string, error) {
	messages := make([]goopenai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, msg := range history {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    chatRole(msg.Role),
			Content: msg.Content,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: prompt,
	})
	return c.complete(ctx, messages)
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.complete(ctx, []goopenai.ChatCompletionMessage{
		{Role: goopenai.ChatMessageRoleUser, Content: prompt},
	})
}

func (c *Client) GetProviderName() string {
	return providerName
}

func (c *Client) complete(ctx context.Context, messages []goopenai.ChatCompletionMessage) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:    c.config.Model,
		Messages: messages,
	})
	if err != nil {
		return "", classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeEmpty, Message: "No choices returned"}
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &llm.ProviderError{Provider: providerName, Code: llm.ErrCodeEmpty, Message: "Empty response generated"}
	}
	return text, nil
}

// model turns become assistant messages
func chatRole(role string) string {
	if role == llm.RoleModel {
		return goopenai.ChatMessageRoleAssistant
	}
	return goopenai.ChatMessageRoleUser
}

func classifyError(err error) error {
	code := llm.ErrCodeServiceDown
	if errors.Is(err, context.DeadlineExceeded) {
		code = llm.ErrCodeTimeout
	} else {
		switch statusCode(err) {
		case http.StatusTooManyRequests:
			code = llm.ErrCodeRateLimit
		case http.StatusUnauthorized, http.StatusForbidden:
			code = llm.ErrCodeAPIKey
		case http.StatusBadRequest:
			code = llm.ErrCodeInvalidInput
		}
	}
	return &llm.ProviderError{
		Provider: providerName,
		Code:     code,
		Message:  "Chat completion failed",
		Err:      err,
	}
}

func statusCode(err error) int {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
