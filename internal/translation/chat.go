package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// DefaultOpenAIModel is the chat model used when none is configured
const DefaultOpenAIModel = "gpt-3.5-turbo"

// DefaultGeminiModel is the Gemini model used when none is configured
const DefaultGeminiModel = "gemini-2.0-flash"

// Completion is one system + user prompt round trip
type Completion struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Chat produces a single completion for a prompt
type Chat interface {
	Complete(ctx context.Context, c Completion) (string, error)
	Name() string
}

// OpenAIChat implements Chat with the OpenAI chat completions API
type OpenAIChat struct {
	client *openai.Client
	model  string
}

// NewOpenAIChat creates an OpenAI chat client. An empty baseURL uses the
// public API.
func NewOpenAIChat(apiKey, model, baseURL string) (*OpenAIChat, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIChat{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// Name returns the provider name
func (c *OpenAIChat) Name() string {
	return "openai"
}

// Complete sends the prompt and returns the trimmed first choice
func (c *OpenAIChat) Complete(ctx context.Context, comp Completion) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: comp.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: comp.Prompt,
			},
		},
		Temperature: comp.Temperature,
		MaxTokens:   comp.MaxTokens,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GeminiChat implements Chat with the Gemini API
type GeminiChat struct {
	client *genai.Client
	model  string
}

// NewGeminiChat creates a Gemini chat client. An empty baseURL uses the
// public API.
func NewGeminiChat(ctx context.Context, apiKey, model, baseURL string) (*GeminiChat, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key not found")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	config := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiChat{client: client, model: model}, nil
}

// Name returns the provider name
func (c *GeminiChat) Name() string {
	return "gemini"
}

// Complete sends the prompt with the system text as instruction
func (c *GeminiChat) Complete(ctx context.Context, comp Completion) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(comp.Temperature),
		MaxOutputTokens: int32(comp.MaxTokens),
	}
	if comp.System != "" {
		config.SystemInstruction = genai.NewContentFromText(comp.System, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(comp.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no completion returned")
	}
	return text, nil
}
