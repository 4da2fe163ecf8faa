package notes

import (
	"context"
	"errors"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// ChatRequest is a single chat completion call
type ChatRequest struct {
	Model    string
	System   string
	Messages []Message
}

// Completer sends a chat request and returns the text of the first choice.
// An empty string means the model produced no content.
type Completer interface {
	Complete(ctx context.Context, apiKey string, req ChatRequest) (string, error)
}

// OpenAIClient implements Completer on the OpenAI chat completions API
type OpenAIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIClient creates a client. An empty baseURL targets the public API.
func NewOpenAIClient(baseURL string) *OpenAIClient {
	return &OpenAIClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// Complete sends the request. The key is read per call because it lives in settings.
func (c *OpenAIClient) Complete(ctx context.Context, apiKey string, req ChatRequest) (string, error) {
	cfg := openai.DefaultConfig(apiKey)
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	cfg.HTTPClient = c.httpClient
	client := openai.NewClientWithConfig(cfg)

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: req.System,
	})
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: messages,
	})
	if err != nil {
		return "", &RequestError{Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &RequestError{Err: errors.New("response contained no choices")}
	}

	return resp.Choices[0].Message.Content, nil
}
