package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ChatTurn is one message of the conversation sent to the provider
type ChatTurn struct {
	Role    string
	Content string
}

// CompletionRequest is a single chat completion call
type CompletionRequest struct {
	Model       string
	Messages    []ChatTurn
	Temperature float64
}

// CompletionProvider generates the assistant reply for a conversation. An
// empty string means the provider answered without any content.
type CompletionProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// OpenAIClient calls the OpenAI chat completions API
type OpenAIClient struct {
	client openai.Client
}

// NewOpenAIClient creates a client for apiKey. baseURL may be empty to use
// the public endpoint. The SDK's automatic retries are disabled.
func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIClient{client: openai.NewClient(opts...)}
}

// Complete implements CompletionProvider
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages))
	for _, turn := range req.Messages {
		switch turn.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(turn.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.Model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			details := apiErr.RawJSON()
			if details == "" {
				details = apiErr.Error()
			}
			slog.Error("OpenAI error", "status", apiErr.StatusCode, "body", details)
			return "", &UpstreamError{Message: "AI error", Details: details, Status: apiErr.StatusCode, Err: err}
		}
		slog.Error("OpenAI request failed", "error", err)
		return "", &UpstreamError{Message: "Server error", Details: err.Error(), Err: err}
	}

	if len(completion.Choices) == 0 {
		return "", nil
	}

	slog.Info("OpenAI response generated",
		"model", completion.Model,
		"promptTokens", completion.Usage.PromptTokens,
		"completionTokens", completion.Usage.CompletionTokens,
	)
	return completion.Choices[0].Message.Content, nil
}
