package services

import (
	"context"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// ChatTemperature is the sampling temperature of every chat completion
	ChatTemperature = 0.3

	// EmptyReply is returned when the provider answers without content
	EmptyReply = "Nu am un răspuns."
)

// ChatService answers user messages using the business context and the
// relevant site page
type ChatService struct {
	cache    *SiteCache
	router   *TopicRouter
	context  *BusinessContext
	provider CompletionProvider
	persona  Persona
	model    string
}

// NewChatService wires the chat use case
func NewChatService(cache *SiteCache, router *TopicRouter, businessContext *BusinessContext, provider CompletionProvider, persona Persona, model string) *ChatService {
	return &ChatService{
		cache:    cache,
		router:   router,
		context:  businessContext,
		provider: provider,
		persona:  persona,
		model:    model,
	}
}

// Handle validates message, builds the system prompt and returns the reply
func (s *ChatService) Handle(ctx context.Context, message string) (string, error) {
	if err := validation.Validate(message, validation.Required); err != nil {
		return "", ValidationError("Message missing")
	}

	// A failed refresh keeps the last good cache; the chat goes on with it.
	if err := s.cache.EnsureFresh(ctx); err != nil {
		slog.Warn("Site cache refresh failed, using previous cache", "error", err)
	}

	systemPrompt := BuildSystemPrompt(s.persona, s.context.Get(), s.Select(message))

	reply, err := s.provider.Complete(ctx, CompletionRequest{
		Model: s.model,
		Messages: []ChatTurn{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: message},
		},
		Temperature: ChatTemperature,
	})
	if err != nil {
		return "", err
	}

	if reply == "" {
		return EmptyReply, nil
	}
	return reply, nil
}

// Select routes message to a topic and pairs it with the cached page text
func (s *ChatService) Select(message string) *Selection {
	topic, ok := s.router.Classify(message)
	if !ok {
		return nil
	}
	source, ok := s.cache.Source(topic)
	if !ok {
		return nil
	}

	sel := &Selection{Source: source, Text: s.cache.Text(topic)}
	slog.Debug("Message routed to site topic", "topic", topic, "cached", sel.Text != "")
	return sel
}
