package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/parleyhq/parley/internal/conversation"
	openaiinfra "github.com/parleyhq/parley/internal/infrastructure/openai"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

const summaryPrompt = "You summarize transcribed conversations between a person and a " +
	"streaming avatar. Produce a short factual summary of what was discussed. Do not " +
	"invent content for turns that have no transcript."

// Insights bundles the derived analytics views with an optional model-written
// summary.
type Insights struct {
	Stats    conversation.ConversationStats `json:"stats"`
	Keywords []string                       `json:"keywords"`
	Summary  string                         `json:"summary,omitempty"`
}

// Service produces conversation insights. The summary requires a configured
// OpenAI client; without one the service still returns stats and keywords.
type Service struct {
	openAIService *openaiinfra.Service
}

func NewService(openAIService *openaiinfra.Service) *Service {
	return &Service{openAIService: openAIService}
}

// Analyze computes stats and keywords for the given messages, adding a model
// summary when a client is configured and the conversation is non-empty.
func (s *Service) Analyze(ctx context.Context, messages []conversation.Message) (*Insights, error) {
	var contents []string
	for _, msg := range messages {
		if msg.Content != "" {
			contents = append(contents, msg.Content)
		}
	}

	result := &Insights{
		Stats:    conversation.Stats(messages),
		Keywords: conversation.Keywords(strings.Join(contents, " "), 10),
	}

	if s.openAIService == nil || len(messages) == 0 {
		return result, nil
	}

	summary, err := s.summarize(ctx, messages)
	if err != nil {
		// Summary is best-effort; the derived views are still valid.
		log.Error().Err(err).Msg("Failed to summarize conversation")
		return result, nil
	}
	result.Summary = summary

	return result, nil
}

func (s *Service) summarize(ctx context.Context, messages []conversation.Message) (string, error) {
	var transcript strings.Builder
	for _, msg := range messages {
		if msg.Content == "" {
			continue
		}
		fmt.Fprintf(&transcript, "%s: %s\n", msg.Speaker.DisplayName(), msg.Content)
	}

	resp, err := s.openAIService.GetClient().CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summaryPrompt},
			{Role: openai.ChatMessageRoleUser, Content: transcript.String()},
		},
		MaxTokens: 256,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
