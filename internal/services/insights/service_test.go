package insights

import (
	"context"
	"testing"
	"time"

	"github.com/parleyhq/parley/internal/conversation"
)

func messageAt(speaker conversation.Speaker, content string, at time.Time) conversation.Message {
	return conversation.Message{
		ID:        "test-" + content,
		Speaker:   speaker,
		Content:   content,
		Timestamp: at,
	}
}

func TestAnalyzeWithoutModel(t *testing.T) {
	svc := NewService(nil)
	base := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

	messages := []conversation.Message{
		messageAt(conversation.SpeakerUser, "tell me about pricing plans", base),
		messageAt(conversation.SpeakerAvatar, "our pricing plans start at ten dollars", base.Add(5*time.Second)),
	}

	insights, err := svc.Analyze(context.Background(), messages)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if insights.Stats.TotalMessages != 2 {
		t.Errorf("Expected 2 messages in stats, got %d", insights.Stats.TotalMessages)
	}
	if len(insights.Keywords) == 0 {
		t.Error("Expected keywords for a non-empty conversation")
	}
	if insights.Summary != "" {
		t.Errorf("Expected no summary without a model client, got %q", insights.Summary)
	}
}

func TestAnalyzeEmptyConversation(t *testing.T) {
	svc := NewService(nil)

	insights, err := svc.Analyze(context.Background(), nil)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}

	if insights.Stats.TotalMessages != 0 {
		t.Errorf("Expected empty stats, got %+v", insights.Stats)
	}
	if len(insights.Keywords) != 0 {
		t.Errorf("Expected no keywords, got %v", insights.Keywords)
	}
}
