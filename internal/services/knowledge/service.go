package knowledge

import (
	"fmt"
	"strings"
	"time"

	"github.com/parleyhq/parley/internal/infrastructure/heygen"
	"github.com/rs/zerolog/log"
)

// KnowledgeBase is a provider-hosted prompt/opening pair that seeds an avatar
// session.
type KnowledgeBase struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Opening string `json:"opening,omitempty"`
	Prompt  string `json:"prompt,omitempty"`
}

type createPayload struct {
	Name    string `json:"name"`
	Opening string `json:"opening"`
	Prompt  string `json:"prompt"`
}

type createEnvelope struct {
	Data *KnowledgeBase `json:"data"`
}

type listEnvelope struct {
	Data []KnowledgeBase `json:"data"`
}

// Service manages provider knowledge bases. It is plain API plumbing; the
// conversation core never depends on it.
type Service struct {
	client *heygen.Service
	now    func() time.Time
}

func NewService(client *heygen.Service) *Service {
	if client == nil {
		log.Warn().Msg("Knowledge service disabled - provider client unavailable")
		return nil
	}
	return &Service{client: client, now: time.Now}
}

// TimeGreeting returns a salutation for the current local time of day.
func (s *Service) TimeGreeting() string {
	hour := s.now().Hour()
	switch {
	case hour >= 5 && hour < 12:
		return "Good morning"
	case hour >= 12 && hour < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

// OpeningScript builds the session opening line, addressed to the customer
// when a name is known.
func (s *Service) OpeningScript(customerName string) string {
	name := strings.TrimSpace(customerName)
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf("%s %s, thank you for taking the time to speak with me today. How can I help?",
		s.TimeGreeting(), name)
}

// Create registers a knowledge base with the provider, generating the opening
// script from the current time of day.
func (s *Service) Create(name, prompt, customerName string) (*KnowledgeBase, error) {
	opening := s.OpeningScript(customerName)

	var envelope createEnvelope
	err := s.client.PostJSON("/v1/streaming/knowledge_base/create", createPayload{
		Name:    name,
		Opening: opening,
		Prompt:  prompt,
	}, &envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to create knowledge base: %w", err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("provider returned no knowledge base data")
	}

	log.Info().Str("knowledge_base_id", envelope.Data.ID).Msg("Knowledge base created")
	return envelope.Data, nil
}

// List fetches all knowledge bases registered with the provider.
func (s *Service) List() ([]KnowledgeBase, error) {
	var envelope listEnvelope
	if err := s.client.GetJSON("/v1/streaming/knowledge_base/list", &envelope); err != nil {
		return nil, fmt.Errorf("failed to list knowledge bases: %w", err)
	}
	return envelope.Data, nil
}

// Delete removes a knowledge base by id.
func (s *Service) Delete(id string) error {
	path := fmt.Sprintf("/v1/streaming/knowledge_base/%s/delete", id)
	if err := s.client.PostJSON(path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete knowledge base %s: %w", id, err)
	}
	return nil
}
