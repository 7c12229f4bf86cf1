package avatar

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/parleyhq/parley/internal/config"
	"github.com/parleyhq/parley/internal/conversation"
	"github.com/parleyhq/parley/internal/infrastructure/heygen"
	"github.com/rs/zerolog/log"
)

// Service drives the provider's session lifecycle and speech task dispatch.
//
// The provider sends no reliable end-of-speech signal for dispatched tasks, so
// the speaking flag falls back to an estimated-duration timer. At most one
// timer is pending per session; each new Speak supersedes and cancels the
// previous one so a stale timer can never flip the flag mid-utterance. An
// explicit turn_end event through the reconciler always takes precedence over
// the estimate.
type Service struct {
	client   *heygen.Service
	validate *validator.Validate

	mu       sync.Mutex
	sessions map[string]*sessionState
}

type sessionState struct {
	speaking   bool
	clearTimer *time.Timer
}

func NewService(client *heygen.Service) *Service {
	if client == nil {
		log.Warn().Msg("Avatar service disabled - provider client unavailable")
		return nil
	}

	return &Service{
		client:   client,
		validate: validator.New(),
		sessions: make(map[string]*sessionState),
	}
}

// StartSession creates and starts a streaming session in two provider calls,
// mirroring the provider's documented handshake.
func (s *Service) StartSession(req SessionRequest) (*SessionData, error) {
	payload := newSessionPayload{
		Quality:             "medium",
		Version:             "v2",
		VideoEncoding:       "VP8",
		ActivityIdleTimeout: 120,
		STTSettings: sttSettings{
			Provider:   "deepgram",
			Confidence: 0.55,
		},
	}

	if id := strings.TrimSpace(req.AvatarID); id != "" {
		payload.AvatarID = id
	}
	if id := strings.TrimSpace(req.VoiceID); id != "" {
		payload.Voice = &voiceSettings{VoiceID: id, Rate: 1, Emotion: "friendly"}
	} else {
		payload.Voice = &voiceSettings{Rate: 1}
	}
	if id := strings.TrimSpace(req.KnowledgeBaseID); id != "" {
		payload.KnowledgeBaseID = id
	}

	var envelope sessionEnvelope
	if err := s.client.PostJSON("/v1/streaming.new", payload, &envelope); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if envelope.Data == nil || envelope.Data.SessionID == "" {
		return nil, fmt.Errorf("provider returned no session data")
	}

	data := envelope.Data

	if err := s.client.PostJSON("/v1/streaming.start", sessionIDPayload{SessionID: data.SessionID}, nil); err != nil {
		return nil, fmt.Errorf("failed to start session %s: %w", data.SessionID, err)
	}

	s.mu.Lock()
	s.sessions[data.SessionID] = &sessionState{}
	s.mu.Unlock()

	log.Info().Str("session_id", data.SessionID).Msg("Avatar session started")

	return data, nil
}

// Speak dispatches a speech task. The content is validated and normalized
// before leaving the process; the speaking flag is held for an estimated
// duration unless superseded.
func (s *Service) Speak(sessionID string, req SpeakRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid speak request: %w", err)
	}

	text, err := conversation.ValidateContent(req.Text)
	if err != nil {
		return err
	}

	taskType := req.TaskType
	if taskType != "talk" {
		taskType = "repeat"
	}

	s.mu.Lock()
	state, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown session %s", sessionID)
	}

	payload := taskPayload{
		SessionID: sessionID,
		Text:      text,
		TaskType:  taskType,
	}

	if err := s.client.PostJSON("/v1/streaming.task", payload, nil); err != nil {
		return fmt.Errorf("failed to dispatch speech task: %w", err)
	}

	s.holdSpeaking(sessionID, state, estimateDuration(text))

	log.Debug().
		Str("session_id", sessionID).
		Str("task_type", taskType).
		Int("chars", len(text)).
		Msg("Speech task dispatched")

	return nil
}

// holdSpeaking marks the session as speaking and schedules the fallback clear,
// cancelling any previous pending clear for the same session.
func (s *Service) holdSpeaking(sessionID string, state *sessionState, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state.clearTimer != nil {
		state.clearTimer.Stop()
	}
	state.speaking = true
	state.clearTimer = time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if st, ok := s.sessions[sessionID]; ok {
			st.speaking = false
			st.clearTimer = nil
		}
	})
}

// IsSpeaking reports whether a speech task is believed to still be playing.
func (s *Service) IsSpeaking(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.sessions[sessionID]; ok {
		return state.speaking
	}
	return false
}

// CloseSession stops the provider session and drops local state. Local state
// is cleared even when the provider call fails.
func (s *Service) CloseSession(sessionID string) error {
	err := s.client.PostJSON("/v1/streaming.stop", sessionIDPayload{SessionID: sessionID}, nil)

	s.mu.Lock()
	if state, ok := s.sessions[sessionID]; ok {
		if state.clearTimer != nil {
			state.clearTimer.Stop()
		}
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to stop session %s: %w", sessionID, err)
	}

	log.Info().Str("session_id", sessionID).Msg("Avatar session closed")
	return nil
}

// HasSession reports whether the service is tracking the given session.
func (s *Service) HasSession(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[sessionID]
	return ok
}

func estimateDuration(text string) time.Duration {
	estimated := time.Duration(len(text)) * config.GetSpeechEstimatePerChar()
	if floor := config.GetSpeechEstimateFloor(); estimated < floor {
		return floor
	}
	return estimated
}
