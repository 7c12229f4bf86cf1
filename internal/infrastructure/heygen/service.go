package heygen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/parleyhq/parley/internal/config"
	"github.com/rs/zerolog/log"
)

// Service is the raw HTTP client for the streaming avatar provider. Typed
// request payloads live in the services that own them; this layer only signs
// and dispatches requests.
type Service struct {
	mu      sync.RWMutex
	Client  *http.Client
	RestURL string
	Headers http.Header
}

func NewService() *Service {
	token := config.GetHeyGenAPIKey()

	if token == "" {
		log.Warn().Msg("HeyGen API key not configured - avatar sessions will be unavailable")
		return nil
	}

	headers := http.Header{}
	headers.Set("Accept", "application/json")
	headers.Set("Content-Type", "application/json")
	headers.Set("X-Api-Key", token)

	s := &Service{
		Client:  &http.Client{Timeout: 30 * time.Second},
		RestURL: config.GetHeyGenRestURL(),
		Headers: headers,
	}

	log.Info().Str("rest_url", s.RestURL).Msg("HeyGen service initialized successfully")

	return s
}

// SetRestURL overrides the REST base URL, primarily for tests
func (s *Service) SetRestURL(url string) *Service {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RestURL = url
	return s
}

// MakeRequest makes a request to the provider REST API
func (s *Service) MakeRequest(method, path string, body io.Reader) (*http.Response, error) {
	s.mu.RLock()
	base := s.RestURL
	s.mu.RUnlock()

	req, err := http.NewRequest(method, base+path, body)
	if err != nil {
		return nil, err
	}

	req.Header = s.Headers.Clone()

	return s.Client.Do(req)
}

// PostJSON sends payload to path and decodes the provider envelope into out.
// Non-2xx statuses are surfaced as errors carrying the provider message.
func (s *Service) PostJSON(path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request for %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	resp, err := s.MakeRequest(http.MethodPost, path, body)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Message string `json:"message"`
		}
		data, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("provider rejected %s: %s (status %d)", path, apiErr.Message, resp.StatusCode)
		}
		return fmt.Errorf("provider rejected %s with status %d", path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// GetJSON fetches path and decodes the response body into out.
func (s *Service) GetJSON(path string, out interface{}) error {
	resp, err := s.MakeRequest(http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider rejected %s with status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
