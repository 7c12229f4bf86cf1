package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/parleyhq/parley/internal/services"
)

func TestMainServer(t *testing.T) {
	svc, err := services.InitializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	// Start test server
	server := httptest.NewServer(setupRouter(svc))
	defer server.Close()

	t.Run("conversation endpoint requires auth", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/v1/conversation")
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, resp.StatusCode)
		}
	})

	t.Run("conversation endpoint with token", func(t *testing.T) {
		token, _, err := svc.GetSessionService().IssueToken("smoke-test")
		if err != nil {
			t.Fatalf("Failed to issue token: %v", err)
		}

		req, _ := http.NewRequest("GET", server.URL+"/v1/conversation", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
		}
	})

	t.Run("event socket endpoint", func(t *testing.T) {
		token, _, err := svc.GetSessionService().IssueToken("smoke-test-ws")
		if err != nil {
			t.Fatalf("Failed to issue token: %v", err)
		}

		wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/v1/events"
		header := http.Header{}
		header.Add("Authorization", "Bearer "+token)

		ws, _, err := websocket.DefaultDialer.Dial(wsURL, header)
		if err != nil {
			t.Fatalf("Failed to connect to event socket: %v", err)
		}
		ws.Close()
	})

	t.Run("unknown route", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/nope")
		if err != nil {
			t.Fatalf("Failed to make request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected status code %d, got %d", http.StatusNotFound, resp.StatusCode)
		}
	})
}
