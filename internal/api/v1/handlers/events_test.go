package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/parleyhq/parley/internal/conversation"
	"github.com/parleyhq/parley/internal/transcript"
)

func dialEvents(t *testing.T, serverURL, token string) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(serverURL, "http", "ws", 1) + "/v1/events?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to dial event socket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// waitForLog polls until the predicate holds or the deadline passes. The read
// loop runs server side, so delivery is asynchronous from the test's writes.
func waitForLog(t *testing.T, convLog *conversation.Log, predicate func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if predicate() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Timed out waiting for events to be absorbed")
}

func TestEventsRequireToken(t *testing.T) {
	server, _, _ := newTestServer(t)

	wsURL := strings.Replace(server.URL, "http", "ws", 1) + "/v1/events"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("Expected dial without token to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %+v", http.StatusUnauthorized, resp)
	}
}

func TestEventsRejectGarbageToken(t *testing.T) {
	server, _, _ := newTestServer(t)

	wsURL := strings.Replace(server.URL, "http", "ws", 1) + "/v1/events?token=not-a-jwt"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("Expected dial with a garbage token to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status %d, got %+v", http.StatusUnauthorized, resp)
	}
}

func TestEventsFeedReconciler(t *testing.T) {
	server, svc, token := newTestServer(t)
	conn := dialEvents(t, server.URL, token)
	convLog := svc.GetConversationLog()

	send := func(event transcript.Event) {
		t.Helper()
		if err := conn.WriteJSON(event); err != nil {
			t.Fatalf("Failed to send event: %v", err)
		}
	}

	// An avatar turn: placeholder on start, then growing fragments that
	// coalesce into the same message.
	send(transcript.Event{Type: transcript.EventSpeakerStart, Speaker: "AVATAR"})
	waitForLog(t, convLog, func() bool { return convLog.Count() == 1 })

	send(transcript.Event{Type: transcript.EventContentFragment, Speaker: "AVATAR", Text: "Hello"})
	send(transcript.Event{Type: transcript.EventContentFragment, Speaker: "AVATAR", Text: "Hello there"})
	waitForLog(t, convLog, func() bool {
		last, ok := convLog.Last()
		return ok && last.Content == "Hello there"
	})
	if convLog.Count() != 1 {
		t.Errorf("Expected fragments to coalesce into 1 message, got %d", convLog.Count())
	}

	send(transcript.Event{Type: transcript.EventSpeakerStop, Speaker: "AVATAR"})
	send(transcript.Event{Type: transcript.EventTurnEnd})

	// The user replies after the turn boundary; this must append.
	send(transcript.Event{Type: transcript.EventSpeakerStart, Speaker: "USER"})
	send(transcript.Event{Type: transcript.EventContentFragment, Speaker: "USER", Text: "Hi avatar"})
	waitForLog(t, convLog, func() bool { return convLog.Count() == 2 })

	last, _ := convLog.Last()
	if last.Speaker != conversation.SpeakerUser || last.Content != "Hi avatar" {
		t.Errorf("Unexpected last message: %+v", last)
	}
}

func TestEventsSurviveMalformedPayloads(t *testing.T) {
	server, svc, token := newTestServer(t)
	conn := dialEvents(t, server.URL, token)
	convLog := svc.GetConversationLog()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("Failed to send payload: %v", err)
	}
	if err := conn.WriteJSON(transcript.Event{Type: transcript.EventContentFragment, Speaker: "USER", Text: "still alive"}); err != nil {
		t.Fatalf("Failed to send event: %v", err)
	}

	waitForLog(t, convLog, func() bool { return convLog.Count() == 1 })

	last, _ := convLog.Last()
	if last.Content != "still alive" {
		t.Errorf("Expected the valid event after the malformed one to land, got %+v", last)
	}
}
