package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	v1mware "github.com/parleyhq/parley/internal/api/v1/middleware"
	"github.com/parleyhq/parley/internal/connections"
	"github.com/parleyhq/parley/internal/services"
	"github.com/parleyhq/parley/internal/transcript"
	"github.com/rs/zerolog/log"
)

var (
	manager  = connections.NewManager(connections.DefaultTimeouts)
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // In production, implement proper origin checking
		},
	}
)

// SetEventTimeouts swaps the connection manager's timeouts and returns a
// restore function. This is primarily used for testing.
func SetEventTimeouts(timeouts connections.TimeoutConfig) func() {
	previous := manager
	manager = connections.NewManager(timeouts)
	return func() {
		manager = previous
	}
}

// HandleEvents upgrades the connection and feeds each received lifecycle event
// to the reconciler. The single read loop is what serializes event delivery;
// the reconciler is never entered concurrently for one socket.
//
// Browsers cannot set headers on WebSocket dials, so the token is also
// accepted as a query parameter.
func HandleEvents(svc *services.Services, w http.ResponseWriter, r *http.Request) {
	tokenString := v1mware.ExtractToken(r)
	if tokenString == "" {
		tokenString = r.URL.Query().Get("token")
	}
	if tokenString == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	claims, err := svc.GetSessionService().ValidateToken(tokenString)
	if err != nil || claims == nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "Could not upgrade connection", http.StatusInternalServerError)
		return
	}

	timeouts := manager.Timeouts()
	manager.AddConnection(conn, claims.SessionID)
	defer func() {
		manager.RemoveConnection(conn)
		conn.Close()
	}()

	log.Info().
		Str("session_id", claims.SessionID).
		Int("connections", manager.ConnectionCount()).
		Msg("Event socket connected")

	// Set up ping/pong handlers
	conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	})

	// Start ping ticker in separate goroutine
	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(timeouts.PingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				deadline := time.Now().Add(timeouts.WriteWait)
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, deadline); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	reconciler := svc.GetReconciler()

	for {
		conn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("session_id", claims.SessionID).Msg("Event socket closed unexpectedly")
			}
			break
		}

		var event transcript.Event
		if err := json.Unmarshal(message, &event); err != nil {
			// Malformed events never interrupt delivery of the ones that follow.
			log.Warn().Err(err).Str("session_id", claims.SessionID).Msg("Dropping malformed event payload")
			continue
		}

		reconciler.Handle(event)
	}
}
