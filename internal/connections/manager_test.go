package connections

import (
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestManager(t *testing.T) {
	t.Run("basic add and remove connection", func(t *testing.T) {
		manager := NewManager(DefaultTimeouts)

		conn := &websocket.Conn{}

		manager.AddConnection(conn, "session-1")
		if sessionID, ok := manager.SessionFor(conn); !ok || sessionID != "session-1" {
			t.Errorf("Expected connection registered under session-1, got %q (%v)", sessionID, ok)
		}
		if manager.ConnectionCount() != 1 {
			t.Errorf("Expected 1 connection, got %d", manager.ConnectionCount())
		}

		manager.RemoveConnection(conn)
		if _, ok := manager.SessionFor(conn); ok {
			t.Error("Connection still exists after removal")
		}
		if manager.ConnectionCount() != 0 {
			t.Errorf("Expected 0 connections, got %d", manager.ConnectionCount())
		}
	})

	t.Run("concurrent connection operations", func(t *testing.T) {
		manager := NewManager(DefaultTimeouts)
		concurrentOps := 100

		connections := make([]*websocket.Conn, concurrentOps)
		for i := 0; i < concurrentOps; i++ {
			connections[i] = &websocket.Conn{}
		}

		var wg sync.WaitGroup
		wg.Add(concurrentOps)
		for i := 0; i < concurrentOps; i++ {
			go func(conn *websocket.Conn) {
				defer wg.Done()
				manager.AddConnection(conn, "shared-session")
				manager.RemoveConnection(conn)
			}(connections[i])
		}
		wg.Wait()

		if manager.ConnectionCount() != 0 {
			t.Errorf("Expected 0 connections after churn, got %d", manager.ConnectionCount())
		}
	})

	t.Run("timeout configuration", func(t *testing.T) {
		customTimeouts := TimeoutConfig{
			PongWait:   1 * time.Minute,
			PingPeriod: 54 * time.Second,
			WriteWait:  20 * time.Second,
		}

		manager := NewManager(customTimeouts)
		if manager.Timeouts() != customTimeouts {
			t.Error("Timeout configuration not set correctly")
		}
	})
}
