package connections

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TimeoutConfig holds the various timeout settings for WebSocket connections
type TimeoutConfig struct {
	PongWait   time.Duration
	PingPeriod time.Duration
	WriteWait  time.Duration
}

// DefaultTimeouts provides sensible default timeout values
var DefaultTimeouts = TimeoutConfig{
	PongWait:   30 * time.Second,
	PingPeriod: 27 * time.Second, // (PongWait * 9) / 10
	WriteWait:  10 * time.Second,
}

// Manager tracks live event-socket connections and which local session each
// one belongs to.
type Manager struct {
	mu          sync.RWMutex
	connections map[*websocket.Conn]string
	timeouts    TimeoutConfig
}

// NewManager creates a new connection manager with the specified timeouts
func NewManager(timeouts TimeoutConfig) *Manager {
	return &Manager{
		connections: make(map[*websocket.Conn]string),
		timeouts:    timeouts,
	}
}

// AddConnection registers a WebSocket connection under a session id
func (m *Manager) AddConnection(conn *websocket.Conn, sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connections[conn] = sessionID
}

// RemoveConnection removes a WebSocket connection
func (m *Manager) RemoveConnection(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.connections, conn)
}

// SessionFor returns the session id a connection was registered under
func (m *Manager) SessionFor(conn *websocket.Conn) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sessionID, ok := m.connections[conn]
	return sessionID, ok
}

// ConnectionCount returns the current number of active connections
func (m *Manager) ConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// Timeouts returns the current timeout configuration
func (m *Manager) Timeouts() TimeoutConfig {
	return m.timeouts
}
