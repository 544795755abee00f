package live

import (
	"log/slog"
	"sync"
)

// Session is one client's live connection: its channel plus the route cell
// that client-side navigation updates. A user can hold several sessions
// (one per tab or device), each with its own open-conversation state.
type Session struct {
	ClientID string
	UserID   string
	Channel  *Channel
	Route    *RouteCell
}

// Manager tracks active sessions so the navigation endpoint can find the
// right route cell. It owns no channel lifecycle; the HTTP handler that
// opened a channel also closes it.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]map[string]*Session // userID -> clientID -> session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]map[string]*Session)}
}

// Add registers a session.
func (m *Manager) Add(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessions[s.UserID] == nil {
		m.sessions[s.UserID] = make(map[string]*Session)
	}
	m.sessions[s.UserID][s.ClientID] = s
	slog.Info("Live session registered", "userID", s.UserID, "clientID", s.ClientID)
}

// Remove drops a session. Unknown sessions are ignored.
func (m *Manager) Remove(userID, clientID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if clients, ok := m.sessions[userID]; ok {
		delete(clients, clientID)
		if len(clients) == 0 {
			delete(m.sessions, userID)
		}
		slog.Info("Live session removed", "userID", userID, "clientID", clientID)
	}
}

// SetRoute updates the open conversation for one session. peerUserID == ""
// means no conversation is open. It reports whether the session exists.
func (m *Manager) SetRoute(userID, clientID, peerUserID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[userID][clientID]
	if !ok {
		return false
	}
	if peerUserID == "" {
		s.Route.Clear()
	} else {
		s.Route.Set(peerUserID)
	}
	return true
}

// Count returns the number of active sessions for a user.
func (m *Manager) Count(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions[userID])
}
