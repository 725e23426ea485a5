package app

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"buzzcard/internal/domain"
)

const (
	// DefaultCodeLength is the default length for session codes
	DefaultCodeLength = 6

	// StaleSessionTimeout is how long before an inactive session is cleaned up
	StaleSessionTimeout = 2 * time.Hour
)

// CodeChars are the characters used for session codes
const CodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Hub manages all live sessions keyed by their code
type Hub struct {
	sessions   map[string]*LiveSession
	mu         sync.RWMutex
	settings   domain.Settings
	codeLength int
	catalog    *Catalog
	clock      clockwork.Clock
	logger     zerolog.Logger
	done       chan struct{}
}

// NewHub creates a new session hub
func NewHub(settings domain.Settings, codeLength int, clock clockwork.Clock, logger zerolog.Logger) *Hub {
	if codeLength <= 0 {
		codeLength = DefaultCodeLength
	}

	hub := &Hub{
		sessions:   make(map[string]*LiveSession),
		settings:   settings,
		codeLength: codeLength,
		catalog:    NewCatalog(),
		clock:      clock,
		logger:     logger,
		done:       make(chan struct{}),
	}

	// Start cleanup goroutine
	go hub.cleanupLoop()

	return hub
}

// CreateSession creates a new session and returns its live wrapper
func (h *Hub) CreateSession() (*LiveSession, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Generate unique session code
	var code string
	for attempts := 0; attempts < 10; attempts++ {
		candidate, err := h.generateCode()
		if err != nil {
			return nil, fmt.Errorf("generate session code: %w", err)
		}
		if _, exists := h.sessions[candidate]; !exists {
			code = candidate
			break
		}
	}

	if code == "" {
		return nil, fmt.Errorf("failed to generate unique session code")
	}

	session := domain.NewSession(code, h.settings)
	live := NewLiveSession(session, h.catalog, h.clock, h.logger)
	h.sessions[code] = live

	h.logger.Info().Str("session_code", code).Msg("session created")

	return live, nil
}

// GetSession returns a live session by code
func (h *Hub) GetSession(code string) (*LiveSession, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	session, ok := h.sessions[code]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	return session, nil
}

// DeleteSession removes a live session
func (h *Hub) DeleteSession(code string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if session, ok := h.sessions[code]; ok {
		session.Close()
		delete(h.sessions, code)
		h.logger.Info().Str("session_code", code).Msg("session deleted")
	}
}

// HandleDisconnect removes the player bound to the given connection from
// whichever session they are in. Returns the session the player was removed
// from, or nil if no session matched.
func (h *Hub) HandleDisconnect(connID string) *LiveSession {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, session := range h.sessions {
		if session.HandleDisconnect(connID) {
			return session
		}
	}
	return nil
}

// SessionCount returns the number of live sessions
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// TotalPlayerCount returns the total number of players across all sessions
func (h *Hub) TotalPlayerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, session := range h.sessions {
		total += session.PlayerCount()
	}
	return total
}

// Close shuts down the hub and all sessions
func (h *Hub) Close() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, session := range h.sessions {
		session.Close()
	}
	h.sessions = make(map[string]*LiveSession)
}

// generateCode generates a random session code. Bytes outside the largest
// multiple of the alphabet size are rejected so every character is drawn
// uniformly.
func (h *Hub) generateCode() (string, error) {
	limit := 256 - 256%len(CodeChars)

	code := make([]byte, 0, h.codeLength)
	buf := make([]byte, h.codeLength*2)
	for len(code) < h.codeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			code = append(code, CodeChars[int(b)%len(CodeChars)])
			if len(code) == h.codeLength {
				break
			}
		}
	}

	return string(code), nil
}

// cleanupLoop periodically cleans up stale sessions
func (h *Hub) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.cleanupStaleSessions()
		}
	}
}

// cleanupStaleSessions removes finished sessions and abandoned empty ones
func (h *Hub) cleanupStaleSessions() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	stale := make([]string, 0)

	for code, session := range h.sessions {
		if session.Status() == domain.StatusFinished {
			stale = append(stale, code)
			continue
		}
		if session.PlayerCount() == 0 && now.Sub(session.CreatedAt()) > StaleSessionTimeout {
			stale = append(stale, code)
		}
	}

	for _, code := range stale {
		if session, ok := h.sessions[code]; ok {
			session.Close()
			delete(h.sessions, code)
			h.logger.Info().Str("session_code", code).Msg("stale session cleaned up")
		}
	}
}
