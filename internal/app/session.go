package app

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"buzzcard/internal/domain"
)

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	GetPlayerID() string
	Close() error
}

// LiveSession wraps a session with concurrency control, client management
// and the hidden turn timer
type LiveSession struct {
	session   *domain.Session
	mu        sync.RWMutex
	clients   map[string]ClientConnection // playerID -> client
	clientsMu sync.RWMutex
	catalog   *Catalog
	timer     *TurnTimer
	logger    zerolog.Logger

	// Event channel for broadcasting
	events chan *domain.Event
	done   chan struct{}
}

// NewLiveSession creates a new live session
func NewLiveSession(session *domain.Session, catalog *Catalog, clock clockwork.Clock, logger zerolog.Logger) *LiveSession {
	live := &LiveSession{
		session: session,
		clients: make(map[string]ClientConnection),
		catalog: catalog,
		timer:   NewTurnTimer(clock),
		logger:  logger,
		events:  make(chan *domain.Event, 100),
		done:    make(chan struct{}),
	}

	// Start event broadcaster
	go live.eventLoop()

	return live
}

// Code returns the session code
func (s *LiveSession) Code() string {
	return s.session.Code
}

// CreatedAt returns when the session was created
func (s *LiveSession) CreatedAt() time.Time {
	return s.session.CreatedAt
}

// PlayerCount returns the number of players
func (s *LiveSession) PlayerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.session.Players)
}

// Status returns the current session status
func (s *LiveSession) Status() domain.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Status
}

// CanJoin checks if a new player can join the session
func (s *LiveSession) CanJoin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Status == domain.StatusWaiting
}

// RegisterClient registers a client connection for a player
func (s *LiveSession) RegisterClient(playerID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[playerID] = client
}

// UnregisterClient removes a client connection
func (s *LiveSession) UnregisterClient(playerID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, playerID)
}

// GetClient returns the client for a player
func (s *LiveSession) GetClient(playerID string) (ClientConnection, bool) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	client, ok := s.clients[playerID]
	return client, ok
}

// Join adds a player to the session. The first player to join owns the
// session and receives a session-created event; later players receive a
// session-joined event. The room is told about the roster change either way.
func (s *LiveSession) Join(connID, name string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.session.AddPlayer(uuid.New().String(), connID, name)
	if err != nil {
		return nil, err
	}

	joined := &domain.SessionJoinedPayload{
		SessionCode: s.session.Code,
		Player:      player,
	}
	if len(s.session.Players) == 1 {
		s.queueEvent(domain.NewPlayerEvent(domain.EventSessionCreated, s.session.Code, player.ID, joined))
	} else {
		s.queueEvent(domain.NewPlayerEvent(domain.EventSessionJoined, s.session.Code, player.ID, joined))
	}
	s.queueEvent(domain.NewEvent(domain.EventRosterChanged, s.session.Code, s.session.RosterState()))

	return player, nil
}

// Start begins the session. Only the session owner may start it.
func (s *LiveSession) Start(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.session.Players) > 0 && s.session.Players[0].ID != playerID {
		return domain.ErrNotOwner
	}

	if err := s.session.Start(s.catalog.Draw()); err != nil {
		return err
	}

	s.queueEvent(domain.NewEvent(domain.EventRoundStarted, s.session.Code, s.session.RoundState()))
	s.startTimerLocked()

	return nil
}

// MarkPhrase records a correctly guessed phrase for the describing player.
// A regular mark passes the card; a mark that completes both sides awards
// the bonus and cancels the pending countdown.
func (s *LiveSession) MarkPhrase(playerID string, phraseIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bonus, err := s.session.MarkPhraseCorrect(playerID, phraseIndex)
	if err != nil {
		return err
	}

	if bonus {
		s.timer.Stop()
		s.queueEvent(domain.NewEvent(domain.EventBonusAwarded, s.session.Code, &domain.BonusPayload{
			Card:          s.session.CurrentCard,
			Scores:        s.session.ScoresCopy(),
			GuessedBlue:   s.session.GuessedIndices(domain.SideBlue),
			GuessedOrange: s.session.GuessedIndices(domain.SideOrange),
		}))
		return nil
	}

	s.queueEvent(domain.NewEvent(domain.EventCardPassed, s.session.Code, &domain.CardPassedPayload{
		CardHolder:    s.session.CardHolder,
		Card:          s.session.CurrentCard,
		PhraseIndex:   phraseIndex,
		Scores:        s.session.ScoresCopy(),
		GuessedBlue:   s.session.GuessedIndices(domain.SideBlue),
		GuessedOrange: s.session.GuessedIndices(domain.SideOrange),
	}))
	return nil
}

// SubmitGuess relays a guess to both describing players and echoes it to the
// room. It never mutates session state.
func (s *LiveSession) SubmitGuess(playerID, guess string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	player, err := s.session.GetPlayer(playerID)
	if err != nil {
		return err
	}
	if s.session.Status != domain.StatusPlaying {
		return domain.ErrSessionNotStarted
	}

	payload := &domain.GuessPayload{
		Guess:      guess,
		FromPlayer: player.Name,
		FromTeam:   player.Team,
	}

	for _, describerID := range s.session.Describers {
		s.queueEvent(domain.NewPlayerEvent(domain.EventGuessReceived, s.session.Code, describerID, payload))
	}
	s.queueEvent(domain.NewEvent(domain.EventGuessSubmitted, s.session.Code, payload))

	return nil
}

// NextRound resolves the current round boundary: it cancels any pending
// countdown, then either starts the next round or finishes the session when
// the round cap has been reached.
func (s *LiveSession) NextRound() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.timer.Stop()

	final, err := s.session.NextRound(s.catalog.Draw())
	if err != nil {
		return err
	}

	if final != nil {
		s.queueEvent(domain.NewEvent(domain.EventSessionFinished, s.session.Code, &domain.SessionFinishedPayload{
			Winner:  final.Winner,
			Tie:     final.Tie,
			Aborted: final.Aborted,
			Scores:  final.Scores,
			Round:   final.Round,
		}))
		return nil
	}

	s.queueEvent(domain.NewEvent(domain.EventRoundStarted, s.session.Code, s.session.RoundState()))
	s.startTimerLocked()

	return nil
}

// HandleDisconnect removes the player bound to the given connection. Returns
// false if no player in this session matches the connection.
func (s *LiveSession) HandleDisconnect(connID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, aborted, found := s.session.RemovePlayer(connID)
	if !found {
		return false
	}

	s.logger.Info().
		Str("session_code", s.session.Code).
		Str("player_id", player.ID).
		Msg("player disconnected")

	s.queueEvent(domain.NewEvent(domain.EventRosterChanged, s.session.Code, s.session.RosterState()))

	if aborted {
		s.timer.Stop()
		final := s.session.AbortResult()
		s.queueEvent(domain.NewEvent(domain.EventSessionFinished, s.session.Code, &domain.SessionFinishedPayload{
			Aborted: true,
			Scores:  final.Scores,
			Round:   final.Round,
		}))
	}

	return true
}

// startTimerLocked arms the hidden countdown for the active round. The round
// number is captured so a countdown that outlives its round cannot touch a
// later one. Caller must hold the lock.
func (s *LiveSession) startTimerLocked() {
	round := s.session.CurrentRound
	duration := HiddenDuration(s.session.Settings.TimerMin, s.session.Settings.TimerMax)

	s.timer.Start(duration, func() {
		s.handleTimerExpiry(round)
	})
}

// handleTimerExpiry applies the buzzer outcome for the given round. A stale
// expiry is a no-op.
func (s *LiveSession) handleTimerExpiry(round int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.CurrentRound != round {
		return
	}

	outcome, ok := s.session.ExpireTimer()
	if !ok {
		return
	}

	s.logger.Debug().
		Str("session_code", s.session.Code).
		Int("round", round).
		Str("losing_team", outcome.LosingTeam.String()).
		Msg("buzzer fired")

	s.queueEvent(domain.NewEvent(domain.EventTimerExpired, s.session.Code, &domain.TimerExpiredPayload{
		LosingTeam:  outcome.LosingTeam,
		WinningTeam: outcome.WinningTeam,
		CardHolder:  outcome.CardHolder,
		Scores:      s.session.ScoresCopy(),
	}))

	if outcome.Final != nil {
		s.queueEvent(domain.NewEvent(domain.EventSessionFinished, s.session.Code, &domain.SessionFinishedPayload{
			Winner: outcome.Final.Winner,
			Tie:    outcome.Final.Tie,
			Scores: outcome.Final.Scores,
			Round:  outcome.Final.Round,
		}))
	}
}

// Snapshot returns the current session state for a connecting client
func (s *LiveSession) Snapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := map[string]interface{}{
		"code":     s.session.Code,
		"status":   s.session.Status,
		"roster":   s.session.RosterState(),
		"scores":   s.session.ScoresCopy(),
		"canStart": s.session.CanStart(),
	}

	if s.session.Status == domain.StatusPlaying {
		state["round"] = s.session.RoundState()
	}

	return state
}

// queueEvent adds an event to the broadcast queue
func (s *LiveSession) queueEvent(event *domain.Event) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn().Str("type", string(event.Type)).Msg("event queue full, dropping event")
	}
}

// eventLoop processes events and broadcasts to clients
func (s *LiveSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to appropriate clients
func (s *LiveSession) broadcastEvent(event *domain.Event) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	// If player-specific, send only to that player
	if event.PlayerID != "" {
		if client, ok := s.clients[event.PlayerID]; ok {
			if err := client.Send(event); err != nil {
				s.logger.Debug().Str("player_id", event.PlayerID).Err(err).Msg("failed to send to client")
			}
		}
		return
	}

	// Broadcast to all clients
	for playerID, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug().Str("player_id", playerID).Err(err).Msg("failed to send to client")
		}
	}
}

// Close shuts down the live session
func (s *LiveSession) Close() {
	select {
	case <-s.done:
		return // Already closed
	default:
		close(s.done)
	}

	s.timer.Stop()

	// Close all client connections
	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clients = make(map[string]ClientConnection)
	s.clientsMu.Unlock()
}
