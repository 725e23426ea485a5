package domain

import "time"

// EventType represents the type of session event
type EventType string

const (
	EventSessionCreated  EventType = "SESSION_CREATED"
	EventSessionJoined   EventType = "SESSION_JOINED"
	EventRosterChanged   EventType = "ROSTER_CHANGED"
	EventRoundStarted    EventType = "ROUND_STARTED"
	EventCardPassed      EventType = "CARD_PASSED"
	EventBonusAwarded    EventType = "BONUS_AWARDED"
	EventTimerExpired    EventType = "TIMER_EXPIRED"
	EventSessionFinished EventType = "SESSION_FINISHED"
	EventGuessSubmitted  EventType = "GUESS_SUBMITTED"
	EventGuessReceived   EventType = "GUESS_RECEIVED"
	EventError           EventType = "ERROR"
)

// Event represents a state change reported through the notification interface
type Event struct {
	Type        EventType   `json:"type"`
	SessionCode string      `json:"sessionCode"`
	PlayerID    string      `json:"playerId,omitempty"` // If event is player-specific
	Payload     interface{} `json:"payload,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}

// NewEvent creates a new session event
func NewEvent(eventType EventType, code string, payload interface{}) *Event {
	return &Event{
		Type:        eventType,
		SessionCode: code,
		Payload:     payload,
		Timestamp:   time.Now(),
	}
}

// NewPlayerEvent creates a new player-specific session event
func NewPlayerEvent(eventType EventType, code, playerID string, payload interface{}) *Event {
	return &Event{
		Type:        eventType,
		SessionCode: code,
		PlayerID:    playerID,
		Payload:     payload,
		Timestamp:   time.Now(),
	}
}

// Payload types for different events

// SessionJoinedPayload is sent to a player who created or joined a session
type SessionJoinedPayload struct {
	SessionCode string  `json:"sessionCode"`
	Player      *Player `json:"player"`
}

// RosterPayload is sent to the room when the roster changes
type RosterPayload struct {
	Players []*Player         `json:"players"`
	Teams   map[Team][]string `json:"teams"`
}

// RoundStartedPayload is sent when a round begins
type RoundStartedPayload struct {
	Round             int          `json:"round"`
	CardHolder        Team         `json:"cardHolder"`
	DescribingPlayers []string     `json:"describingPlayers"`
	Card              *Card        `json:"card"`
	GuessedBlue       []int        `json:"guessedBlue"`
	GuessedOrange     []int        `json:"guessedOrange"`
	Scores            map[Team]int `json:"scores"`
}

// CardPassedPayload is sent when a marked phrase passes the card to the other team
type CardPassedPayload struct {
	CardHolder    Team         `json:"cardHolder"`
	Card          *Card        `json:"card"`
	PhraseIndex   int          `json:"phraseIndex"`
	Scores        map[Team]int `json:"scores"`
	GuessedBlue   []int        `json:"guessedBlue"`
	GuessedOrange []int        `json:"guessedOrange"`
}

// BonusPayload is sent when both sides are completed before the buzzer
type BonusPayload struct {
	Card          *Card        `json:"card"`
	Scores        map[Team]int `json:"scores"`
	GuessedBlue   []int        `json:"guessedBlue"`
	GuessedOrange []int        `json:"guessedOrange"`
}

// TimerExpiredPayload is sent when the hidden timer ends a round
type TimerExpiredPayload struct {
	LosingTeam  Team         `json:"losingTeam"`
	WinningTeam Team         `json:"winningTeam"`
	CardHolder  Team         `json:"cardHolder"`
	Scores      map[Team]int `json:"scores"`
}

// SessionFinishedPayload is sent when the session ends
type SessionFinishedPayload struct {
	Winner  Team         `json:"winner,omitempty"` // empty on a tie or an abort
	Tie     bool         `json:"tie"`
	Aborted bool         `json:"aborted"`
	Scores  map[Team]int `json:"scores"`
	Round   int          `json:"round"`
}

// GuessPayload relays a guess from a guessing player
type GuessPayload struct {
	Guess      string `json:"guess"`
	FromPlayer string `json:"fromPlayer"`
	FromTeam   Team   `json:"fromTeam"`
}

// ErrorPayload is sent to the originating client when a command is rejected
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
