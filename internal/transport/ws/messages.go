package ws

import "time"

// MessageType represents the type of WebSocket message
type MessageType string

// Client -> Server message types
const (
	MsgJoinSession MessageType = "join_session"
	MsgStartGame   MessageType = "start_session"
	MsgMarkCorrect MessageType = "mark_correct"
	MsgSubmitGuess MessageType = "submit_guess"
	MsgNextRound   MessageType = "next_round"
	MsgPing        MessageType = "ping"
)

// Server -> Client message types
const (
	MsgConnected MessageType = "connected"
	MsgError     MessageType = "error"
	MsgPong      MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Client message payloads

// JoinSessionPayload is the payload for join_session
type JoinSessionPayload struct {
	Name string `json:"name"`
}

// MarkCorrectPayload is the payload for mark_correct
type MarkCorrectPayload struct {
	PhraseIndex int `json:"phraseIndex"`
}

// SubmitGuessPayload is the payload for submit_guess
type SubmitGuessPayload struct {
	Guess string `json:"guess"`
}

// Server message payloads

// ConnectedPayload is the payload for connected
type ConnectedPayload struct {
	PlayerID     string                 `json:"playerId"`
	SessionCode  string                 `json:"sessionCode"`
	SessionState map[string]interface{} `json:"sessionState"`
}

// ErrorPayload is the payload for error
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeInvalidMessage     = "INVALID_MESSAGE"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInvalidState       = "INVALID_STATE"
	ErrCodePreconditionFailed = "PRECONDITION_FAILED"
	ErrCodeDuplicateAction    = "DUPLICATE_ACTION"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeNotJoined          = "NOT_JOINED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)
