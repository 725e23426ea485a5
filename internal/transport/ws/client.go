package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"buzzcard/internal/app"
	"buzzcard/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Size of the send channel buffer
	sendBufferSize = 256
)

// Client represents a WebSocket client connection
type Client struct {
	conn     *websocket.Conn
	hub      *app.Hub
	session  *app.LiveSession
	connID   string
	playerID string
	send     chan []byte
	done     chan struct{}
	logger   zerolog.Logger
	mu       sync.Mutex
	closed   bool
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, hub *app.Hub, session *app.LiveSession, connID string, logger zerolog.Logger) *Client {
	return &Client{
		conn:    conn,
		hub:     hub,
		session: session,
		connID:  connID,
		send:    make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
		logger:  logger,
	}
}

// GetPlayerID returns the player ID for this client
func (c *Client) GetPlayerID() string {
	return c.playerID
}

// Send implements app.ClientConnection
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		// Buffer full, message dropped
		c.logger.Warn().Str("conn_id", c.connID).Msg("send buffer full, message dropped")
		return nil
	}
}

// Close implements app.ClientConnection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		if c.playerID != "" {
			c.session.UnregisterClient(c.playerID)
		}
		// The hub resolves the connection back to its session; a client
		// only ever holds the connection ref at this point.
		c.hub.HandleDisconnect(c.connID)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug().Err(err).Msg("websocket read error")
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError(ErrCodeInvalidMessage, "Invalid message format")
		return
	}

	if msg.Type == MsgJoinSession {
		c.handleJoinSession(msg.Payload)
		return
	}
	if msg.Type == MsgPing {
		c.sendPong()
		return
	}

	// Everything below requires a joined player
	if c.playerID == "" {
		c.sendError(ErrCodeNotJoined, "Join the session first")
		return
	}

	switch msg.Type {
	case MsgStartGame:
		c.handleStartGame()
	case MsgMarkCorrect:
		c.handleMarkCorrect(msg.Payload)
	case MsgSubmitGuess:
		c.handleSubmitGuess(msg.Payload)
	case MsgNextRound:
		c.handleNextRound()
	default:
		c.sendError(ErrCodeInvalidMessage, "Unknown message type")
	}
}

// handleJoinSession handles a join_session message
func (c *Client) handleJoinSession(payload interface{}) {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	name, ok := payloadMap["name"].(string)
	if !ok || name == "" {
		c.sendError(ErrCodeInvalidMessage, "Name is required")
		return
	}

	player, err := c.session.Join(c.connID, name)
	if err != nil {
		c.sendDomainError(err)
		return
	}

	c.playerID = player.ID
	c.session.RegisterClient(c.playerID, c)

	c.sendConnected()
}

// handleStartGame handles a start_session message
func (c *Client) handleStartGame() {
	if err := c.session.Start(c.playerID); err != nil {
		c.sendDomainError(err)
	}
}

// handleMarkCorrect handles a mark_correct message
func (c *Client) handleMarkCorrect(payload interface{}) {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	index, ok := payloadMap["phraseIndex"].(float64)
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Phrase index is required")
		return
	}

	if err := c.session.MarkPhrase(c.playerID, int(index)); err != nil {
		c.sendDomainError(err)
	}
}

// handleSubmitGuess handles a submit_guess message
func (c *Client) handleSubmitGuess(payload interface{}) {
	payloadMap, ok := payload.(map[string]interface{})
	if !ok {
		c.sendError(ErrCodeInvalidMessage, "Invalid payload")
		return
	}

	guess, ok := payloadMap["guess"].(string)
	if !ok || guess == "" {
		c.sendError(ErrCodeInvalidMessage, "Guess is required")
		return
	}

	if err := c.session.SubmitGuess(c.playerID, guess); err != nil {
		c.sendDomainError(err)
	}
}

// handleNextRound handles a next_round message
func (c *Client) handleNextRound() {
	if err := c.session.NextRound(); err != nil {
		c.sendDomainError(err)
	}
}

// sendDomainError maps a domain error to a wire error code and sends it to
// this client only. Rejections never broadcast to the room.
func (c *Client) sendDomainError(err error) {
	code := ErrCodeInternalError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrPlayerNotFound):
		code = ErrCodeNotFound
	case errors.Is(err, domain.ErrSessionStarted),
		errors.Is(err, domain.ErrSessionNotStarted),
		errors.Is(err, domain.ErrSessionOver),
		errors.Is(err, domain.ErrRoundOver):
		code = ErrCodeInvalidState
	case errors.Is(err, domain.ErrNotEnoughPlayers), errors.Is(err, domain.ErrEmptyTeam):
		code = ErrCodePreconditionFailed
	case errors.Is(err, domain.ErrPhraseGuessed):
		code = ErrCodeDuplicateAction
	case errors.Is(err, domain.ErrNotDescriber), errors.Is(err, domain.ErrNotOwner):
		code = ErrCodeUnauthorized
	case errors.Is(err, domain.ErrEmptyName), errors.Is(err, domain.ErrPhraseOutOfRange):
		code = ErrCodeInvalidMessage
	}

	c.sendError(code, err.Error())
}

// sendConnected sends the connected message to the client
func (c *Client) sendConnected() {
	payload := &ConnectedPayload{
		PlayerID:     c.playerID,
		SessionCode:  c.session.Code(),
		SessionState: c.session.Snapshot(),
	}

	c.Send(NewServerMessage(MsgConnected, payload))
}

// sendError sends an error message to the client
func (c *Client) sendError(code, message string) {
	payload := &ErrorPayload{
		Code:    code,
		Message: message,
	}

	c.Send(NewServerMessage(MsgError, payload))
}

// sendPong sends a pong message in response to ping
func (c *Client) sendPong() {
	c.Send(NewServerMessage(MsgPong, nil))
}
