package chathub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"randochat/backend/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 8192
	sendBufferSize = 64
)

// WebSocketClient implements Client on top of a gorilla connection.
type WebSocketClient struct {
	UserID      string
	Conn        *websocket.Conn
	Coordinator *Coordinator

	send   chan models.ServerEvent
	mu     sync.Mutex
	closed bool
}

func NewWebSocketClient(userID string, conn *websocket.Conn, co *Coordinator) *WebSocketClient {
	return &WebSocketClient{
		UserID:      userID,
		Conn:        conn,
		Coordinator: co,
		send:        make(chan models.ServerEvent, sendBufferSize),
	}
}

func (c *WebSocketClient) GetUserID() string { return c.UserID }

// TrySend queues ev without blocking the caller; a full buffer drops it.
func (c *WebSocketClient) TrySend(ev models.ServerEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	select {
	case c.send <- ev:
		return nil
	default:
		return ErrBackpressure
	}
}

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close shuts the send channel, which stops the write pump and with it the
// connection.
func (c *WebSocketClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Coordinator.Disconnect(c)
		c.Close()
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxFrameSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("module", "chathub.ws").Str("user_id", c.UserID).Msg("read error")
			}
			break
		}
		c.dispatch(message)
	}
}

// dispatch routes one inbound frame. A panic inside a handler must not take
// the pump (and with it the dispatcher for this endpoint) down.
func (c *WebSocketClient) dispatch(message []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "chathub.ws").Str("user_id", c.UserID).
				Interface("panic", r).Msg("recovered in frame handler")
		}
	}()

	var env models.Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		log.Warn().Err(err).Str("module", "chathub.ws").Str("user_id", c.UserID).Msg("bad json")
		_ = c.TrySend(models.ErrorEvent("bad_payload"))
		return
	}

	switch env.Type {
	case models.FrameUserDetails:
		var req models.JoinRequest
		if !c.decode(message, &req) {
			return
		}
		if err := c.Coordinator.Join(c.UserID, req); err != nil {
			_ = c.TrySend(models.ErrorEvent(err.Error()))
		}
	case models.FrameSendMessage:
		var req models.ChatSend
		if !c.decode(message, &req) {
			return
		}
		if err := c.Coordinator.RelayChat(c.UserID, req); err != nil {
			_ = c.TrySend(models.ErrorEvent(err.Error()))
		}
	case models.FrameNext:
		var req models.SkipRequest
		if !c.decode(message, &req) {
			return
		}
		c.Coordinator.Skip(c.UserID, req)
	case models.FrameDisconnectChat:
		var req models.SkipRequest
		if !c.decode(message, &req) {
			return
		}
		c.Coordinator.LeaveChat(c.UserID, req)
	case models.FrameVideoOffer, models.FrameVideoAnswer, models.FrameICECandidate:
		var req models.SignalSend
		if !c.decode(message, &req) {
			return
		}
		c.Coordinator.RelaySignal(c.UserID, env.Type, req)
	case models.FrameEndCall:
		var req models.CallEnd
		if !c.decode(message, &req) {
			return
		}
		c.Coordinator.EndCall(c.UserID, req)
	default:
		log.Warn().Str("module", "chathub.ws").Str("user_id", c.UserID).
			Str("type", env.Type).Msg("unknown frame type")
		_ = c.TrySend(models.ErrorEvent("unknown frame type"))
	}
}

func (c *WebSocketClient) decode(message []byte, v any) bool {
	if err := json.Unmarshal(message, v); err != nil {
		log.Warn().Err(err).Str("module", "chathub.ws").Str("user_id", c.UserID).Msg("bad payload")
		_ = c.TrySend(models.ErrorEvent("bad_payload"))
		return false
	}
	return true
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				log.Error().Err(err).Str("module", "chathub.ws").Str("user_id", c.UserID).Msg("encode event")
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
