package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"guarded-chat-be/internal/dto"
	"guarded-chat-be/internal/pkg/logger"
	"guarded-chat-be/pkg/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	sendBuffer     = 256
)

var (
	ErrClientClosed = errors.New("client closed")
	ErrSendTimeout  = errors.New("send buffer full")
)

// Session is the per-connection protocol handler driven by the read pump.
type Session interface {
	HandleMessage(messageID, text string)
	Cancel() bool
	Confirm(suggestionID string)
	Close()
}

// SessionFactory builds the session for a new connection; sink delivers its frames.
type SessionFactory func(connectionID string, sink session.Sink) Session

// Client is a middleman between the websocket connection and its session.
type Client struct {
	ID     string
	UserID string

	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	session  Session
	validate *validator.Validate
	logger   logger.ILogger

	// Buffered channel of outbound frames.
	send chan []byte

	// sendTimeout bounds how long Send waits on a full queue.
	sendTimeout time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn, userID string, validate *validator.Validate, log logger.ILogger) *Client {
	return &Client{
		ID:          uuid.NewString(),
		UserID:      userID,
		Hub:         hub,
		Conn:        conn,
		validate:    validate,
		logger:      log,
		send:        make(chan []byte, sendBuffer),
		sendTimeout: writeWait,
		done:        make(chan struct{}),
	}
}

// Send queues a frame for the write pump. It implements session.Sink.
// The session calls it with its lock held, so it never blocks longer than
// sendTimeout: a stalled peer loses frames rather than delaying a cancel.
func (c *Client) Send(msg session.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	timer := time.NewTimer(c.sendTimeout)
	defer timer.Stop()

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrClientClosed
	case <-timer.C:
		return ErrSendTimeout
	}
}

// dispatch routes one inbound frame. Malformed frames are dropped.
func (c *Client) dispatch(data []byte) {
	in, err := dto.DecodeInbound(data, c.validate)
	if err != nil {
		c.logger.Debug("WS_CLIENT", "Dropping malformed frame", map[string]interface{}{
			"connection_id": c.ID,
			"error":         err.Error(),
		})
		return
	}

	switch {
	case in.Message != nil:
		c.session.HandleMessage(in.Message.ID, *in.Message.Text)
	case in.Cancel != nil:
		c.session.Cancel()
	case in.ConfirmAction != nil:
		c.session.Confirm(in.ConfirmAction.SuggestionID)
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// shutdown asks the peer to go away and drops the connection, which ends the read pump.
func (c *Client) shutdown() {
	if c.Conn == nil {
		c.close()
		return
	}
	_ = c.Conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(writeWait),
	)
	_ = c.Conn.Close()
}

// readPump pumps frames from the websocket connection to the session.
func (c *Client) readPump() {
	defer c.Conn.Close()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WS_CLIENT", "Unexpected close", map[string]interface{}{
					"connection_id": c.ID,
					"error":         err.Error(),
				})
			}
			return
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}
		c.dispatch(data)
	}
}

// writePump pumps frames from the send queue to the websocket connection.
// Every frame is written as its own websocket message.
func (c *Client) writePump(exited chan<- struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(exited)
	}()

	for {
		select {
		case message := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug("WS_CLIENT", "Write failed", map[string]interface{}{
					"connection_id": c.ID,
					"error":         err.Error(),
				})
				c.close()
				c.Conn.Close()
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.close()
				c.Conn.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}
