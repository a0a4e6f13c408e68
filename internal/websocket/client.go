package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// FriendActions is the slice of the friend state machine reachable over the
// socket: accepting or declining a pending request.
type FriendActions interface {
	AcceptRequest(ctx context.Context, recipientID, senderID string) error
	DeclineRequest(ctx context.Context, recipientID, senderID string) error
}

// Client represents a WebSocket client connection
type Client struct {
	userID    string
	sessionID string

	Conn    *websocket.Conn
	Hub     *Hub
	Friends FriendActions
	Send    chan []byte

	closeOnce sync.Once
}

// NewClient creates a new WebSocket client with a fresh session identity
func NewClient(userID string, conn *websocket.Conn, hub *Hub, friends FriendActions) *Client {
	return &Client{
		userID:    userID,
		sessionID: uuid.New().String(),
		Conn:      conn,
		Hub:       hub,
		Friends:   friends,
		Send:      make(chan []byte, 256),
	}
}

// UserID returns the persistent identity behind this connection
func (c *Client) UserID() string { return c.userID }

// SessionID identifies this exact connection
func (c *Client) SessionID() string { return c.sessionID }

// Deliver attempts a single non-blocking send of one event
func (c *Client) Deliver(msg WSMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		logrus.WithError(err).Error("failed to marshal outgoing event")
		return false
	}

	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// Close releases the outbound channel, ending the write pump
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.Send)
	})
}

// ReadPump handles incoming messages from the client
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).Warn("websocket read error")
			}
			break
		}

		var incoming IncomingMessage
		if err := json.Unmarshal(message, &incoming); err != nil {
			logrus.WithError(err).Warn("failed to parse incoming frame")
			continue
		}

		c.handleIncomingMessage(incoming)
	}
}

// WritePump handles outgoing messages to the client
func (c *Client) WritePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logrus.WithError(err).Warn("websocket write error")
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleIncomingMessage dispatches a client frame to the owning state
// machine. The sender identity always comes from the session, never from
// the payload.
func (c *Client) handleIncomingMessage(msg IncomingMessage) {
	switch msg.Type {
	case EventCallUser:
		var p CallUserPayload
		if c.decode(msg.Payload, &p) {
			c.Hub.Calls.Invite(c.userID, p)
		}

	case EventAnswerCall:
		var p AnswerCallPayload
		if c.decode(msg.Payload, &p) {
			c.Hub.Calls.Answer(c.userID, p)
		}

	case EventRejectCall:
		var p RejectCallPayload
		if c.decode(msg.Payload, &p) {
			c.Hub.Calls.Reject(c.userID, p)
		}

	case EventEndCall:
		var p EndCallPayload
		if c.decode(msg.Payload, &p) {
			c.Hub.Calls.End(c.userID, p)
		}

	case EventAcceptFriendRequest:
		var p AcceptFriendRequestPayload
		if c.decode(msg.Payload, &p) {
			if err := c.Friends.AcceptRequest(context.Background(), c.userID, p.SenderID); err != nil {
				logrus.WithError(err).WithField("user", c.userID).Warn("accept friend request over socket failed")
			}
		}

	case EventDeclineFriendRequest:
		var p AcceptFriendRequestPayload
		if c.decode(msg.Payload, &p) {
			if err := c.Friends.DeclineRequest(context.Background(), c.userID, p.SenderID); err != nil {
				logrus.WithError(err).WithField("user", c.userID).Warn("decline friend request over socket failed")
			}
		}

	default:
		logrus.WithField("type", msg.Type).Debug("unknown message type")
	}
}

func (c *Client) decode(raw json.RawMessage, v interface{}) bool {
	if err := json.Unmarshal(raw, v); err != nil {
		logrus.WithError(err).Warn("failed to decode event payload")
		return false
	}
	return true
}
