package websocket

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Hub maintains the presence registry and serializes connect/disconnect
// handling on a single goroutine. All moving parts are injected so tests
// can wire the hub without sockets.
type Hub struct {
	// Presence is the registry mapping user ids to live sessions
	Presence *Presence

	// Calls owns every live call session
	Calls *CallManager

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client
}

// NewHub creates a hub around an existing presence registry and call manager
func NewHub(presence *Presence, calls *CallManager) *Hub {
	return &Hub{
		Presence:   presence,
		Calls:      calls,
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		}
	}
}

// registerClient maps the client's user to its session, evicting any prior
// session for the same user (last-connect-wins).
func (h *Hub) registerClient(client *Client) {
	if evicted := h.Presence.Register(client.UserID(), client); evicted != nil {
		evicted.Close()
	}

	h.broadcastOnlineUsers()

	logrus.WithFields(logrus.Fields{
		"user":    client.UserID(),
		"session": client.SessionID(),
	}).Info("client connected")
}

// unregisterClient removes the client's presence entry. The removal is
// keyed by session identity: a disconnect for a superseded session must not
// clobber the fresher registration that replaced it.
func (h *Hub) unregisterClient(client *Client) {
	// Always release the outbound channel; Unregister decides whether the
	// presence entry is still ours to remove.
	removed := h.Presence.Unregister(client.UserID(), client.SessionID())
	client.Close()
	if !removed {
		return
	}

	// A dropped socket ends any call its user was part of.
	h.Calls.Disconnect(client.UserID())

	h.broadcastOnlineUsers()

	logrus.WithFields(logrus.Fields{
		"user":    client.UserID(),
		"session": client.SessionID(),
	}).Info("client disconnected")
}

// broadcastOnlineUsers sends the full current key set to every connected
// session. A snapshot, not a diff: the set is small and clients just
// replace their copy.
func (h *Hub) broadcastOnlineUsers() {
	msg := WSMessage{
		Type:      EventGetOnlineUsers,
		Payload:   OnlineUsersPayload{UserIDs: h.Presence.OnlineIDs()},
		Timestamp: time.Now(),
	}

	h.Presence.Each(func(s Session) {
		s.Deliver(msg)
	})
}
