package handlers

import (
	"sambung/server/internal/config"
	"sambung/server/internal/database"
	"sambung/server/internal/friends"
	"sambung/server/internal/store"
	ws "sambung/server/internal/websocket"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var (
	// Cfg is the loaded application configuration
	Cfg *config.Config

	// Users, Messages, MediaDB are the persistence boundaries
	Users    store.UserStore
	Messages store.MessageStore
	MediaDB  store.MediaStore

	// FriendService is the friend-relationship state machine
	FriendService *friends.Service

	// WSHub owns presence; Relay forwards signaling events through it
	WSHub *ws.Hub
	Relay *ws.Relay
)

// Init wires the handler package: stores over the connected database, the
// presence registry, relay, call manager, and friend state machine.
func Init(cfg *config.Config) {
	Cfg = cfg

	Users = store.NewMongoUserStore(database.DB)
	Messages = store.NewMongoMessageStore(database.DB)
	MediaDB = store.NewMongoMediaStore(database.DB)

	presence := ws.NewPresence()
	Relay = ws.NewRelay(presence)
	calls := ws.NewCallManager(Relay, cfg.AnswerTimeout)
	FriendService = friends.NewService(Users, Messages, Relay)

	WSHub = ws.NewHub(presence, calls)
	go WSHub.Run()

	logrus.Info("WebSocket hub initialized")
}

// WebSocketUpgrade checks if the request should be upgraded to WebSocket
func WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}

	return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{
		"success": false,
		"error":   "WebSocket upgrade required",
	})
}

// WebSocketHandler handles WebSocket connections. The session query
// parameter carries the connecting user's identity; without it the
// connection is served but never registered, so the user stays invisible.
func WebSocketHandler(c *websocket.Conn) {
	userID := c.Query("userId")

	client := ws.NewClient(userID, c, WSHub, FriendService)

	if userID != "" {
		WSHub.Register <- client
	}

	go client.WritePump()
	client.ReadPump() // Blocks until the connection closes
}

// GetWebSocketStats returns WebSocket connection statistics
func GetWebSocketStats(c *fiber.Ctx) error {
	if WSHub == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "WebSocket hub not initialized",
		})
	}

	ids := WSHub.Presence.OnlineIDs()
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"onlineUsers": len(ids),
			"userIds":     ids,
			"activeCalls": WSHub.Calls.ActiveCalls(),
		},
	})
}
