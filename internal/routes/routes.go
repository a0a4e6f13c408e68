package routes

import (
	"sambung/server/internal/handlers"
	"sambung/server/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health check (public)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "Sambung API is running",
		})
	})

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.StrictRateLimiter(), handlers.Signup)
	auth.Post("/login", middleware.StrictRateLimiter(), handlers.Login)
	auth.Post("/logout", handlers.Logout)
	auth.Get("/check", middleware.AuthMiddleware, handlers.CheckAuth)
	auth.Put("/update-profile", middleware.AuthMiddleware, middleware.UploadRateLimiter(), handlers.UpdateProfile)

	// Friend request routes (protected)
	requests := api.Group("/friend-requests", middleware.AuthMiddleware)
	requests.Get("/", handlers.GetFriendRequests)
	requests.Post("/:senderId/accept", handlers.AcceptFriendRequest)
	requests.Post("/:senderId/decline", handlers.DeclineFriendRequest)
	requests.Post("/:receiverId/cancel", handlers.CancelFriendRequest)

	// Friend routes (protected)
	friends := api.Group("/friends", middleware.AuthMiddleware)
	friends.Post("/:friendId", handlers.SendFriendRequest)
	friends.Delete("/:friendId", handlers.Unfriend)

	// Message routes (protected)
	messages := api.Group("/messages", middleware.AuthMiddleware)
	messages.Get("/users", handlers.GetUsersForSidebar)
	messages.Get("/users/friends", handlers.GetFriendsForMessages)
	messages.Get("/:id", handlers.GetMessages)
	messages.Post("/send/:id", handlers.SendMessage)

	// Media routes (protected)
	media := api.Group("/media", middleware.AuthMiddleware)
	media.Post("/", middleware.UploadRateLimiter(), handlers.UploadContent)
	media.Get("/", handlers.GetUserContent)
	media.Get("/user/:userId", handlers.GetUserMedia)

	// Serve uploaded files (public)
	app.Get("/uploads/:type/:filename", handlers.GetFile)

	// WebSocket route; identity comes from the userId query parameter
	api.Get("/ws", handlers.WebSocketUpgrade, websocket.New(handlers.WebSocketHandler))

	// WebSocket stats (protected, for debugging)
	api.Get("/ws/stats", middleware.AuthMiddleware, handlers.GetWebSocketStats)
}
