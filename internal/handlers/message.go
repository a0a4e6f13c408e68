package handlers

import (
	"errors"

	"sambung/server/internal/middleware"
	"sambung/server/internal/models"
	"sambung/server/internal/store"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SendMessageRequest represents send message request body
type SendMessageRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// GetUsersForSidebar returns everyone except the caller and their friends,
// for the add-friend discovery list.
func GetUsersForSidebar(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	user, err := Users.GetByID(c.Context(), userID)
	if err != nil {
		return storeError(c, err)
	}

	exclude := []string{userID}
	for _, id := range user.Friends {
		exclude = append(exclude, id.Hex())
	}

	others, err := Users.ListExcluding(c.Context(), exclude)
	if err != nil {
		return storeError(c, err)
	}

	responses := []models.UserResponse{}
	for i := range others {
		responses = append(responses, others[i].ToResponse())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    responses,
	})
}

// GetFriendsForMessages returns the caller's friends with profiles resolved
func GetFriendsForMessages(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	list, err := FriendService.Friends(c.Context(), userID)
	if err != nil {
		return friendError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    list,
	})
}

// GetMessages returns the conversation between the caller and the user in
// the path, oldest first.
func GetMessages(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	otherID := c.Params("id")

	messages, err := Messages.Between(c.Context(), userID, otherID)
	if err != nil {
		return storeError(c, err)
	}

	if messages == nil {
		messages = []models.Message{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    messages,
	})
}

// SendMessage stores a direct message and pushes it to the receiver's
// session if online. The stored document is authoritative; the push is a
// live-update hint only.
func SendMessage(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	receiverID := c.Params("id")

	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if req.Text == "" && req.Image == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Message text or image is required",
		})
	}

	if _, err := Users.GetByID(c.Context(), receiverID); err != nil {
		return storeError(c, err)
	}

	senderOID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid sender ID",
		})
	}
	receiverOID, err := primitive.ObjectIDFromHex(receiverID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid receiver ID",
		})
	}

	message, err := Messages.Insert(c.Context(), &models.Message{
		SenderID:   senderOID,
		ReceiverID: receiverOID,
		Text:       req.Text,
		Image:      req.Image,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to send message",
		})
	}

	Relay.NewMessage(receiverID, *message)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    message,
	})
}

func storeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "User not found",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "Database error",
	})
}
