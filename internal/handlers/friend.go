package handlers

import (
	"errors"

	"sambung/server/internal/friends"
	"sambung/server/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// SendFriendRequest sends a friend request to the user in the path
func SendFriendRequest(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	friendID := c.Params("friendId")

	if friendID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Friend ID is required",
		})
	}

	if err := FriendService.SendRequest(c.Context(), userID, friendID); err != nil {
		return friendError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Friend request sent successfully",
	})
}

// AcceptFriendRequest accepts a pending request from the sender in the path
func AcceptFriendRequest(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	senderID := c.Params("senderId")

	if err := FriendService.AcceptRequest(c.Context(), userID, senderID); err != nil {
		return friendError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Friend request accepted",
	})
}

// DeclineFriendRequest declines a pending request from the sender in the path
func DeclineFriendRequest(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	senderID := c.Params("senderId")

	if err := FriendService.DeclineRequest(c.Context(), userID, senderID); err != nil {
		return friendError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Friend request declined",
	})
}

// CancelFriendRequest withdraws the caller's own outgoing request
func CancelFriendRequest(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	receiverID := c.Params("receiverId")

	if err := FriendService.CancelRequest(c.Context(), userID, receiverID); err != nil {
		return friendError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Friend request canceled",
	})
}

// Unfriend removes a friendship and deletes the conversation between the pair
func Unfriend(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	friendID := c.Params("friendId")

	if friendID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Friend ID is required",
		})
	}

	if err := FriendService.Unfriend(c.Context(), userID, friendID); err != nil {
		return friendError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Unfriended successfully and messages deleted",
	})
}

// GetFriendRequests returns the caller's pending incoming requests
func GetFriendRequests(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	pending, err := FriendService.PendingRequests(c.Context(), userID)
	if err != nil {
		return friendError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    pending,
	})
}

// friendError maps state machine errors onto HTTP statuses. Every failure
// here was rejected before any mutation.
func friendError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, friends.ErrInvalidTarget):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, friends.ErrUserNotFound):
		status, message = fiber.StatusNotFound, err.Error()
	case errors.Is(err, friends.ErrRequestNotFound):
		status, message = fiber.StatusNotFound, err.Error()
	case errors.Is(err, friends.ErrAlreadyRequested),
		errors.Is(err, friends.ErrAlreadyFriends),
		errors.Is(err, friends.ErrNotFriends):
		status, message = fiber.StatusConflict, err.Error()
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}
