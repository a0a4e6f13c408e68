// Package friends implements the friend-relationship lifecycle: request,
// accept, decline, cancel, unfriend. All mutations are performed as
// independent single-document updates through store.UserStore; there is no
// cross-document transaction, so preconditions are always checked before
// the first write and a crash between the two writes can leave the mirrored
// lists inconsistent (documented, not auto-healed).
package friends

import (
	"context"
	"errors"

	"sambung/server/internal/models"
	"sambung/server/internal/store"

	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidTarget is returned when a user targets themselves
	ErrInvalidTarget = errors.New("cannot send a friend request to yourself")
	// ErrUserNotFound is returned when either party does not exist
	ErrUserNotFound = errors.New("user not found")
	// ErrAlreadyRequested is returned when a pending request already exists
	ErrAlreadyRequested = errors.New("friend request already sent")
	// ErrAlreadyFriends is returned when the pair is already connected
	ErrAlreadyFriends = errors.New("users are already friends")
	// ErrRequestNotFound is returned when no pending request exists to act on
	ErrRequestNotFound = errors.New("friend request not found")
	// ErrNotFriends is returned when unfriending a non-friend
	ErrNotFriends = errors.New("user is not your friend")
)

// Notifier delivers live friend-event hints to a user's session, if connected.
// Delivery is best effort; an offline target is silently skipped. Clients
// treat these as invalidation hints and re-fetch the authoritative state.
type Notifier interface {
	FriendRequest(toUserID string, sender models.UserResponse)
	FriendRequestAccepted(toUserID string, recipient models.UserResponse)
	FriendRequestDeclined(toUserID string, recipient models.UserResponse)
}

// Service is the friend-relationship state machine
type Service struct {
	users    store.UserStore
	messages store.MessageStore
	notify   Notifier
}

// NewService wires the state machine to its stores and notifier
func NewService(users store.UserStore, messages store.MessageStore, notify Notifier) *Service {
	return &Service{users: users, messages: messages, notify: notify}
}

// SendRequest records a pending request from sender to receiver and notifies
// the receiver if online.
func (s *Service) SendRequest(ctx context.Context, senderID, receiverID string) error {
	if senderID == receiverID {
		return ErrInvalidTarget
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return userErr(err)
	}
	receiver, err := s.users.GetByID(ctx, receiverID)
	if err != nil {
		return userErr(err)
	}

	if receiver.IsFriend(sender.ID) {
		return ErrAlreadyFriends
	}
	if receiver.PendingRequestFrom(sender.ID) != nil {
		return ErrAlreadyRequested
	}

	// Two independent single-document updates, receiver first so the
	// receiver never sees a request the sender doesn't know about.
	if err := s.users.PushFriendRequest(ctx, receiverID, senderID); err != nil {
		return err
	}
	if err := s.users.PushSentRequest(ctx, senderID, receiverID); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"sender":   senderID,
		"receiver": receiverID,
	}).Info("friend request sent")

	s.notify.FriendRequest(receiverID, sender.ToResponse())
	return nil
}

// AcceptRequest moves a pending request into a mutual friendship and notifies
// the original sender if online.
func (s *Service) AcceptRequest(ctx context.Context, recipientID, senderID string) error {
	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		return userErr(err)
	}
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return userErr(err)
	}

	if recipient.PendingRequestFrom(sender.ID) == nil {
		return ErrRequestNotFound
	}

	if err := s.users.AcceptIncomingRequest(ctx, recipientID, senderID); err != nil {
		return err
	}
	if err := s.users.AcceptOutgoingRequest(ctx, senderID, recipientID); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"recipient": recipientID,
		"sender":    senderID,
	}).Info("friend request accepted")

	s.notify.FriendRequestAccepted(senderID, recipient.ToResponse())
	return nil
}

// DeclineRequest drops a pending request without creating a friendship and
// notifies the original sender if online. The mirrored sentRequests entry is
// removed as well so both documents agree the request is gone.
func (s *Service) DeclineRequest(ctx context.Context, recipientID, senderID string) error {
	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		return userErr(err)
	}
	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return userErr(err)
	}

	if recipient.PendingRequestFrom(sender.ID) == nil {
		return ErrRequestNotFound
	}

	if err := s.users.PullFriendRequest(ctx, recipientID, senderID); err != nil {
		return err
	}
	if err := s.users.PullSentRequest(ctx, senderID, recipientID); err != nil {
		return err
	}

	s.notify.FriendRequestDeclined(senderID, recipient.ToResponse())
	return nil
}

// CancelRequest withdraws the caller's own outgoing request. No notification
// is sent; the receiver reconciles on its next fetch. Removing entries that
// are already gone is a no-op.
func (s *Service) CancelRequest(ctx context.Context, senderID, receiverID string) error {
	if _, err := s.users.GetByID(ctx, senderID); err != nil {
		return userErr(err)
	}
	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		return userErr(err)
	}

	if err := s.users.PullFriendRequest(ctx, receiverID, senderID); err != nil {
		return err
	}
	return s.users.PullSentRequest(ctx, senderID, receiverID)
}

// Unfriend dissolves a friendship in both directions and deletes the direct
// message history between the pair. The deletion is irrecoverable:
// conversation history is scoped to the friendship's lifetime.
func (s *Service) Unfriend(ctx context.Context, userID, friendID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return userErr(err)
	}
	friend, err := s.users.GetByID(ctx, friendID)
	if err != nil {
		return userErr(err)
	}

	if !user.IsFriend(friend.ID) {
		return ErrNotFriends
	}

	if err := s.users.PullFriend(ctx, userID, friendID); err != nil {
		return err
	}
	if err := s.users.PullFriend(ctx, friendID, userID); err != nil {
		return err
	}

	if err := s.messages.DeleteBetween(ctx, userID, friendID); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user":   userID,
		"friend": friendID,
	}).Info("unfriended, conversation deleted")

	return nil
}

// PendingRequests returns the user's pending incoming requests with sender
// profiles resolved. Requests whose sender no longer exists are skipped.
func (s *Service) PendingRequests(ctx context.Context, userID string) ([]models.PendingRequestSummary, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}

	pending := []models.PendingRequestSummary{}
	for _, req := range user.FriendRequests {
		if req.Status != models.RequestPending {
			continue
		}
		sender, err := s.users.GetByID(ctx, req.SenderID.Hex())
		if err != nil {
			continue
		}
		pending = append(pending, models.PendingRequestSummary{
			SenderID:         sender.ID.Hex(),
			SenderName:       sender.FullName,
			SenderProfilePic: sender.ProfilePic,
			Status:           req.Status,
		})
	}
	return pending, nil
}

// Friends returns the user's friends with profiles resolved
func (s *Service) Friends(ctx context.Context, userID string) ([]models.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}

	friends := []models.UserResponse{}
	for _, id := range user.Friends {
		friend, err := s.users.GetByID(ctx, id.Hex())
		if err != nil {
			continue
		}
		friends = append(friends, friend.ToResponse())
	}
	return friends, nil
}

// AreFriends reports whether the pair is currently connected
func (s *Service) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, userErr(err)
	}
	other, err := s.users.GetByID(ctx, otherID)
	if err != nil {
		return false, userErr(err)
	}
	return user.IsFriend(other.ID), nil
}

func userErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
