// Package store defines the persistence boundary. The state machines in
// internal/friends operate on these interfaces; the Mongo implementations
// live alongside them in this package.
package store

import (
	"context"
	"errors"

	"sambung/server/internal/models"
)

// ErrNotFound is returned when a document does not exist
var ErrNotFound = errors.New("not found")

// UserStore provides access to user documents. Every mutation is a single
// atomic update on one document; operations that logically touch two users
// are expressed as two calls so a caller can't accidentally assume a
// cross-document transaction.
type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListExcluding(ctx context.Context, ids []string) ([]models.User, error)
	SetProfilePic(ctx context.Context, id, url string) (*models.User, error)

	// PushFriendRequest appends a pending entry to the receiver's friendRequests
	PushFriendRequest(ctx context.Context, receiverID, senderID string) error
	// PushSentRequest appends the mirrored pending entry to the sender's sentRequests
	PushSentRequest(ctx context.Context, senderID, receiverID string) error
	// PullFriendRequest removes any entry from senderID on the receiver
	PullFriendRequest(ctx context.Context, receiverID, senderID string) error
	// PullSentRequest removes any entry for receiverID on the sender
	PullSentRequest(ctx context.Context, senderID, receiverID string) error

	// AcceptIncomingRequest removes the request from senderID and adds senderID
	// to the recipient's friends set in one update on the recipient document
	AcceptIncomingRequest(ctx context.Context, recipientID, senderID string) error
	// AcceptOutgoingRequest removes the sent request for recipientID and adds
	// recipientID to the sender's friends set in one update on the sender document
	AcceptOutgoingRequest(ctx context.Context, senderID, recipientID string) error

	// PullFriend removes friendID from userID's friends set
	PullFriend(ctx context.Context, userID, friendID string) error
}

// MessageStore provides access to direct message documents
type MessageStore interface {
	Insert(ctx context.Context, msg *models.Message) (*models.Message, error)
	Between(ctx context.Context, userA, userB string) ([]models.Message, error)
	DeleteBetween(ctx context.Context, userA, userB string) error
}

// MediaStore provides access to uploaded content posts
type MediaStore interface {
	Insert(ctx context.Context, media *models.Media) (*models.Media, error)
	ListByUser(ctx context.Context, userID string) ([]models.Media, error)
}
