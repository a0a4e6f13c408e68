package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestPending is the only status a persisted request entry ever holds;
// accept and decline remove the entry instead of re-statusing it.
const RequestPending = "pending"

// FriendRequestEntry is one incoming request embedded in the receiver's document
type FriendRequestEntry struct {
	SenderID  primitive.ObjectID `bson:"senderId" json:"senderId"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// SentRequestEntry mirrors an outgoing request on the sender's document
type SentRequestEntry struct {
	ReceiverID primitive.ObjectID `bson:"receiverId" json:"receiverId"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// User represents a user document
type User struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	FullName       string               `bson:"fullName" json:"fullName"`
	Email          string               `bson:"email" json:"email"`
	Password       string               `bson:"password" json:"-"` // bcrypt hash, never exposed
	ProfilePic     string               `bson:"profilePic" json:"profilePic"`
	Friends        []primitive.ObjectID `bson:"friends" json:"friends"`
	FriendRequests []FriendRequestEntry `bson:"friendRequests" json:"friendRequests"`
	SentRequests   []SentRequestEntry   `bson:"sentRequests" json:"sentRequests"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// UserResponse is what we send to clients (without sensitive data)
type UserResponse struct {
	ID         string    `json:"_id"`
	FullName   string    `json:"fullName"`
	Email      string    `json:"email"`
	ProfilePic string    `json:"profilePic"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID.Hex(),
		FullName:   u.FullName,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
		CreatedAt:  u.CreatedAt,
	}
}

// IsFriend reports whether the given user id is in the friends set
func (u *User) IsFriend(id primitive.ObjectID) bool {
	for _, f := range u.Friends {
		if f == id {
			return true
		}
	}
	return false
}

// PendingRequestFrom returns the pending incoming request from senderID, if any
func (u *User) PendingRequestFrom(senderID primitive.ObjectID) *FriendRequestEntry {
	for i := range u.FriendRequests {
		if u.FriendRequests[i].SenderID == senderID && u.FriendRequests[i].Status == RequestPending {
			return &u.FriendRequests[i]
		}
	}
	return nil
}

// PendingRequestSummary is a pending incoming request with the sender's profile
// resolved, as returned by the friend-requests listing endpoint.
type PendingRequestSummary struct {
	SenderID         string `json:"senderId"`
	SenderName       string `json:"senderName"`
	SenderProfilePic string `json:"senderProfilePic"`
	Status           string `json:"status"`
}
