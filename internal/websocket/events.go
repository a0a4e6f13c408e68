package websocket

import (
	"encoding/json"
	"time"

	"github.com/pion/webrtc/v4"

	"sambung/server/internal/models"
)

// EventType represents different WebSocket event types
type EventType string

const (
	// Presence events
	EventGetOnlineUsers EventType = "getOnlineUsers"

	// Call signaling events
	EventCallUser     EventType = "callUser"
	EventCallIncoming EventType = "callIncoming"
	EventAnswerCall   EventType = "answerCall"
	EventCallAccepted EventType = "callAccepted"
	EventRejectCall   EventType = "rejectCall"
	EventCallRejected EventType = "callRejected"
	EventEndCall      EventType = "endCall"
	EventCallEnded    EventType = "callEnded"
	EventCallTimeout  EventType = "callTimeout"

	// Friend request events
	EventAcceptFriendRequest   EventType = "acceptFriendRequest"
	EventDeclineFriendRequest  EventType = "declineFriendRequest"
	EventFriendRequest         EventType = "friendRequest"
	EventFriendRequestAccepted EventType = "friendRequestAccepted"
	EventFriendRequestDeclined EventType = "friendRequestDeclined"

	// Message events
	EventNewMessage EventType = "newMessage"
)

// WSMessage is the server-to-client envelope
type WSMessage struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// IncomingMessage is the client-to-server envelope. The payload is decoded
// per event type by the read pump.
type IncomingMessage struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// OnlineUsersPayload carries the full online-user snapshot, not a diff
type OnlineUsersPayload struct {
	UserIDs []string `json:"userIds"`
}

// CallUserPayload is a caller's invite. SignalData must be an SDP offer;
// isVideoCall decides the media kind for the whole call.
type CallUserPayload struct {
	UserToCall  string                    `json:"userToCall"`
	SignalData  webrtc.SessionDescription `json:"signalData"`
	From        string                    `json:"from"`
	Name        string                    `json:"name"`
	ProfilePic  string                    `json:"profilePic"`
	IsVideoCall bool                      `json:"isVideoCall"`
}

// CallIncomingPayload is delivered to the callee. CallID identifies the
// call session in every subsequent signaling event.
type CallIncomingPayload struct {
	CallID      string                    `json:"callId"`
	SignalData  webrtc.SessionDescription `json:"signalData"`
	From        string                    `json:"from"`
	Name        string                    `json:"name"`
	ProfilePic  string                    `json:"profilePic"`
	IsVideoCall bool                      `json:"isVideoCall"`
}

// AnswerCallPayload is the callee's acceptance. Signal must be an SDP answer.
type AnswerCallPayload struct {
	CallID             string                    `json:"callId"`
	Signal             webrtc.SessionDescription `json:"signal"`
	To                 string                    `json:"to"`
	ReceiverName       string                    `json:"receiverName"`
	ReceiverProfilePic string                    `json:"receiverProfilePic"`
}

// CallAcceptedPayload is delivered to the caller; it carries the answerer's
// display profile so the caller can render it without a separate lookup.
type CallAcceptedPayload struct {
	CallID             string                    `json:"callId"`
	Signal             webrtc.SessionDescription `json:"signal"`
	ReceiverName       string                    `json:"receiverName"`
	ReceiverProfilePic string                    `json:"receiverProfilePic"`
}

// RejectCallPayload is the callee's refusal
type RejectCallPayload struct {
	CallID string `json:"callId"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// EndCallPayload is either participant's hangup
type EndCallPayload struct {
	CallID string `json:"callId"`
	To     string `json:"to"`
}

// CallEventPayload is the minimal payload for callRejected, callEnded and
// callTimeout: just the call being referred to.
type CallEventPayload struct {
	CallID string `json:"callId"`
}

// AcceptFriendRequestPayload covers the acceptFriendRequest and
// declineFriendRequest socket events.
type AcceptFriendRequestPayload struct {
	SenderID string `json:"senderId"`
}

// FriendRequestPayload is pushed to an online recipient of a new request
type FriendRequestPayload struct {
	SenderID         string `json:"senderId"`
	SenderName       string `json:"senderName"`
	SenderProfilePic string `json:"senderProfilePic"`
}

// FriendRequestAcceptedPayload is pushed to the original sender on acceptance
type FriendRequestAcceptedPayload struct {
	RecipientID         string `json:"recipientId"`
	RecipientName       string `json:"recipientName"`
	RecipientProfilePic string `json:"recipientProfilePic"`
}

// FriendRequestDeclinedPayload is pushed to the original sender on decline
type FriendRequestDeclinedPayload struct {
	RecipientID   string `json:"recipientId"`
	RecipientName string `json:"recipientName"`
}

// NewMessagePayload is pushed to an online receiver of a stored message
type NewMessagePayload struct {
	Message models.Message `json:"message"`
}
