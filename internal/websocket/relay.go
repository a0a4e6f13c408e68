package websocket

import (
	"time"

	"github.com/sirupsen/logrus"

	"sambung/server/internal/models"
)

// Relay forwards named signaling events to the session resolved for a target
// user. It is stateless beyond the injected presence registry: one delivery
// attempt, no retry, no acknowledgment. An offline target is a normal
// outcome and is silently absorbed; the initiating side applies its own
// timeout policy if it needs a failure signal.
type Relay struct {
	presence *Presence
}

// NewRelay wires a relay to the presence registry
func NewRelay(p *Presence) *Relay {
	return &Relay{presence: p}
}

func (r *Relay) deliver(toUserID string, eventType EventType, payload interface{}) bool {
	session, ok := r.presence.Resolve(toUserID)
	if !ok {
		logrus.WithFields(logrus.Fields{
			"to":    toUserID,
			"event": eventType,
		}).Debug("relay target offline, event dropped")
		return false
	}

	delivered := session.Deliver(WSMessage{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if !delivered {
		logrus.WithFields(logrus.Fields{
			"to":    toUserID,
			"event": eventType,
		}).Warn("session send buffer full, event dropped")
	}
	return delivered
}

// CallIncoming delivers an invite to the callee
func (r *Relay) CallIncoming(toUserID string, payload CallIncomingPayload) bool {
	return r.deliver(toUserID, EventCallIncoming, payload)
}

// CallAccepted delivers the answer back to the caller
func (r *Relay) CallAccepted(toCallerID string, payload CallAcceptedPayload) bool {
	return r.deliver(toCallerID, EventCallAccepted, payload)
}

// CallRejected informs the caller their invite was declined
func (r *Relay) CallRejected(toCallerID, callID string) bool {
	return r.deliver(toCallerID, EventCallRejected, CallEventPayload{CallID: callID})
}

// CallEnded informs a participant the call is over
func (r *Relay) CallEnded(toPeerID, callID string) bool {
	return r.deliver(toPeerID, EventCallEnded, CallEventPayload{CallID: callID})
}

// CallTimeout informs the caller nobody answered within the ring window
func (r *Relay) CallTimeout(toCallerID, callID string) bool {
	return r.deliver(toCallerID, EventCallTimeout, CallEventPayload{CallID: callID})
}

// FriendRequest pushes a live hint that a new request arrived. Implements
// friends.Notifier; the durable state lives in the identity store and
// clients re-fetch it rather than trusting this event alone.
func (r *Relay) FriendRequest(toUserID string, sender models.UserResponse) {
	r.deliver(toUserID, EventFriendRequest, FriendRequestPayload{
		SenderID:         sender.ID,
		SenderName:       sender.FullName,
		SenderProfilePic: sender.ProfilePic,
	})
}

// FriendRequestAccepted pushes the acceptance hint to the original sender
func (r *Relay) FriendRequestAccepted(toUserID string, recipient models.UserResponse) {
	r.deliver(toUserID, EventFriendRequestAccepted, FriendRequestAcceptedPayload{
		RecipientID:         recipient.ID,
		RecipientName:       recipient.FullName,
		RecipientProfilePic: recipient.ProfilePic,
	})
}

// FriendRequestDeclined pushes the decline hint to the original sender
func (r *Relay) FriendRequestDeclined(toUserID string, recipient models.UserResponse) {
	r.deliver(toUserID, EventFriendRequestDeclined, FriendRequestDeclinedPayload{
		RecipientID:   recipient.ID,
		RecipientName: recipient.FullName,
	})
}

// NewMessage pushes a freshly stored direct message to an online receiver
func (r *Relay) NewMessage(toUserID string, msg models.Message) {
	r.deliver(toUserID, EventNewMessage, NewMessagePayload{Message: msg})
}
