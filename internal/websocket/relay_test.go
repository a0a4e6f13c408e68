package websocket

import (
	"testing"

	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sambung/server/internal/models"
)

func TestRelayDeliversToResolvedSession(t *testing.T) {
	p := NewPresence()
	r := NewRelay(p)

	bob := newFakeSession("sess-1", "bob")
	p.Register("bob", bob)

	ok := r.CallIncoming("bob", CallIncomingPayload{
		CallID:      "call-1",
		SignalData:  webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: "v=0"},
		From:        "alice",
		Name:        "Alice",
		IsVideoCall: true,
	})
	require.True(t, ok)

	incoming := bob.eventsOfType(EventCallIncoming)
	require.Len(t, incoming, 1)

	payload := incoming[0].Payload.(CallIncomingPayload)
	assert.Equal(t, "call-1", payload.CallID)
	assert.Equal(t, "alice", payload.From)
	assert.True(t, payload.IsVideoCall)
}

func TestRelayOfflineTargetIsSilentlyDropped(t *testing.T) {
	p := NewPresence()
	r := NewRelay(p)

	// Offline is a normal outcome, never an error or a panic.
	assert.False(t, r.CallRejected("nobody", "call-1"))
	assert.False(t, r.CallEnded("nobody", "call-1"))
	r.FriendRequest("nobody", models.UserResponse{ID: "x"})
}

func TestRelayFriendRequestPayload(t *testing.T) {
	p := NewPresence()
	r := NewRelay(p)

	bob := newFakeSession("sess-1", "bob")
	p.Register("bob", bob)

	r.FriendRequest("bob", models.UserResponse{
		ID:         "alice-id",
		FullName:   "Alice",
		ProfilePic: "/uploads/images/alice.png",
	})

	events := bob.eventsOfType(EventFriendRequest)
	require.Len(t, events, 1)

	payload := events[0].Payload.(FriendRequestPayload)
	assert.Equal(t, "alice-id", payload.SenderID)
	assert.Equal(t, "Alice", payload.SenderName)
	assert.Equal(t, "/uploads/images/alice.png", payload.SenderProfilePic)
}

func TestRelayFriendRequestAcceptedPayload(t *testing.T) {
	p := NewPresence()
	r := NewRelay(p)

	alice := newFakeSession("sess-1", "alice")
	p.Register("alice", alice)

	r.FriendRequestAccepted("alice", models.UserResponse{
		ID:         "bob-id",
		FullName:   "Bob",
		ProfilePic: "/uploads/images/bob.png",
	})

	events := alice.eventsOfType(EventFriendRequestAccepted)
	require.Len(t, events, 1)

	payload := events[0].Payload.(FriendRequestAcceptedPayload)
	assert.Equal(t, "bob-id", payload.RecipientID)
	assert.Equal(t, "Bob", payload.RecipientName)
	assert.Equal(t, "/uploads/images/bob.png", payload.RecipientProfilePic)
}

func TestRelayCallAnswerCarriesProfile(t *testing.T) {
	p := NewPresence()
	r := NewRelay(p)

	alice := newFakeSession("sess-1", "alice")
	p.Register("alice", alice)

	r.CallAccepted("alice", CallAcceptedPayload{
		CallID:             "call-1",
		Signal:             webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: "v=0"},
		ReceiverName:       "Bob",
		ReceiverProfilePic: "/uploads/images/bob.png",
	})

	events := alice.eventsOfType(EventCallAccepted)
	require.Len(t, events, 1)

	payload := events[0].Payload.(CallAcceptedPayload)
	assert.Equal(t, "Bob", payload.ReceiverName, "caller renders the answerer without a separate lookup")
	assert.Equal(t, webrtc.SDPTypeAnswer, payload.Signal.Type)
}
