package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndResolve(t *testing.T) {
	p := NewPresence()

	s := newFakeSession("sess-1", "alice")
	evicted := p.Register("alice", s)
	assert.Nil(t, evicted)

	resolved, ok := p.Resolve("alice")
	require.True(t, ok)
	assert.Equal(t, "sess-1", resolved.SessionID())
}

func TestResolveOffline(t *testing.T) {
	p := NewPresence()

	_, ok := p.Resolve("nobody")
	assert.False(t, ok, "offline user must resolve to absent, not error")
}

func TestRegisterLastConnectWins(t *testing.T) {
	p := NewPresence()

	first := newFakeSession("sess-1", "alice")
	second := newFakeSession("sess-2", "alice")

	p.Register("alice", first)
	evicted := p.Register("alice", second)

	require.NotNil(t, evicted)
	assert.Equal(t, "sess-1", evicted.SessionID())

	resolved, ok := p.Resolve("alice")
	require.True(t, ok)
	assert.Equal(t, "sess-2", resolved.SessionID())
}

func TestUnregisterStaleSessionIsNoop(t *testing.T) {
	p := NewPresence()

	first := newFakeSession("sess-1", "alice")
	second := newFakeSession("sess-2", "alice")

	p.Register("alice", first)
	p.Register("alice", second)

	// The superseded session disconnects late; its removal must not
	// clobber the fresher registration.
	assert.False(t, p.Unregister("alice", "sess-1"))

	resolved, ok := p.Resolve("alice")
	require.True(t, ok)
	assert.Equal(t, "sess-2", resolved.SessionID())

	// The current session's removal succeeds.
	assert.True(t, p.Unregister("alice", "sess-2"))
	_, ok = p.Resolve("alice")
	assert.False(t, ok)
}

func TestOnlineIDs(t *testing.T) {
	p := NewPresence()

	p.Register("alice", newFakeSession("sess-1", "alice"))
	p.Register("bob", newFakeSession("sess-2", "bob"))

	ids := p.OnlineIDs()
	assert.ElementsMatch(t, []string{"alice", "bob"}, ids)

	p.Unregister("alice", "sess-1")
	assert.ElementsMatch(t, []string{"bob"}, p.OnlineIDs())
}

func TestEachVisitsAllSessions(t *testing.T) {
	p := NewPresence()

	p.Register("alice", newFakeSession("sess-1", "alice"))
	p.Register("bob", newFakeSession("sess-2", "bob"))

	var visited []string
	p.Each(func(s Session) {
		visited = append(visited, s.SessionID())
	})
	assert.ElementsMatch(t, []string{"sess-1", "sess-2"}, visited)
}
