package websocket

import "sync"

// Session is one live transport connection for a user. *Client implements it;
// tests substitute fakes.
type Session interface {
	// SessionID identifies this exact connection, not the user
	SessionID() string
	// UserID is the persistent identity behind the connection
	UserID() string
	// Deliver attempts a single non-blocking delivery of one event
	Deliver(msg WSMessage) bool
	// Close releases the session's outbound channel
	Close()
}

// Presence maps user identities to their active session. It is an explicit
// registry owned by the hub and passed by injection, never a package-level
// singleton. At most one session per user: a new registration evicts the old
// one (last-connect-wins), and unregistration is guarded by session identity
// so a stale disconnect cannot clobber a fresher registration.
type Presence struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewPresence creates an empty registry
func NewPresence() *Presence {
	return &Presence{sessions: make(map[string]Session)}
}

// Register unconditionally maps userID to s and returns the superseded
// session, if any, so the caller can close it.
func (p *Presence) Register(userID string, s Session) Session {
	p.mu.Lock()
	defer p.mu.Unlock()

	evicted := p.sessions[userID]
	p.sessions[userID] = s
	return evicted
}

// Unregister removes the entry for userID only if the stored session still
// has the given sessionID. Reports whether an entry was removed.
func (p *Presence) Unregister(userID, sessionID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	current, ok := p.sessions[userID]
	if !ok || current.SessionID() != sessionID {
		return false
	}
	delete(p.sessions, userID)
	return true
}

// Resolve returns the current session for userID. A false result means the
// user is offline, which is a normal outcome, not an error.
func (p *Presence) Resolve(userID string) (Session, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s, ok := p.sessions[userID]
	return s, ok
}

// OnlineIDs returns the current key set
func (p *Presence) OnlineIDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := make([]string, 0, len(p.sessions))
	for id := range p.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Each calls fn for every registered session
func (p *Presence) Each(fn func(Session)) {
	p.mu.RLock()
	sessions := make([]Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		sessions = append(sessions, s)
	}
	p.mu.RUnlock()

	for _, s := range sessions {
		fn(s)
	}
}
