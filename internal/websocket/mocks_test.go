package websocket

import "sync"

// fakeSession records deliveries in place of a real socket connection
type fakeSession struct {
	id   string
	user string

	mu     sync.Mutex
	events []WSMessage
	closed bool
}

func newFakeSession(id, user string) *fakeSession {
	return &fakeSession{id: id, user: user}
}

func (f *fakeSession) SessionID() string { return f.id }
func (f *fakeSession) UserID() string    { return f.user }

func (f *fakeSession) Deliver(msg WSMessage) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, msg)
	return true
}

func (f *fakeSession) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeSession) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeSession) eventsOfType(t EventType) []WSMessage {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []WSMessage
	for _, ev := range f.events {
		if ev.Type == t {
			matched = append(matched, ev)
		}
	}
	return matched
}

func (f *fakeSession) countOfType(t EventType) int {
	return len(f.eventsOfType(t))
}
