package friends

import (
	"context"
	"sync"
	"time"

	"sambung/server/internal/models"
	"sambung/server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memUserStore is an in-memory store.UserStore mirroring the Mongo update
// semantics: every mutation touches exactly one user document.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]*models.User)}
}

func (m *memUserStore) addUser(name string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	user := &models.User{
		ID:             primitive.NewObjectID(),
		FullName:       name,
		Email:          name + "@example.com",
		ProfilePic:     "/uploads/images/" + name + ".png",
		Friends:        []primitive.ObjectID{},
		FriendRequests: []models.FriendRequestEntry{},
		SentRequests:   []models.SentRequestEntry{},
	}
	m.users[user.ID.Hex()] = user
	return user
}

func (m *memUserStore) get(id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (m *memUserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = primitive.NewObjectID()
	m.users[user.ID.Hex()] = user
	return user, nil
}

func (m *memUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.get(id)
	if err != nil {
		return nil, err
	}
	// Hand back a copy so callers see a snapshot, like a database read.
	copied := *u
	copied.Friends = append([]primitive.ObjectID{}, u.Friends...)
	copied.FriendRequests = append([]models.FriendRequestEntry{}, u.FriendRequests...)
	copied.SentRequests = append([]models.SentRequestEntry{}, u.SentRequests...)
	return &copied, nil
}

func (m *memUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUserStore) ListExcluding(ctx context.Context, ids []string) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	excluded := make(map[string]bool, len(ids))
	for _, id := range ids {
		excluded[id] = true
	}

	var out []models.User
	for id, u := range m.users {
		if !excluded[id] {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memUserStore) SetProfilePic(ctx context.Context, id, url string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.get(id)
	if err != nil {
		return nil, err
	}
	u.ProfilePic = url
	return u, nil
}

func (m *memUserStore) PushFriendRequest(ctx context.Context, receiverID, senderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	receiver, err := m.get(receiverID)
	if err != nil {
		return err
	}
	sender, err := primitive.ObjectIDFromHex(senderID)
	if err != nil {
		return store.ErrNotFound
	}
	receiver.FriendRequests = append(receiver.FriendRequests, models.FriendRequestEntry{
		SenderID:  sender,
		Status:    models.RequestPending,
		CreatedAt: time.Now(),
	})
	return nil
}

func (m *memUserStore) PushSentRequest(ctx context.Context, senderID, receiverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sender, err := m.get(senderID)
	if err != nil {
		return err
	}
	receiver, err := primitive.ObjectIDFromHex(receiverID)
	if err != nil {
		return store.ErrNotFound
	}
	sender.SentRequests = append(sender.SentRequests, models.SentRequestEntry{
		ReceiverID: receiver,
		Status:     models.RequestPending,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (m *memUserStore) PullFriendRequest(ctx context.Context, receiverID, senderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	receiver, err := m.get(receiverID)
	if err != nil {
		return err
	}
	kept := receiver.FriendRequests[:0]
	for _, r := range receiver.FriendRequests {
		if r.SenderID.Hex() != senderID {
			kept = append(kept, r)
		}
	}
	receiver.FriendRequests = kept
	return nil
}

func (m *memUserStore) PullSentRequest(ctx context.Context, senderID, receiverID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sender, err := m.get(senderID)
	if err != nil {
		return err
	}
	kept := sender.SentRequests[:0]
	for _, r := range sender.SentRequests {
		if r.ReceiverID.Hex() != receiverID {
			kept = append(kept, r)
		}
	}
	sender.SentRequests = kept
	return nil
}

func addToSet(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range set {
		if existing == id {
			return set
		}
	}
	return append(set, id)
}

func (m *memUserStore) AcceptIncomingRequest(ctx context.Context, recipientID, senderID string) error {
	if err := m.PullFriendRequest(ctx, recipientID, senderID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	recipient, err := m.get(recipientID)
	if err != nil {
		return err
	}
	sender, err := primitive.ObjectIDFromHex(senderID)
	if err != nil {
		return store.ErrNotFound
	}
	recipient.Friends = addToSet(recipient.Friends, sender)
	return nil
}

func (m *memUserStore) AcceptOutgoingRequest(ctx context.Context, senderID, recipientID string) error {
	if err := m.PullSentRequest(ctx, senderID, recipientID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sender, err := m.get(senderID)
	if err != nil {
		return err
	}
	recipient, err := primitive.ObjectIDFromHex(recipientID)
	if err != nil {
		return store.ErrNotFound
	}
	sender.Friends = addToSet(sender.Friends, recipient)
	return nil
}

func (m *memUserStore) PullFriend(ctx context.Context, userID, friendID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, err := m.get(userID)
	if err != nil {
		return err
	}
	kept := user.Friends[:0]
	for _, f := range user.Friends {
		if f.Hex() != friendID {
			kept = append(kept, f)
		}
	}
	user.Friends = kept
	return nil
}

// memMessageStore is an in-memory store.MessageStore
type memMessageStore struct {
	mu       sync.Mutex
	messages []models.Message
}

func (m *memMessageStore) Insert(ctx context.Context, msg *models.Message) (*models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now()
	m.messages = append(m.messages, *msg)
	return msg, nil
}

func (m *memMessageStore) Between(ctx context.Context, userA, userB string) ([]models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Message
	for _, msg := range m.messages {
		s, r := msg.SenderID.Hex(), msg.ReceiverID.Hex()
		if (s == userA && r == userB) || (s == userB && r == userA) {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memMessageStore) DeleteBetween(ctx context.Context, userA, userB string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.messages[:0]
	for _, msg := range m.messages {
		s, r := msg.SenderID.Hex(), msg.ReceiverID.Hex()
		if (s == userA && r == userB) || (s == userB && r == userA) {
			continue
		}
		kept = append(kept, msg)
	}
	m.messages = kept
	return nil
}

// notification records one Notifier call
type notification struct {
	event string
	to    string
	user  models.UserResponse
}

// recorderNotifier captures notifications instead of delivering them
type recorderNotifier struct {
	mu    sync.Mutex
	calls []notification
}

func (r *recorderNotifier) FriendRequest(to string, sender models.UserResponse) {
	r.record("friendRequest", to, sender)
}

func (r *recorderNotifier) FriendRequestAccepted(to string, recipient models.UserResponse) {
	r.record("friendRequestAccepted", to, recipient)
}

func (r *recorderNotifier) FriendRequestDeclined(to string, recipient models.UserResponse) {
	r.record("friendRequestDeclined", to, recipient)
}

func (r *recorderNotifier) record(event, to string, user models.UserResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, notification{event: event, to: to, user: user})
}

func (r *recorderNotifier) ofEvent(event string) []notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification
	for _, n := range r.calls {
		if n.event == event {
			out = append(out, n)
		}
	}
	return out
}
