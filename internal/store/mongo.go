package store

import (
	"context"
	"fmt"
	"time"

	"sambung/server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserStore implements UserStore on a users collection
type MongoUserStore struct {
	coll *mongo.Collection
}

// NewMongoUserStore returns a UserStore backed by db.users
func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{coll: db.Collection("users")}
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid user id %q: %w", id, ErrNotFound)
	}
	return oid, nil
}

func (s *MongoUserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Friends == nil {
		user.Friends = []primitive.ObjectID{}
	}
	if user.FriendRequests == nil {
		user.FriendRequests = []models.FriendRequestEntry{}
	}
	if user.SentRequests == nil {
		user.SentRequests = []models.SentRequestEntry{}
	}

	res, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (s *MongoUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *MongoUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

func (s *MongoUserStore) ListExcluding(ctx context.Context, ids []string) ([]models.User, error) {
	exclude := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			exclude = append(exclude, oid)
		}
	}

	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$nin": exclude}})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *MongoUserStore) SetProfilePic(ctx context.Context, id, url string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"profilePic": url, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile pic: %w", err)
	}
	return &user, nil
}

func (s *MongoUserStore) PushFriendRequest(ctx context.Context, receiverID, senderID string) error {
	receiver, err := parseID(receiverID)
	if err != nil {
		return err
	}
	sender, err := parseID(senderID)
	if err != nil {
		return err
	}

	entry := models.FriendRequestEntry{
		SenderID:  sender,
		Status:    models.RequestPending,
		CreatedAt: time.Now(),
	}
	return s.updateOne(ctx, receiver, bson.M{"$push": bson.M{"friendRequests": entry}})
}

func (s *MongoUserStore) PushSentRequest(ctx context.Context, senderID, receiverID string) error {
	sender, err := parseID(senderID)
	if err != nil {
		return err
	}
	receiver, err := parseID(receiverID)
	if err != nil {
		return err
	}

	entry := models.SentRequestEntry{
		ReceiverID: receiver,
		Status:     models.RequestPending,
		CreatedAt:  time.Now(),
	}
	return s.updateOne(ctx, sender, bson.M{"$push": bson.M{"sentRequests": entry}})
}

func (s *MongoUserStore) PullFriendRequest(ctx context.Context, receiverID, senderID string) error {
	receiver, err := parseID(receiverID)
	if err != nil {
		return err
	}
	sender, err := parseID(senderID)
	if err != nil {
		return err
	}
	return s.updateOne(ctx, receiver, bson.M{
		"$pull": bson.M{"friendRequests": bson.M{"senderId": sender}},
	})
}

func (s *MongoUserStore) PullSentRequest(ctx context.Context, senderID, receiverID string) error {
	sender, err := parseID(senderID)
	if err != nil {
		return err
	}
	receiver, err := parseID(receiverID)
	if err != nil {
		return err
	}
	return s.updateOne(ctx, sender, bson.M{
		"$pull": bson.M{"sentRequests": bson.M{"receiverId": receiver}},
	})
}

func (s *MongoUserStore) AcceptIncomingRequest(ctx context.Context, recipientID, senderID string) error {
	recipient, err := parseID(recipientID)
	if err != nil {
		return err
	}
	sender, err := parseID(senderID)
	if err != nil {
		return err
	}
	return s.updateOne(ctx, recipient, bson.M{
		"$pull":     bson.M{"friendRequests": bson.M{"senderId": sender}},
		"$addToSet": bson.M{"friends": sender},
	})
}

func (s *MongoUserStore) AcceptOutgoingRequest(ctx context.Context, senderID, recipientID string) error {
	sender, err := parseID(senderID)
	if err != nil {
		return err
	}
	recipient, err := parseID(recipientID)
	if err != nil {
		return err
	}
	return s.updateOne(ctx, sender, bson.M{
		"$pull":     bson.M{"sentRequests": bson.M{"receiverId": recipient}},
		"$addToSet": bson.M{"friends": recipient},
	})
}

func (s *MongoUserStore) PullFriend(ctx context.Context, userID, friendID string) error {
	user, err := parseID(userID)
	if err != nil {
		return err
	}
	friend, err := parseID(friendID)
	if err != nil {
		return err
	}
	return s.updateOne(ctx, user, bson.M{"$pull": bson.M{"friends": friend}})
}

func (s *MongoUserStore) updateOne(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoMessageStore implements MessageStore on a messages collection
type MongoMessageStore struct {
	coll *mongo.Collection
}

// NewMongoMessageStore returns a MessageStore backed by db.messages
func NewMongoMessageStore(db *mongo.Database) *MongoMessageStore {
	return &MongoMessageStore{coll: db.Collection("messages")}
}

func (s *MongoMessageStore) Insert(ctx context.Context, msg *models.Message) (*models.Message, error) {
	msg.CreatedAt = time.Now()
	res, err := s.coll.InsertOne(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	msg.ID = res.InsertedID.(primitive.ObjectID)
	return msg, nil
}

func betweenFilter(a, b primitive.ObjectID) bson.M {
	return bson.M{
		"$or": []bson.M{
			{"senderId": a, "receiverId": b},
			{"senderId": b, "receiverId": a},
		},
	}
}

func (s *MongoMessageStore) Between(ctx context.Context, userA, userB string) ([]models.Message, error) {
	a, err := parseID(userA)
	if err != nil {
		return nil, err
	}
	b, err := parseID(userB)
	if err != nil {
		return nil, err
	}

	cursor, err := s.coll.Find(ctx, betweenFilter(a, b),
		options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	return messages, nil
}

func (s *MongoMessageStore) DeleteBetween(ctx context.Context, userA, userB string) error {
	a, err := parseID(userA)
	if err != nil {
		return err
	}
	b, err := parseID(userB)
	if err != nil {
		return err
	}

	if _, err := s.coll.DeleteMany(ctx, betweenFilter(a, b)); err != nil {
		return fmt.Errorf("delete messages: %w", err)
	}
	return nil
}

// MongoMediaStore implements MediaStore on a media collection
type MongoMediaStore struct {
	coll *mongo.Collection
}

// NewMongoMediaStore returns a MediaStore backed by db.media
func NewMongoMediaStore(db *mongo.Database) *MongoMediaStore {
	return &MongoMediaStore{coll: db.Collection("media")}
}

func (s *MongoMediaStore) Insert(ctx context.Context, media *models.Media) (*models.Media, error) {
	media.CreatedAt = time.Now()
	res, err := s.coll.InsertOne(ctx, media)
	if err != nil {
		return nil, fmt.Errorf("insert media: %w", err)
	}
	media.ID = res.InsertedID.(primitive.ObjectID)
	return media, nil
}

func (s *MongoMediaStore) ListByUser(ctx context.Context, userID string) ([]models.Media, error) {
	user, err := parseID(userID)
	if err != nil {
		return nil, err
	}

	cursor, err := s.coll.Find(ctx, bson.M{"user": user},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, fmt.Errorf("find media: %w", err)
	}
	defer cursor.Close(ctx)

	var media []models.Media
	if err := cursor.All(ctx, &media); err != nil {
		return nil, fmt.Errorf("decode media: %w", err)
	}
	return media, nil
}
