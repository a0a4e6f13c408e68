package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaFile is one stored file reference: an opaque URL plus a type tag
type MediaFile struct {
	URL  string `bson:"url" json:"url"`
	Type string `bson:"type" json:"type"` // 'image' or 'video'
}

// Media represents an uploaded content post
type Media struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID      primitive.ObjectID `bson:"user" json:"user"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Files       []MediaFile        `bson:"files" json:"files"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
