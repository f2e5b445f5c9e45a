package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement is an admin notice targeted at one or more roles.
type Announcement struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Content     string             `bson:"content" json:"content"`
	TargetRoles StringList         `bson:"targetRoles" json:"targetRoles"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// Feedback is a free-form note submitted by a user.
type Feedback struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Feedback  string             `bson:"feedback" json:"feedback"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
