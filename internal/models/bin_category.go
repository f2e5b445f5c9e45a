package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bin category values a resident can declare.
const (
	SmallSack = "smallSack"
	BigSack   = "bigSack"
)

// MaxBinQuantity caps how many sacks a resident may declare per booking.
const MaxBinQuantity = 5

// BinCategory is a resident's declared waste unit for one collection.
type BinCategory struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Category  string             `bson:"category" json:"category"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
