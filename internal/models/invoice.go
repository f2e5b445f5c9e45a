package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invoice status values, monotonic Pending -> Paid.
const (
	InvoicePending = "Pending"
	InvoicePaid    = "Paid"
)

// Invoice records the payment due for one booking.
type Invoice struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingID primitive.ObjectID `bson:"bookingId" json:"bookingId"`
	Number    string             `bson:"number" json:"number"`
	Amount    float64            `bson:"amount" json:"amount"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
