package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking status values. Completed, cancelled and Free are terminal; the
// casing matches what existing documents carry.
const (
	BookingBooked    = "booked"
	BookingCompleted = "Completed"
	BookingCancelled = "cancelled"
	BookingFree      = "Free"
)

// Booking links a resident's bin category to an assigned collector for a
// scheduled slot.
type Booking struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	BinCategoryID primitive.ObjectID `bson:"binCategoryId" json:"binCategoryId"`
	CollectorID   primitive.ObjectID `bson:"collectorId" json:"collectorId"`
	CollectorName string             `bson:"collectorName" json:"collectorName"`
	Location      string             `bson:"location" json:"location"`
	ScheduleDate  string             `bson:"scheduleDate" json:"scheduleDate"`
	ScheduleTime  string             `bson:"scheduleTime" json:"scheduleTime"`
	TotalPayment  float64            `bson:"totalPayment" json:"totalPayment"`
	Income        *float64           `bson:"income,omitempty" json:"income,omitempty"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// IsTerminal reports whether the booking status permits no further transition.
func IsTerminal(status string) bool {
	return status == BookingCompleted || status == BookingCancelled || status == BookingFree
}
