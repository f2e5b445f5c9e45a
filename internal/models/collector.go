package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collector status values.
const (
	CollectorAvailable = "available"
	CollectorBooked    = "booked"
)

// VehicleTypes lists the accepted collector vehicle types.
var VehicleTypes = []string{"sidecar", "tricycle", "motorcycle"}

// Collector is the service profile of a user with the collector role.
type Collector struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID              primitive.ObjectID `bson:"userId" json:"userId"`
	VehicleType         string             `bson:"vehicleType" json:"vehicleType"`
	QuantityGarbageSack int                `bson:"quantityGarbageSack" json:"quantityGarbageSack"`
	Status              string             `bson:"status" json:"status"`
	Verified            bool               `bson:"verified" json:"verified"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
}

// IsValidVehicleType reports whether the given value is an accepted vehicle type.
func IsValidVehicleType(value string) bool {
	for _, v := range VehicleTypes {
		if v == value {
			return true
		}
	}
	return false
}
