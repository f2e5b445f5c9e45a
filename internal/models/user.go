package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role names stored on a user document.
const (
	RoleResident  = "resident"
	RoleCollector = "collector"
	RoleAdmin     = "admin"
)

// User represents a registered resident or collector account.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username          string             `bson:"username" json:"username"`
	Email             string             `bson:"email" json:"email"`
	PasswordHash      string             `bson:"passwordHash" json:"-"`
	Contact           string             `bson:"contact" json:"contact"`
	Location          string             `bson:"location" json:"location"`
	Roles             StringList         `bson:"roles" json:"roles"`
	ProfilePicture    string             `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	IDPicture         string             `bson:"idPicture,omitempty" json:"idPicture,omitempty"`
	License           string             `bson:"license,omitempty" json:"license,omitempty"`
	Biodata           string             `bson:"biodata,omitempty" json:"biodata,omitempty"`
	BirthCertificate  string             `bson:"birthCertificate,omitempty" json:"birthCertificate,omitempty"`
	CompletedServices int                `bson:"completedServices" json:"completedServices"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasRole reports whether the user carries the given role name.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
