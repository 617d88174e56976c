package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Credential holds a login identity. The password is stored only as a
// bcrypt hash and never serialized.
type Credential struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
