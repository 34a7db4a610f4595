package models

import (
	"time"
)

type UserCreateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the credential-store document. The password field holds the bcrypt
// hash; plaintext passwords never reach the store layer.
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at,omitzero"`
}
