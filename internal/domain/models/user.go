// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sign-in methods.
const (
	AuthPassword = "password"
	AuthGoogle   = "google"
)

// Account status values.
const (
	UserActive   = "active"
	UserDisabled = "disabled"
)

// User is an account allowed past the login gate. LoginID is the email,
// stored lowercase; LoginIDCI is its folded form used for matching.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	LoginID      string             `bson:"login_id" json:"login_id"`
	LoginIDCI    string             `bson:"login_id_ci" json:"-"`
	AuthMethod   string             `bson:"auth_method" json:"auth_method"`
	PasswordHash *string            `bson:"password_hash,omitempty" json:"-"`
	Status       string             `bson:"status" json:"status"`
	LastLoginAt  *time.Time         `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsActive reports whether the account may sign in.
func (u User) IsActive() bool { return u.Status != UserDisabled }
