package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account. Admin access is a role predicate, not a
// hard-coded account.
type User struct {
	ID        bson.ObjectID `json:"id" bson:"_id,omitempty"`
	FirstName string        `json:"first_name" bson:"first_name" validate:"required"`
	LastName  string        `json:"last_name" bson:"last_name" validate:"required"`
	Email     string        `json:"email" bson:"email" validate:"required,email"`
	Password  string        `json:"-" bson:"password"`
	Phone     string        `json:"phone,omitempty" bson:"phone,omitempty"`
	Role      string        `json:"role" bson:"role"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) SetTimestamps() {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
}

type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}
