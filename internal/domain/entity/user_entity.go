package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// The password hash is deliberately absent; it only travels as Credentials.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatar_url"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Credentials is the sign-in projection of a user row.
type Credentials struct {
	UserID       string
	PasswordHash string
}
