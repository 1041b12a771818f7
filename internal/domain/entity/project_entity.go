package entity

import "time"

type Billing struct {
	Plan  string `json:"plan"`
	Email string `json:"email"`
}

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Billing   Billing   `json:"billing"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Invite is a pending membership for an email that has no account yet.
type Invite struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Email     string    `json:"email"`
	Role      RoleType  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
