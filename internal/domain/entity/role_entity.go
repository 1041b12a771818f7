package entity

import "time"

// RoleType is the permission level a user holds within one project.
type RoleType string

const (
	RoleOwner  RoleType = "owner"
	RoleAdmin  RoleType = "admin"
	RoleMember RoleType = "member"
)

// IsValid reports whether r is one of the known roles.
func (r RoleType) IsValid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

// ProjectRole is a membership: exactly one per (UserID, ProjectID).
type ProjectRole struct {
	UserID    string    `json:"user_id"`
	ProjectID string    `json:"project_id"`
	Role      RoleType  `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Member is a project member as seen from the project.
type Member struct {
	User User     `json:"user"`
	Role RoleType `json:"role"`
}

// Membership is a project as seen from one of its members.
type Membership struct {
	Project Project  `json:"project"`
	Role    RoleType `json:"role"`
}
