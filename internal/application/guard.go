package application

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/oksasatya/projecthub/internal/domain/entity"
	"github.com/oksasatya/projecthub/internal/domain/repository"
)

// Operation names a project-scoped action that carries a role requirement.
type Operation string

const (
	OpProjectRead        Operation = "project.read"
	OpProjectUpdate      Operation = "project.update"
	OpProjectDelete      Operation = "project.delete"
	OpProjectInvite      Operation = "project.invite"
	OpProjectListInvites Operation = "project.list_invites"
)

// Policy maps each operation to the roles allowed to perform it. An
// operation mapped to an empty set is open to any authenticated caller,
// member of the project or not. An operation missing from the map is denied.
type Policy map[Operation][]entity.RoleType

// DefaultPolicy is the policy table for the project routes.
func DefaultPolicy() Policy {
	return Policy{
		OpProjectRead:        {entity.RoleOwner, entity.RoleAdmin, entity.RoleMember},
		OpProjectUpdate:      {entity.RoleOwner, entity.RoleAdmin},
		OpProjectInvite:      {entity.RoleOwner, entity.RoleAdmin},
		OpProjectListInvites: {entity.RoleOwner, entity.RoleAdmin},
		OpProjectDelete:      {entity.RoleOwner},
	}
}

// Allowed reports whether a caller holding role (hasRole false when the
// caller has none) satisfies required.
func Allowed(required []entity.RoleType, role entity.RoleType, hasRole bool) bool {
	if len(required) == 0 {
		return true
	}
	return hasRole && slices.Contains(required, role)
}

// RoleReader resolves a user's role within a project.
type RoleReader interface {
	GetRole(ctx context.Context, userID, projectID string) (entity.RoleType, error)
}

// Guard decides project-scoped operations. Roles are read from the store on
// every call.
type Guard struct {
	roles  RoleReader
	policy Policy
}

func NewGuard(roles RoleReader, policy Policy) *Guard {
	return &Guard{roles: roles, policy: policy}
}

// Authorize returns the caller's role when op is permitted and ErrForbidden
// when it is not. The returned role is empty for open operations performed by
// non-members.
func (g *Guard) Authorize(ctx context.Context, op Operation, userID, projectID string) (entity.RoleType, error) {
	required, ok := g.policy[op]
	if !ok {
		return "", fmt.Errorf("%w: no policy for %q", ErrForbidden, op)
	}
	if userID == "" {
		return "", ErrForbidden
	}

	role, err := g.roles.GetRole(ctx, userID, projectID)
	hasRole := err == nil
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("resolve role: %w", err)
	}
	if !Allowed(required, role, hasRole) {
		return "", ErrForbidden
	}
	return role, nil
}
