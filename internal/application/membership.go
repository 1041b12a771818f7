package application

import (
	"context"
	"fmt"

	"github.com/oksasatya/projecthub/internal/domain/entity"
	"github.com/oksasatya/projecthub/internal/domain/repository"
)

// reconcileInvites converts every pending invite for u.Email into a
// ProjectRole and deletes the invites. tx must be the transaction that
// created u. It returns the number of memberships created.
func reconcileInvites(ctx context.Context, tx repository.Store, u *entity.User) (int, error) {
	invites, err := tx.Invites().ListByEmail(ctx, u.Email)
	if err != nil {
		return 0, fmt.Errorf("list invites: %w", err)
	}
	if len(invites) == 0 {
		return 0, nil
	}

	created := 0
	seen := make(map[string]struct{}, len(invites))
	for _, inv := range invites {
		if _, dup := seen[inv.ProjectID]; dup {
			continue
		}
		seen[inv.ProjectID] = struct{}{}

		role := inv.Role
		if !role.IsValid() || role == entity.RoleOwner {
			role = entity.RoleMember
		}
		pr := &entity.ProjectRole{UserID: u.ID, ProjectID: inv.ProjectID, Role: role}
		if err := tx.Roles().Create(ctx, pr); err != nil {
			return 0, fmt.Errorf("create membership for project %s: %w", inv.ProjectID, err)
		}
		created++
	}

	deleted, err := tx.Invites().DeleteByEmail(ctx, u.Email)
	if err != nil {
		return 0, fmt.Errorf("delete invites: %w", err)
	}
	if deleted != int64(len(invites)) {
		return 0, fmt.Errorf("invite set changed during reconciliation: listed %d, deleted %d", len(invites), deleted)
	}
	return created, nil
}
