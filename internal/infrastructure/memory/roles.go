package memory

import (
	"context"
	"sort"
	"time"

	"github.com/oksasatya/projecthub/internal/domain/entity"
	"github.com/oksasatya/projecthub/internal/domain/repository"
)

type roleKey struct {
	userID    string
	projectID string
}

type roleRow = entity.ProjectRole

type rolesRepo struct{ s *Store }

func (r *rolesRepo) Create(ctx context.Context, pr *entity.ProjectRole) error {
	return r.s.do(ctx, func(d *dataset) error {
		if _, ok := d.users[pr.UserID]; !ok {
			return repository.ErrNotFound
		}
		if _, ok := d.projects[pr.ProjectID]; !ok {
			return repository.ErrNotFound
		}
		k := roleKey{userID: pr.UserID, projectID: pr.ProjectID}
		if _, ok := d.roles[k]; ok {
			return repository.ErrConflict
		}
		pr.CreatedAt = time.Now().UTC()
		d.roles[k] = *pr
		return nil
	})
}

func (r *rolesRepo) GetRole(ctx context.Context, userID, projectID string) (entity.RoleType, error) {
	var out entity.RoleType
	err := r.s.view(ctx, func(d *dataset) error {
		row, ok := d.roles[roleKey{userID: userID, projectID: projectID}]
		if !ok {
			return repository.ErrNotFound
		}
		out = row.Role
		return nil
	})
	return out, err
}

func (r *rolesRepo) ListMembers(ctx context.Context, projectID string) ([]entity.Member, error) {
	var out []entity.Member
	err := r.s.view(ctx, func(d *dataset) error {
		for k, row := range d.roles {
			if k.projectID != projectID {
				continue
			}
			out = append(out, entity.Member{User: d.users[k.userID].user, Role: row.Role})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].User.Email < out[j].User.Email })
	return out, err
}

func (r *rolesRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	n := 0
	err := r.s.view(ctx, func(d *dataset) error {
		for k := range d.roles {
			if k.userID == userID {
				n++
			}
		}
		return nil
	})
	return n, err
}
