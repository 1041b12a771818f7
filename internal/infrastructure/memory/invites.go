package memory

import (
	"context"
	"sort"
	"time"

	"github.com/oksasatya/projecthub/internal/domain/entity"
	"github.com/oksasatya/projecthub/internal/domain/repository"
)

type inviteRow = entity.Invite

type invitesRepo struct{ s *Store }

func (r *invitesRepo) Create(ctx context.Context, inv *entity.Invite) error {
	return r.s.do(ctx, func(d *dataset) error {
		if _, ok := d.projects[inv.ProjectID]; !ok {
			return repository.ErrNotFound
		}
		for _, cur := range d.invites {
			if cur.ProjectID == inv.ProjectID && cur.Email == inv.Email {
				return repository.ErrConflict
			}
		}
		inv.CreatedAt = time.Now().UTC()
		d.invites[inv.ID] = *inv
		return nil
	})
}

func (r *invitesRepo) ListByEmail(ctx context.Context, email string) ([]entity.Invite, error) {
	return r.list(ctx, func(inv entity.Invite) bool { return inv.Email == email })
}

func (r *invitesRepo) ListByProject(ctx context.Context, projectID string) ([]entity.Invite, error) {
	return r.list(ctx, func(inv entity.Invite) bool { return inv.ProjectID == projectID })
}

func (r *invitesRepo) list(ctx context.Context, match func(entity.Invite) bool) ([]entity.Invite, error) {
	var out []entity.Invite
	err := r.s.view(ctx, func(d *dataset) error {
		for _, inv := range d.invites {
			if match(inv) {
				out = append(out, inv)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func (r *invitesRepo) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	var n int64
	err := r.s.do(ctx, func(d *dataset) error {
		n = 0
		for k, inv := range d.invites {
			if inv.Email == email {
				delete(d.invites, k)
				n++
			}
		}
		return nil
	})
	return n, err
}
