package memory

import (
	"context"
	"sort"
	"time"

	"github.com/oksasatya/projecthub/internal/domain/entity"
	"github.com/oksasatya/projecthub/internal/domain/repository"
)

type projectRow = entity.Project

type projectsRepo struct{ s *Store }

func (r *projectsRepo) Create(ctx context.Context, p *entity.Project) error {
	return r.s.do(ctx, func(d *dataset) error {
		if _, ok := d.slugToID[p.Slug]; ok {
			return repository.ErrConflict
		}
		if _, ok := d.projects[p.ID]; ok {
			return repository.ErrConflict
		}
		now := time.Now().UTC()
		p.CreatedAt, p.UpdatedAt = now, now
		d.projects[p.ID] = *p
		d.slugToID[p.Slug] = p.ID
		return nil
	})
}

func (r *projectsRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	var out *entity.Project
	err := r.s.view(ctx, func(d *dataset) error {
		p, ok := d.projects[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *projectsRepo) ListByUser(ctx context.Context, userID string) ([]entity.Membership, error) {
	var out []entity.Membership
	err := r.s.view(ctx, func(d *dataset) error {
		for k, role := range d.roles {
			if k.userID != userID {
				continue
			}
			out = append(out, entity.Membership{Project: d.projects[k.projectID], Role: role.Role})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Project.CreatedAt.Before(out[j].Project.CreatedAt) })
	return out, err
}

func (r *projectsRepo) Update(ctx context.Context, p *entity.Project) error {
	return r.s.do(ctx, func(d *dataset) error {
		cur, ok := d.projects[p.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if p.Slug != cur.Slug {
			if _, taken := d.slugToID[p.Slug]; taken {
				return repository.ErrConflict
			}
			delete(d.slugToID, cur.Slug)
			d.slugToID[p.Slug] = p.ID
		}
		cur.Name, cur.Slug, cur.Billing = p.Name, p.Slug, p.Billing
		cur.UpdatedAt = time.Now().UTC()
		d.projects[p.ID] = cur
		*p = cur
		return nil
	})
}

func (r *projectsRepo) Delete(ctx context.Context, id string) error {
	return r.s.do(ctx, func(d *dataset) error {
		p, ok := d.projects[id]
		if !ok {
			return repository.ErrNotFound
		}
		delete(d.projects, id)
		delete(d.slugToID, p.Slug)
		for k := range d.roles {
			if k.projectID == id {
				delete(d.roles, k)
			}
		}
		for k, inv := range d.invites {
			if inv.ProjectID == id {
				delete(d.invites, k)
			}
		}
		return nil
	})
}
