package memory

import (
	"context"
	"sort"
	"time"

	"github.com/oksasatya/projecthub/internal/domain/entity"
	"github.com/oksasatya/projecthub/internal/domain/repository"
)

type userRow struct {
	user entity.User
	hash string
}

type usersRepo struct{ s *Store }

func (r *usersRepo) Create(ctx context.Context, u *entity.User, passwordHash string) error {
	return r.s.do(ctx, func(d *dataset) error {
		if _, ok := d.emailToID[u.Email]; ok {
			return repository.ErrConflict
		}
		if _, ok := d.users[u.ID]; ok {
			return repository.ErrConflict
		}
		now := time.Now().UTC()
		u.CreatedAt, u.UpdatedAt = now, now
		d.users[u.ID] = userRow{user: *u, hash: passwordHash}
		d.emailToID[u.Email] = u.ID
		return nil
	})
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.s.view(ctx, func(d *dataset) error {
		row, ok := d.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		u := row.user
		out = &u
		return nil
	})
	return out, err
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.s.view(ctx, func(d *dataset) error {
		id, ok := d.emailToID[email]
		if !ok {
			return repository.ErrNotFound
		}
		u := d.users[id].user
		out = &u
		return nil
	})
	return out, err
}

func (r *usersRepo) GetCredentials(ctx context.Context, email string) (*entity.Credentials, error) {
	var out *entity.Credentials
	err := r.s.view(ctx, func(d *dataset) error {
		id, ok := d.emailToID[email]
		if !ok {
			return repository.ErrNotFound
		}
		out = &entity.Credentials{UserID: id, PasswordHash: d.users[id].hash}
		return nil
	})
	return out, err
}

func (r *usersRepo) List(ctx context.Context) ([]entity.User, error) {
	var out []entity.User
	err := r.s.view(ctx, func(d *dataset) error {
		out = make([]entity.User, 0, len(d.users))
		for _, row := range d.users {
			out = append(out, row.user)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

func (r *usersRepo) Update(ctx context.Context, u *entity.User) error {
	return r.s.do(ctx, func(d *dataset) error {
		row, ok := d.users[u.ID]
		if !ok {
			return repository.ErrNotFound
		}
		row.user.Name = u.Name
		row.user.AvatarURL = u.AvatarURL
		row.user.UpdatedAt = time.Now().UTC()
		d.users[u.ID] = row
		*u = row.user
		return nil
	})
}

func (r *usersRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.s.do(ctx, func(d *dataset) error {
		row, ok := d.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		row.hash = passwordHash
		row.user.UpdatedAt = time.Now().UTC()
		d.users[id] = row
		return nil
	})
}

func (r *usersRepo) SetConfirmed(ctx context.Context, id string) error {
	return r.s.do(ctx, func(d *dataset) error {
		row, ok := d.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		row.user.Confirmed = true
		d.users[id] = row
		return nil
	})
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	return r.s.do(ctx, func(d *dataset) error {
		row, ok := d.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		delete(d.users, id)
		delete(d.emailToID, row.user.Email)
		for k := range d.roles {
			if k.userID == id {
				delete(d.roles, k)
			}
		}
		return nil
	})
}
