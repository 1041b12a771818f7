package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/projecthub/internal/domain/entity"
	"github.com/oksasatya/projecthub/internal/domain/repository"
)

const userColumns = `id, email, name, avatar_url, confirmed, created_at, updated_at`

type UserRepository struct {
	q querier
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.Confirmed, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User, passwordHash string) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, name, avatar_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING confirmed, created_at, updated_at
	`, u.ID, u.Email, passwordHash, u.Name, u.AvatarURL)

	return mapErr(row.Scan(&u.Confirmed, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// GetCredentials is the only query that reads password_hash.
func (r *UserRepository) GetCredentials(ctx context.Context, email string) (*entity.Credentials, error) {
	c := &entity.Credentials{}
	err := r.q.QueryRow(ctx, `SELECT id, password_hash FROM users WHERE email = $1`, email).
		Scan(&c.UserID, &c.PasswordHash)
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (r *UserRepository) List(ctx context.Context) ([]entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, mapErr(rows.Err())
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	row := r.q.QueryRow(ctx, `
		UPDATE users
		SET name = $1, avatar_url = $2, updated_at = now()
		WHERE id = $3
		RETURNING `+userColumns, u.Name, u.AvatarURL, u.ID)

	updated, err := scanUser(row)
	if err != nil {
		return err
	}
	*u = *updated
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.execOne(ctx, `UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`, passwordHash, id)
}

func (r *UserRepository) SetConfirmed(ctx context.Context, id string) error {
	return r.execOne(ctx, `UPDATE users SET confirmed = TRUE WHERE id = $1`, id)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, `DELETE FROM users WHERE id = $1`, id)
}

func (r *UserRepository) execOne(ctx context.Context, sql string, args ...any) error {
	res, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
