package postgres

import (
	"context"

	"github.com/oksasatya/projecthub/internal/domain/entity"
	"github.com/oksasatya/projecthub/internal/domain/repository"
)

const inviteColumns = `id, project_id, email, role, created_at`

type InviteRepository struct {
	q       querier
	locking bool
}

func (r *InviteRepository) Create(ctx context.Context, inv *entity.Invite) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO invites (id, project_id, email, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, inv.ID, inv.ProjectID, inv.Email, string(inv.Role))

	return mapErr(row.Scan(&inv.CreatedAt))
}

func (r *InviteRepository) ListByEmail(ctx context.Context, email string) ([]entity.Invite, error) {
	sql := `SELECT ` + inviteColumns + ` FROM invites WHERE email = $1 ORDER BY created_at`
	if r.locking {
		sql += ` FOR UPDATE`
	}
	return r.list(ctx, sql, email)
}

func (r *InviteRepository) ListByProject(ctx context.Context, projectID string) ([]entity.Invite, error) {
	return r.list(ctx, `SELECT `+inviteColumns+` FROM invites WHERE project_id = $1 ORDER BY created_at`, projectID)
}

func (r *InviteRepository) list(ctx context.Context, sql string, arg string) ([]entity.Invite, error) {
	rows, err := r.q.Query(ctx, sql, arg)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []entity.Invite
	for rows.Next() {
		var (
			inv  entity.Invite
			role string
		)
		if err := rows.Scan(&inv.ID, &inv.ProjectID, &inv.Email, &role, &inv.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		inv.Role = entity.RoleType(role)
		out = append(out, inv)
	}
	return out, mapErr(rows.Err())
}

func (r *InviteRepository) DeleteByEmail(ctx context.Context, email string) (int64, error) {
	res, err := r.q.Exec(ctx, `DELETE FROM invites WHERE email = $1`, email)
	if err != nil {
		return 0, mapErr(err)
	}
	return res.RowsAffected(), nil
}

var _ repository.InviteRepository = (*InviteRepository)(nil)
