package postgres

import (
	"context"

	"github.com/oksasatya/projecthub/internal/domain/entity"
	"github.com/oksasatya/projecthub/internal/domain/repository"
)

type ProjectRoleRepository struct {
	q querier
}

func (r *ProjectRoleRepository) Create(ctx context.Context, pr *entity.ProjectRole) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO project_roles (user_id, project_id, role)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, pr.UserID, pr.ProjectID, string(pr.Role))

	return mapErr(row.Scan(&pr.CreatedAt))
}

func (r *ProjectRoleRepository) GetRole(ctx context.Context, userID, projectID string) (entity.RoleType, error) {
	var role string
	err := r.q.QueryRow(ctx, `
		SELECT role FROM project_roles WHERE user_id = $1 AND project_id = $2
	`, userID, projectID).Scan(&role)
	if err != nil {
		return "", mapErr(err)
	}
	return entity.RoleType(role), nil
}

func (r *ProjectRoleRepository) ListMembers(ctx context.Context, projectID string) ([]entity.Member, error) {
	rows, err := r.q.Query(ctx, `
		SELECT u.id, u.email, u.name, u.avatar_url, u.confirmed, u.created_at, u.updated_at, pr.role
		FROM project_roles pr
		JOIN users u ON u.id = pr.user_id
		WHERE pr.project_id = $1
		ORDER BY u.email
	`, projectID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []entity.Member
	for rows.Next() {
		var (
			m    entity.Member
			role string
		)
		u := &m.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.Confirmed, &u.CreatedAt, &u.UpdatedAt, &role); err != nil {
			return nil, mapErr(err)
		}
		m.Role = entity.RoleType(role)
		out = append(out, m)
	}
	return out, mapErr(rows.Err())
}

func (r *ProjectRoleRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM project_roles WHERE user_id = $1`, userID).Scan(&n)
	return n, mapErr(err)
}

var _ repository.ProjectRoleRepository = (*ProjectRoleRepository)(nil)
