package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/projecthub/internal/domain/entity"
	"github.com/oksasatya/projecthub/internal/domain/repository"
)

const projectColumns = `p.id, p.name, p.slug, p.billing_plan, p.billing_email, p.created_at, p.updated_at`

type ProjectRepository struct {
	q querier
}

func scanProject(row pgx.Row, extra ...any) (*entity.Project, error) {
	p := &entity.Project{}
	dest := append([]any{&p.ID, &p.Name, &p.Slug, &p.Billing.Plan, &p.Billing.Email, &p.CreatedAt, &p.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *entity.Project) error {
	row := r.q.QueryRow(ctx, `
		INSERT INTO projects (id, name, slug, billing_plan, billing_email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Slug, p.Billing.Plan, p.Billing.Email)

	return mapErr(row.Scan(&p.CreatedAt, &p.UpdatedAt))
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	return scanProject(r.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.id = $1`, id))
}

func (r *ProjectRepository) ListByUser(ctx context.Context, userID string) ([]entity.Membership, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+projectColumns+`, pr.role
		FROM project_roles pr
		JOIN projects p ON p.id = pr.project_id
		WHERE pr.user_id = $1
		ORDER BY p.created_at
	`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []entity.Membership
	for rows.Next() {
		var role string
		p, err := scanProject(rows, &role)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.Membership{Project: *p, Role: entity.RoleType(role)})
	}
	return out, mapErr(rows.Err())
}

func (r *ProjectRepository) Update(ctx context.Context, p *entity.Project) error {
	row := r.q.QueryRow(ctx, `
		UPDATE projects p
		SET name = $1, slug = $2, billing_plan = $3, billing_email = $4, updated_at = now()
		WHERE p.id = $5
		RETURNING `+projectColumns, p.Name, p.Slug, p.Billing.Plan, p.Billing.Email, p.ID)

	updated, err := scanProject(row)
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.ProjectRepository = (*ProjectRepository)(nil)
