package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/projecthub/internal/domain/entity"
	"github.com/oksasatya/projecthub/internal/domain/repository"
	"github.com/oksasatya/projecthub/pkg/helpers"
)

type ProjectService struct {
	Store  repository.Store
	Logger *logrus.Logger
}

func NewProjectService(store repository.Store, logger *logrus.Logger) *ProjectService {
	if logger == nil {
		logger = helpers.Discard()
	}
	return &ProjectService{Store: store, Logger: logger}
}

type CreateProjectInput struct {
	Name    string
	Billing entity.Billing
}

// Create stores the project and makes the caller its Owner in one transaction.
func (s *ProjectService) Create(ctx context.Context, ownerID string, in CreateProjectInput) (*entity.Project, error) {
	name := strings.TrimSpace(in.Name)
	slug := Slugify(name)
	if slug == "" {
		return nil, ErrInvalidProjectName
	}
	p := &entity.Project{ID: uuid.NewString(), Name: name, Slug: slug, Billing: in.Billing}

	err := s.Store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Projects().Create(ctx, p); err != nil {
			return err
		}
		return tx.Roles().Create(ctx, &entity.ProjectRole{UserID: ownerID, ProjectID: p.ID, Role: entity.RoleOwner})
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, fmt.Errorf("%w: slug %q already in use", ErrConflict, slug)
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"project_id": p.ID, "owner_id": ownerID}).Info("project created")
	return p, nil
}

// ProjectDetails is a project with its members and pending invites.
type ProjectDetails struct {
	entity.Project
	Members []entity.Member `json:"members"`
	Invites []entity.Invite `json:"invites,omitempty"`
}

// Get loads the project and its members. Pending invites are included only
// when withInvites is set.
func (s *ProjectService) Get(ctx context.Context, projectID string, withInvites bool) (*ProjectDetails, error) {
	p, err := s.Store.Projects().GetByID(ctx, projectID)
	if err != nil {
		return nil, projectErr(err)
	}
	members, err := s.Store.Roles().ListMembers(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []entity.Member{}
	}
	d := &ProjectDetails{Project: *p, Members: members}
	if withInvites {
		if d.Invites, err = s.ListInvites(ctx, projectID); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// UpdateProjectInput carries optional changes; nil fields are left as is.
type UpdateProjectInput struct {
	Name    *string
	Billing *entity.Billing
}

// Update applies in and re-derives the slug when the name changes.
func (s *ProjectService) Update(ctx context.Context, projectID string, in UpdateProjectInput) (*entity.Project, error) {
	var p *entity.Project
	err := s.Store.WithTx(ctx, func(tx repository.Store) error {
		cur, err := tx.Projects().GetByID(ctx, projectID)
		if err != nil {
			return err
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			slug := Slugify(name)
			if slug == "" {
				return ErrInvalidProjectName
			}
			cur.Name, cur.Slug = name, slug
		}
		if in.Billing != nil {
			cur.Billing = *in.Billing
		}
		if err := tx.Projects().Update(ctx, cur); err != nil {
			return err
		}
		p = cur
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: slug already in use", ErrConflict)
		}
		return nil, projectErr(err)
	}
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, projectID string) error {
	if err := s.Store.Projects().Delete(ctx, projectID); err != nil {
		return projectErr(err)
	}
	s.Logger.WithField("project_id", projectID).Info("project deleted")
	return nil
}

type InviteInput struct {
	Email string
	Role  entity.RoleType
}

// InviteResult holds exactly one of Member (the email had an account) or
// Invite (it did not).
type InviteResult struct {
	Member *entity.ProjectRole `json:"member,omitempty"`
	Invite *entity.Invite      `json:"invite,omitempty"`
}

// Invite grants membership to the account owning in.Email, or records a
// pending invite when there is none. Role defaults to Member and may not be
// Owner.
func (s *ProjectService) Invite(ctx context.Context, projectID string, in InviteInput) (*InviteResult, error) {
	role := in.Role
	if role == "" {
		role = entity.RoleMember
	}
	if role != entity.RoleAdmin && role != entity.RoleMember {
		return nil, fmt.Errorf("%w: %q cannot be invited", ErrInvalidRole, role)
	}
	email := normalizeEmail(in.Email)

	res := &InviteResult{}
	err := s.Store.WithTx(ctx, func(tx repository.Store) error {
		u, err := tx.Users().GetByEmail(ctx, email)
		switch {
		case err == nil:
			pr := &entity.ProjectRole{UserID: u.ID, ProjectID: projectID, Role: role}
			if err := tx.Roles().Create(ctx, pr); err != nil {
				if errors.Is(err, repository.ErrConflict) {
					return fmt.Errorf("%w: already a member", ErrConflict)
				}
				return err
			}
			res.Member = pr
			return nil
		case errors.Is(err, repository.ErrNotFound):
			inv := &entity.Invite{ID: uuid.NewString(), ProjectID: projectID, Email: email, Role: role}
			if err := tx.Invites().Create(ctx, inv); err != nil {
				if errors.Is(err, repository.ErrConflict) {
					return fmt.Errorf("%w: already invited", ErrConflict)
				}
				return err
			}
			res.Invite = inv
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, projectErr(err)
	}
	s.Logger.WithFields(logrus.Fields{"project_id": projectID, "pending": res.Invite != nil}).Info("user invited")
	return res, nil
}

func (s *ProjectService) ListInvites(ctx context.Context, projectID string) ([]entity.Invite, error) {
	invs, err := s.Store.Invites().ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if invs == nil {
		invs = []entity.Invite{}
	}
	return invs, nil
}

func projectErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrProjectNotFound
	}
	return err
}
