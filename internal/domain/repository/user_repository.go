package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/projecthub/internal/domain/entity"
)

var (
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict reports a uniqueness violation (email, membership, invite, slug).
	ErrConflict = errors.New("repository: conflict")
	// ErrSerialization reports a transaction aborted by the isolation level.
	ErrSerialization = errors.New("repository: serialization failure")
	ErrNestedTx      = errors.New("repository: nested transactions are not supported")
)

// Store is the root data access interface. Sub-repositories returned by a
// transaction-scoped Store all run inside that transaction.
type Store interface {
	Users() UserRepository
	Projects() ProjectRepository
	Roles() ProjectRoleRepository
	Invites() InviteRepository

	// WithTx runs fn in one serializable transaction. It commits when fn
	// returns nil and rolls back otherwise, including on ctx cancellation.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User, passwordHash string) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetCredentials(ctx context.Context, email string) (*entity.Credentials, error)
	List(ctx context.Context) ([]entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetConfirmed(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Membership, error)
	Update(ctx context.Context, p *entity.Project) error
	Delete(ctx context.Context, id string) error
}

type ProjectRoleRepository interface {
	Create(ctx context.Context, r *entity.ProjectRole) error
	GetRole(ctx context.Context, userID, projectID string) (entity.RoleType, error)
	ListMembers(ctx context.Context, projectID string) ([]entity.Member, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type InviteRepository interface {
	Create(ctx context.Context, inv *entity.Invite) error
	// ListByEmail locks the matching rows when called inside a transaction.
	ListByEmail(ctx context.Context, email string) ([]entity.Invite, error)
	ListByProject(ctx context.Context, projectID string) ([]entity.Invite, error)
	DeleteByEmail(ctx context.Context, email string) (int64, error)
}
