package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/projecthub/internal/domain/repository"
)

const (
	sqlStateUniqueViolation      = "23505"
	sqlStateForeignKeyViolation  = "23503"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	// a malformed uuid in a lookup; no such row can exist
	sqlStateInvalidTextRepresentation = "22P02"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is the pgx-backed repository.Store.
type Store struct {
	pool *pgxpool.Pool
	q    querier
	inTx bool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, q: pool}
}

func (s *Store) Users() repository.UserRepository        { return &UserRepository{q: s.q} }
func (s *Store) Projects() repository.ProjectRepository  { return &ProjectRepository{q: s.q} }
func (s *Store) Roles() repository.ProjectRoleRepository { return &ProjectRoleRepository{q: s.q} }
func (s *Store) Invites() repository.InviteRepository {
	return &InviteRepository{q: s.q, locking: s.inTx}
}

// WithTx runs fn in a serializable transaction. pgx rolls back when fn
// fails or ctx is cancelled before commit.
func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return repository.ErrNestedTx
	}
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		return fn(&Store{pool: s.pool, q: tx, inTx: true})
	})
	return mapErr(err)
}

// mapErr translates driver errors into repository errors. Already mapped
// errors pass through unchanged.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrConflict, pgErr.ConstraintName)
		case sqlStateForeignKeyViolation:
			return fmt.Errorf("%w: %s", repository.ErrNotFound, pgErr.ConstraintName)
		case sqlStateSerializationFailure, sqlStateDeadlockDetected:
			return repository.ErrSerialization
		case sqlStateInvalidTextRepresentation:
			return fmt.Errorf("%w: %s", repository.ErrNotFound, pgErr.Message)
		}
	}
	return err
}

var _ repository.Store = (*Store)(nil)
