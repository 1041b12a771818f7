// Package memory is an in-process Store driver. Transactions are serialized
// and applied copy-on-write, so a failed or cancelled WithTx leaves no trace.
package memory

import (
	"context"
	"sync"

	"github.com/oksasatya/projecthub/internal/domain/repository"
)

type dataset struct {
	users     map[string]userRow
	projects  map[string]projectRow
	roles     map[roleKey]roleRow
	invites   map[string]inviteRow
	emailToID map[string]string
	slugToID  map[string]string
}

func newDataset() *dataset {
	return &dataset{
		users:     map[string]userRow{},
		projects:  map[string]projectRow{},
		roles:     map[roleKey]roleRow{},
		invites:   map[string]inviteRow{},
		emailToID: map[string]string{},
		slugToID:  map[string]string{},
	}
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.projects {
		c.projects[k] = v
	}
	for k, v := range d.roles {
		c.roles[k] = v
	}
	for k, v := range d.invites {
		c.invites[k] = v
	}
	for k, v := range d.emailToID {
		c.emailToID[k] = v
	}
	for k, v := range d.slugToID {
		c.slugToID[k] = v
	}
	return c
}

type state struct {
	mu   sync.Mutex
	data *dataset
}

type Store struct {
	st *state
	tx *dataset // non-nil inside WithTx
}

func NewStore() *Store {
	return &Store{st: &state{data: newDataset()}}
}

// do runs fn against the committed data, or against the transaction's
// working copy when s is transaction-scoped.
func (s *Store) do(ctx context.Context, fn func(d *dataset) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.tx != nil {
		return fn(s.tx)
	}
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	work := s.st.data.clone()
	if err := fn(work); err != nil {
		return err
	}
	s.st.data = work
	return nil
}

// view runs a read-only fn without copying.
func (s *Store) view(ctx context.Context, fn func(d *dataset) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.tx != nil {
		return fn(s.tx)
	}
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return fn(s.st.data)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.tx != nil {
		return repository.ErrNestedTx
	}
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := &Store{st: s.st, tx: s.st.data.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st.data = tx.tx
	return nil
}

func (s *Store) Users() repository.UserRepository        { return &usersRepo{s: s} }
func (s *Store) Projects() repository.ProjectRepository  { return &projectsRepo{s: s} }
func (s *Store) Roles() repository.ProjectRoleRepository { return &rolesRepo{s: s} }
func (s *Store) Invites() repository.InviteRepository    { return &invitesRepo{s: s} }

var _ repository.Store = (*Store)(nil)
