package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/projecthub/internal/domain/entity"
)

func TestCreateProject_SlugAndOwner(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.register(t, "owner@x.com")

	p := env.project(t, u.ID, "My Project")
	assert.Equal(t, "my-project", p.Slug)

	role, err := env.store.Roles().GetRole(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOwner, role)

	_, err = env.projects.Create(ctx, u.ID, CreateProjectInput{Name: "my   project!"})
	assert.ErrorIs(t, err, ErrConflict)
	_, err = env.projects.Create(ctx, u.ID, CreateProjectInput{Name: "???"})
	assert.ErrorIs(t, err, ErrInvalidProjectName)
}

func TestUpdateProject_RederivesSlug(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u := env.register(t, "owner@x.com")
	p := env.project(t, u.ID, "Alpha")

	name := "Beta Launch"
	got, err := env.projects.Update(ctx, p.ID, UpdateProjectInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "beta-launch", got.Slug)

	billing := entity.Billing{Plan: "pro", Email: "billing@x.com"}
	got, err = env.projects.Update(ctx, p.ID, UpdateProjectInput{Billing: &billing})
	require.NoError(t, err)
	assert.Equal(t, "beta-launch", got.Slug)
	assert.Equal(t, billing, got.Billing)

	_, err = env.projects.Update(ctx, "missing", UpdateProjectInput{Name: &name})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestInvite_ExistingAccountBecomesMember(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.register(t, "owner@x.com")
	b := env.register(t, "b@x.com")
	p := env.project(t, owner.ID, "P")

	res, err := env.projects.Invite(ctx, p.ID, InviteInput{Email: "B@x.com", Role: entity.RoleAdmin})
	require.NoError(t, err)
	require.NotNil(t, res.Member)
	assert.Nil(t, res.Invite)
	assert.Equal(t, b.ID, res.Member.UserID)

	_, err = env.projects.Invite(ctx, p.ID, InviteInput{Email: "b@x.com"})
	assert.ErrorIs(t, err, ErrConflict)

	d, err := env.projects.Get(ctx, p.ID, true)
	require.NoError(t, err)
	assert.Len(t, d.Members, 2)
	assert.Empty(t, d.Invites)
}

func TestInvite_UnknownEmailIsPending(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.register(t, "owner@x.com")
	p := env.project(t, owner.ID, "P")

	res, err := env.projects.Invite(ctx, p.ID, InviteInput{Email: "new@x.com"})
	require.NoError(t, err)
	require.NotNil(t, res.Invite)
	assert.Equal(t, entity.RoleMember, res.Invite.Role)

	_, err = env.projects.Invite(ctx, p.ID, InviteInput{Email: "new@x.com"})
	assert.ErrorIs(t, err, ErrConflict)

	invs, err := env.projects.ListInvites(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, invs, 1)

	d, err := env.projects.Get(ctx, p.ID, false)
	require.NoError(t, err)
	assert.Nil(t, d.Invites)
}

func TestInvite_RejectsOwnerRole(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "owner@x.com")
	p := env.project(t, owner.ID, "P")

	_, err := env.projects.Invite(context.Background(), p.ID, InviteInput{Email: "x@x.com", Role: entity.RoleOwner})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestDeleteProject(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	owner := env.register(t, "owner@x.com")
	p := env.project(t, owner.ID, "P")

	require.NoError(t, env.projects.Delete(ctx, p.ID))
	_, err := env.projects.Get(ctx, p.ID, false)
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.ErrorIs(t, env.projects.Delete(ctx, p.ID), ErrProjectNotFound)
}
