package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/projecthub/internal/domain/entity"
	"github.com/oksasatya/projecthub/internal/domain/repository"
)

type mockRoleReader struct {
	mock.Mock
}

func (m *mockRoleReader) GetRole(ctx context.Context, userID, projectID string) (entity.RoleType, error) {
	args := m.Called(ctx, userID, projectID)
	return args.Get(0).(entity.RoleType), args.Error(1)
}

func TestAllowed(t *testing.T) {
	ownerAdmin := []entity.RoleType{entity.RoleOwner, entity.RoleAdmin}

	assert.False(t, Allowed(ownerAdmin, entity.RoleMember, true))
	assert.True(t, Allowed([]entity.RoleType{entity.RoleOwner}, entity.RoleOwner, true))
	assert.False(t, Allowed(ownerAdmin, "", false))
	assert.True(t, Allowed(nil, "", false))
}

func TestGuard_Authorize(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		op       Operation
		role     entity.RoleType
		roleErr  error
		wantErr  error
		wantRole entity.RoleType
	}{
		{name: "member rejected by owner/admin op", op: OpProjectUpdate, role: entity.RoleMember, wantErr: ErrForbidden},
		{name: "owner accepted by owner op", op: OpProjectDelete, role: entity.RoleOwner, wantRole: entity.RoleOwner},
		{name: "admin rejected by owner op", op: OpProjectDelete, role: entity.RoleAdmin, wantErr: ErrForbidden},
		{name: "member reads", op: OpProjectRead, role: entity.RoleMember, wantRole: entity.RoleMember},
		{name: "no role rejected", op: OpProjectRead, roleErr: repository.ErrNotFound, wantErr: ErrForbidden},
		{name: "no role rejected for invite", op: OpProjectInvite, roleErr: repository.ErrNotFound, wantErr: ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roles := &mockRoleReader{}
			roles.On("GetRole", ctx, "u1", "p1").Return(tt.role, tt.roleErr).Once()
			g := NewGuard(roles, DefaultPolicy())

			role, err := g.Authorize(ctx, tt.op, "u1", "p1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRole, role)
			}
			roles.AssertExpectations(t)
		})
	}
}

func TestGuard_UnknownOperationFailsClosed(t *testing.T) {
	roles := &mockRoleReader{}
	g := NewGuard(roles, DefaultPolicy())

	_, err := g.Authorize(context.Background(), Operation("project.archive"), "u1", "p1")
	assert.ErrorIs(t, err, ErrForbidden)
	roles.AssertNotCalled(t, "GetRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestGuard_EmptySetOpenToAnyAuthenticatedCaller(t *testing.T) {
	ctx := context.Background()
	roles := &mockRoleReader{}
	roles.On("GetRole", ctx, "stranger", "p1").Return(entity.RoleType(""), repository.ErrNotFound)
	g := NewGuard(roles, Policy{"project.ping": nil})

	role, err := g.Authorize(ctx, "project.ping", "stranger", "p1")
	require.NoError(t, err)
	assert.Empty(t, role)

	_, err = g.Authorize(ctx, "project.ping", "", "p1")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGuard_LookupErrorIsNotPermission(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")
	roles := &mockRoleReader{}
	roles.On("GetRole", ctx, "u1", "p1").Return(entity.RoleType(""), boom)
	g := NewGuard(roles, DefaultPolicy())

	_, err := g.Authorize(ctx, OpProjectRead, "u1", "p1")
	require.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrForbidden)
}

func TestGuard_ReadsRoleOnEveryCall(t *testing.T) {
	ctx := context.Background()
	roles := &mockRoleReader{}
	roles.On("GetRole", ctx, "u1", "p1").Return(entity.RoleAdmin, nil).Once()
	roles.On("GetRole", ctx, "u1", "p1").Return(entity.RoleMember, nil).Once()
	g := NewGuard(roles, DefaultPolicy())

	_, err := g.Authorize(ctx, OpProjectUpdate, "u1", "p1")
	require.NoError(t, err)
	_, err = g.Authorize(ctx, OpProjectUpdate, "u1", "p1")
	assert.ErrorIs(t, err, ErrForbidden)
	roles.AssertNumberOfCalls(t, "GetRole", 2)
}
