package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/identity"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAccountFixture() (*AdminAccountService, *MockAdminRepository, *MockRoleRepository, *auth.InMemoryTokenBlacklist) {
	admins := new(MockAdminRepository)
	roles := new(MockRoleRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	return NewAdminAccountService(admins, roles, blacklist, time.Hour, nil), admins, roles, blacklist
}

func newPlainAdmin(t *testing.T, username string) *identity.Admin {
	t.Helper()
	admin, err := identity.NewAdmin(username, "hash", identity.AdminProfile{FullName: username})
	require.NoError(t, err)
	return admin
}

func TestAdminAccountService_StateChanges(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	tests := []struct {
		name          string
		prepare       func(a *identity.Admin)
		call          func(s *AdminAccountService, id uuid.UUID) (*AdminResponse, error)
		wantApproved  bool
		wantBlocked   bool
		wantTokensEnd bool
	}{
		{
			name:         "approve",
			call:         func(s *AdminAccountService, id uuid.UUID) (*AdminResponse, error) { return s.Approve(ctx, actor, id) },
			wantApproved: true,
		},
		{
			name:          "revoke approval",
			prepare:       func(a *identity.Admin) { a.Approve() },
			call:          func(s *AdminAccountService, id uuid.UUID) (*AdminResponse, error) { return s.RevokeApproval(ctx, actor, id) },
			wantTokensEnd: true,
		},
		{
			name:          "block",
			prepare:       func(a *identity.Admin) { a.Approve() },
			call:          func(s *AdminAccountService, id uuid.UUID) (*AdminResponse, error) { return s.Block(ctx, actor, id) },
			wantApproved:  true,
			wantBlocked:   true,
			wantTokensEnd: true,
		},
		{
			name: "unblock",
			prepare: func(a *identity.Admin) {
				a.Approve()
				a.Block()
			},
			call:         func(s *AdminAccountService, id uuid.UUID) (*AdminResponse, error) { return s.Unblock(ctx, actor, id) },
			wantApproved: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, admins, _, blacklist := newAccountFixture()
			target := newPlainAdmin(t, "target")
			if tt.prepare != nil {
				tt.prepare(target)
			}
			issuedBefore := time.Now().Add(-time.Minute)
			admins.On("FindByID", ctx, target.ID).Return(target, nil)
			admins.On("Save", ctx, target).Return(nil)

			resp, err := tt.call(svc, target.ID)

			require.NoError(t, err)
			assert.Equal(t, tt.wantApproved, resp.IsApproved)
			assert.Equal(t, tt.wantBlocked, resp.IsBlocked)

			ended, err := blacklist.IsAdminTokenInvalidated(ctx, target.ID.String(), issuedBefore)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTokensEnd, ended)
		})
	}
}

func TestAdminAccountService_CannotActOnSelf(t *testing.T) {
	ctx := context.Background()
	svc, admins, _, _ := newAccountFixture()
	self := uuid.New()

	_, err := svc.Block(ctx, self, self)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	err = svc.Delete(ctx, self, self)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	admins.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestAdminAccountService_ChangeRole(t *testing.T) {
	ctx := context.Background()
	svc, admins, roles, _ := newAccountFixture()
	target := newPlainAdmin(t, "target")
	role := newTestRole(t, "Auditor")
	roles.On("FindByID", ctx, role.ID).Return(role, nil)
	admins.On("FindByID", ctx, target.ID).Return(target, nil)
	admins.On("Save", ctx, target).Return(nil)

	resp, err := svc.ChangeRole(ctx, uuid.New(), target.ID, ChangeRoleRequest{RoleID: role.ID})

	require.NoError(t, err)
	assert.Equal(t, "Auditor", resp.RoleName)
	assert.Equal(t, &role.ID, resp.RoleID)
}

func TestAdminAccountService_ChangeRole_UnknownRole(t *testing.T) {
	ctx := context.Background()
	svc, admins, roles, _ := newAccountFixture()
	roleID := uuid.New()
	roles.On("FindByID", ctx, roleID).Return(nil, shared.ErrNotFound)

	_, err := svc.ChangeRole(ctx, uuid.New(), uuid.New(), ChangeRoleRequest{RoleID: roleID})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	admins.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAdminAccountService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, admins, _, blacklist := newAccountFixture()
	target := newPlainAdmin(t, "target")
	admins.On("FindByID", ctx, target.ID).Return(target, nil)
	admins.On("Delete", ctx, target.ID).Return(nil)

	require.NoError(t, svc.Delete(ctx, uuid.New(), target.ID))

	ended, err := blacklist.IsAdminTokenInvalidated(ctx, target.ID.String(), time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, ended)
}

func TestAdminAccountService_List(t *testing.T) {
	ctx := context.Background()
	svc, admins, _, _ := newAccountFixture()
	approved := true
	admins.On("FindAll", ctx, mock.MatchedBy(func(f identity.AdminFilter) bool {
		return f.Search == "ann" && f.IsApproved != nil && *f.IsApproved && f.Page == 1 && f.PageSize > 0
	})).Return([]identity.Admin{*newPlainAdmin(t, "anna")}, int64(1), nil)

	page, err := svc.List(ctx, AdminListFilter{Search: "ann", IsApproved: &approved})

	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "anna", page.Items[0].Username)
}
