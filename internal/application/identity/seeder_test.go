package identity

import (
	"context"
	"testing"

	"github.com/phonestore/backend/internal/domain/identity"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSeeder_FreshDatabase(t *testing.T) {
	ctx := context.Background()
	admins := new(MockAdminRepository)
	roles := new(MockRoleRepository)
	perms := new(MockPermissionRepository)
	hasher := auth.NewBcryptHasher(4)

	perms.On("FindByName", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
	perms.On("Save", ctx, mock.AnythingOfType("*identity.Permission")).Return(nil)
	perms.On("FindByNames", ctx, mock.Anything).Return([]identity.Permission{}, nil)

	superAdmin, err := identity.NewSystemRole(identity.RoleSuperAdmin, "")
	require.NoError(t, err)
	roles.On("FindByName", ctx, identity.RoleSuperAdmin).Return(nil, shared.ErrNotFound).Once()
	roles.On("FindByName", ctx, identity.RoleSuperAdmin).Return(superAdmin, nil)
	roles.On("FindByName", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
	roles.On("Save", ctx, mock.AnythingOfType("*identity.Role")).Return(nil)

	admins.On("ExistsByUsername", ctx, "root").Return(false, nil)
	admins.On("Save", ctx, mock.AnythingOfType("*identity.Admin")).Return(nil)

	seeder := NewSeeder(admins, roles, perms, hasher, nil)
	err = seeder.Seed(ctx, SeedOptions{AdminUsername: "root", AdminPassword: "changeme!"})
	require.NoError(t, err)

	perms.AssertNumberOfCalls(t, "Save", len(identity.DefaultPermissions()))
	roles.AssertNumberOfCalls(t, "Save", len(identity.DefaultSystemRoles()))

	saved := admins.Calls[1].Arguments.Get(1).(*identity.Admin)
	assert.True(t, saved.IsApproved)
	assert.Equal(t, identity.RoleSuperAdmin, saved.RoleName())
	assert.Equal(t, "Administrator", saved.FullName)
	assert.NoError(t, hasher.Compare(saved.PasswordHash, "changeme!"))
}

func TestSeeder_SecondRunChangesNothing(t *testing.T) {
	ctx := context.Background()
	admins := new(MockAdminRepository)
	roles := new(MockRoleRepository)
	perms := new(MockPermissionRepository)

	existingPerm := newTestPermission(t, "x", "A", "B")
	perms.On("FindByName", ctx, mock.Anything).Return(&existingPerm, nil)
	roles.On("FindByName", ctx, mock.Anything).Return(newTestRole(t, "any"), nil)
	admins.On("ExistsByUsername", ctx, "root").Return(true, nil)

	seeder := NewSeeder(admins, roles, perms, auth.NewBcryptHasher(4), nil)
	require.NoError(t, seeder.Seed(ctx, SeedOptions{AdminUsername: "root", AdminPassword: "changeme!"}))

	perms.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	roles.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	admins.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSeeder_MissingPassword(t *testing.T) {
	ctx := context.Background()
	admins := new(MockAdminRepository)
	roles := new(MockRoleRepository)
	perms := new(MockPermissionRepository)

	existingPerm := newTestPermission(t, "x", "A", "B")
	perms.On("FindByName", ctx, mock.Anything).Return(&existingPerm, nil)
	roles.On("FindByName", ctx, mock.Anything).Return(newTestRole(t, "any"), nil)
	admins.On("ExistsByUsername", ctx, "root").Return(false, nil)

	err := NewSeeder(admins, roles, perms, auth.NewBcryptHasher(4), nil).Seed(ctx, SeedOptions{AdminUsername: "root"})

	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
