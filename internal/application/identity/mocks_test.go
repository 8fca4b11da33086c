package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/identity"
	"github.com/stretchr/testify/mock"
)

// MockAdminRepository is a mock implementation of identity.AdminRepository
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Admin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Admin), args.Error(1)
}

func (m *MockAdminRepository) FindByUsername(ctx context.Context, username string) (*identity.Admin, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Admin), args.Error(1)
}

func (m *MockAdminRepository) FindAll(ctx context.Context, filter identity.AdminFilter) ([]identity.Admin, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Admin), args.Get(1).(int64), args.Error(2)
}

func (m *MockAdminRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminRepository) Save(ctx context.Context, admin *identity.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *MockAdminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRoleRepository is a mock implementation of identity.RoleRepository
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByName(ctx context.Context, name string) (*identity.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindAll(ctx context.Context) ([]identity.Role, error) {
	args := m.Called(ctx)
	return args.Get(0).([]identity.Role), args.Error(1)
}

func (m *MockRoleRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPermissionRepository is a mock implementation of identity.PermissionRepository
type MockPermissionRepository struct {
	mock.Mock
}

func (m *MockPermissionRepository) FindAll(ctx context.Context) ([]identity.Permission, error) {
	args := m.Called(ctx)
	return args.Get(0).([]identity.Permission), args.Error(1)
}

func (m *MockPermissionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.Permission, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]identity.Permission), args.Error(1)
}

func (m *MockPermissionRepository) FindByNames(ctx context.Context, names []string) ([]identity.Permission, error) {
	args := m.Called(ctx, names)
	return args.Get(0).([]identity.Permission), args.Error(1)
}

func (m *MockPermissionRepository) FindByName(ctx context.Context, name string) (*identity.Permission, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Permission), args.Error(1)
}

func (m *MockPermissionRepository) Save(ctx context.Context, p *identity.Permission) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
