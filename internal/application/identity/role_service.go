package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/identity"
	"github.com/phonestore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RoleService handles role management operations
type RoleService struct {
	roleRepo       identity.RoleRepository
	permissionRepo identity.PermissionRepository
	logger         *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(
	roleRepo identity.RoleRepository,
	permissionRepo identity.PermissionRepository,
	logger *zap.Logger,
) *RoleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
		logger:         logger,
	}
}

// List returns every role with its permissions
func (s *RoleService) List(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.roleRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		resp = append(resp, ToRoleResponse(&roles[i]))
	}
	return resp, nil
}

// Get returns one role
func (s *RoleService) Get(ctx context.Context, id uuid.UUID) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToRoleResponse(role)
	return &resp, nil
}

// Create creates a custom role
func (s *RoleService) Create(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	role, err := identity.NewRole(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, role.Name, nil); err != nil {
		return nil, err
	}
	if len(req.PermissionIDs) > 0 {
		perms, err := s.resolvePermissions(ctx, req.PermissionIDs)
		if err != nil {
			return nil, err
		}
		role.SetPermissions(perms)
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	s.logger.Info("Role created",
		zap.String("role_id", role.ID.String()),
		zap.String("name", role.Name),
		zap.Int("permissions", len(role.Permissions)))
	resp := ToRoleResponse(role)
	return &resp, nil
}

// Update renames a role
func (s *RoleService) Update(ctx context.Context, id uuid.UUID, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := role.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, role.Name, &role.ID); err != nil {
		return nil, err
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}
	resp := ToRoleResponse(role)
	return &resp, nil
}

// SetPermissions replaces a role's permissions
func (s *RoleService) SetPermissions(ctx context.Context, id uuid.UUID, req SetPermissionsRequest) (*RoleResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role.IsSuperAdmin() {
		return nil, shared.NewDomainError("INVALID_STATE", "SuperAdmin already has every permission")
	}
	perms, err := s.resolvePermissions(ctx, req.PermissionIDs)
	if err != nil {
		return nil, err
	}
	role.SetPermissions(perms)
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	s.logger.Info("Role permissions updated",
		zap.String("role_id", role.ID.String()),
		zap.Int("permissions", len(perms)))
	resp := ToRoleResponse(role)
	return &resp, nil
}

// Delete removes a custom role that no admin holds
func (s *RoleService) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := role.CanDelete(); err != nil {
		return err
	}
	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Role deleted", zap.String("role_id", id.String()), zap.String("name", role.Name))
	return nil
}

// ListPermissions returns the permission catalogue
func (s *RoleService) ListPermissions(ctx context.Context) ([]PermissionResponse, error) {
	perms, err := s.permissionRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]PermissionResponse, 0, len(perms))
	for i := range perms {
		resp = append(resp, ToPermissionResponse(&perms[i]))
	}
	return resp, nil
}

func (s *RoleService) ensureUniqueName(ctx context.Context, name string, excludeID *uuid.UUID) error {
	exists, err := s.roleRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Role name already exists")
	}
	return nil
}

func (s *RoleService) resolvePermissions(ctx context.Context, ids []uuid.UUID) ([]identity.Permission, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return []identity.Permission{}, nil
	}
	perms, err := s.permissionRepo.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(perms) != len(unique) {
		return nil, shared.NewDomainError("INVALID_INPUT", "One or more permissions do not exist")
	}
	return perms, nil
}
