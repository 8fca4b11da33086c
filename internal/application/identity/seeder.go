package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/phonestore/backend/internal/domain/identity"
	"github.com/phonestore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SeedOptions names the initial SuperAdmin account.
// An empty Username skips account creation.
type SeedOptions struct {
	AdminUsername string
	AdminPassword string
	AdminFullName string
}

// Seeder installs the permission catalogue, the system roles and the first
// SuperAdmin. Running it again only fills in what is missing.
type Seeder struct {
	adminRepo      identity.AdminRepository
	roleRepo       identity.RoleRepository
	permissionRepo identity.PermissionRepository
	hasher         shared.PasswordHasher
	logger         *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(
	adminRepo identity.AdminRepository,
	roleRepo identity.RoleRepository,
	permissionRepo identity.PermissionRepository,
	hasher shared.PasswordHasher,
	logger *zap.Logger,
) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		adminRepo:      adminRepo,
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
		hasher:         hasher,
		logger:         logger,
	}
}

// Seed runs every seeding step in order
func (s *Seeder) Seed(ctx context.Context, opts SeedOptions) error {
	created, err := s.seedPermissions(ctx)
	if err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}
	roles, err := s.seedRoles(ctx)
	if err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	admin, err := s.seedSuperAdmin(ctx, opts)
	if err != nil {
		return fmt.Errorf("seed super admin: %w", err)
	}

	s.logger.Info("Identity seed complete",
		zap.Int("permissions_created", created),
		zap.Int("roles_created", roles),
		zap.Bool("super_admin_created", admin))
	return nil
}

func (s *Seeder) seedPermissions(ctx context.Context) (int, error) {
	created := 0
	for _, def := range identity.DefaultPermissions() {
		_, err := s.permissionRepo.FindByName(ctx, def.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return created, err
		}
		p, err := identity.NewPermission(def.Name, def.Description, def.Area, def.Action)
		if err != nil {
			return created, err
		}
		if err := s.permissionRepo.Save(ctx, p); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// seedRoles creates missing system roles. Existing roles keep whatever
// permissions were assigned to them since.
func (s *Seeder) seedRoles(ctx context.Context) (int, error) {
	created := 0
	for _, def := range identity.DefaultSystemRoles() {
		_, err := s.roleRepo.FindByName(ctx, def.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return created, err
		}
		role, err := identity.NewSystemRole(def.Name, def.Description)
		if err != nil {
			return created, err
		}
		if len(def.Permissions) > 0 {
			perms, err := s.permissionRepo.FindByNames(ctx, def.Permissions)
			if err != nil {
				return created, err
			}
			role.SetPermissions(perms)
		}
		if err := s.roleRepo.Save(ctx, role); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *Seeder) seedSuperAdmin(ctx context.Context, opts SeedOptions) (bool, error) {
	if opts.AdminUsername == "" {
		return false, nil
	}
	exists, err := s.adminRepo.ExistsByUsername(ctx, opts.AdminUsername)
	if err != nil || exists {
		return false, err
	}
	if opts.AdminPassword == "" {
		return false, shared.NewDomainError("INVALID_INPUT", "Initial admin password is required")
	}

	role, err := s.roleRepo.FindByName(ctx, identity.RoleSuperAdmin)
	if err != nil {
		return false, err
	}
	hash, err := s.hasher.Hash(opts.AdminPassword)
	if err != nil {
		return false, err
	}
	fullName := opts.AdminFullName
	if fullName == "" {
		fullName = "Administrator"
	}
	admin, err := identity.NewAdmin(opts.AdminUsername, hash, identity.AdminProfile{FullName: fullName})
	if err != nil {
		return false, err
	}
	admin.Approve()
	if err := admin.AssignRole(role); err != nil {
		return false, err
	}
	if err := s.adminRepo.Save(ctx, admin); err != nil {
		return false, err
	}

	s.logger.Info("Initial super admin created", zap.String("username", admin.Username))
	return true, nil
}
