package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
)

// AdminFilter narrows admin listings.
// Search matches full name or username.
type AdminFilter struct {
	shared.Filter
	RoleID     *uuid.UUID
	IsApproved *bool
	IsBlocked  *bool
}

// AdminRepository defines the interface for admin account persistence
type AdminRepository interface {
	// FindByID loads the admin with role and permissions
	FindByID(ctx context.Context, id uuid.UUID) (*Admin, error)
	// FindByUsername loads the admin with role and permissions
	FindByUsername(ctx context.Context, username string) (*Admin, error)
	FindAll(ctx context.Context, filter AdminFilter) ([]Admin, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Save(ctx context.Context, admin *Admin) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RoleRepository defines the interface for role persistence
type RoleRepository interface {
	// FindByID loads the role with permissions and admin count
	FindByID(ctx context.Context, id uuid.UUID) (*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	FindAll(ctx context.Context) ([]Role, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	// Save persists the role and replaces its permission links
	Save(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PermissionRepository defines the interface for permission persistence
type PermissionRepository interface {
	FindAll(ctx context.Context) ([]Permission, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Permission, error)
	FindByNames(ctx context.Context, names []string) ([]Permission, error)
	FindByName(ctx context.Context, name string) (*Permission, error)
	Save(ctx context.Context, p *Permission) error
}
