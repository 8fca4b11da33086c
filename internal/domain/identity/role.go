package identity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/shared"
)

// System role names
const (
	RoleSuperAdmin = "SuperAdmin"
	RoleAdmin      = "Admin"
	RoleUser       = "User"
)

// Role groups permissions assigned to admin accounts
type Role struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	IsSystem    bool
	Permissions []Permission

	// Read-side projection
	AdminCount int64
}

// NewRole creates a custom role
func NewRole(name, description string) (*Role, error) {
	name = strings.TrimSpace(name)
	if err := validateRoleName(name); err != nil {
		return nil, err
	}
	return &Role{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       strings.TrimSpace(description),
		Permissions:       make([]Permission, 0),
	}, nil
}

// NewSystemRole creates a role that cannot be deleted
func NewSystemRole(name, description string) (*Role, error) {
	r, err := NewRole(name, description)
	if err != nil {
		return nil, err
	}
	r.IsSystem = true
	return r, nil
}

// Update changes the role's name and description.
// System roles keep their name.
func (r *Role) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if err := validateRoleName(name); err != nil {
		return err
	}
	if r.IsSystem && name != r.Name {
		return shared.NewDomainError("INVALID_STATE", "System roles cannot be renamed")
	}
	r.Name = name
	r.Description = strings.TrimSpace(description)
	r.MarkModified()
	return nil
}

// SetPermissions replaces the role's permissions
func (r *Role) SetPermissions(perms []Permission) {
	r.Permissions = append(make([]Permission, 0, len(perms)), perms...)
	r.MarkModified()
}

// CanDelete checks whether the role may be removed
func (r *Role) CanDelete() error {
	if r.IsSystem {
		return shared.NewDomainError("INVALID_STATE", "System roles cannot be deleted")
	}
	if r.AdminCount > 0 {
		return shared.NewDomainError("HAS_REFERENCES", "Role is still assigned to admin accounts")
	}
	return nil
}

// IsSuperAdmin reports whether the role bypasses permission checks
func (r *Role) IsSuperAdmin() bool {
	return r != nil && r.Name == RoleSuperAdmin
}

// HasPermissionNamed reports whether the role holds the named permission
func (r *Role) HasPermissionNamed(name string) bool {
	for _, p := range r.Permissions {
		if p.Name == name {
			return true
		}
	}
	return false
}

// HasAreaAction reports whether any permission grants action in area
func (r *Role) HasAreaAction(area, action string) bool {
	for _, p := range r.Permissions {
		if p.Grants(area, action) {
			return true
		}
	}
	return false
}

// HasArea reports whether any permission belongs to area
func (r *Role) HasArea(area string) bool {
	for _, p := range r.Permissions {
		if p.Area == area {
			return true
		}
	}
	return false
}

// HasAction reports whether any permission grants action in some area
func (r *Role) HasAction(action string) bool {
	for _, p := range r.Permissions {
		if p.Action == action {
			return true
		}
	}
	return false
}

// PermissionNames returns the names of the role's permissions
func (r *Role) PermissionNames() []string {
	names := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		names = append(names, p.Name)
	}
	return names
}

// PermissionIDs returns the ids of the role's permissions
func (r *Role) PermissionIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		ids = append(ids, p.ID)
	}
	return ids
}

func validateRoleName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Role name cannot be empty")
	}
	if len(name) > 50 {
		return shared.NewDomainError("INVALID_INPUT", "Role name cannot exceed 50 characters")
	}
	return nil
}
