package identity

import (
	"strings"

	"github.com/phonestore/backend/internal/domain/shared"
)

// WildcardAction grants every action within an area
const WildcardAction = "*"

// Permission is a named grant for an action within an admin area
type Permission struct {
	shared.BaseEntity
	Name        string
	Description string
	Area        string
	Action      string
}

// NewPermission creates a permission
func NewPermission(name, description, area, action string) (*Permission, error) {
	name = strings.TrimSpace(name)
	area = strings.TrimSpace(area)
	action = strings.TrimSpace(action)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Permission name cannot be empty")
	}
	if area == "" || action == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Permission area and action are required")
	}
	return &Permission{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Area:        area,
		Action:      action,
	}, nil
}

// Grants reports whether the permission covers area and action
func (p Permission) Grants(area, action string) bool {
	return p.Area == area && (p.Action == action || p.Action == WildcardAction)
}
