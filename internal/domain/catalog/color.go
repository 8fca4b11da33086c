package catalog

import (
	"strings"

	"github.com/phonestore/backend/internal/domain/shared"
)

// Color is a finish a product can be ordered in
type Color struct {
	shared.BaseEntity
	Name string
}

// NewColor creates a new color
func NewColor(name string) (*Color, error) {
	name, err := validateColorName(name)
	if err != nil {
		return nil, err
	}
	return &Color{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// Rename changes the color name
func (c *Color) Rename(name string) error {
	name, err := validateColorName(name)
	if err != nil {
		return err
	}
	c.Name = name
	c.Touch()
	return nil
}

func validateColorName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewDomainError("INVALID_INPUT", "Color name cannot be empty")
	}
	if len(name) > 50 {
		return "", shared.NewDomainError("INVALID_INPUT", "Color name cannot exceed 50 characters")
	}
	return name, nil
}
