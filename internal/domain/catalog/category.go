package catalog

import (
	"strings"

	"github.com/phonestore/backend/internal/domain/shared"
)

// Category groups products on the storefront
type Category struct {
	shared.BaseEntity
	Name string

	// ProductCount is filled by list queries
	ProductCount int64
}

// NewCategory creates a new category
func NewCategory(name string) (*Category, error) {
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}
	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
	}, nil
}

// Rename changes the category name
func (c *Category) Rename(name string) error {
	name, err := validateCategoryName(name)
	if err != nil {
		return err
	}
	c.Name = name
	c.Touch()
	return nil
}

func validateCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.NewDomainError("INVALID_INPUT", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return "", shared.NewDomainError("INVALID_INPUT", "Category name cannot exceed 100 characters")
	}
	return name, nil
}
