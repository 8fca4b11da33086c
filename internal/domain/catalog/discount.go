package catalog

import (
	"strings"

	"github.com/phonestore/backend/internal/domain/shared"
)

// DiscountProgram is a percentage discount that products can be attached to
type DiscountProgram struct {
	shared.BaseEntity
	Name    string
	Percent int
}

// NewDiscountProgram creates a new discount program
func NewDiscountProgram(name string, percent int) (*DiscountProgram, error) {
	d := &DiscountProgram{BaseEntity: shared.NewBaseEntity()}
	if err := d.Update(name, percent); err != nil {
		return nil, err
	}
	return d, nil
}

// Update changes the name and percentage
func (d *DiscountProgram) Update(name string, percent int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Discount name cannot be empty")
	}
	if percent < 0 || percent > 100 {
		return shared.NewDomainError("INVALID_INPUT", "Discount percent must be between 0 and 100")
	}
	d.Name = name
	d.Percent = percent
	d.Touch()
	return nil
}
