package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/catalog"
	"github.com/phonestore/backend/internal/domain/shared"
)

// ColorService handles color operations
type ColorService struct {
	colorRepo catalog.ColorRepository
}

// NewColorService creates a new ColorService
func NewColorService(colorRepo catalog.ColorRepository) *ColorService {
	return &ColorService{colorRepo: colorRepo}
}

// List returns all colors
func (s *ColorService) List(ctx context.Context) ([]ColorResponse, error) {
	colors, err := s.colorRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ColorResponse, 0, len(colors))
	for i := range colors {
		out = append(out, ToColorResponse(&colors[i]))
	}
	return out, nil
}

// GetByID returns a color
func (s *ColorService) GetByID(ctx context.Context, id uuid.UUID) (*ColorResponse, error) {
	c, err := s.colorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToColorResponse(c)
	return &resp, nil
}

// Create creates a color with a unique name
func (s *ColorService) Create(ctx context.Context, req ColorRequest) (*ColorResponse, error) {
	c, err := catalog.NewColor(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, c.Name, nil); err != nil {
		return nil, err
	}
	if err := s.colorRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToColorResponse(c)
	return &resp, nil
}

// Update renames a color
func (s *ColorService) Update(ctx context.Context, id uuid.UUID, req ColorRequest) (*ColorResponse, error) {
	c, err := s.colorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, c.Name, &id); err != nil {
		return nil, err
	}
	if err := s.colorRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToColorResponse(c)
	return &resp, nil
}

// Delete removes a color no image or order line references
func (s *ColorService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.colorRepo.FindByID(ctx, id); err != nil {
		return err
	}
	referenced, err := s.colorRepo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return shared.NewDomainError("HAS_REFERENCES", "Cannot delete a color used by product images or orders")
	}
	return s.colorRepo.Delete(ctx, id)
}

func (s *ColorService) ensureUniqueName(ctx context.Context, name string, excludeID *uuid.UUID) error {
	exists, err := s.colorRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A color with this name already exists")
	}
	return nil
}
