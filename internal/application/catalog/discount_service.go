package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/catalog"
)

// DiscountService handles discount program operations
type DiscountService struct {
	discountRepo catalog.DiscountRepository
}

// NewDiscountService creates a new DiscountService
func NewDiscountService(discountRepo catalog.DiscountRepository) *DiscountService {
	return &DiscountService{discountRepo: discountRepo}
}

// List returns all discount programs
func (s *DiscountService) List(ctx context.Context) ([]DiscountResponse, error) {
	discounts, err := s.discountRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DiscountResponse, 0, len(discounts))
	for i := range discounts {
		out = append(out, ToDiscountResponse(&discounts[i]))
	}
	return out, nil
}

// GetByID returns a discount program
func (s *DiscountService) GetByID(ctx context.Context, id uuid.UUID) (*DiscountResponse, error) {
	d, err := s.discountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDiscountResponse(d)
	return &resp, nil
}

// Create creates a discount program
func (s *DiscountService) Create(ctx context.Context, req DiscountRequest) (*DiscountResponse, error) {
	d, err := catalog.NewDiscountProgram(req.Name, req.Percent)
	if err != nil {
		return nil, err
	}
	if err := s.discountRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDiscountResponse(d)
	return &resp, nil
}

// Update changes a discount program
func (s *DiscountService) Update(ctx context.Context, id uuid.UUID, req DiscountRequest) (*DiscountResponse, error) {
	d, err := s.discountRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.Update(req.Name, req.Percent); err != nil {
		return nil, err
	}
	if err := s.discountRepo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDiscountResponse(d)
	return &resp, nil
}

// Delete removes a discount program and detaches it from products
func (s *DiscountService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.discountRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.discountRepo.Delete(ctx, id)
}
