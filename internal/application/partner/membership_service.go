package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/partner"
	"github.com/phonestore/backend/internal/domain/shared"
)

// MembershipService manages membership tiers
type MembershipService struct {
	membershipRepo partner.MembershipRepository
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(membershipRepo partner.MembershipRepository) *MembershipService {
	return &MembershipService{membershipRepo: membershipRepo}
}

// List returns every tier with its customer count
func (s *MembershipService) List(ctx context.Context) ([]MembershipResponse, error) {
	memberships, err := s.membershipRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MembershipResponse, 0, len(memberships))
	for i := range memberships {
		out = append(out, ToMembershipResponse(&memberships[i]))
	}
	return out, nil
}

// GetByID returns a tier
func (s *MembershipService) GetByID(ctx context.Context, id uuid.UUID) (*MembershipResponse, error) {
	m, err := s.membershipRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToMembershipResponse(m)
	return &resp, nil
}

// Create creates a tier with a unique name
func (s *MembershipService) Create(ctx context.Context, req MembershipRequest) (*MembershipResponse, error) {
	m, err := partner.NewMembership(req.toInput())
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, m.Name, nil); err != nil {
		return nil, err
	}
	if err := s.membershipRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	resp := ToMembershipResponse(m)
	return &resp, nil
}

// Update edits a tier
func (s *MembershipService) Update(ctx context.Context, id uuid.UUID, req MembershipRequest) (*MembershipResponse, error) {
	m, err := s.membershipRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.Update(req.toInput()); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueName(ctx, m.Name, &id); err != nil {
		return nil, err
	}
	if err := s.membershipRepo.Save(ctx, m); err != nil {
		return nil, err
	}
	resp := ToMembershipResponse(m)
	return &resp, nil
}

// Delete removes a tier no customer belongs to
func (s *MembershipService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.membershipRepo.FindByID(ctx, id); err != nil {
		return err
	}
	count, err := s.membershipRepo.CountCustomers(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("HAS_REFERENCES", "Cannot delete a membership that customers still hold")
	}
	return s.membershipRepo.Delete(ctx, id)
}

func (s *MembershipService) ensureUniqueName(ctx context.Context, name string, excludeID *uuid.UUID) error {
	exists, err := s.membershipRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "A membership with this name already exists")
	}
	return nil
}
