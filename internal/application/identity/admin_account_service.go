package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/identity"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AdminAccountService manages back-office accounts on behalf of another admin
type AdminAccountService struct {
	adminRepo identity.AdminRepository
	roleRepo  identity.RoleRepository
	blacklist auth.TokenBlacklist
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAdminAccountService creates a new AdminAccountService. tokenTTL is the
// credential lifetime, used to bound how long an invalidation is kept.
func NewAdminAccountService(
	adminRepo identity.AdminRepository,
	roleRepo identity.RoleRepository,
	blacklist auth.TokenBlacklist,
	tokenTTL time.Duration,
	logger *zap.Logger,
) *AdminAccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminAccountService{
		adminRepo: adminRepo,
		roleRepo:  roleRepo,
		blacklist: blacklist,
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// List searches admin accounts
func (s *AdminAccountService) List(ctx context.Context, filter AdminListFilter) (*shared.Paginated[AdminResponse], error) {
	f := identity.AdminFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   filter.Search,
			OrderBy:  "created_at",
			OrderDir: "desc",
		}.Normalize(),
		RoleID:     filter.RoleID,
		IsApproved: filter.IsApproved,
		IsBlocked:  filter.IsBlocked,
	}
	admins, total, err := s.adminRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]AdminResponse, 0, len(admins))
	for i := range admins {
		items = append(items, ToAdminResponse(&admins[i]))
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Get returns one admin account
func (s *AdminAccountService) Get(ctx context.Context, id uuid.UUID) (*AdminResponse, error) {
	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToAdminResponse(admin)
	return &resp, nil
}

// Approve lets the account sign in
func (s *AdminAccountService) Approve(ctx context.Context, actorID, id uuid.UUID) (*AdminResponse, error) {
	return s.mutate(ctx, actorID, id, "approved", false, func(a *identity.Admin) error {
		a.Approve()
		return nil
	})
}

// RevokeApproval stops the account from signing in and ends its sessions
func (s *AdminAccountService) RevokeApproval(ctx context.Context, actorID, id uuid.UUID) (*AdminResponse, error) {
	return s.mutate(ctx, actorID, id, "approval revoked", true, func(a *identity.Admin) error {
		a.RevokeApproval()
		return nil
	})
}

// Block suspends the account and ends its sessions
func (s *AdminAccountService) Block(ctx context.Context, actorID, id uuid.UUID) (*AdminResponse, error) {
	return s.mutate(ctx, actorID, id, "blocked", true, func(a *identity.Admin) error {
		a.Block()
		return nil
	})
}

// Unblock lifts a suspension
func (s *AdminAccountService) Unblock(ctx context.Context, actorID, id uuid.UUID) (*AdminResponse, error) {
	return s.mutate(ctx, actorID, id, "unblocked", false, func(a *identity.Admin) error {
		a.Unblock()
		return nil
	})
}

// ChangeRole assigns another role to the account
func (s *AdminAccountService) ChangeRole(ctx context.Context, actorID, id uuid.UUID, req ChangeRoleRequest) (*AdminResponse, error) {
	role, err := s.roleRepo.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, actorID, id, "role changed", false, func(a *identity.Admin) error {
		return a.AssignRole(role)
	})
}

// Delete removes an admin account other than the actor's own
func (s *AdminAccountService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return shared.NewDomainError("INVALID_STATE", "You cannot delete your own account")
	}
	if _, err := s.adminRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.adminRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	s.logger.Info("Admin deleted", zap.String("admin_id", id.String()), zap.String("actor_id", actorID.String()))
	return nil
}

func (s *AdminAccountService) mutate(
	ctx context.Context,
	actorID, id uuid.UUID,
	what string,
	endSessions bool,
	change func(*identity.Admin) error,
) (*AdminResponse, error) {
	if actorID == id {
		return nil, shared.NewDomainError("INVALID_STATE", "You cannot change your own account status or role")
	}
	admin, err := s.adminRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(admin); err != nil {
		return nil, err
	}
	if err := s.adminRepo.Save(ctx, admin); err != nil {
		return nil, err
	}
	if endSessions {
		s.invalidate(ctx, id)
	}

	s.logger.Info("Admin account "+what,
		zap.String("admin_id", id.String()),
		zap.String("actor_id", actorID.String()))
	resp := ToAdminResponse(admin)
	return &resp, nil
}

// invalidate ends the admin's sessions. Failures are only logged.
func (s *AdminAccountService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.blacklist == nil {
		return
	}
	if err := s.blacklist.InvalidateAdmin(ctx, id.String(), s.tokenTTL); err != nil {
		s.logger.Warn("Failed to invalidate admin tokens", zap.String("admin_id", id.String()), zap.Error(err))
	}
}
