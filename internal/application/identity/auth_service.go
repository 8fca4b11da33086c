package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/phonestore/backend/internal/domain/identity"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

var errInvalidCredentials = shared.NewDomainError("UNAUTHORIZED", "Invalid username or password")

func unauthenticated(err error) error {
	return shared.WrapDomainError("UNAUTHORIZED", "Authentication required", err)
}

// AuthService handles admin sign-in, sign-out and self-service profile
type AuthService struct {
	adminRepo  identity.AdminRepository
	roleRepo   identity.RoleRepository
	hasher     shared.PasswordHasher
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	adminRepo identity.AdminRepository,
	roleRepo identity.RoleRepository,
	hasher shared.PasswordHasher,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		adminRepo:  adminRepo,
		roleRepo:   roleRepo,
		hasher:     hasher,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
		now:        time.Now,
	}
}

// Login verifies credentials and issues an admin credential.
// Account state is only reported after the password matched.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	admin, err := s.adminRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Admin not found during login", zap.String("username", req.Username))
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.Compare(admin.PasswordHash, req.Password); err != nil {
		s.logger.Warn("Invalid password attempt", zap.String("username", req.Username))
		return nil, errInvalidCredentials
	}
	if err := admin.CanSignIn(); err != nil {
		s.logger.Warn("Sign-in refused", zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}

	var permissions []string
	if admin.Role != nil {
		permissions = admin.Role.PermissionNames()
	}
	token, err := s.jwtService.Generate(auth.GenerateTokenInput{
		AdminID:     admin.ID,
		Username:    admin.Username,
		RoleName:    admin.RoleName(),
		Permissions: permissions,
	})
	if err != nil {
		s.logger.Error("Failed to generate admin token", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Admin logged in",
		zap.String("username", admin.Username),
		zap.String("admin_id", admin.ID.String()))

	return &LoginResponse{
		Token:     token.Value,
		TokenID:   token.ID,
		ExpiresAt: token.ExpiresAt,
		Admin:     ToAdminResponse(admin),
	}, nil
}

// Logout revokes the presented credential for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	ttl := claims.GetRemainingTTL(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err))
		return err
	}
	s.logger.Info("Admin logged out", zap.String("admin_id", claims.AdminID))
	return nil
}

// Authenticate validates a credential and loads the admin it belongs to,
// with role and permissions, ready for identity.Authorize
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*identity.Admin, *auth.Claims, error) {
	claims, err := s.jwtService.Validate(tokenString)
	if err != nil {
		return nil, nil, unauthenticated(err)
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if revoked {
		return nil, nil, unauthenticated(auth.ErrTokenBlacklisted)
	}
	invalidated, err := s.blacklist.IsAdminTokenInvalidated(ctx, claims.AdminID, claims.GetIssuedAtTime())
	if err != nil {
		return nil, nil, err
	}
	if invalidated {
		return nil, nil, unauthenticated(auth.ErrTokenBlacklisted)
	}

	adminID, err := claims.GetAdminUUID()
	if err != nil {
		return nil, nil, unauthenticated(auth.ErrInvalidClaims)
	}
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, shared.ErrUnauthorized
		}
		return nil, nil, err
	}
	return admin, claims, nil
}

// Register creates an unapproved admin with the default User role
func (s *AuthService) Register(ctx context.Context, req RegisterAdminRequest) (*AdminResponse, error) {
	if err := identity.ValidateUsername(req.Username); err != nil {
		return nil, err
	}
	exists, err := s.adminRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username is already taken")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	admin, err := identity.NewAdmin(req.Username, hash, identity.AdminProfile{
		FullName:   req.FullName,
		BirthDate:  req.BirthDate,
		NationalID: req.NationalID,
	})
	if err != nil {
		return nil, err
	}

	role, err := s.roleRepo.FindByName(ctx, identity.RoleUser)
	switch {
	case err == nil:
		if err := admin.AssignRole(role); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		s.logger.Warn("Default role missing, registering admin without a role")
	default:
		return nil, err
	}

	if err := s.adminRepo.Save(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("Admin registered", zap.String("username", admin.Username), zap.String("admin_id", admin.ID.String()))
	resp := ToAdminResponse(admin)
	return &resp, nil
}

// Profile returns the signed-in admin
func (s *AuthService) Profile(ctx context.Context, adminID uuid.UUID) (*AdminResponse, error) {
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	resp := ToAdminResponse(admin)
	return &resp, nil
}

// UpdateProfile edits the signed-in admin's profile and optionally the password
func (s *AuthService) UpdateProfile(ctx context.Context, adminID uuid.UUID, req UpdateProfileRequest) (*AdminResponse, error) {
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if err := admin.UpdateProfile(identity.AdminProfile{
		FullName:   req.FullName,
		BirthDate:  req.BirthDate,
		NationalID: req.NationalID,
	}); err != nil {
		return nil, err
	}

	if req.NewPassword != "" {
		if err := s.hasher.Compare(admin.PasswordHash, req.CurrentPassword); err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Current password is incorrect")
		}
		hash, err := s.hasher.Hash(req.NewPassword)
		if err != nil {
			return nil, err
		}
		admin.SetPasswordHash(hash)
	}

	if err := s.adminRepo.Save(ctx, admin); err != nil {
		return nil, err
	}

	s.logger.Info("Admin profile updated",
		zap.String("admin_id", admin.ID.String()),
		zap.Bool("password_changed", req.NewPassword != ""))
	resp := ToAdminResponse(admin)
	return &resp, nil
}
