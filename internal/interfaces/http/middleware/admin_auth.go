package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/phonestore/backend/internal/domain/identity"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/auth"
	"github.com/phonestore/backend/internal/infrastructure/logger"
	"github.com/phonestore/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// AdminAuthenticator resolves an admin credential to the admin it belongs to
type AdminAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*identity.Admin, *auth.Claims, error)
}

// AdminAuthConfig configures AdminAuth
type AdminAuthConfig struct {
	CookieName string
	Logger     *zap.Logger
}

// AdminAuth authenticates the admin credential from the Authorization
// header or the admin cookie and evaluates every policy with
// identity.AuthorizeAll. An unusable account yields 401, a missing
// permission 403.
func AdminAuth(authn AdminAuthenticator, cfg AdminAuthConfig, policies ...identity.Policy) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		token := adminToken(c, cfg.CookieName)
		if token == "" {
			abortUnauthorized(c, "Authentication required")
			return
		}

		admin, claims, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, shared.ErrUnauthorized) {
				abortUnauthorized(c, authFailureMessage(err))
				return
			}
			log.Error("Admin authentication failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "An internal error occurred", GetRequestID(c)))
			return
		}

		switch identity.AuthorizeAll(admin, policies...) {
		case identity.Allow:
		case identity.DenyUnauthenticated:
			abortUnauthorized(c, "Account is not approved or has been blocked")
			return
		default:
			log.Info("Admin access denied",
				zap.String("admin_id", admin.ID.String()),
				zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "You do not have permission to perform this action", GetRequestID(c)))
			return
		}

		c.Set(AdminKey, admin)
		c.Set(AdminClaimsKey, claims)
		c.Set(logger.GinAdminIDKey, admin.ID.String())
		c.Next()
	}
}

func adminToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookieName == "" {
		return ""
	}
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}

func authFailureMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Session has expired, please sign in again"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return "Session has been revoked, please sign in again"
	default:
		return "Authentication required"
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}
