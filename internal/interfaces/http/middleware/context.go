// Package middleware provides the HTTP middleware of the store API.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/phonestore/backend/internal/domain/identity"
	"github.com/phonestore/backend/internal/domain/session"
	"github.com/phonestore/backend/internal/infrastructure/auth"
	"github.com/phonestore/backend/internal/infrastructure/logger"
)

// Gin context keys set by the middleware in this package
const (
	RequestIDKey    = logger.GinRequestIDKey
	RequestIDHeader = "X-Request-ID"
	SessionKey      = "session"
	AdminKey        = "admin"
	AdminClaimsKey  = "admin_claims"
)

// GetSession returns the storefront session loaded by Session
func GetSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}

// GetAdmin returns the admin authenticated by AdminAuth
func GetAdmin(c *gin.Context) *identity.Admin {
	if v, ok := c.Get(AdminKey); ok {
		if a, ok := v.(*identity.Admin); ok {
			return a
		}
	}
	return nil
}

// GetAdminClaims returns the credential claims authenticated by AdminAuth
func GetAdminClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(AdminClaimsKey); ok {
		if cl, ok := v.(*auth.Claims); ok {
			return cl
		}
	}
	return nil
}

// GetRequestID returns the request id set by RequestID, falling back to the header
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	id := c.GetHeader(RequestIDHeader)
	if len(id) > MaxRequestIDLength {
		return id[:MaxRequestIDLength]
	}
	return id
}
