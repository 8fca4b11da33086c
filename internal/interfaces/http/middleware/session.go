package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phonestore/backend/internal/domain/session"
	"github.com/phonestore/backend/internal/domain/shared"
	"github.com/phonestore/backend/internal/infrastructure/config"
	"github.com/phonestore/backend/internal/infrastructure/logger"
	"github.com/phonestore/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// SessionConfig configures the storefront session middleware
type SessionConfig struct {
	Cookie config.CookieConfig
	TTL    time.Duration
}

// Session loads the storefront session named by the session cookie, or
// starts a new one, and saves it after the handler if it changed. Unknown
// or expired ids silently start a fresh session.
func Session(store session.Store, cfg SessionConfig, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var sess *session.Session
		if id, err := c.Cookie(cfg.Cookie.SessionName); err == nil && id != "" {
			loaded, err := store.Load(ctx, id)
			switch {
			case err == nil:
				sess = loaded
			case !errors.Is(err, shared.ErrNotFound):
				log.Warn("Failed to load session, starting a new one", zap.Error(err))
			}
		}
		if sess == nil {
			sess = session.New()
			SetCookie(c, cfg.Cookie, cfg.Cookie.SessionName, sess.ID, cfg.TTL)
		}

		c.Set(SessionKey, sess)
		if sess.CustomerID != nil {
			c.Set(logger.GinCustomerIDKey, sess.CustomerID.String())
		}

		c.Next()

		if !sess.IsDirty() {
			return
		}
		if err := store.Save(ctx, sess); err != nil {
			log.Error("Failed to save session",
				zap.String("session_id", sess.ID),
				zap.Error(err))
		}
	}
}

// RequireCustomer rejects storefront requests without a signed-in customer
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := GetSession(c)
		if sess == nil || !sess.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Please sign in to continue", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

// SetCookie writes an HttpOnly cookie using the shared cookie settings
func SetCookie(c *gin.Context, cfg config.CookieConfig, name, value string, ttl time.Duration) {
	c.SetSameSite(sameSite(cfg.SameSite))
	c.SetCookie(name, value, int(ttl.Seconds()), cookiePath(cfg), cfg.Domain, cfg.Secure, true)
}

// ClearCookie expires a cookie written by SetCookie
func ClearCookie(c *gin.Context, cfg config.CookieConfig, name string) {
	c.SetSameSite(sameSite(cfg.SameSite))
	c.SetCookie(name, "", -1, cookiePath(cfg), cfg.Domain, cfg.Secure, true)
}

func cookiePath(cfg config.CookieConfig) string {
	if cfg.Path == "" {
		return "/"
	}
	return cfg.Path
}

func sameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
