package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/phonestore/backend/internal/application/identity"
	"github.com/phonestore/backend/internal/infrastructure/config"
	"github.com/phonestore/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles admin sign-in, sign-out, registration and profile
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	cookies     config.CookieConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identityapp.AuthService, cookies config.CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
	}
}

// Login godoc
// @Summary      Admin login
// @Description  Verifies credentials and issues a signed credential, both in the admin
// @Description  cookie and in the body for Bearer clients
// @Tags         admin-auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.LoginRequest true "Login credentials"
// @Success      200 {object} dto.Response{data=identityapp.LoginResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	middleware.SetCookie(c, h.cookies, h.cookies.AdminName, result.Token, time.Until(result.ExpiresAt))
	h.SuccessMessage(c, "Signed in", result)
}

// Logout godoc
// @Summary      Admin logout
// @Description  Revokes the presented credential and clears the admin cookie
// @Tags         admin-auth
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetAdminClaims(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	middleware.ClearCookie(c, h.cookies, h.cookies.AdminName)
	h.SuccessMessage(c, "Signed out", nil)
}

// Register godoc
// @Summary      Register an admin account
// @Description  Creates an unapproved account with the default role. A SuperAdmin must approve it.
// @Tags         admin-auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.RegisterAdminRequest true "Account"
// @Success      201 {object} dto.Response{data=identityapp.AdminResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /admin/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterAdminRequest
	if !h.bindJSON(c, &req) {
		return
	}
	admin, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.CreatedMessage(c, "Registration received, waiting for approval", admin)
}

// Profile godoc
// @Summary      Current admin profile
// @Tags         admin-auth
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.AdminResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/auth/profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	adminID, ok := h.currentAdminID(c)
	if !ok {
		return
	}
	profile, err := h.authService.Profile(c.Request.Context(), adminID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Description  Changing the password requires the current password
// @Tags         admin-auth
// @Accept       json
// @Produce      json
// @Param        request body identityapp.UpdateProfileRequest true "Profile"
// @Success      200 {object} dto.Response{data=identityapp.AdminResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	adminID, ok := h.currentAdminID(c)
	if !ok {
		return
	}
	var req identityapp.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	profile, err := h.authService.UpdateProfile(c.Request.Context(), adminID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Profile updated", profile)
}
