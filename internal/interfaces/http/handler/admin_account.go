package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/phonestore/backend/internal/application/identity"
)

// AdminAccountHandler serves the SuperAdmin account management endpoints
type AdminAccountHandler struct {
	BaseHandler
	accountService *identityapp.AdminAccountService
}

// NewAdminAccountHandler creates a new AdminAccountHandler
func NewAdminAccountHandler(accountService *identityapp.AdminAccountService) *AdminAccountHandler {
	return &AdminAccountHandler{accountService: accountService}
}

// List godoc
// @Summary      List admin accounts
// @Tags         admin-accounts
// @Produce      json
// @Param        search query string false "Username or full name"
// @Param        role_id query string false "Role ID" format(uuid)
// @Param        is_approved query bool false "Approval filter"
// @Param        is_blocked query bool false "Block filter"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} dto.Response{data=[]identityapp.AdminResponse,meta=dto.Meta}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/accounts [get]
func (h *AdminAccountHandler) List(c *gin.Context) {
	var filter identityapp.AdminListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.accountService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Get godoc
// @Summary      Get an admin account
// @Tags         admin-accounts
// @Produce      json
// @Param        id path string true "Admin ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.AdminResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/accounts/{id} [get]
func (h *AdminAccountHandler) Get(c *gin.Context) {
	id, ok := h.paramUUID(c, "id", "admin")
	if !ok {
		return
	}
	account, err := h.accountService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

type accountAction func(ctx context.Context, actorID, id uuid.UUID) (*identityapp.AdminResponse, error)

func (h *AdminAccountHandler) apply(c *gin.Context, action accountAction, message string) {
	actorID, ok := h.currentAdminID(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id", "admin")
	if !ok {
		return
	}
	account, err := action(c.Request.Context(), actorID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, message, account)
}

// Approve godoc
// @Summary      Approve an admin account
// @Tags         admin-accounts
// @Produce      json
// @Param        id path string true "Admin ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.AdminResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/accounts/{id}/approve [post]
func (h *AdminAccountHandler) Approve(c *gin.Context) {
	h.apply(c, h.accountService.Approve, "Account approved")
}

// RevokeApproval godoc
// @Summary      Revoke an admin approval
// @Description  Also invalidates every credential already issued to the account
// @Tags         admin-accounts
// @Produce      json
// @Param        id path string true "Admin ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.AdminResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/accounts/{id}/revoke [post]
func (h *AdminAccountHandler) RevokeApproval(c *gin.Context) {
	h.apply(c, h.accountService.RevokeApproval, "Approval revoked")
}

// Block godoc
// @Summary      Block an admin account
// @Tags         admin-accounts
// @Produce      json
// @Param        id path string true "Admin ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.AdminResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/accounts/{id}/block [post]
func (h *AdminAccountHandler) Block(c *gin.Context) {
	h.apply(c, h.accountService.Block, "Account blocked")
}

// Unblock godoc
// @Summary      Unblock an admin account
// @Tags         admin-accounts
// @Produce      json
// @Param        id path string true "Admin ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.AdminResponse}
// @Security     BearerAuth
// @Router       /admin/accounts/{id}/unblock [post]
func (h *AdminAccountHandler) Unblock(c *gin.Context) {
	h.apply(c, h.accountService.Unblock, "Account unblocked")
}

// ChangeRole godoc
// @Summary      Change an admin's role
// @Tags         admin-accounts
// @Accept       json
// @Produce      json
// @Param        id path string true "Admin ID" format(uuid)
// @Param        request body identityapp.ChangeRoleRequest true "Role"
// @Success      200 {object} dto.Response{data=identityapp.AdminResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/accounts/{id}/role [put]
func (h *AdminAccountHandler) ChangeRole(c *gin.Context) {
	var req identityapp.ChangeRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	h.apply(c, func(ctx context.Context, actorID, id uuid.UUID) (*identityapp.AdminResponse, error) {
		return h.accountService.ChangeRole(ctx, actorID, id, req)
	}, "Role changed")
}

// Delete godoc
// @Summary      Delete an admin account
// @Tags         admin-accounts
// @Produce      json
// @Param        id path string true "Admin ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/accounts/{id} [delete]
func (h *AdminAccountHandler) Delete(c *gin.Context) {
	actorID, ok := h.currentAdminID(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id", "admin")
	if !ok {
		return
	}
	if err := h.accountService.Delete(c.Request.Context(), actorID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
