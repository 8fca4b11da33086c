package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/phonestore/backend/internal/application/identity"
)

// RoleHandler handles role and permission management
type RoleHandler struct {
	BaseHandler
	roleService *identityapp.RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService *identityapp.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// List godoc
// @Summary      List roles
// @Tags         admin-roles
// @Produce      json
// @Success      200 {object} dto.Response{data=[]identityapp.RoleResponse}
// @Security     BearerAuth
// @Router       /admin/roles [get]
func (h *RoleHandler) List(c *gin.Context) {
	listAll(&h.BaseHandler, c, h.roleService.List)
}

// Get godoc
// @Summary      Get a role with its permissions
// @Tags         admin-roles
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Success      200 {object} dto.Response{data=identityapp.RoleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/roles/{id} [get]
func (h *RoleHandler) Get(c *gin.Context) {
	id, ok := h.paramUUID(c, "id", "role")
	if !ok {
		return
	}
	role, err := h.roleService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, role)
}

// Create godoc
// @Summary      Create a role
// @Tags         admin-roles
// @Accept       json
// @Produce      json
// @Param        request body identityapp.CreateRoleRequest true "Role"
// @Success      201 {object} dto.Response{data=identityapp.RoleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/roles [post]
func (h *RoleHandler) Create(c *gin.Context) {
	var req identityapp.CreateRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	role, err := h.roleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, role)
}

// Update godoc
// @Summary      Rename a role
// @Description  System roles cannot be renamed
// @Tags         admin-roles
// @Accept       json
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Param        request body identityapp.UpdateRoleRequest true "Role"
// @Success      200 {object} dto.Response{data=identityapp.RoleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/roles/{id} [put]
func (h *RoleHandler) Update(c *gin.Context) {
	id, ok := h.paramUUID(c, "id", "role")
	if !ok {
		return
	}
	var req identityapp.UpdateRoleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	role, err := h.roleService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, role)
}

// SetPermissions godoc
// @Summary      Replace a role's permissions
// @Tags         admin-roles
// @Accept       json
// @Produce      json
// @Param        id path string true "Role ID" format(uuid)
// @Param        request body identityapp.SetPermissionsRequest true "Permission IDs"
// @Success      200 {object} dto.Response{data=identityapp.RoleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/roles/{id}/permissions [put]
func (h *RoleHandler) SetPermissions(c *gin.Context) {
	id, ok := h.paramUUID(c, "id", "role")
	if !ok {
		return
	}
	var req identityapp.SetPermissionsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	role, err := h.roleService.SetPermissions(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Permissions updated", role)
}

// Delete godoc
// @Summary      Delete a role
// @Description  System roles and roles still assigned to admins cannot be deleted
// @Tags         admin-roles
// @Param        id path string true "Role ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/roles/{id} [delete]
func (h *RoleHandler) Delete(c *gin.Context) {
	id, ok := h.paramUUID(c, "id", "role")
	if !ok {
		return
	}
	if err := h.roleService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListPermissions godoc
// @Summary      Permission catalogue
// @Tags         admin-roles
// @Produce      json
// @Success      200 {object} dto.Response{data=[]identityapp.PermissionResponse}
// @Security     BearerAuth
// @Router       /admin/permissions [get]
func (h *RoleHandler) ListPermissions(c *gin.Context) {
	listAll(&h.BaseHandler, c, h.roleService.ListPermissions)
}
