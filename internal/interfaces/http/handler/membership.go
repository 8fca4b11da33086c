package handler

import (
	"github.com/gin-gonic/gin"
	partnerapp "github.com/phonestore/backend/internal/application/partner"
)

// MembershipHandler serves admin membership management
type MembershipHandler struct {
	BaseHandler
	service *partnerapp.MembershipService
}

// NewMembershipHandler creates a new MembershipHandler
func NewMembershipHandler(service *partnerapp.MembershipService) *MembershipHandler {
	return &MembershipHandler{service: service}
}

// List godoc
// @Summary      List memberships
// @Tags         admin-memberships
// @Produce      json
// @Success      200 {object} dto.Response{data=[]partnerapp.MembershipResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/memberships [get]
func (h *MembershipHandler) List(c *gin.Context) {
	listAll(&h.BaseHandler, c, h.service.List)
}

// Get godoc
// @Summary      Get a membership
// @Tags         admin-memberships
// @Produce      json
// @Param        id path string true "Membership ID" format(uuid)
// @Success      200 {object} dto.Response{data=partnerapp.MembershipResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/memberships/{id} [get]
func (h *MembershipHandler) Get(c *gin.Context) {
	getOne[partnerapp.MembershipRequest, partnerapp.MembershipResponse](&h.BaseHandler, c, h.service, "membership")
}

// Create godoc
// @Summary      Create a membership
// @Description  Membership names are unique
// @Tags         admin-memberships
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.MembershipRequest true "Membership"
// @Success      201 {object} dto.Response{data=partnerapp.MembershipResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/memberships [post]
func (h *MembershipHandler) Create(c *gin.Context) {
	createOne[partnerapp.MembershipRequest, partnerapp.MembershipResponse](&h.BaseHandler, c, h.service)
}

// Update godoc
// @Summary      Update a membership
// @Tags         admin-memberships
// @Accept       json
// @Produce      json
// @Param        id path string true "Membership ID" format(uuid)
// @Param        request body partnerapp.MembershipRequest true "Membership"
// @Success      200 {object} dto.Response{data=partnerapp.MembershipResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/memberships/{id} [put]
func (h *MembershipHandler) Update(c *gin.Context) {
	updateOne[partnerapp.MembershipRequest, partnerapp.MembershipResponse](&h.BaseHandler, c, h.service, "membership")
}

// Delete godoc
// @Summary      Delete a membership
// @Description  Refused while customers still hold the membership
// @Tags         admin-memberships
// @Produce      json
// @Param        id path string true "Membership ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/memberships/{id} [delete]
func (h *MembershipHandler) Delete(c *gin.Context) {
	deleteOne[partnerapp.MembershipRequest, partnerapp.MembershipResponse](&h.BaseHandler, c, h.service, "membership")
}
